//go:build windows

package pagez

import (
	"syscall"
)

// queryActiveCodepage 调用kernel32的GetACP获取系统ANSI代码页
// 调用失败返回0
func queryActiveCodepage() (cp int) {
	defer func() {
		// LazyDLL加载失败会panic，按"无信息"处理
		if recover() != nil {
			cp = 0
		}
	}()
	ret, _, _ := syscall.NewLazyDLL("kernel32.dll").NewProc("GetACP").Call()
	return int(ret)
}
