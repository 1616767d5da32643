//go:build !windows

package pagez

// queryActiveCodepage 非Windows平台没有ANSI代码页概念，返回0表示无信息
func queryActiveCodepage() int {
	return 0
}
