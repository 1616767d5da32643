package pagez

import (
	"os"
	"strings"
)

// SystemLocale 系统区域信息查询能力接口
type SystemLocale interface {
	// ActiveCodepage 查询系统当前的ANSI代码页
	// 查询失败返回 (0, false)，调用方视为"无信息"，绝不致命
	ActiveCodepage() (int, bool)
}

// defaultSystemLocale 默认系统区域查询实现
// Windows上调用GetACP，其他平台依赖环境变量
type defaultSystemLocale struct{}

// NewSystemLocale 创建系统区域查询器
func NewSystemLocale() SystemLocale {
	return defaultSystemLocale{}
}

// ActiveCodepage 查询系统当前的ANSI代码页
func (defaultSystemLocale) ActiveCodepage() (int, bool) {
	if cp := queryActiveCodepage(); cp > 0 {
		return cp, true
	}
	return 0, false
}

// SystemDefaultCodepage 获取系统默认代码页
//
// 优先使用操作系统查询结果；失败时按环境变量的区域前缀判断；
// 都不可用时回退到UTF-8
func SystemDefaultCodepage(locale SystemLocale) Codepage {
	if locale != nil {
		if id, ok := locale.ActiveCodepage(); ok {
			if cp, found := CodepageByID(id); found {
				return cp
			}
		}
	}

	if cp, ok := codepageFromEnv(); ok {
		return cp
	}

	return CodepageUTF8
}

// codepageFromEnv 根据区域环境变量推断代码页
func codepageFromEnv() (Codepage, bool) {
	for _, key := range []string{"LC_ALL", "LANG", "LANGUAGE"} {
		value := os.Getenv(key)
		if value == "" {
			continue
		}
		switch {
		case strings.HasPrefix(value, "zh_CN"):
			return CodepageGBK, true
		case strings.HasPrefix(value, "zh_TW"), strings.HasPrefix(value, "zh_HK"):
			return CodepageBig5, true
		case strings.HasPrefix(value, "ja"):
			return CodepageShiftJIS, true
		case strings.HasPrefix(value, "ko"):
			return CodepageEUCKR, true
		}
	}
	return Codepage{}, false
}
