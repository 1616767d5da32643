package pagez

import (
	"path/filepath"
	"regexp"
	"strings"
)

// FilenameSanitizer 文件名安全化处理器
// 修复无法还原的乱码名称时的兜底手段：清除问题字符而非尝试还原
type FilenameSanitizer struct {
	// 危险字符映射表
	dangerousChars map[string]string
	// 非法字符正则表达式
	illegalPattern *regexp.Regexp
}

// NewFilenameSanitizer 创建文件名安全化处理器
func NewFilenameSanitizer() *FilenameSanitizer {
	return &FilenameSanitizer{
		dangerousChars: map[string]string{
			// 全角符号替换为半角
			"：": ":", // 全角冒号 → 半角冒号
			"？": "_", // 全角问号 → 下划线
			"｜": "_", // 全角竖线 → 下划线
			"＊": "_", // 全角星号 → 下划线
			"＜": "_", // 全角小于号 → 下划线
			"＞": "_", // 全角大于号 → 下划线

			// 替换字符与其他问题字符
			"�":  "_", // Unicode替换字符
			"\\": "_", // 反斜杠
			"*":  "_", // 星号
			"?":  "_", // 问号
			"<":  "_", // 小于号
			">":  "_", // 大于号
			"|":  "_", // 竖线
			"\"": "_", // 双引号

			// 特殊情况
			"..": "_", // 双点（防止路径遍历）
		},
		illegalPattern: regexp.MustCompile(`[<>:"/\\|?*]`), // 标准非法字符
	}
}

// Sanitize 安全化文件名
// 替换危险字符、控制字符和替换字符，必要时截断到255字节并保留扩展名
func (fs *FilenameSanitizer) Sanitize(filename string) string {
	if filename == "" {
		return "unnamed_file"
	}

	// 只处理文件名部分
	filename = filepath.Base(filename)

	// 替换危险字符
	sanitized := filename
	for dangerous, safe := range fs.dangerousChars {
		sanitized = strings.ReplaceAll(sanitized, dangerous, safe)
	}

	// 替换控制字符
	sanitized = strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return '_'
		}
		return r
	}, sanitized)

	// 处理剩余的非法字符
	sanitized = fs.illegalPattern.ReplaceAllString(sanitized, "_")

	// 去除首尾空格和点
	sanitized = strings.Trim(sanitized, " .")

	if sanitized == "" {
		sanitized = "unnamed_file"
	}

	// 限制长度，保留扩展名
	if len(sanitized) > 255 {
		ext := filepath.Ext(sanitized)
		nameWithoutExt := strings.TrimSuffix(sanitized, ext)
		if len(nameWithoutExt) > 255-len(ext) {
			nameWithoutExt = nameWithoutExt[:255-len(ext)]
		}
		sanitized = nameWithoutExt + ext
	}

	return sanitized
}
