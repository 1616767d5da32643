package pagez

import (
	"context"
)

// DetectCodepage 检测压缩包的代码页 - 主要入口点
//
// 参数:
//
//	archivePath: 压缩包路径
//
// 返回:
//
//	Codepage: 检测到的代码页
//	error: 错误信息（仅当路径不存在或不可读）
//
// 功能:
//   - 结合压缩包文件名和内部条目名称的语言分类
//   - 两者不一致时通过试解压自动验证
//   - 编码无法确定时降级到最可信的候选，不报错
//
// 每次调用创建独立的检测器；需要跨调用缓存时请使用NewSmartDetector
func DetectCodepage(archivePath string) (Codepage, error) {
	return NewSmartDetector().DetectCodepage(context.Background(), archivePath)
}

// CodepageParamForFiles 为一批压缩包生成7z代码页参数
//
// 参数:
//
//	paths: 压缩包路径列表
//
// 返回:
//
//	string: -mcp=<id>形式的7z命令行参数
//
// 每个压缩包独立检测并计一票，按最多票数选出统一代码页
func CodepageParamForFiles(paths []string) string {
	return NewSmartDetector().CodepageParamForFiles(context.Background(), paths)
}

// RepairName 修复乱码文件名
//
// 参数:
//
//	name: 乱码文件名
//	chainName: 指定转换链名称，为空时按声明顺序尝试全部链
//
// 返回:
//
//	RepairResult: 修复结果，包含命中的转换链和置信度
func RepairName(name, chainName string) RepairResult {
	return NewRepairEngine().Repair(name, chainName)
}

// ClassifyText 对文本片段进行语言分类
//
// 参数:
//
//	text: 文本片段（通常为文件名）
//
// 返回:
//
//	LanguageTag: 语言标签 (zh-cn/zh-tw/ja/ko/other)
func ClassifyText(text string) LanguageTag {
	return NewLanguageClassifier(nil).Classify(text)
}
