package pagez

import (
	"strings"

	"github.com/saintfish/chardet"
)

// StatisticalDetector 统计语言检测能力接口
// 分类器的可选回退能力，缺失时引擎必须照常工作
type StatisticalDetector interface {
	// DetectTag 检测文本的语言标签
	// 无法给出可信结果时返回 (LangOther, false)
	DetectTag(text string) (LanguageTag, bool)
}

// chardetDetector 基于chardet库的统计检测器
type chardetDetector struct {
	detector      *chardet.Detector
	minConfidence int
}

// NewChardetDetector 创建基于chardet的统计检测器
func NewChardetDetector() StatisticalDetector {
	return &chardetDetector{
		detector:      chardet.NewTextDetector(),
		minConfidence: 80,
	}
}

// DetectTag 检测文本的语言标签
// 将chardet的字符集/语言结果映射到五个语言标签
func (d *chardetDetector) DetectTag(text string) (LanguageTag, bool) {
	result, err := d.detector.DetectBest([]byte(text))
	if err != nil || result == nil || result.Confidence < d.minConfidence {
		return LangOther, false
	}

	if tag, ok := charsetToTag(result.Charset, result.Language); ok {
		return tag, true
	}
	return LangOther, false
}

// charsetToTag 将chardet检测出的字符集映射到语言标签
func charsetToTag(charset, language string) (LanguageTag, bool) {
	switch strings.ToUpper(charset) {
	case "GB2312", "GBK", "GB18030":
		return LangZhCN, true
	case "BIG5":
		return LangZhTW, true
	case "SHIFT_JIS", "SJIS", "EUC-JP", "ISO-2022-JP":
		return LangJa, true
	case "EUC-KR", "ISO-2022-KR":
		return LangKo, true
	}

	// UTF编码本身不携带语言信息，参考语言字段
	switch strings.ToLower(language) {
	case "zh":
		return LangZhCN, true
	case "ja":
		return LangJa, true
	case "ko":
		return LangKo, true
	}

	return LangOther, false
}

// noopStatisticalDetector 空实现：总是报告无法检测
type noopStatisticalDetector struct{}

// NewNoopStatisticalDetector 创建空的统计检测器
// 用于完全关闭统计回退，此时分类器只依赖Unicode范围规则
func NewNoopStatisticalDetector() StatisticalDetector {
	return noopStatisticalDetector{}
}

// DetectTag 总是返回 (LangOther, false)
func (noopStatisticalDetector) DetectTag(string) (LanguageTag, bool) {
	return LangOther, false
}
