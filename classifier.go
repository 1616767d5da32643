package pagez

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// classifierCacheSize 分类结果缓存容量
const classifierCacheSize = 256

// LanguageClassifier 文本语言分类器接口
type LanguageClassifier interface {
	// Classify 对文本片段进行语言分类
	Classify(text string) LanguageTag

	// ClearCache 清除分类缓存
	ClearCache()
}

// defaultLanguageClassifier 默认语言分类器实现
// 按固定顺序应用Unicode范围规则，全部未命中时回退到统计检测
type defaultLanguageClassifier struct {
	detector StatisticalDetector
	cache    *lru.Cache[string, LanguageTag]
}

// NewLanguageClassifier 创建新的语言分类器
// detector为nil时使用chardet统计检测器
func NewLanguageClassifier(detector StatisticalDetector) LanguageClassifier {
	if detector == nil {
		detector = NewChardetDetector()
	}
	cache, _ := lru.New[string, LanguageTag](classifierCacheSize)
	return &defaultLanguageClassifier{
		detector: detector,
		cache:    cache,
	}
}

// Classify 对文本片段进行语言分类
//
// 分类顺序固定，先命中的规则优先：
//  1. 包含平假名/片假名 => ja
//  2. 包含韩文字符 => ko
//  3. 日文乱码参考字符占比超过20% => ja
//  4. 包含汉字：乱码区段字符数超过汉字数的50% => ja，否则 => zh-cn
//  5. 统计检测回退，失败 => other
func (c *defaultLanguageClassifier) Classify(text string) LanguageTag {
	if strings.TrimSpace(text) == "" {
		return LangOther
	}

	if tag, ok := c.cache.Get(text); ok {
		return tag
	}

	tag := c.classify(text)
	c.cache.Add(text, tag)
	return tag
}

// ClearCache 清除分类缓存
// 可在任意时刻调用，进行中的查询只会触发重新计算
func (c *defaultLanguageClassifier) ClearCache() {
	c.cache.Purge()
}

func (c *defaultLanguageClassifier) classify(text string) LanguageTag {
	var (
		total        int // 总字符数
		kana         int // 平假名/片假名
		hangul       int // 韩文
		han          int // 汉字
		japGarbled   int // 日文乱码参考字符
		rangeGarbled int // 乱码区段字符
	)

	for _, r := range text {
		total++
		switch {
		case r >= 0x3040 && r <= 0x30FF:
			kana++
		case (r >= 0xAC00 && r <= 0xD7A3) || (r >= 0x1100 && r <= 0x11FF):
			hangul++
		}
		if r >= 0x4E00 && r <= 0x9FFF {
			han++
		}
		if _, ok := possibleJapaneseGarbled[r]; ok {
			japGarbled++
		}
		if isGarbledRangeRune(r) {
			rangeGarbled++
		}
	}

	// 规则1：日文假名
	if kana > 0 {
		return LangJa
	}

	// 规则2：韩文
	if hangul > 0 {
		return LangKo
	}

	// 规则3：日文乱码参考字符占比超过20%
	if total > 0 && japGarbled*5 > total {
		return LangJa
	}

	// 规则4：汉字，需排除伪装成中文的日文乱码
	if han > 0 {
		if rangeGarbled*2 > han {
			return LangJa
		}
		return LangZhCN
	}

	// 规则5：统计检测回退
	if c.detector != nil {
		if tag, ok := c.detector.DetectTag(text); ok {
			return tag
		}
	}

	return LangOther
}
