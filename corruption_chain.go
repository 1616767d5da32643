package pagez

import (
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// 转换链名称
const (
	ChainUTF8Latin1GBK      = "utf8-latin1-gbk"      // UTF-8字节被误读为Latin-1后再被GBK误解码
	ChainShiftJISLatin1     = "shiftjis-latin1"      // Shift_JIS字节被误读为Latin-1
	ChainUTF8Latin1ShiftJIS = "utf8-latin1-shiftjis" // UTF-8字节被误读为Latin-1后再被Shift_JIS误解码
	ChainGBKLatin1          = "gbk-latin1"           // GBK字节被误读为Latin-1
	ChainCP932Latin1        = "cp932-latin1"         // CP932字节被误读为Latin-1
	ChainUTF8Latin1         = "utf8-latin1"          // 双重UTF-8：UTF-8字节被误读为Latin-1
)

// misreadLatin1 乱码生成中的"Latin-1"误读步骤
// 实际按Windows-1252处理：0x80-0x9F区间解码为可打印标点，
// 与现实乱码的呈现一致，且该映射逐字节可逆
var misreadLatin1 = charmap.Windows1252

// codecPair 一步"按A编码、按B解码"的字节重解释
// enc为nil表示UTF-8
type codecPair struct {
	encodeAs encoding.Encoding
	decodeAs encoding.Encoding
}

// chainDef 转换链定义：唯一手工维护的内容
type chainDef struct {
	name  string
	steps []codecPair
}

// chainDefs 全部转换链定义，声明顺序即修复时的尝试顺序
// CP932与Shift_JIS在x/text中共用编码表，两个名称都保留供调用方显式指定
var chainDefs = []chainDef{
	{ChainUTF8Latin1GBK, []codecPair{{nil, misreadLatin1}, {misreadLatin1, simplifiedchinese.GBK}}},
	{ChainShiftJISLatin1, []codecPair{{japanese.ShiftJIS, misreadLatin1}}},
	{ChainUTF8Latin1ShiftJIS, []codecPair{{nil, misreadLatin1}, {misreadLatin1, japanese.ShiftJIS}}},
	{ChainGBKLatin1, []codecPair{{simplifiedchinese.GBK, misreadLatin1}}},
	{ChainCP932Latin1, []codecPair{{japanese.ShiftJIS, misreadLatin1}}},
	{ChainUTF8Latin1, []codecPair{{nil, misreadLatin1}}},
}

// CorruptionChain 具名的定向乱码转换链
// 映射表生成后不可变，只读使用
type CorruptionChain struct {
	name        string
	steps       []codecPair
	forward     map[string]string // 原文 → 乱码
	inverse     map[string]string // 乱码 → 原文
	inverseKeys []string          // 逆向键，最长优先
}

// Name 返回转换链名称
func (c *CorruptionChain) Name() string {
	return c.name
}

// Forward 对文本应用正向转换（生成乱码）
func (c *CorruptionChain) Forward(text string) (string, error) {
	current := text
	for _, step := range c.steps {
		raw, err := encodeText(current, step.encodeAs)
		if err != nil {
			return "", err
		}
		current, err = decodeBytes(raw, step.decodeAs)
		if err != nil {
			return "", err
		}
	}
	return current, nil
}

// ApplyInverse 应用逆向映射表修复文本
// 贪心最长子串优先，避免短串抢先替换更具体的乱码序列
func (c *CorruptionChain) ApplyInverse(text string) string {
	result := text
	for _, key := range c.inverseKeys {
		if strings.Contains(result, key) {
			result = strings.ReplaceAll(result, key, c.inverse[key])
		}
	}
	return result
}

// ForwardTableSize 返回正向映射表条目数
func (c *CorruptionChain) ForwardTableSize() int {
	return len(c.forward)
}

// forwardTable 返回正向映射表 (内部使用，供测试遍历)
func (c *CorruptionChain) forwardTable() map[string]string {
	return c.forward
}

// encodeText 将文本编码为目标编码的字节
// enc为nil表示UTF-8
func encodeText(text string, enc encoding.Encoding) ([]byte, error) {
	if enc == nil {
		return []byte(text), nil
	}
	return enc.NewEncoder().Bytes([]byte(text))
}

// decodeBytes 将字节按指定编码解码为文本
// enc为nil表示UTF-8
func decodeBytes(raw []byte, enc encoding.Encoding) (string, error) {
	if enc == nil {
		return string(raw), nil
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// usableCorruption 判断转换结果是否可用于映射表
// 与原文相同、产生替换字符或塌缩为问号的结果都会破坏可逆性
func usableCorruption(original, corrupted string) bool {
	if corrupted == original || corrupted == "" {
		return false
	}
	if strings.ContainsRune(corrupted, '�') {
		return false
	}
	if strings.Trim(corrupted, "?") == "" {
		return false
	}
	return true
}

// GenerateChains 从参考语料生成全部转换链
//
// 对每个链定义，把正向转换应用到语料的每个条目，只保留产生了
// 不同且不含替换字符结果的条目；随后用单字符映射逐字转换复合词，
// 把覆盖范围从单字符扩展到常见词汇和文件名惯用片段。
// 单个字符的编解码失败只会跳过该字符，不会中断整个生成过程。
func GenerateChains(referenceCorpus []string) []*CorruptionChain {
	chains := make([]*CorruptionChain, 0, len(chainDefs))

	for _, def := range chainDefs {
		chain := &CorruptionChain{
			name:    def.name,
			steps:   def.steps,
			forward: make(map[string]string),
			inverse: make(map[string]string),
		}

		for _, entry := range referenceCorpus {
			corrupted, err := chain.Forward(entry)
			if err != nil {
				// 该字符在此链下无法转换，跳过
				continue
			}
			if !usableCorruption(entry, corrupted) {
				continue
			}
			chain.forward[entry] = corrupted
			chain.inverse[corrupted] = entry
		}

		extendWithCompounds(chain, corpusCompoundWords)

		chain.inverseKeys = sortedInverseKeys(chain.inverse)
		chains = append(chains, chain)
	}

	return chains
}

// extendWithCompounds 用单字符映射逐字转换复合词，扩充映射表
func extendWithCompounds(chain *CorruptionChain, words []string) {
	for _, word := range words {
		var corrupted strings.Builder
		for _, r := range word {
			if mapped, ok := chain.forward[string(r)]; ok {
				corrupted.WriteString(mapped)
			} else {
				corrupted.WriteRune(r)
			}
		}
		result := corrupted.String()
		if !usableCorruption(word, result) {
			continue
		}
		chain.forward[word] = result
		chain.inverse[result] = word
	}
}

// sortedInverseKeys 返回按长度降序（同长度按字典序）排列的逆向键
// 顺序确定性保证重复运行结果一致
func sortedInverseKeys(inverse map[string]string) []string {
	keys := make([]string, 0, len(inverse))
	for key := range inverse {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
