package pagez

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// 内置代码页定义
var (
	CodepageGBK      = Codepage{ID: 936, Name: "简体中文（GBK）", Description: "中文Windows系统默认编码"}
	CodepageBig5     = Codepage{ID: 950, Name: "繁体中文（大五码）", Description: "台湾/香港Windows系统默认编码"}
	CodepageShiftJIS = Codepage{ID: 932, Name: "日文（Shift_JIS）", Description: "日文Windows系统默认编码"}
	CodepageEUCKR    = Codepage{ID: 949, Name: "韩文（EUC-KR）", Description: "韩文Windows系统默认编码"}
	CodepageUTF8     = Codepage{ID: 65001, Name: "UTF-8 Unicode", Description: "Unicode通用编码"}
)

// CatalogCodepages 内置代码页列表
// 顺序即投票平局时的优先顺序，先声明者胜出
var CatalogCodepages = []Codepage{
	CodepageGBK,
	CodepageBig5,
	CodepageShiftJIS,
	CodepageEUCKR,
	CodepageUTF8,
}

// langToCodepage 语言标签到代码页的固定映射
var langToCodepage = map[LanguageTag]Codepage{
	LangZhCN:  CodepageGBK,
	LangZhTW:  CodepageBig5,
	LangJa:    CodepageShiftJIS,
	LangKo:    CodepageEUCKR,
	LangOther: CodepageUTF8,
}

// TagToCodepage 根据语言标签获取代码页
// 全函数：未知标签按other处理
func TagToCodepage(tag LanguageTag) Codepage {
	if cp, ok := langToCodepage[tag]; ok {
		return cp
	}
	return CodepageUTF8
}

// CodepageByID 按ID查找内置代码页
func CodepageByID(id int) (Codepage, bool) {
	for _, cp := range CatalogCodepages {
		if cp.ID == id {
			return cp, true
		}
	}
	return Codepage{}, false
}

// Decode 将该代码页编码的原始字节解码为文本
//
// 检测出代码页后，可用它解码原生列表器返回的原始条目名称。
// 65001或不认识的代码页按UTF-8原样处理
func (c Codepage) Decode(raw []byte) (string, error) {
	enc := codepageEncoding(c.ID)
	if enc == nil {
		return string(raw), nil
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// codepageEncoding 返回代码页对应的x/text编码
// 不支持的代码页返回nil（65001视为Go原生UTF-8，同样返回nil）
func codepageEncoding(id int) encoding.Encoding {
	switch id {
	case 932:
		return japanese.ShiftJIS
	case 936:
		return simplifiedchinese.GBK
	case 949:
		return korean.EUCKR
	case 950:
		return traditionalchinese.Big5
	case 1252:
		return charmap.Windows1252
	case 65001:
		return nil
	default:
		return nil
	}
}
