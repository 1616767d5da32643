package pagez

// 乱码字典的参考字符语料
// 转换链映射表由这些字符/词汇在构建时生成，不手工维护

// corpusChineseSimplified 常用简体中文字符与文件相关词汇
var corpusChineseSimplified = []string{
	"的", "一", "是", "在", "不", "了", "有", "和", "人", "这",
	"中", "大", "为", "上", "个", "国", "我", "以", "要", "他",
	"时", "来", "用", "们", "生", "到", "作", "地", "于", "出",
	"就", "分", "对", "成", "会", "可", "主", "发", "年", "动",
	"同", "工", "也", "能", "下", "过", "子", "说", "产", "种",
	"面", "而", "方", "后", "多", "定", "行", "学", "法", "所",
	"文件", "压缩", "解压", "目录", "文档", "图片", "视频", "音频",
	"下载", "上传", "备份", "恢复", "删除", "复制", "移动", "重命名",
}

// corpusHiragana 平假名
var corpusHiragana = []string{
	"あ", "い", "う", "え", "お", "か", "き", "く", "け", "こ",
	"さ", "し", "す", "せ", "そ", "た", "ち", "つ", "て", "と",
	"な", "に", "ぬ", "ね", "の", "は", "ひ", "ふ", "へ", "ほ",
	"ま", "み", "む", "め", "も", "や", "ゆ", "よ", "ら", "り",
	"る", "れ", "ろ", "わ", "を", "ん",
}

// corpusKatakana 片假名
var corpusKatakana = []string{
	"ア", "イ", "ウ", "エ", "オ", "カ", "キ", "ク", "ケ", "コ",
	"サ", "シ", "ス", "セ", "ソ", "タ", "チ", "ツ", "テ", "ト",
	"ナ", "ニ", "ヌ", "ネ", "ノ", "ハ", "ヒ", "フ", "ヘ", "ホ",
	"マ", "ミ", "ム", "メ", "モ", "ヤ", "ユ", "ヨ", "ラ", "リ",
	"ル", "レ", "ロ", "ワ", "ヲ", "ン",
}

// corpusJapaneseKanji 日文常用汉字
var corpusJapaneseKanji = []string{
	"日", "本", "語", "人", "時", "年", "月", "国", "会",
	"事", "自", "分", "現", "前", "回", "同", "誌", "作",
	"品", "者", "名", "場", "合", "手", "数", "方", "新", "家",
	"所", "問", "題", "世", "界", "全", "部", "関", "係",
}

// corpusKorean 韩文音节
var corpusKorean = []string{
	"한", "국", "어", "안", "녕", "하", "세", "요", "감", "사",
	"합", "니", "다", "죄", "송", "미", "네", "아",
	"예", "맞", "습", "모", "르", "겠", "디", "가", "지",
}

// corpusSymbols 常见符号
var corpusSymbols = []string{
	"(", ")", "[", "]", "{", "}", "-", "_", "+", "=",
	"!", "@", "#", "$", "%", "^", "&", "*", "~", "`",
	"|", "\\", "/", "?", "<", ">", ",", ".", ";", ":",
	"\"", "'", " ",
}

// corpusFileExtensions 常见文件扩展名
var corpusFileExtensions = []string{
	".txt", ".zip", ".rar", ".7z", ".pdf", ".doc", ".docx",
	".jpg", ".png", ".gif", ".mp4", ".avi", ".mp3", ".wav",
}

// corpusCompoundWords 复合词与文件名惯用片段
// 单字符映射表生成后逐字符转换这些词汇，扩展到子串级别的覆盖
var corpusCompoundWords = []string{
	// 中文
	"第3000回", "日本語", "同人誌", "差分多数", "压缩文件", "解压缩",
	"文件名", "编码错误", "字符集", "乱码修复",

	// 日文
	"メカブ", "アニメ", "マンガ", "ゲーム", "ソフトウェア",
	"ファイル", "フォルダ", "ダウンロード", "アップロード",

	// 文件名模式
	"hash-99511b59f3e3e422", "[hash-", "].txt", "].zip",
	"(差分多数)", "(修正版)", "(完整版)", "(高清版)",
}

// defaultReferenceCorpus 构建默认参考语料
func defaultReferenceCorpus() []string {
	var corpus []string
	for _, group := range [][]string{
		corpusChineseSimplified,
		corpusHiragana,
		corpusKatakana,
		corpusJapaneseKanji,
		corpusKorean,
		corpusSymbols,
		corpusFileExtensions,
	} {
		corpus = append(corpus, group...)
	}
	return corpus
}
