package pagez

// possibleJapaneseGarbledRunes 可能由Shift_JIS误解码产生的特殊字符集合
// 来自对大量日文压缩包乱码样本的统计，命中比例高时倾向判定为日文
const possibleJapaneseGarbledRunes = "丂丄丅丌丒丟丣丨丫丮丯丰丵丷丼" +
	"乀乁乂乄乆乊乑乕乗乚乛乢乣乤乥乧乨乪乫乬乭乮乯乲乴乵乶乷乸乹乺乻乼乽乿" +
	"亀亁亂亃亄亅亇亊亐亖亗亙亝亞亣亪亯亰亱亴亶亷亸亹亼亽亾仈仌仏仐仒仚仛仜仠仢仦仧仩仭仮仯仱仴仸" +
	"傑傔傘傛傜傝傞傟傠傡傢傤傦傪傫傭傮傰傱傳傴傶傷傸傹傼傽傾傿" +
	"僂僃僄僅僇僈僉僊僋僌僎僐僑僓僔僗僘僙僛僜僝僟僠僡僢僣僤僨僩僪僫僯僰僱僲僴僶僷僸僺僼僽僾" +
	"儈儉儊儌儍儎儏儐儑儓儔儕儗儘儙儚儛儜儝儞儠儢儣儤儥儦儧儨儩優儫儬儭儮儯儰儱儲儳儴儵儶儷儸儹儺儻儼儽儾" +
	"兗兘兟兤兦兾冃冄冋冎冘冝冡冣冭冮冹" +
	"凃凈凊凍凎凐凒凓凕凖凘凙凚凜凞凟凢" +
	"刕刜刞刟刡刢刣別刦刧刪刬刯刱刲刴刵刼刾剄剅剆則剈剉剋剎剏剒剓剕剗剘剙剚剛剝剟剠剢剣剤剦剨剫剬剭剮剰剱剳剴剶剷剸剹剺剻剼剾" +
	"勀勁勂勄勅勆勈勊勌勍勎勏勑勓勔勖勛勜勝勞勠勡勣勥勦勧勨勩勪勫勬勭勮勯勱勲勳勴勵勶勷勸勻" +
	"匁匂匃匄匇匉匊匋匌匎匑匒匓匔匘匛匜匞匟匢匤匥匧匨匩匫匬匭匯匰匱匲匳匴匵匶匷匸匼匽區卂卄卆卋卌卍卐協単卙卛卝卥卨卪卬卭"

// possibleJapaneseGarbled 上述字符集合的查找表
var possibleJapaneseGarbled = func() map[rune]struct{} {
	set := make(map[rune]struct{})
	for _, r := range possibleJapaneseGarbledRunes {
		set[r] = struct{}{}
	}
	return set
}()

// isGarbledRangeRune 判断字符是否落在常见乱码特殊字符范围内
// 这些CJK区段在正常简体中文文件名中出现频率极低，
// 集中出现时往往是Shift_JIS字节被GBK误解码的产物
func isGarbledRangeRune(r rune) bool {
	switch {
	case r >= 0x5080 && r <= 0x50FF:
		return true
	case r >= 0x6800 && r <= 0x69FF:
		return true
	case r >= 0x7000 && r <= 0x79FF:
		return true
	case r >= 0x8000 && r <= 0x89FF:
		return true
	case r >= 0x9000 && r <= 0x97FF:
		return true
	default:
		return false
	}
}
