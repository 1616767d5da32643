package pagez

// voteWinner 从计票中选出胜出的代码页
//
// 票数最多者胜出；平局时按目录声明顺序，先声明者胜出。
// 计票为空时返回false
func voteWinner(tally VoteTally, catalog []Codepage) (Codepage, bool) {
	var winner Codepage
	bestCount := 0

	for _, cp := range catalog {
		if count := tally[cp.ID]; count > bestCount {
			winner = cp
			bestCount = count
		}
	}

	return winner, bestCount > 0
}
