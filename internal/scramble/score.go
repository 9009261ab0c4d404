package scramble

// scoreTable maps word length to points. Lengths not listed score 0.
var scoreTable = map[int]int{
	3: 300,
	4: 400,
	5: 500,
	6: 600,
	7: 1000,
	8: 2000,
}

// ScoreFor returns the points a word of the given length earns.
func ScoreFor(length int) int {
	if p, ok := scoreTable[length]; ok {
		return p
	}
	return 0
}

// ScoreTable returns a copy of the length → points table.
func ScoreTable() map[int]int {
	out := make(map[int]int, len(scoreTable))
	for k, v := range scoreTable {
		out[k] = v
	}
	return out
}
