package match

// Distance is the number of rune insertions, deletions and substitutions turning a into b.
func Distance(a, b string) int {
	long, short := []rune(a), []rune(b)
	if len(long) < len(short) {
		long, short = short, long
	}

	row := make([]int, len(short)+1)
	for j := range row {
		row[j] = j
	}

	for i, lr := range long {
		diag := row[0]
		row[0] = i + 1

		for j, sr := range short {
			cost := 1
			if lr == sr {
				cost = 0
			}

			diag, row[j+1] = row[j+1], min(row[j+1]+1, row[j]+1, diag+cost)
		}
	}

	return row[len(short)]
}

// Ratio scales Distance into [0, 1], 1 meaning equal strings.
func Ratio(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Distance(a, b))/float64(longest)
}

// Similarity compares two identifiers by their folded and by their stemmed forms,
// keeping the better score.
func Similarity(a, b string) float64 {
	return max(Ratio(Fold(a), Fold(b)), Ratio(Stem(a), Stem(b)))
}
