package titles

// DefaultThreshold is the similarity ratio at or above which two keys are
// considered the same work.
const DefaultThreshold = 0.85

// minSimilarLength is the shortest key eligible for fuzzy matching. Below it a
// single edit swings the ratio too much ("it" vs "id").
const minSimilarLength = 5

// Similar reports whether two normalized keys denote the same work using
// DefaultThreshold.
func Similar(a, b string) bool {
	return IsSimilar(a, b, DefaultThreshold)
}

// IsSimilar is a typo-tolerant equality over two keys: it catches near-miss
// transcriptions ("La Clar des vents" / "La Clé des vents"), not semantic
// similarity.
func IsSimilar(a, b string, threshold float64) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) < minSimilarLength || len(rb) < minSimilarLength {
		return false
	}

	return Ratio(a, b) >= threshold
}

// Ratio returns 1 - distance/maxLen, in runes. Two empty strings have ratio 1.
func Ratio(a, b string) float64 {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(Levenshtein(a, b))/float64(maxLen)
}

// Levenshtein calculates the edit distance between two strings with unit cost
// insertions, deletions and substitutions.
func Levenshtein(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	r1, r2 := []rune(s1), []rune(s2)
	if len(r1) < len(r2) {
		r1, r2 = r2, r1
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i, c1 := range r1 {
		curr[0] = i + 1
		for j, c2 := range r2 {
			cost := 1
			if c1 == c2 {
				cost = 0
			}
			insertion := prev[j+1] + 1
			deletion := curr[j] + 1
			substitution := prev[j] + cost
			curr[j+1] = min(insertion, deletion, substitution)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
