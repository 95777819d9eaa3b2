package query

// CanonicalLabel picks the most frequent label. Ties go to the
// lexicographically smallest label and an empty map yields fallback.
func CanonicalLabel(frequency map[string]int64, fallback string) string {
	best := ""
	var bestCount int64
	found := false
	for label, n := range frequency {
		if !found || n > bestCount || (n == bestCount && label < best) {
			best, bestCount, found = label, n, true
		}
	}
	if !found {
		return fallback
	}
	return best
}
