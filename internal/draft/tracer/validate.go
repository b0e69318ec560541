package tracer

import "packtracer/internal/draft"

// validateChain checks that each pick's booster minus its chosen card lines
// up with the next pick's booster, compared as sets. Real exports drift a
// little (bot-filled seats, card substitution settings), so a symmetric
// difference up to tolerance is accepted.
func validateChain(picks []draft.Pick, tolerance int) bool {
	for i := 0; i+1 < len(picks); i++ {
		expected := picks[i].Remainder()
		actual := picks[i+1].BoosterSet()
		if symmetricDiff(expected, actual) > tolerance {
			return false
		}
	}
	return true
}

func symmetricDiff(a, b map[string]struct{}) int {
	diff := 0
	for id := range a {
		if _, ok := b[id]; !ok {
			diff++
		}
	}
	for id := range b {
		if _, ok := a[id]; !ok {
			diff++
		}
	}
	return diff
}
