package draft

// PackTrace is a reconstructed journey of one physical booster pack: the
// ordered sequence of picks that plausibly handled the same pack as it moved
// from player to player. On success its length equals the requested chain
// length.
type PackTrace struct {
	PackNumber int
	Picks      []Pick
}

// Len returns the chain length.
func (t *PackTrace) Len() int {
	return len(t.Picks)
}

// PlayerNames returns the display name of each player in chain order.
func (t *PackTrace) PlayerNames() []string {
	names := make([]string, len(t.Picks))
	for i, p := range t.Picks {
		names[i] = p.UserName
	}
	return names
}

// PickNumbers returns the pick number of each step in chain order.
func (t *PackTrace) PickNumbers() []int {
	nums := make([]int, len(t.Picks))
	for i, p := range t.Picks {
		nums[i] = p.PickNumber
	}
	return nums
}

// PickedIDs returns the chosen card id at each step in chain order. Ambiguous
// steps contribute an empty string.
func (t *PackTrace) PickedIDs() []string {
	ids := make([]string, len(t.Picks))
	for i, p := range t.Picks {
		ids[i] = p.PickedID
	}
	return ids
}
