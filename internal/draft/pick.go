package draft

// Pick is one decision event: which cards a player was offered at a given
// pack/pick position, and which one they took.
type Pick struct {
	UserID     string
	UserName   string
	PackNumber int      // 0-indexed pack (0-2)
	PickNumber int      // 0-indexed pick within the pack
	Booster    []string // card ids on offer, in export order
	PickedID   string   // chosen card id, empty when unresolvable
}

// PickFromRaw converts one raw export pick into a Pick. The export stores the
// chosen card as a positional index into the booster array; the index is
// resolved into a stable card id here, exactly once. Every consumer after
// this point compares ids, never array positions. A missing or out-of-range
// index leaves PickedID empty and the pick ambiguous.
func PickFromRaw(userID, userName string, raw RawPick) Pick {
	p := Pick{
		UserID:     userID,
		UserName:   userName,
		PackNumber: raw.PackNum,
		PickNumber: raw.PickNum,
		Booster:    append([]string(nil), raw.Booster...),
	}
	if len(raw.Pick) > 0 {
		idx := raw.Pick[0]
		if idx >= 0 && idx < len(p.Booster) {
			p.PickedID = p.Booster[idx]
		}
	}
	return p
}

// Ambiguous reports whether the chosen card could not be resolved. Ambiguous
// picks may appear mid-chain but can never start a chain or serve as a
// booster-matching target, since they cannot be advanced.
func (p *Pick) Ambiguous() bool {
	return p.PickedID == ""
}

// BoosterSet returns the booster contents as a set.
func (p *Pick) BoosterSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Booster))
	for _, id := range p.Booster {
		set[id] = struct{}{}
	}
	return set
}

// Remainder returns the booster contents minus the picked card: the cards the
// next player downstream should receive.
func (p *Pick) Remainder() map[string]struct{} {
	set := p.BoosterSet()
	delete(set, p.PickedID)
	return set
}
