package tracer

import (
	"sort"

	"packtracer/internal/draft"
	"packtracer/internal/draft/index"
)

// boosterStrategy reconstructs a chain by set arithmetic alone: a pick
// extends the chain when its booster equals the previous pick's booster minus
// the card that was taken. It is the fallback when seating is unknown or the
// seat walk found nothing.
type boosterStrategy struct {
	idx *index.Index
	cfg Config
}

func (s *boosterStrategy) trace(pack, length, startSeat int) *draft.PackTrace {
	pool := s.idx.PicksForPack(pack)
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].PickNumber != pool[j].PickNumber {
			return pool[i].PickNumber < pool[j].PickNumber
		}
		return pool[i].UserID < pool[j].UserID
	})

	for _, start := range s.candidateStarts(pool, startSeat) {
		if chain := s.extend(pack, start, pool, length); chain != nil {
			return chain
		}
	}
	return nil
}

// candidateStarts picks the chain starts to try: the first
// MaxCandidateStarts picks encountered, minus ambiguous picks and oversized
// boosters. The cap is a performance heuristic, so the fallback can miss a
// valid trace on pathological inputs. When the caller pinned a starting seat,
// only picks by the player at that seat qualify.
func (s *boosterStrategy) candidateStarts(pool []*draft.Pick, startSeat int) []*draft.Pick {
	var seatUser string
	if startSeat != AnySeat {
		player := s.idx.PlayerAtSeat(startSeat)
		if player == nil {
			// Cannot honor a seat constraint without seating data.
			return nil
		}
		seatUser = player.UserID
	}

	var starts []*draft.Pick
	for i, p := range pool {
		if i >= s.cfg.MaxCandidateStarts {
			break
		}
		if p.Ambiguous() || len(p.Booster) > s.cfg.MaxBoosterSize {
			continue
		}
		if seatUser != "" && p.UserID != seatUser {
			continue
		}
		starts = append(starts, p)
	}
	return starts
}

// extend grows a chain greedily: at each step it looks for an unused,
// unambiguous pick whose booster set exactly equals the current remainder.
// Matches are exact, so no separate validation pass is needed.
func (s *boosterStrategy) extend(pack int, start *draft.Pick, pool []*draft.Pick, length int) *draft.PackTrace {
	used := map[*draft.Pick]bool{start: true}
	picks := []draft.Pick{*start}
	current := start

	for len(picks) < length {
		want := current.Remainder()
		var next *draft.Pick
		for _, cand := range pool {
			if used[cand] || cand.Ambiguous() {
				continue
			}
			if setsEqual(cand.BoosterSet(), want) {
				next = cand
				break
			}
		}
		if next == nil {
			return nil
		}
		used[next] = true
		picks = append(picks, *next)
		current = next
	}

	return &draft.PackTrace{PackNumber: pack, Picks: picks}
}

func setsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}
