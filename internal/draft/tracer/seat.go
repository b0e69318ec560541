package tracer

import (
	"packtracer/internal/draft"
	"packtracer/internal/draft/index"
)

// seatStrategy walks the table rotation. It is the primary strategy and only
// applies when every player has a known seat.
type seatStrategy struct {
	idx *index.Index
	cfg Config
}

func (s *seatStrategy) trace(pack, length, startSeat int) *draft.PackTrace {
	if !s.idx.HasSeating() {
		return nil
	}
	n := s.idx.PlayerCount()
	if n == 0 {
		return nil
	}

	if startSeat != AnySeat {
		return s.traceFrom(pack, length, startSeat, n)
	}
	for seat := 0; seat < n; seat++ {
		if chain := s.traceFrom(pack, length, seat, n); chain != nil {
			return chain
		}
	}
	return nil
}

func (s *seatStrategy) traceFrom(pack, length, startSeat, playerCount int) *draft.PackTrace {
	chain := s.walk(pack, length, startSeat, playerCount)
	if chain == nil || !validateChain(chain.Picks, s.cfg.DriftTolerance) {
		return nil
	}
	return chain
}

// walk pulls one pick per rotation step. It gives up on the first missing
// pick, on an ambiguous first pick (a chain cannot start where the chosen
// card is unknown), and on an oversized first booster.
func (s *seatStrategy) walk(pack, length, startSeat, playerCount int) *draft.PackTrace {
	picks := make([]draft.Pick, 0, length)
	seat := startSeat
	for step := 0; step < length; step++ {
		player := s.idx.PlayerAtSeat(seat)
		if player == nil {
			return nil
		}
		p := s.idx.Pick(pack, step, player.UserID)
		if p == nil {
			return nil
		}
		if step == 0 {
			if p.Ambiguous() {
				return nil
			}
			if len(p.Booster) > s.cfg.MaxBoosterSize {
				return nil
			}
		}
		picks = append(picks, *p)
		seat = nextSeat(seat, pack, playerCount)
	}
	return &draft.PackTrace{PackNumber: pack, Picks: picks}
}

// nextSeat applies the alternating pass direction: even-numbered packs move
// to seat+1, odd-numbered packs to seat-1, modulo the table size.
func nextSeat(seat, pack, playerCount int) int {
	if pack%2 == 0 {
		return (seat + 1) % playerCount
	}
	return (seat - 1 + playerCount) % playerCount
}
