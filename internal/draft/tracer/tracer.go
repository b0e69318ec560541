// Package tracer reconstructs the path one physical booster pack took as it
// was handed from player to player. The export records every player's picks
// independently with no cross-player linkage, so the chain must be inferred:
// from seating convention when seats are known, and from set arithmetic on
// booster contents otherwise.
package tracer

import (
	"packtracer/internal/draft"
	"packtracer/internal/draft/index"
)

// AnySeat asks the tracer to try every starting seat in increasing order.
const AnySeat = -1

// Config holds the tracer's tunable limits. MaxBoosterSize and
// DriftTolerance come from a downstream display constraint, not a drafting
// rule; MaxCandidateStarts is a performance heuristic for the fallback
// strategy and can miss a valid trace on pathological inputs.
type Config struct {
	// MaxBoosterSize caps the first booster of any chain.
	MaxBoosterSize int
	// DriftTolerance is the allowed symmetric difference between one pick's
	// remainder and the next pick's booster.
	DriftTolerance int
	// MaxCandidateStarts caps how many picks the fallback strategy will try
	// as chain starts.
	MaxCandidateStarts int
}

// DefaultConfig returns the standard limits.
func DefaultConfig() Config {
	return Config{
		MaxBoosterSize:     25,
		DriftTolerance:     2,
		MaxCandidateStarts: 20,
	}
}

// strategy is one way of reconstructing a chain. Each returns a complete
// validated chain or nil; the try-in-order composition lives in Tracer so new
// strategies can be added without touching existing ones.
type strategy interface {
	trace(pack, length, startSeat int) *draft.PackTrace
}

// Tracer finds pick chains over one indexed export.
type Tracer struct {
	idx        *index.Index
	cfg        Config
	seat       *seatStrategy
	strategies []strategy
}

// New creates a Tracer with the default limits.
func New(idx *index.Index) *Tracer {
	return NewWithConfig(idx, DefaultConfig())
}

// NewWithConfig creates a Tracer with caller-supplied limits.
func NewWithConfig(idx *index.Index, cfg Config) *Tracer {
	seat := &seatStrategy{idx: idx, cfg: cfg}
	return &Tracer{
		idx:  idx,
		cfg:  cfg,
		seat: seat,
		strategies: []strategy{
			seat,
			&boosterStrategy{idx: idx, cfg: cfg},
		},
	}
}

// TracePack reconstructs a chain of the given length for a pack number,
// trying every starting seat. It returns nil when no chain exists by any
// strategy; that is an expected, frequent outcome, not an error.
func (t *Tracer) TracePack(pack, length int) *draft.PackTrace {
	return t.tracePack(pack, length, AnySeat)
}

// TracePackFrom is TracePack constrained to one starting seat.
func (t *Tracer) TracePackFrom(pack, length, startSeat int) *draft.PackTrace {
	return t.tracePack(pack, length, startSeat)
}

func (t *Tracer) tracePack(pack, length, startSeat int) *draft.PackTrace {
	if length <= 0 {
		return nil
	}
	for _, s := range t.strategies {
		if chain := s.trace(pack, length, startSeat); chain != nil {
			return chain
		}
	}
	return nil
}

// ValidStartingSeats enumerates every seat whose seat-based trace reaches the
// requested length with a validated chain. It returns nothing when seating is
// unknown. Diagnostic only; the result for a length L is always a superset of
// the result for any longer length.
func (t *Tracer) ValidStartingSeats(pack, length int) []int {
	if !t.idx.HasSeating() || length <= 0 {
		return nil
	}
	var seats []int
	for seat := 0; seat < t.idx.PlayerCount(); seat++ {
		if t.seat.trace(pack, length, seat) != nil {
			seats = append(seats, seat)
		}
	}
	return seats
}
