// Package analysis is the composition facade over one completed draft: the
// query indices, the pack tracer, and the pass-through session metadata the
// host application supplied. It adds no logic beyond delegation.
package analysis

import (
	"context"
	"fmt"

	"packtracer/internal/draft"
	"packtracer/internal/draft/index"
	"packtracer/internal/draft/tracer"
)

// Loader fetches a parsed draft export by opaque key. Implementations live
// outside the core; retry and backoff policy, if any, belongs to them.
type Loader interface {
	LoadExport(ctx context.Context, key string) (*draft.RawExport, error)
}

// Metadata is host-supplied session context. Labels pass straight through;
// the rosters feed seat inference.
type Metadata struct {
	CubeName     string
	SessionLabel string
	SignUps      map[string]string // external id -> display name
	TeamA        []string          // ordered external ids
	TeamB        []string          // ordered external ids
}

// Analysis composes an Index and a Tracer for one export. Instances are
// immutable after construction and share nothing, so independent instances
// may serve concurrent requests freely.
type Analysis struct {
	idx    *index.Index
	tracer *tracer.Tracer
	meta   Metadata
}

// New builds an Analysis synchronously from an in-memory export.
func New(export *draft.RawExport, meta *Metadata) *Analysis {
	return NewWithConfig(export, meta, tracer.DefaultConfig())
}

// NewWithConfig is New with caller-supplied tracer limits.
func NewWithConfig(export *draft.RawExport, meta *Metadata, cfg tracer.Config) *Analysis {
	a := &Analysis{}
	var idxMeta *index.Metadata
	if meta != nil {
		a.meta = *meta
		if len(meta.SignUps) > 0 || len(meta.TeamA) > 0 || len(meta.TeamB) > 0 {
			idxMeta = &index.Metadata{
				SignUps: meta.SignUps,
				TeamA:   meta.TeamA,
				TeamB:   meta.TeamB,
			}
		}
	}
	a.idx = index.New(export, idxMeta)
	a.tracer = tracer.NewWithConfig(a.idx, cfg)
	return a
}

// Load fetches an export by key through the loader and builds an Analysis.
// A loader failure yields a nil Analysis and the wrapped error; there is no
// retry here.
func Load(ctx context.Context, l Loader, key string, meta *Metadata) (*Analysis, error) {
	export, err := l.LoadExport(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load draft export %q: %w", key, err)
	}
	return New(export, meta), nil
}

// CubeName returns the host-supplied cube label.
func (a *Analysis) CubeName() string { return a.meta.CubeName }

// SessionLabel returns the host-supplied session label.
func (a *Analysis) SessionLabel() string { return a.meta.SessionLabel }

// TeamRosters returns the two ordered team rosters as supplied by the host.
func (a *Analysis) TeamRosters() (teamA, teamB []string) {
	return append([]string(nil), a.meta.TeamA...), append([]string(nil), a.meta.TeamB...)
}

// SessionID returns the export's session identifier.
func (a *Analysis) SessionID() string { return a.idx.SessionID() }

// Pick delegates to the index.
func (a *Analysis) Pick(pack, pick int, userID string) *draft.Pick {
	return a.idx.Pick(pack, pick, userID)
}

// PicksForPack delegates to the index.
func (a *Analysis) PicksForPack(pack int) []*draft.Pick { return a.idx.PicksForPack(pack) }

// PicksForUser delegates to the index.
func (a *Analysis) PicksForUser(userID string) []*draft.Pick { return a.idx.PicksForUser(userID) }

// Card delegates to the index; it never fails.
func (a *Analysis) Card(id string) draft.Card { return a.idx.Card(id) }

// Players delegates to the index.
func (a *Analysis) Players() []*draft.Player { return a.idx.Players() }

// PlayerCount delegates to the index.
func (a *Analysis) PlayerCount() int { return a.idx.PlayerCount() }

// PlayerAtSeat delegates to the index.
func (a *Analysis) PlayerAtSeat(seat int) *draft.Player { return a.idx.PlayerAtSeat(seat) }

// PlayerByExternalID delegates to the index.
func (a *Analysis) PlayerByExternalID(id string) *draft.Player {
	return a.idx.PlayerByExternalID(id)
}

// HasSeating delegates to the index.
func (a *Analysis) HasSeating() bool { return a.idx.HasSeating() }

// UnresolvedNames delegates to the index.
func (a *Analysis) UnresolvedNames() []string { return a.idx.UnresolvedNames() }

// TracePack delegates to the tracer. A nil result means no chain was found,
// which every caller must handle as a normal outcome.
func (a *Analysis) TracePack(pack, length int) *draft.PackTrace {
	return a.tracer.TracePack(pack, length)
}

// TracePackFrom delegates to the tracer.
func (a *Analysis) TracePackFrom(pack, length, startSeat int) *draft.PackTrace {
	return a.tracer.TracePackFrom(pack, length, startSeat)
}

// ValidStartingSeats delegates to the tracer.
func (a *Analysis) ValidStartingSeats(pack, length int) []int {
	return a.tracer.ValidStartingSeats(pack, length)
}
