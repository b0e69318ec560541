// Package index organizes one parsed draft export into query indices. An
// Index is built once, synchronously, and is read-only afterwards; a changed
// export requires a fresh Index.
package index

import (
	"sort"

	"packtracer/internal/draft"
)

type pickKey struct {
	pack, pick int
	user       string
}

// Metadata is the optional external session metadata: the sign-up roster and
// the two ordered team rosters partitioning it. Consumed read-only.
type Metadata struct {
	SignUps map[string]string // external id -> display name
	TeamA   []string          // ordered external ids
	TeamB   []string          // ordered external ids
}

// Index holds the query indices for one export: the unique
// (pack, pick, user) pick map, the by-pack and by-user groupings, the card
// catalog, the player set, and the optional seat assignment.
type Index struct {
	sessionID  string
	picks      map[pickKey]*draft.Pick
	byPack     map[int][]*draft.Pick
	byUser     map[string][]*draft.Pick
	cards      map[string]draft.Card
	players    map[string]*draft.Player
	byExternal map[string]*draft.Player
	seats      map[int]*draft.Player
	unresolved []string
	hasSeating bool
}

// New builds all indices from a parsed export in one pass. When metadata is
// supplied, roster-based seat inference runs and overrides any seat numbers
// present in the export itself.
func New(export *draft.RawExport, meta *Metadata) *Index {
	idx := &Index{
		sessionID:  export.SessionID,
		picks:      make(map[pickKey]*draft.Pick),
		byPack:     make(map[int][]*draft.Pick),
		byUser:     make(map[string][]*draft.Pick),
		cards:      make(map[string]draft.Card, len(export.CardData)),
		players:    make(map[string]*draft.Player, len(export.Users)),
		byExternal: make(map[string]*draft.Player),
		seats:      make(map[int]*draft.Player),
	}

	for _, userID := range sortedUserIDs(export) {
		raw := export.Users[userID]
		player := &draft.Player{UserID: userID, UserName: raw.UserName}
		if meta == nil && raw.SeatNum != nil {
			player.Seat = *raw.SeatNum
			player.HasSeat = true
		}
		idx.players[userID] = player

		for _, rp := range raw.Picks {
			key := pickKey{pack: rp.PackNum, pick: rp.PickNum, user: userID}
			if _, exists := idx.picks[key]; exists {
				// (pack, pick, user) is unique; keep the first occurrence.
				continue
			}
			p := draft.PickFromRaw(userID, raw.UserName, rp)
			idx.picks[key] = &p
			idx.byPack[rp.PackNum] = append(idx.byPack[rp.PackNum], &p)
			idx.byUser[userID] = append(idx.byUser[userID], &p)
		}
	}

	for id, rc := range export.CardData {
		idx.cards[id] = draft.CardFromRaw(id, rc)
	}

	if meta != nil {
		idx.applySeating(export, meta)
	}

	for _, p := range idx.players {
		if p.HasSeat {
			idx.seats[p.Seat] = p
		}
	}
	idx.hasSeating = len(idx.players) > 0
	for _, p := range idx.players {
		if !p.HasSeat {
			idx.hasSeating = false
			break
		}
	}

	return idx
}

// applySeating runs roster-based seat inference and copies the result onto
// the player set.
func (idx *Index) applySeating(export *draft.RawExport, meta *Metadata) {
	seating := ResolveSeating(export, meta)
	idx.unresolved = seating.Unresolved
	for extID, userID := range seating.UserByExternalID {
		if player, ok := idx.players[userID]; ok {
			idx.byExternal[extID] = player
		}
	}
	for extID, seat := range seating.SeatByExternalID {
		if player, ok := idx.byExternal[extID]; ok {
			player.Seat = seat
			player.HasSeat = true
		}
	}
}

// SessionID returns the export's session identifier.
func (idx *Index) SessionID() string {
	return idx.sessionID
}

// Pick returns the pick made by a user at a pack/pick position, or nil when
// no such pick exists. Absence is routine, not an error.
func (idx *Index) Pick(pack, pick int, userID string) *draft.Pick {
	return idx.picks[pickKey{pack: pack, pick: pick, user: userID}]
}

// PicksForPack returns every pick recorded for a pack number, in no
// particular order; callers sort as needed.
func (idx *Index) PicksForPack(pack int) []*draft.Pick {
	return append([]*draft.Pick(nil), idx.byPack[pack]...)
}

// PicksForUser returns every pick a user made across all packs.
func (idx *Index) PicksForUser(userID string) []*draft.Pick {
	return append([]*draft.Pick(nil), idx.byUser[userID]...)
}

// Card looks up a card by id. It never fails: ids missing from the catalog
// yield a deterministic placeholder, stable across repeated calls.
func (idx *Index) Card(id string) draft.Card {
	if c, ok := idx.cards[id]; ok {
		return c
	}
	return draft.Card{ID: id, Name: draft.PlaceholderName(id)}
}

// Players returns all known players, sorted by user id for determinism.
func (idx *Index) Players() []*draft.Player {
	players := make([]*draft.Player, 0, len(idx.players))
	for _, p := range idx.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].UserID < players[j].UserID })
	return players
}

// PlayerCount returns the number of known players.
func (idx *Index) PlayerCount() int {
	return len(idx.players)
}

// PlayerAtSeat returns the player at a table position, or nil.
func (idx *Index) PlayerAtSeat(seat int) *draft.Player {
	return idx.seats[seat]
}

// PlayerByExternalID returns the player matched to an external roster id, or
// nil. Requires metadata to have been supplied at construction.
func (idx *Index) PlayerByExternalID(id string) *draft.Player {
	return idx.byExternal[id]
}

// HasSeating reports whether every known player has a seat. The tracer uses
// this to choose its primary strategy.
func (idx *Index) HasSeating() bool {
	return idx.hasSeating
}

// UnresolvedNames returns the roster display names that matched no export
// username, so hosts can surface data-quality warnings.
func (idx *Index) UnresolvedNames() []string {
	return append([]string(nil), idx.unresolved...)
}

func sortedUserIDs(export *draft.RawExport) []string {
	ids := make([]string, 0, len(export.Users))
	for id := range export.Users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
