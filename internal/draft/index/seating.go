package index

import (
	"sort"
	"strings"

	"packtracer/internal/draft"
)

// Seating is the result of roster-based seat inference: a partial assignment
// plus an explicit list of what could not be resolved, never a silent drop.
type Seating struct {
	UserByExternalID map[string]string // external id -> export user id
	SeatByExternalID map[string]int    // external id -> table seat
	Unresolved       []string          // roster display names with no export match
}

// ResolveSeating maps external roster ids onto export users and interleaves
// the two team rosters into table seats: A[0] sits at seat 0, B[0] at seat 1,
// A[1] at seat 2, and so on until the longer roster is exhausted.
//
// Matching is a case-insensitive exact comparison of the roster display name
// against the in-export username; when two export users share a name the
// first (by sorted user id) wins. A roster entry that never resolves still
// occupies its table position but produces no assignment; its display name is
// reported in Unresolved. Resolution failures are non-fatal.
func ResolveSeating(export *draft.RawExport, meta *Metadata) Seating {
	seating := Seating{
		UserByExternalID: make(map[string]string),
		SeatByExternalID: make(map[string]int),
	}
	if meta == nil {
		return seating
	}

	byName := make(map[string]string, len(export.Users))
	for _, userID := range sortedUserIDs(export) {
		name := strings.ToLower(export.Users[userID].UserName)
		if _, taken := byName[name]; !taken {
			byName[name] = userID
		}
	}

	for _, extID := range sortedExternalIDs(meta.SignUps) {
		displayName := meta.SignUps[extID]
		userID, ok := byName[strings.ToLower(displayName)]
		if !ok {
			seating.Unresolved = append(seating.Unresolved, displayName)
			continue
		}
		seating.UserByExternalID[extID] = userID
	}

	seat := 0
	for i := 0; i < len(meta.TeamA) || i < len(meta.TeamB); i++ {
		if i < len(meta.TeamA) {
			if _, ok := seating.UserByExternalID[meta.TeamA[i]]; ok {
				seating.SeatByExternalID[meta.TeamA[i]] = seat
			}
			seat++
		}
		if i < len(meta.TeamB) {
			if _, ok := seating.UserByExternalID[meta.TeamB[i]]; ok {
				seating.SeatByExternalID[meta.TeamB[i]] = seat
			}
			seat++
		}
	}

	return seating
}

func sortedExternalIDs(signUps map[string]string) []string {
	ids := make([]string, 0, len(signUps))
	for id := range signUps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
