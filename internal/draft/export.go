package draft

import (
	"encoding/json"
	"fmt"
)

// RawExport mirrors the drafting tool's export format: the complete recorded
// pick log of one finished draft. Each user's picks are recorded
// independently; there is no cross-player linkage in the data.
type RawExport struct {
	SessionID string             `json:"sessionID"`
	Users     map[string]RawUser `json:"users"`
	CardData  map[string]RawCard `json:"carddata"`
}

// RawUser is one player's entry in the export.
type RawUser struct {
	UserName string    `json:"userName"`
	SeatNum  *int      `json:"seatNum,omitempty"`
	Picks    []RawPick `json:"picks"`
}

// RawPick is one pick as stored in the export. Pick holds at most one
// element: the *positional index* of the chosen card within Booster.
type RawPick struct {
	PackNum int      `json:"packNum"`
	PickNum int      `json:"pickNum"`
	Booster []string `json:"booster"`
	Pick    []int    `json:"pick"`
}

// RawCard is one card catalog entry.
type RawCard struct {
	Name string `json:"name"`
}

// DecodeExport parses raw export bytes. Structurally malformed input is the
// one error path in the core; such errors propagate unmodified to the caller
// rather than being silently recovered from.
func DecodeExport(data []byte) (*RawExport, error) {
	var export RawExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("decode draft export: %w", err)
	}
	if export.Users == nil {
		return nil, fmt.Errorf("decode draft export: missing users section")
	}
	return &export, nil
}
