// Package draft holds the immutable domain model for one completed draft:
// cards, picks, players, and reconstructed pack traces. Everything here is
// built once from a parsed export and never mutated afterwards.
package draft

import "fmt"

// Card is a single card identity from the export's card catalog.
type Card struct {
	ID   string
	Name string
}

// CardFromRaw builds a Card from a catalog entry. It never fails: an entry
// with no usable name gets a deterministic placeholder embedding the id, so
// downstream display code never sees an empty name.
func CardFromRaw(id string, raw RawCard) Card {
	name := raw.Name
	if name == "" {
		name = PlaceholderName(id)
	}
	return Card{ID: id, Name: name}
}

// PlaceholderName returns the display name used for card ids that are missing
// from the catalog. Stable across calls for the same id.
func PlaceholderName(id string) string {
	return fmt.Sprintf("Unknown Card (%s)", id)
}
