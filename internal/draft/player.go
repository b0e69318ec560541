package draft

// Player is one participant in the draft. Seat, when known, is the
// authoritative table position (0-indexed) and determines pass order. It is
// assigned either from the export itself or overridden by external roster
// metadata at index construction.
type Player struct {
	UserID   string
	UserName string
	Seat     int
	HasSeat  bool
}
