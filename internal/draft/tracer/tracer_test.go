package tracer

import (
	"fmt"
	"reflect"
	"testing"

	"packtracer/internal/draft"
	"packtracer/internal/draft/index"
)

// rotationExport builds a synthetic draft of n seated players where every
// seat opens its own booster and packs travel by the alternating rotation:
// left on even pack numbers, right on odd. Each booster holds boosterLen
// cards named p<pack>-o<origin>-c<slot>; every player always picks the first
// remaining card, so each chain shrinks by exactly one card per hop.
func rotationExport(n, packs, boosterLen int) *draft.RawExport {
	users := make(map[string]draft.RawUser, n)
	for seat := 0; seat < n; seat++ {
		seatNum := seat
		user := draft.RawUser{
			UserName: fmt.Sprintf("Player%d", seat),
			SeatNum:  &seatNum,
		}
		for pack := 0; pack < packs; pack++ {
			dir := 1
			if pack%2 == 1 {
				dir = -1
			}
			for pick := 0; pick < boosterLen; pick++ {
				// The booster in this player's hands at pick number `pick`
				// originated dir*pick seats upstream.
				origin := ((seat-dir*pick)%n + n) % n
				booster := make([]string, 0, boosterLen-pick)
				for slot := pick; slot < boosterLen; slot++ {
					booster = append(booster, fmt.Sprintf("p%d-o%d-c%d", pack, origin, slot))
				}
				user.Picks = append(user.Picks, draft.RawPick{
					PackNum: pack,
					PickNum: pick,
					Booster: booster,
					Pick:    []int{0},
				})
			}
		}
		users[fmt.Sprintf("u%d", seat)] = user
	}
	return &draft.RawExport{SessionID: "rotation", Users: users}
}

func unseat(export *draft.RawExport) *draft.RawExport {
	for id, user := range export.Users {
		user.SeatNum = nil
		export.Users[id] = user
	}
	return export
}

func chainSeats(t *testing.T, idx *index.Index, chain *draft.PackTrace) []int {
	t.Helper()
	seats := make([]int, 0, chain.Len())
	for _, p := range chain.Picks {
		found := false
		for _, player := range idx.Players() {
			if player.UserID == p.UserID {
				seats = append(seats, player.Seat)
				found = true
			}
		}
		if !found {
			t.Fatalf("chain pick by unknown user %q", p.UserID)
		}
	}
	return seats
}

func TestTracePackForwardRotation(t *testing.T) {
	idx := index.New(rotationExport(6, 1, 15), nil)
	tr := New(idx)

	chain := tr.TracePackFrom(0, 4, 2)
	if chain == nil {
		t.Fatal("TracePackFrom(0, 4, 2) = nil")
	}
	if got := chainSeats(t, idx, chain); !reflect.DeepEqual(got, []int{2, 3, 4, 5}) {
		t.Errorf("chain seats = %v, want [2 3 4 5]", got)
	}
	if got := chain.PickNumbers(); !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Errorf("chain pick numbers = %v", got)
	}
	for i, p := range chain.Picks {
		if len(p.Booster) != 15-i {
			t.Errorf("step %d booster size = %d, want %d", i, len(p.Booster), 15-i)
		}
	}

	// The rotation wraps the table.
	wrap := tr.TracePackFrom(0, 4, 4)
	if wrap == nil {
		t.Fatal("TracePackFrom(0, 4, 4) = nil")
	}
	if got := chainSeats(t, idx, wrap); !reflect.DeepEqual(got, []int{4, 5, 0, 1}) {
		t.Errorf("wrapped chain seats = %v, want [4 5 0 1]", got)
	}
}

func TestTracePackReverseRotation(t *testing.T) {
	idx := index.New(rotationExport(6, 2, 15), nil)
	tr := New(idx)

	chain := tr.TracePackFrom(1, 4, 1)
	if chain == nil {
		t.Fatal("TracePackFrom(1, 4, 1) = nil")
	}
	if got := chainSeats(t, idx, chain); !reflect.DeepEqual(got, []int{1, 0, 5, 4}) {
		t.Errorf("odd-pack chain seats = %v, want [1 0 5 4]", got)
	}
	if chain.PackNumber != 1 {
		t.Errorf("PackNumber = %d, want 1", chain.PackNumber)
	}
}

func TestTracePackAnySeatTriesSeatsInOrder(t *testing.T) {
	idx := index.New(rotationExport(4, 1, 10), nil)
	tr := New(idx)

	chain := tr.TracePack(0, 3)
	if chain == nil {
		t.Fatal("TracePack(0, 3) = nil")
	}
	if got := chainSeats(t, idx, chain); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("chain seats = %v, want the seat 0 chain", got)
	}
}

func TestTracePackNotFoundIsNil(t *testing.T) {
	idx := index.New(rotationExport(4, 1, 10), nil)
	tr := New(idx)

	if chain := tr.TracePack(7, 3); chain != nil {
		t.Errorf("TracePack for absent pack = %+v, want nil", chain)
	}
	if chain := tr.TracePack(0, 0); chain != nil {
		t.Errorf("TracePack with length 0 = %+v, want nil", chain)
	}
	if chain := tr.TracePack(0, -2); chain != nil {
		t.Errorf("TracePack with negative length = %+v, want nil", chain)
	}
	if chain := tr.TracePack(0, 11); chain != nil {
		t.Errorf("TracePack longer than any booster = %+v, want nil", chain)
	}
}

func driftExport(nextBooster []string) *draft.RawExport {
	s0, s1 := 0, 1
	return &draft.RawExport{
		SessionID: "drift",
		Users: map[string]draft.RawUser{
			"u0": {
				UserName: "Alice",
				SeatNum:  &s0,
				Picks: []draft.RawPick{
					{PackNum: 0, PickNum: 0, Booster: []string{"a", "b", "c", "d"}, Pick: []int{0}},
				},
			},
			"u1": {
				UserName: "Bob",
				SeatNum:  &s1,
				Picks: []draft.RawPick{
					{PackNum: 0, PickNum: 1, Booster: nextBooster, Pick: []int{0}},
				},
			},
		},
	}
}

func TestChainDriftTolerance(t *testing.T) {
	tests := []struct {
		name        string
		nextBooster []string
		wantChain   bool
	}{
		{
			name:        "exact handoff",
			nextBooster: []string{"b", "c", "d"},
			wantChain:   true,
		},
		{
			// expected {b c d}, got {b c x}: d missing, x extra, diff 2.
			name:        "drift at the tolerance",
			nextBooster: []string{"b", "c", "x"},
			wantChain:   true,
		},
		{
			// expected {b c d}, got {b c x y}: diff 3.
			name:        "drift beyond the tolerance",
			nextBooster: []string{"b", "c", "x", "y"},
			wantChain:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(index.New(driftExport(tt.nextBooster), nil))
			chain := tr.TracePackFrom(0, 2, 0)
			if tt.wantChain && chain == nil {
				t.Error("TracePackFrom(0, 2, 0) = nil, want a chain")
			}
			if !tt.wantChain && chain != nil {
				t.Errorf("TracePackFrom(0, 2, 0) = %+v, want nil", chain)
			}
		})
	}
}

func TestBoosterFallbackWithoutSeating(t *testing.T) {
	idx := index.New(unseat(rotationExport(4, 1, 10)), nil)
	if idx.HasSeating() {
		t.Fatal("fixture still carries seating")
	}
	tr := New(idx)

	chain := tr.TracePack(0, 3)
	if chain == nil {
		t.Fatal("TracePack(0, 3) = nil without seating")
	}
	if got := chain.PickNumbers(); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("fallback chain pick numbers = %v", got)
	}
	for i := 0; i+1 < len(chain.Picks); i++ {
		want := chain.Picks[i].Remainder()
		got := chain.Picks[i+1].BoosterSet()
		if !setsEqual(want, got) {
			t.Errorf("handoff %d is not an exact match", i)
		}
	}

	// A pinned starting seat cannot be honored without seating data.
	if pinned := tr.TracePackFrom(0, 3, 0); pinned != nil {
		t.Errorf("TracePackFrom with a pinned seat = %+v, want nil", pinned)
	}
}

func TestOversizedAndAmbiguousChainStarts(t *testing.T) {
	oversized := make([]string, 26)
	for i := range oversized {
		oversized[i] = fmt.Sprintf("big-%d", i)
	}
	s0, s1 := 0, 1
	export := &draft.RawExport{
		SessionID: "starts",
		Users: map[string]draft.RawUser{
			"u0": {
				UserName: "Alice",
				SeatNum:  &s0,
				Picks: []draft.RawPick{
					{PackNum: 0, PickNum: 0, Booster: oversized, Pick: []int{0}},
				},
			},
			"u1": {
				UserName: "Bob",
				SeatNum:  &s1,
				Picks: []draft.RawPick{
					{PackNum: 0, PickNum: 0, Booster: []string{"a", "b"}},
				},
			},
		},
	}
	idx := index.New(export, nil)

	tr := New(idx)
	if chain := tr.TracePackFrom(0, 1, 0); chain != nil {
		t.Errorf("oversized first booster produced a chain: %+v", chain)
	}
	if chain := tr.TracePackFrom(0, 1, 1); chain != nil {
		t.Errorf("ambiguous first pick produced a chain: %+v", chain)
	}

	// The size cutoff is configuration, not a drafting rule.
	roomy := DefaultConfig()
	roomy.MaxBoosterSize = 30
	if chain := NewWithConfig(idx, roomy).TracePackFrom(0, 1, 0); chain == nil {
		t.Error("raised MaxBoosterSize still rejected a 26-card booster")
	}
}

func TestValidStartingSeatsMonotonic(t *testing.T) {
	export := rotationExport(6, 1, 6)
	// Break the seat-2 chain at its fourth hop: the booster that chain hands
	// to the seat-5 player no longer resembles the remainder.
	u5 := export.Users["u5"]
	for i, rp := range u5.Picks {
		if rp.PackNum == 0 && rp.PickNum == 3 && rp.Booster[0] == "p0-o2-c3" {
			u5.Picks[i].Booster = []string{"junk-1", "junk-2", "junk-3"}
		}
	}
	export.Users["u5"] = u5

	tr := New(index.New(export, nil))

	short := tr.ValidStartingSeats(0, 3)
	if !reflect.DeepEqual(short, []int{0, 1, 2, 3, 4, 5}) {
		t.Errorf("ValidStartingSeats(0, 3) = %v, want all six seats", short)
	}

	long := tr.ValidStartingSeats(0, 4)
	if !reflect.DeepEqual(long, []int{0, 1, 3, 4, 5}) {
		t.Errorf("ValidStartingSeats(0, 4) = %v, want all but seat 2", long)
	}

	// Lengthening the chain never admits new seats.
	shortSet := make(map[int]bool, len(short))
	for _, seat := range short {
		shortSet[seat] = true
	}
	for _, seat := range long {
		if !shortSet[seat] {
			t.Errorf("seat %d valid at length 4 but not at length 3", seat)
		}
	}
}

func TestValidStartingSeatsWithoutSeating(t *testing.T) {
	tr := New(index.New(unseat(rotationExport(4, 1, 6)), nil))
	if seats := tr.ValidStartingSeats(0, 2); seats != nil {
		t.Errorf("ValidStartingSeats without seating = %v, want nil", seats)
	}
}

func TestSingleStepChain(t *testing.T) {
	tr := New(index.New(rotationExport(4, 1, 6), nil))
	chain := tr.TracePackFrom(0, 1, 3)
	if chain == nil {
		t.Fatal("TracePackFrom(0, 1, 3) = nil")
	}
	if chain.Len() != 1 {
		t.Errorf("chain length = %d, want 1", chain.Len())
	}
}
