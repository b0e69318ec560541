package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"packtracer/internal/analysis"
	"packtracer/internal/draft"
	"packtracer/internal/loader"
)

type stubLoader struct {
	exports map[string]*draft.RawExport
	calls   int
}

func (s *stubLoader) LoadExport(_ context.Context, key string) (*draft.RawExport, error) {
	s.calls++
	export, ok := s.exports[key]
	if !ok {
		return nil, loader.ErrNotFound
	}
	return export, nil
}

// testExport is a two-player seated draft whose single pack-0 chain runs
// seat 0 -> seat 1.
func testExport() *draft.RawExport {
	s0, s1 := 0, 1
	return &draft.RawExport{
		SessionID: "sess-1",
		Users: map[string]draft.RawUser{
			"u1": {
				UserName: "Alice",
				SeatNum:  &s0,
				Picks: []draft.RawPick{
					{PackNum: 0, PickNum: 0, Booster: []string{"c1", "c2", "c3"}, Pick: []int{0}},
				},
			},
			"u2": {
				UserName: "Bob",
				SeatNum:  &s1,
				Picks: []draft.RawPick{
					{PackNum: 0, PickNum: 1, Booster: []string{"c2", "c3"}, Pick: []int{1}},
				},
			},
		},
		CardData: map[string]draft.RawCard{
			"c1": {Name: "Lightning Bolt"},
			"c2": {Name: "Counterspell"},
			"c3": {Name: "Dark Ritual"},
		},
	}
}

func newTestServer(t *testing.T) (*Server, *stubLoader) {
	t.Helper()
	l := &stubLoader{exports: map[string]*draft.RawExport{"sess-1": testExport()}}
	cfg := Config{
		Metadata: func(key string) *analysis.Metadata {
			return &analysis.Metadata{CubeName: "Test Cube"}
		},
	}
	return NewServer(cfg, l, nil), l
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, into); err != nil {
		t.Fatalf("decode data: %v (body %s)", err, rec.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	if rec := get(t, s, "/health"); rec.Code != http.StatusOK {
		t.Errorf("GET /health = %d", rec.Code)
	}
}

func TestGetSession(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/v1/sessions/sess-1/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var dto SessionDTO
	decodeData(t, rec, &dto)
	if dto.SessionID != "sess-1" {
		t.Errorf("session_id = %q", dto.SessionID)
	}
	if dto.CubeName != "Test Cube" {
		t.Errorf("cube_name = %q", dto.CubeName)
	}
	if dto.PlayerCount != 2 || !dto.HasSeating {
		t.Errorf("player_count = %d, has_seating = %v", dto.PlayerCount, dto.HasSeating)
	}
}

func TestGetSessionUnknownKey(t *testing.T) {
	s, _ := newTestServer(t)
	if rec := get(t, s, "/api/v1/sessions/absent/"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSessionCachedAcrossRequests(t *testing.T) {
	s, l := newTestServer(t)
	get(t, s, "/api/v1/sessions/sess-1/")
	get(t, s, "/api/v1/sessions/sess-1/players")
	if l.calls != 1 {
		t.Errorf("loader called %d times, want 1", l.calls)
	}
}

func TestGetPlayers(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/v1/sessions/sess-1/players")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var players []PlayerDTO
	decodeData(t, rec, &players)
	if len(players) != 2 {
		t.Fatalf("got %d players", len(players))
	}
	if players[0].UserName != "Alice" || players[0].Seat == nil || *players[0].Seat != 0 {
		t.Errorf("players[0] = %+v", players[0])
	}
}

func TestGetPicks(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/api/v1/sessions/sess-1/picks?pack=0")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var picks []PickDTO
	decodeData(t, rec, &picks)
	if len(picks) != 2 {
		t.Fatalf("got %d picks", len(picks))
	}
	if picks[0].PickNumber != 0 || picks[1].PickNumber != 1 {
		t.Errorf("picks not ordered by pick number: %+v", picks)
	}
	if picks[1].PickedID != "c3" {
		t.Errorf("picks[1].picked_id = %q", picks[1].PickedID)
	}

	rec = get(t, s, "/api/v1/sessions/sess-1/picks?pack=0&user=u2")
	decodeData(t, rec, &picks)
	if len(picks) != 1 || picks[0].UserID != "u2" {
		t.Errorf("user filter returned %+v", picks)
	}

	if rec := get(t, s, "/api/v1/sessions/sess-1/picks"); rec.Code != http.StatusBadRequest {
		t.Errorf("no filter: status = %d, want 400", rec.Code)
	}
	if rec := get(t, s, "/api/v1/sessions/sess-1/picks?pack=abc"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad pack: status = %d, want 400", rec.Code)
	}
}

func TestGetCard(t *testing.T) {
	s, _ := newTestServer(t)

	var card CardDTO
	decodeData(t, get(t, s, "/api/v1/sessions/sess-1/cards/c1"), &card)
	if card.Name != "Lightning Bolt" {
		t.Errorf("card name = %q", card.Name)
	}

	// Unknown ids still resolve, to a placeholder.
	rec := get(t, s, "/api/v1/sessions/sess-1/cards/zzz")
	if rec.Code != http.StatusOK {
		t.Fatalf("unknown card: status = %d", rec.Code)
	}
	decodeData(t, rec, &card)
	if card.Name != draft.PlaceholderName("zzz") {
		t.Errorf("placeholder name = %q", card.Name)
	}
}

func TestGetTrace(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/api/v1/sessions/sess-1/trace?pack=0&length=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var dto TraceDTO
	decodeData(t, rec, &dto)
	if dto.Length != 2 || len(dto.Picks) != 2 {
		t.Fatalf("trace = %+v", dto)
	}
	if dto.Picks[0].UserName != "Alice" || dto.Picks[1].UserName != "Bob" {
		t.Errorf("trace order = %s, %s", dto.Picks[0].UserName, dto.Picks[1].UserName)
	}

	// No chain of length 3 exists; that is a 404, not a 500.
	if rec := get(t, s, "/api/v1/sessions/sess-1/trace?pack=0&length=3"); rec.Code != http.StatusNotFound {
		t.Errorf("unreachable length: status = %d, want 404", rec.Code)
	}
	if rec := get(t, s, "/api/v1/sessions/sess-1/trace?pack=0"); rec.Code != http.StatusBadRequest {
		t.Errorf("missing length: status = %d, want 400", rec.Code)
	}
	if rec := get(t, s, "/api/v1/sessions/sess-1/trace?pack=0&length=2&seat=x"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad seat: status = %d, want 400", rec.Code)
	}

	// Pinning the wrong starting seat finds nothing.
	if rec := get(t, s, "/api/v1/sessions/sess-1/trace?pack=0&length=2&seat=1"); rec.Code != http.StatusNotFound {
		t.Errorf("wrong seat: status = %d, want 404", rec.Code)
	}
}

func TestGetValidSeats(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/api/v1/sessions/sess-1/seats?pack=0&length=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var seats []int
	decodeData(t, rec, &seats)
	if len(seats) != 1 || seats[0] != 0 {
		t.Errorf("seats = %v, want [0]", seats)
	}

	// A length no seat can reach yields an empty list, not null.
	rec = get(t, s, "/api/v1/sessions/sess-1/seats?pack=0&length=5")
	decodeData(t, rec, &seats)
	if seats == nil || len(seats) != 0 {
		t.Errorf("seats = %v, want []", seats)
	}
}

func TestErrorBodyShape(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/v1/sessions/sess-1/trace?pack=0")

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Code != http.StatusBadRequest || body.Error == "" || body.Message == "" {
		t.Errorf("error body = %+v", body)
	}
}
