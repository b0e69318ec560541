package api

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"packtracer/internal/api/response"
	"packtracer/internal/draft"
	"packtracer/internal/draft/tracer"
)

// SessionDTO describes one loaded draft session.
type SessionDTO struct {
	SessionID       string   `json:"session_id"`
	CubeName        string   `json:"cube_name,omitempty"`
	SessionLabel    string   `json:"session_label,omitempty"`
	PlayerCount     int      `json:"player_count"`
	HasSeating      bool     `json:"has_seating"`
	UnresolvedNames []string `json:"unresolved_names,omitempty"`
}

// PlayerDTO describes one draft participant.
type PlayerDTO struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Seat     *int   `json:"seat,omitempty"`
}

// PickDTO describes one pick event.
type PickDTO struct {
	UserID     string   `json:"user_id"`
	UserName   string   `json:"user_name"`
	PackNumber int      `json:"pack_number"`
	PickNumber int      `json:"pick_number"`
	Booster    []string `json:"booster"`
	PickedID   string   `json:"picked_id,omitempty"`
	Ambiguous  bool     `json:"ambiguous"`
}

// CardDTO describes one card.
type CardDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TraceDTO describes a reconstructed pack journey.
type TraceDTO struct {
	PackNumber int       `json:"pack_number"`
	Length     int       `json:"length"`
	Picks      []PickDTO `json:"picks"`
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	a, err := s.analysisFor(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		response.NotFound(w, err)
		return
	}
	response.Success(w, SessionDTO{
		SessionID:       a.SessionID(),
		CubeName:        a.CubeName(),
		SessionLabel:    a.SessionLabel(),
		PlayerCount:     a.PlayerCount(),
		HasSeating:      a.HasSeating(),
		UnresolvedNames: a.UnresolvedNames(),
	})
}

func (s *Server) getPlayers(w http.ResponseWriter, r *http.Request) {
	a, err := s.analysisFor(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		response.NotFound(w, err)
		return
	}
	players := a.Players()
	dtos := make([]PlayerDTO, 0, len(players))
	for _, p := range players {
		dto := PlayerDTO{UserID: p.UserID, UserName: p.UserName}
		if p.HasSeat {
			seat := p.Seat
			dto.Seat = &seat
		}
		dtos = append(dtos, dto)
	}
	response.Success(w, dtos)
}

func (s *Server) getPicks(w http.ResponseWriter, r *http.Request) {
	a, err := s.analysisFor(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		response.NotFound(w, err)
		return
	}

	userID := r.URL.Query().Get("user")
	packParam := r.URL.Query().Get("pack")
	if userID == "" && packParam == "" {
		response.BadRequest(w, fmt.Errorf("either pack or user is required"))
		return
	}

	var picks []*draft.Pick
	switch {
	case packParam != "":
		pack, err := strconv.Atoi(packParam)
		if err != nil {
			response.BadRequest(w, fmt.Errorf("invalid pack number %q", packParam))
			return
		}
		picks = a.PicksForPack(pack)
		if userID != "" {
			filtered := picks[:0]
			for _, p := range picks {
				if p.UserID == userID {
					filtered = append(filtered, p)
				}
			}
			picks = filtered
		}
	default:
		picks = a.PicksForUser(userID)
	}

	sort.Slice(picks, func(i, j int) bool {
		if picks[i].PackNumber != picks[j].PackNumber {
			return picks[i].PackNumber < picks[j].PackNumber
		}
		if picks[i].PickNumber != picks[j].PickNumber {
			return picks[i].PickNumber < picks[j].PickNumber
		}
		return picks[i].UserID < picks[j].UserID
	})

	dtos := make([]PickDTO, 0, len(picks))
	for _, p := range picks {
		dtos = append(dtos, pickDTO(*p))
	}
	response.Success(w, dtos)
}

func (s *Server) getCard(w http.ResponseWriter, r *http.Request) {
	a, err := s.analysisFor(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		response.NotFound(w, err)
		return
	}
	card := a.Card(chi.URLParam(r, "cardID"))
	response.Success(w, CardDTO{ID: card.ID, Name: card.Name})
}

func (s *Server) getTrace(w http.ResponseWriter, r *http.Request) {
	a, err := s.analysisFor(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		response.NotFound(w, err)
		return
	}

	pack, err := queryInt(r, "pack")
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	length, err := queryInt(r, "length")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	var trace *draft.PackTrace
	if seatParam := r.URL.Query().Get("seat"); seatParam != "" {
		seat, err := strconv.Atoi(seatParam)
		if err != nil {
			response.BadRequest(w, fmt.Errorf("invalid seat %q", seatParam))
			return
		}
		trace = a.TracePackFrom(pack, length, seat)
	} else {
		trace = a.TracePackFrom(pack, length, tracer.AnySeat)
	}

	if trace == nil {
		// Routine outcome: no chain of that length exists for this pack.
		response.NotFound(w, fmt.Errorf("no trace of length %d found for pack %d", length, pack))
		return
	}

	dto := TraceDTO{PackNumber: trace.PackNumber, Length: trace.Len()}
	for _, p := range trace.Picks {
		dto.Picks = append(dto.Picks, pickDTO(p))
	}
	response.Success(w, dto)
}

func (s *Server) getValidSeats(w http.ResponseWriter, r *http.Request) {
	a, err := s.analysisFor(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		response.NotFound(w, err)
		return
	}

	pack, err := queryInt(r, "pack")
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	length, err := queryInt(r, "length")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	seats := a.ValidStartingSeats(pack, length)
	if seats == nil {
		seats = []int{}
	}
	response.Success(w, seats)
}

func pickDTO(p draft.Pick) PickDTO {
	return PickDTO{
		UserID:     p.UserID,
		UserName:   p.UserName,
		PackNumber: p.PackNumber,
		PickNumber: p.PickNumber,
		Booster:    p.Booster,
		PickedID:   p.PickedID,
		Ambiguous:  p.Ambiguous(),
	}
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}
