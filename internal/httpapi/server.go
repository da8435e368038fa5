// Package httpapi exposes the roll engine and merit images over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/mirrenhall/chronicler/internal/command"
	"github.com/mirrenhall/chronicler/internal/dice"
	"github.com/mirrenhall/chronicler/internal/merit"
	"github.com/mirrenhall/chronicler/internal/random"
	"github.com/mirrenhall/chronicler/internal/render"
)

// Server bundles the router and the roll dependencies.
type Server struct {
	r      *chi.Mux
	merits *merit.Catalog
	log    zerolog.Logger

	// seed and source are swapped out by tests for deterministic rolls.
	seed   func() (int64, error)
	source func(seed int64) dice.Source
}

// New constructs a Server, installs middleware, and registers routes.
func New(merits *merit.Catalog, log zerolog.Logger) *Server {
	s := &Server{
		r:      chi.NewRouter(),
		merits: merits,
		log:    log.With().Str("component", "httpapi").Logger(),
		seed:   random.NewSeed,
		source: random.Seeded,
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))

	s.r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Post("/v1/roll", s.handleRoll)
	s.r.Get("/v1/merits/{name}", s.handleMerit)

	return s
}

// Router exposes the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.r
}

// Start serves the API on addr until the listener fails.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.log.Info().Str("addr", addr).Msg("http api listening")
	return srv.ListenAndServe()
}

// rollRequest mirrors dice.Request, with an optional chat-style expression
// ("5 9again rote") that overrides the structured fields when present.
type rollRequest struct {
	Expression string `json:"expression,omitempty"`
	Pool       int    `json:"pool"`
	Rote       bool   `json:"rote"`
	NineAgain  bool   `json:"nine_again"`
	EightAgain bool   `json:"eight_again"`
	NoExplode  bool   `json:"no_explode"`
}

type rollDie struct {
	Face   int    `json:"face"`
	Origin string `json:"origin"`
}

type rollResponse struct {
	Seed          int64     `json:"seed"`
	Dice          []rollDie `json:"dice"`
	Successes     int       `json:"successes"`
	IsChanceDie   bool      `json:"is_chance_die"`
	IsBotch       bool      `json:"is_botch"`
	ExplodedCount int       `json:"exploded_count"`
	Summary       string    `json:"summary"`
}

func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	var req rollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	request := dice.Request{
		Pool:       req.Pool,
		Rote:       req.Rote,
		NineAgain:  req.NineAgain,
		EightAgain: req.EightAgain,
		NoExplode:  req.NoExplode,
	}
	if req.Expression != "" {
		parsed, err := command.ParseRoll(strings.Fields(req.Expression))
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		request = parsed
	}

	seed, err := s.seed()
	if err != nil {
		s.log.Error().Err(err).Msg("seed generation failed")
		s.writeError(w, http.StatusInternalServerError, "randomness unavailable")
		return
	}
	result, err := dice.Resolve(request, s.source(seed))
	if err != nil {
		s.log.Error().Err(err).Int64("seed", seed).Msg("roll resolution failed")
		s.writeError(w, http.StatusInternalServerError, "roll resolution failed")
		return
	}

	resp := rollResponse{
		Seed:          seed,
		Dice:          make([]rollDie, 0, len(result.Dice)),
		Successes:     result.Successes,
		IsChanceDie:   result.IsChanceDie,
		IsBotch:       result.IsBotch,
		ExplodedCount: result.ExplodedCount,
		Summary:       render.Roll("You", result),
	}
	for _, die := range result.Dice {
		resp.Dice = append(resp.Dice, rollDie{Face: die.Face, Origin: die.Origin.String()})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMerit(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	image, err := s.merits.Lookup(name)
	if err != nil {
		if errors.Is(err, merit.ErrUnknown) {
			s.writeError(w, http.StatusNotFound, "unknown merit")
			return
		}
		s.writeError(w, http.StatusNotFound, "merit image missing")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, image.Path)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Debug().Err(err).Msg("response write failed")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
