package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"blackjack-coach/internal/game"
)

// Server exposes one table over HTTP. Commands answer at once and the deal or
// dealer steps continue in Run; clients poll GET /api/table.
type Server struct {
	table  *game.Table
	runner *game.Runner
	logger *log.Logger

	wake chan struct{}
}

func New(table *game.Table, runner *game.Runner, logger *log.Logger) *Server {
	return &Server{
		table:  table,
		runner: runner,
		logger: logger,
		wake:   make(chan struct{}, 1),
	}
}

// Run performs the table's automatic steps whenever a command queues some,
// until ctx is done.
func (s *Server) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		}
		if err := s.runner.Run(ctx, s.table, nil); err != nil {
			s.logger.Debug("runner stopped", "err", err)
		}
	}
}

var commands = map[string]func(*game.Table) bool{
	"deal":     (*game.Table).StartRound,
	"hit":      (*game.Table).Hit,
	"stand":    (*game.Table).Stand,
	"double":   (*game.Table).DoubleDown,
	"bet-up":   (*game.Table).IncreaseBet,
	"bet-down": (*game.Table).DecreaseBet,
	"reset":    (*game.Table).ResetBank,
	"next":     (*game.Table).NextRound,
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		})
		r.Get("/table", s.getTable)
		r.Post("/table/{command}", s.postCommand)
		r.Get("/advice", s.getAdvice)
	})
	return r
}

func (s *Server) getTable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.table.Snapshot())
}

func (s *Server) postCommand(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "command")
	cmd, ok := commands[name]
	if !ok {
		http.Error(w, "unknown command", http.StatusNotFound)
		return
	}

	if !cmd(s.table) {
		writeJSON(w, http.StatusConflict, s.table.Snapshot())
		return
	}
	s.logger.Debug("command accepted", "command", name)

	if _, pending := s.table.NextStep(); pending {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
	writeJSON(w, http.StatusAccepted, s.table.Snapshot())
}

type adviceResponse struct {
	Player game.Total  `json:"player"`
	Dealer *game.Card  `json:"dealer,omitempty"`
	Advice game.Action `json:"advice"`
}

func (s *Server) getAdvice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	hand, err := game.ParseCards(q.Get("player"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var up game.Card
	if d := q.Get("dealer"); d != "" {
		if up, err = game.ParseCard(d); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	canDouble := len(hand) == 2
	if d := q.Get("double"); d != "" {
		if canDouble, err = strconv.ParseBool(d); err != nil {
			http.Error(w, "bad double flag", http.StatusBadRequest)
			return
		}
	}

	resp := adviceResponse{
		Player: game.Evaluate(hand),
		Advice: game.Advise(hand, up, canDouble),
	}
	if up.Valid() {
		resp.Dealer = &up
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
