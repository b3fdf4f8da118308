package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"shopsim/internal/config"
	"shopsim/internal/game"
	"shopsim/internal/sim"
	"shopsim/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RunStore is the persistence the API needs; *store.Runs satisfies it.
type RunStore interface {
	SaveRun(ctx context.Context, run *store.Run) error
	GetRun(ctx context.Context, id uuid.UUID) (store.Run, error)
	GetRunByKey(ctx context.Context, key string) (store.Summary, error)
	ListRuns(ctx context.Context, limit int) ([]store.Summary, error)
}

type Server struct {
	cfg     config.APIConfig
	log     *slog.Logger
	runs    RunStore
	catalog *game.Catalog
	mux     *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, runs RunStore, catalog *game.Catalog) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if catalog == nil {
		catalog = game.DefaultCatalog()
	}
	s := &Server{
		cfg:     cfg,
		log:     logger,
		runs:    runs,
		catalog: catalog,
		mux:     chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Get("/runs", s.handleRunsList)
		r.Post("/runs", s.handleRunCreate)
		r.Post("/runs/import", s.handleRunImport)
		r.Get("/runs/{id}", s.handleRunDetail)
	})
}

type catalogRow struct {
	Species string `json:"species"`
	Attack  int    `json:"attack"`
	Health  int    `json:"health"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	rows := make([]catalogRow, 0, len(s.catalog.Species()))
	for _, sp := range s.catalog.Species() {
		st, _ := s.catalog.Stats(sp)
		rows = append(rows, catalogRow{Species: sp.String(), Attack: st.Attack, Health: st.Health})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"species": rows,
		"foods":   s.catalog.Foods(),
	})
}

func (s *Server) handleRunsList(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = v
	}
	out, err := s.runs.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": out})
}

func (s *Server) handleRunDetail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}
	run, err := s.runs.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleRunCreate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Seed     *int64 `json:"seed"`
		MaxSteps int    `json:"max_steps"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.MaxSteps < 0 {
		writeError(w, http.StatusBadRequest, "max_steps must be >= 0")
		return
	}
	maxSteps := s.cfg.MaxSteps
	if in.MaxSteps > 0 && in.MaxSteps < maxSteps {
		maxSteps = in.MaxSteps
	}
	seed := rand.Int64()
	if in.Seed != nil {
		seed = *in.Seed
	}

	res, err := sim.Run(r.Context(), sim.Options{
		Seed:     seed,
		MaxSteps: maxSteps,
		Catalog:  s.catalog,
		Logger:   s.log,
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.saveAndRespond(w, r, store.NewRun(res, idempotencyKey(r)))
}

func (s *Server) handleRunImport(w http.ResponseWriter, r *http.Request) {
	var in sim.Result
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(in.Steps) == 0 {
		writeError(w, http.StatusBadRequest, "run has no steps")
		return
	}
	if len(in.Steps) > s.cfg.MaxSteps {
		writeError(w, http.StatusBadRequest, "run exceeds max steps")
		return
	}

	replay, err := sim.Run(r.Context(), sim.Options{
		Seed:     in.Seed,
		MaxSteps: len(in.Steps),
		Catalog:  s.catalog,
		Logger:   s.log,
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if !reflect.DeepEqual(replay.Actions(), in.Actions()) || !reflect.DeepEqual(replay.Final, in.Final) {
		writeError(w, http.StatusUnprocessableEntity, "run does not replay from its seed")
		return
	}
	s.saveAndRespond(w, r, store.NewRun(replay, idempotencyKey(r)))
}

func (s *Server) saveAndRespond(w http.ResponseWriter, r *http.Request, run store.Run) {
	err := s.runs.SaveRun(r.Context(), &run)
	if errors.Is(err, store.ErrDuplicateRun) {
		existing, err := s.runs.GetRunByKey(r.Context(), run.IdempotencyKey)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, existing)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.log.Info("run stored", "run_id", run.ID.String(), "seed", run.Seed, "steps", run.StepCount, "final_gold", run.FinalGold)
	writeJSON(w, http.StatusCreated, run)
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

func idempotencyKey(r *http.Request) string {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key != "" {
		return key
	}
	return uuid.NewString()
}
