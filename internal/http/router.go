package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"fanstock/internal/domain/club"
	"fanstock/internal/domain/poll"
	"fanstock/internal/domain/user"
	"fanstock/internal/domain/vote"
	"fanstock/internal/worker"
)

type Handler struct {
	userSvc *user.Service
	clubSvc *club.Service
	pollSvc *poll.Service
	voteSvc *vote.Service
	voteCh  chan<- worker.VoteEvent
	db      *sql.DB
}

func NewRouter(
	userSvc *user.Service,
	clubSvc *club.Service,
	pollSvc *poll.Service,
	voteSvc *vote.Service,
	voteCh chan<- worker.VoteEvent,
	db *sql.DB,
) http.Handler {
	h := &Handler{
		userSvc: userSvc,
		clubSvc: clubSvc,
		pollSvc: pollSvc,
		voteSvc: voteSvc,
		voteCh:  voteCh,
		db:      db,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(RequestLogger)
	r.Use(CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", h.handleReady)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users/sync", h.handleSyncUser)
		r.Get("/users/{id}", h.handleGetUser)

		r.Route("/clubs", func(r chi.Router) {
			r.Post("/", h.handleCreateClub)
			r.Get("/{id}", h.handleGetClub)
			r.Get("/{id}/polls", h.handleClubPolls)
			r.Post("/{id}/purchase", h.handlePurchase)
			r.Get("/{id}/holdings", h.handleGetHolding)
		})

		r.Route("/polls", func(r chi.Router) {
			r.Post("/", h.handleCreatePoll)
			r.Get("/{id}", h.handleGetPoll)
			r.Patch("/{id}", h.handleUpdatePollStatus)
			r.With(RateLimitVotes(rate.Every(time.Second), 5)).Post("/{id}/vote", h.handleVote)
			r.Get("/{id}/vote", h.handleGetVote)
			r.Get("/{id}/results", h.handlePollResults)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	return strconv.ParseInt(idStr, 10, 64)
}

func parseTimePtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	return &t
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not ready",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
