// internal/api/handler.go
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kalidyasin/github-commit-notifier/internal/model"
)

// StateSource exposes the tracker's current heads.
type StateSource interface {
	Snapshot() map[string]string
}

// NotificationSource exposes the notifier's recent history.
type NotificationSource interface {
	Recent() []model.Notification
}

// Handler is the container for API dependencies.
type Handler struct {
	state         StateSource
	notifications NotificationSource
	logger        *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
// The API is read-only: it reports what the poller has seen and notified.
func NewRouter(state StateSource, notifications NotificationSource, logger *slog.Logger) http.Handler {
	h := &Handler{
		state:         state,
		notifications: notifications,
		logger:        logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// API Routes
	r.Get("/health", h.healthCheck)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/state", h.getState)
		r.Get("/notifications", h.getNotifications)
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getState reports the last notified commit per repository.
// GET /v1/state
func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{
		"heads": h.state.Snapshot(),
	})
}

// getNotifications reports the most recent notifications, oldest first.
// GET /v1/notifications
func (h *Handler) getNotifications(w http.ResponseWriter, r *http.Request) {
	recent := h.notifications.Recent()
	if recent == nil {
		recent = []model.Notification{}
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"notifications": recent,
	})
}
