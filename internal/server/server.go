// Package server serves the mood tracker pages and its JSON API.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/moodlog/internal/assets"
	"github.com/at-ishikawa/moodlog/internal/config"
	"github.com/at-ishikawa/moodlog/internal/journal"
	"github.com/at-ishikawa/moodlog/internal/mood"
	"github.com/at-ishikawa/moodlog/internal/notification"
	"github.com/at-ishikawa/moodlog/internal/validation"
)

// Handler implements every route of the mood tracker.
type Handler struct {
	moods         mood.Repository
	journal       journal.Repository
	notifications notification.Repository
	pages         *assets.Pages
	validator     *validation.Validator
	now           func() time.Time
	logger        *slog.Logger
}

// NewHandler creates a Handler. now is used for record stamps and the default statistics end date.
func NewHandler(moods mood.Repository, journals journal.Repository, notifications notification.Repository, now func() time.Time) (*Handler, error) {
	pages, err := assets.ParsePages()
	if err != nil {
		return nil, fmt.Errorf("assets.ParsePages() > %w", err)
	}
	v, err := validation.New()
	if err != nil {
		return nil, fmt.Errorf("validation.New() > %w", err)
	}
	return &Handler{
		moods:         moods,
		journal:       journals,
		notifications: notifications,
		pages:         pages,
		validator:     v,
		now:           now,
		logger:        slog.Default(),
	}, nil
}

// Routes returns the router for all pages and API endpoints.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))

	r.Get("/", h.index)
	r.Post("/save", h.saveMood)
	r.Get("/calendar", h.calendar)
	r.Get("/journal", h.journalPage)
	r.Post("/save_journal", h.saveJournal)
	r.Get("/notifications", h.notificationsPage)
	r.Post("/save_notifications", h.saveNotifications)
	r.Get("/statistics", h.statisticsPage)

	r.Route("/api", func(r chi.Router) {
		r.Get("/statistics", h.apiStatistics)
		r.Get("/records", h.apiRecords)
		r.Get("/journal", h.apiJournal)
		r.Get("/notifications", h.apiNotifications)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, outcome{Message: "not found"})
	})
	return r
}

// NewHTTPServer wraps handler with h2c and CORS for the configured port.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           corsMiddleware(h2c.NewHandler(handler, &http2.Server{}), cfg.CORS.AllowedOrigins),
		ReadHeaderTimeout: time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second,
	}
}

func (h *Handler) render(w http.ResponseWriter, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.pages.Render(w, page, data); err != nil {
		h.logger.Error("failed to render page", "page", page, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	writeJSON(w, http.StatusInternalServerError, outcome{Message: "internal error"})
}
