// Package server exposes the tracker over a small JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dtnitsch/clickwatch/models"
	"github.com/dtnitsch/clickwatch/pkg/mapreduce"
	"github.com/dtnitsch/clickwatch/pkg/tracker"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Service is the part of the tracker the API serves.
type Service interface {
	ListSites() []models.Site
	QueryClicks(siteQuery, date string) (*tracker.ClickReport, error)
}

type App struct {
	svc    Service
	logger *slog.Logger
}

// SitesResponse is the body of GET /v1/sites.
type SitesResponse struct {
	Count int           `json:"count"`
	Sites []models.Site `json:"sites"`
}

// ClicksResponse is the body of a successful GET /v1/clicks.
type ClicksResponse struct {
	*tracker.ClickReport
	Categories []mapreduce.CategoryCount `json:"categories"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewApp(svc Service, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{svc: svc, logger: logger}
}

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, app.requestLogger)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/sites", app.Sites)
	r.Get("/v1/clicks", app.Clicks)

	return r
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) Sites(w http.ResponseWriter, r *http.Request) {
	sites := a.svc.ListSites()
	if sites == nil {
		sites = []models.Site{}
	}
	a.json(w, http.StatusOK, SitesResponse{Count: len(sites), Sites: sites})
}

func (a *App) Clicks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := a.svc.QueryClicks(q.Get("site"), q.Get("date"))
	if err != nil {
		a.json(w, StatusFor(err), errorResponse{Error: err.Error()})
		return
	}
	a.json(w, http.StatusOK, ClicksResponse{
		ClickReport: report,
		Categories:  mapreduce.Categories(report.Summary),
	})
}

// StatusFor maps a QueryClicks error onto an HTTP status.
func StatusFor(err error) int {
	var fetchErr *tracker.FetchError
	switch {
	case errors.Is(err, tracker.ErrInvalidQuery), errors.Is(err, tracker.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, tracker.ErrSiteNotFound):
		return http.StatusNotFound
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		a.logger.Info("Request served",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
