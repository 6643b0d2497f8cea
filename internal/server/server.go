// Package server exposes the quote calculator over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/piwi3910/cabinetquote/internal/model"
	"github.com/piwi3910/cabinetquote/internal/store"
)

// maxBodyBytes caps request bodies; a full part list is far below this.
const maxBodyBytes = 1 << 20

// QuoteArchive is the persistence the service needs. *store.Store satisfies it.
type QuoteArchive interface {
	SaveQuote(ctx context.Context, title string, result model.CalculationResult) (store.Record, error)
	GetQuote(ctx context.Context, id string) (store.Record, error)
	ListQuotes(ctx context.Context, query string) ([]store.Summary, error)
	DeleteQuote(ctx context.Context, id string) error
}

// Server holds the catalog and workshop defaults every request is priced against.
type Server struct {
	quotes  QuoteArchive
	catalog model.Catalog
	config  model.AppConfig
	log     *slog.Logger
}

// New creates a Server. The catalog is treated as read-only.
func New(quotes QuoteArchive, catalog model.Catalog, config model.AppConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{quotes: quotes, catalog: catalog, config: config, log: logger}
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Post("/parts", s.handleDeriveParts)

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", s.handleListQuotes)
			r.Post("/", s.handleCreateQuote)
			r.Get("/{id}", s.handleGetQuote)
			r.Delete("/{id}", s.handleDeleteQuote)
			r.Get("/{id}/export/{format}", s.handleExportQuote)
		})
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
