package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	Listings *ListingHandler
	Slots    *SlotHandler
	// Metrics serves GET /metrics when set.
	Metrics http.Handler
	// Health is consulted by GET /healthz when set.
	Health     func(ctx context.Context) error
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	for _, mw := range cfg.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	fallback := newResponder(nil)
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		fallback.writeError(req.Context(), w, http.StatusNotFound, errors.New("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		fallback.writeError(req.Context(), w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	})

	if cfg.Listings != nil {
		r.Post("/listing-needs", cfg.Listings.Assemble)
		r.Get("/earliest-hearing-date", cfg.Listings.EarliestDate)
		r.Put("/candidate-batches/{batchID}", cfg.Listings.PutBatch)
		r.Delete("/candidate-batches/{batchID}", cfg.Listings.DeleteBatch)
	}

	if cfg.Slots != nil {
		r.Put("/booking-slots/{reference}/{scheduleID}", cfg.Slots.Reserve)
		r.Delete("/booking-slots/{reference}/{scheduleID}", cfg.Slots.Release)
	}

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if cfg.Health != nil {
			if err := cfg.Health(req.Context()); err != nil {
				fallback.writeError(req.Context(), w, http.StatusServiceUnavailable, err)
				return
			}
		}
		fallback.writeJSON(req.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	return r
}
