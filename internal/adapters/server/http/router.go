package http

import (
	"net/http"

	"github.com/bnema/spendshred/internal/application"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the subscription store gateway API on top of the service.
type Handler struct {
	service *application.Service
	logger  *zap.Logger
	token   string
}

type Option func(*Handler)

// WithToken requires every API request to carry this bearer token.
func WithToken(token string) Option {
	return func(h *Handler) {
		h.token = token
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

func NewHandler(service *application.Service, opts ...Option) *Handler {
	h := &Handler{service: service, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(handler.recoverMiddleware)
	r.Use(handler.loggingMiddleware)

	r.Get("/healthz", handler.healthz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(handler.authMiddleware)

		r.Get("/stats", handler.stats)
		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/", handler.listSubscriptions)
			r.Post("/", handler.createSubscription)
			r.Get("/export", handler.exportSubscriptions)
			r.Patch("/{id}", handler.updateSubscription)
			r.Post("/{id}/cancel", handler.cancelSubscription)
		})
	})

	return r
}
