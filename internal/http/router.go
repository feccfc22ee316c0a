package http

import (
	"github.com/eventify/booking/internal/auth"
	"github.com/eventify/booking/internal/observability"
	"github.com/eventify/booking/internal/rateLimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(h *Handlers, logger observability.Logger, rl *rateLimit.RateLimiter, verifier auth.Verifier) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(TracingMiddleware)
	r.Use(MetricsMiddleware)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(verifier))
		r.Use(RateLimitMiddleware(rl))

		r.Post("/v1/orders", h.CreateOrder)
		r.Post("/v1/payments/verify", h.VerifyPayment)
		r.Post("/v1/personal-events/{id}/rsvp", h.RSVP)
		r.Get("/v1/tickets/{id}", h.GetTicket)
		r.Get("/v1/tickets/{id}/receipt", h.GetReceipt)
	})

	r.Get("/v1/healthz", h.Healthz)
	r.Get("/v1/readyz", h.Readyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
