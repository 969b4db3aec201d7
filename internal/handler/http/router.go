package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/khamseaffan/PartSelectAI/pkg/health"
	"github.com/khamseaffan/PartSelectAI/pkg/middleware"

	"github.com/khamseaffan/PartSelectAI/internal/service"
	"github.com/khamseaffan/PartSelectAI/internal/tool"
)

// serviceName labels metrics and spans produced by the router.
const serviceName = "partselect"

// RouterDeps holds everything the router serves.
type RouterDeps struct {
	CartService    *service.CartService
	SessionService *service.SessionService
	Tools          *tool.Registry
	Health         *health.Handler
	// RateLimiter is optional; nil disables rate limiting.
	RateLimiter *middleware.RateLimiter
	CORS        middleware.CORSConfig
	Logger      *slog.Logger
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(deps.CORS))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	sessionHandler := NewSessionHandler(deps.SessionService, logger)
	cartHandler := NewCartHandler(deps.CartService, logger)
	toolHandler := NewToolHandler(deps.Tools, logger)

	r.Route("/api/v1", func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Handler(middleware.SessionOrIP, logger))
		}
		r.Use(LimitBody)

		r.Route("/sessions", func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Post("/", sessionHandler.Start)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Use(SessionFromURL)

				r.Get("/", sessionHandler.Get)
				r.Put("/", sessionHandler.Touch)

				r.Get("/cart", cartHandler.GetCart)
				r.Delete("/cart", cartHandler.ClearCart)
				r.Post("/cart/items", cartHandler.AddItem)

				r.Post("/checkout", cartHandler.Checkout)
				r.Get("/order", cartHandler.GetOrder)
			})
		})

		r.Get("/tools", toolHandler.List)
		r.Post("/tools/{name}", toolHandler.Invoke)
	})

	return r
}
