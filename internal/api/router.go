package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/funnelkit/leadmail/pkg/environment"
	"github.com/funnelkit/leadmail/pkg/ratelimit"
	"github.com/funnelkit/leadmail/pkg/requestid"
)

// RouterConfig carries the HTTP surface settings.
type RouterConfig struct {
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"*"`
}

// NewRouter wires the middleware chain and routes. The rate limiter applies
// to /api/* only; /health stays unthrottled so probes never trip the limit.
// Pass a nil limiter to disable throttling.
func NewRouter(h *Handler, cfg RouterConfig, limiter ratelimit.Limiter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	r.Use(environment.Middleware(h.env))
	r.Use(recoverer(h.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", requestid.Header},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, msgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, msgNotFound)
	})

	r.Get("/health", h.Health)

	r.Route("/api", func(api chi.Router) {
		if limiter != nil {
			api.Use(ratelimit.Middleware(limiter, ratelimit.ByClientIP(),
				ratelimit.WithOnLimitReached(onLimitReached)))
		}
		api.Post("/submit-email", h.SubmitEmail)
		api.Get("/products", h.ListProducts)
	})

	return r
}

func onLimitReached(w http.ResponseWriter, _ *http.Request, _ *ratelimit.Result) {
	respondError(w, http.StatusTooManyRequests, msgTooManyRequests)
}

// recoverer converts panics into the generic 500 envelope so clients never
// see a stack trace or an empty reply.
func recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.ErrorContext(r.Context(), "panic recovered",
						slog.Any("panic", rec),
						slog.String("path", r.URL.Path))
					respondError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
