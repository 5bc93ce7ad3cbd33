package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

type RouterOptions struct {
	// RateLimitRPM запросов в минуту с одного IP, 0 отключает лимит
	RateLimitRPM int
	// Metrics обработчик /metrics, при nil эндпоинт не регистрируется
	Metrics http.Handler
	Timeout time.Duration
}

// NewRouter собирает chi-роутер API
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(h.log))
	router.Use(middleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	router.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimitRPM > 0 {
			r.Use(httprate.LimitByIP(opts.RateLimitRPM, time.Minute))
		}
		r.Use(middleware.Timeout(timeout))

		r.Route("/users", h.userRoutes)
		r.Route("/schedules", h.scheduleRoutes)
		r.Route("/events", h.eventRoutes)
		r.Route("/bookings", h.bookingRoutes)
	})

	return router
}

// requestLogger пишет каждый запрос в zap
func requestLogger(log *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()

			next.ServeHTTP(ww, r)

			log.Info("HTTP request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("took", time.Since(started)),
			)
		})
	}
}
