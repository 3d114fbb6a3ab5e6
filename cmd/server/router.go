package main

import (
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/mmynk/rosca/internal/auth"
	"github.com/mmynk/rosca/internal/config"
	"github.com/mmynk/rosca/internal/metrics"
	"github.com/mmynk/rosca/internal/middleware"
	"github.com/mmynk/rosca/internal/rosca"
	"github.com/mmynk/rosca/internal/service"
	"github.com/mmynk/rosca/pkg/api"
)

// interceptors builds the RPC interceptor chain. The first one runs outermost.
func interceptors(cfg *config.Config) []connect.Interceptor {
	var chain []connect.Interceptor
	if cfg.RateLimit > 0 {
		chain = append(chain, middleware.RateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)))
	}
	if cfg.JWTSecret != "" {
		chain = append(chain, middleware.RequireOperator(auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)))
	}
	return append(chain, middleware.LoggingInterceptor())
}

// newRouter wires the Connect services, metrics and health endpoints.
func newRouter(cfg *config.Config, engine *rosca.Engine, rec *metrics.Recorder) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(corsMiddleware)

	opts := connect.WithInterceptors(interceptors(cfg)...)

	groupPath, groupHandler := api.NewGroupServiceHandler(service.NewGroupService(engine), opts)
	r.Mount(groupPath, groupHandler)

	paymentPath, paymentHandler := api.NewPaymentServiceHandler(service.NewPaymentService(engine), opts)
	r.Mount(paymentPath, paymentHandler)

	r.Method(http.MethodGet, "/metrics", rec.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, "+api.ErrorKindHeader)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
