package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-voucher-bot/internal/usecase"
)

// Server exposes health, metrics and a small JWT-guarded admin API.
type Server struct {
	statsUC usecase.StatsUseCase
	poolUC  usecase.PoolUseCase
	auth    *AuthManager
	apiKey  string
	log     *zerolog.Logger
}

func NewServer(statsUC usecase.StatsUseCase, poolUC usecase.PoolUseCase, apiKey, jwtSecret string, tokenTTL time.Duration, logger *zerolog.Logger) *Server {
	srvLog := logger.With().Str("component", "web").Logger()
	return &Server{
		statsUC: statsUC,
		poolUC:  poolUC,
		auth:    NewAuthManager(jwtSecret, tokenTTL),
		apiKey:  apiKey,
		log:     &srvLog,
	}
}

// Router builds the chi router with all routes attached.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/login", s.loginHandler())
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/stats", statsHandler(s.statsUC))
			r.Get("/winners", winnersHandler(s.statsUC))
			r.Post("/refill", refillHandler(s.poolUC))
		})
	})

	return r
}

// authMiddleware requires a Bearer token minted by /api/v1/login.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}
		if err := s.auth.Verify(tokenParts[1]); err != nil {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
