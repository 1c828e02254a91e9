package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/muchen/fenglin/internal/api/handlers"
	"github.com/muchen/fenglin/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// SSOT: 路由配置只在这个函数里
func NewRouter(strategyHandler *handlers.StrategyHandler, hub *TradeHub, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Strategy endpoints
	api.HandleFunc("/strategy/state", strategyHandler.GetState).Methods("GET")
	api.HandleFunc("/strategy/universe", strategyHandler.GetUniverse).Methods("GET")
	api.HandleFunc("/strategy/trades", strategyHandler.GetTrades).Methods("GET")
	api.HandleFunc("/strategy/config", strategyHandler.GetConfig).Methods("GET")
	api.HandleFunc("/portfolio/positions", strategyHandler.GetPositions).Methods("GET")
	api.HandleFunc("/jobs", strategyHandler.GetJobs).Methods("GET")

	// Live fill stream
	r.HandleFunc("/ws/trades", hub.ServeWS)

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "fenglin-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
