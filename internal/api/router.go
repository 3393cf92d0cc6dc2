package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/talos/backend/internal/api/handlers"
	"github.com/wonny/talos/backend/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
// 조회 전용 API — 상태 변경은 스케줄러/CLI로만 한다.
func NewRouter(
	scoreHandler *handlers.ScoreHandler,
	planHandler *handlers.PlanHandler,
	jobHandler *handlers.JobHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Scoring endpoints
	api.HandleFunc("/scores/{date}", scoreHandler.GetScores).Methods("GET")
	api.HandleFunc("/target/latest", scoreHandler.GetLatestTarget).Methods("GET")
	api.HandleFunc("/target/{date}", scoreHandler.GetTarget).Methods("GET")

	// Rebalance endpoints
	api.HandleFunc("/plan/{date}", planHandler.GetPlan).Methods("GET")
	api.HandleFunc("/holdings", planHandler.GetHoldings).Methods("GET")

	// Scheduler endpoints
	api.HandleFunc("/jobs/stats", jobHandler.GetStats).Methods("GET")
	api.HandleFunc("/jobs/{name}/run", jobHandler.TriggerJob).Methods("POST")

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
		"service": "talos-api",
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
