package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"ascentra/internal/service"
	"ascentra/internal/transport/rest/handler"
	"ascentra/internal/transport/rest/middleware"
	"ascentra/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService     *service.AuthService
	StudyService    *service.StudyService
	SessionService  *service.SessionService
	AnalysisService *service.AnalysisService
	PlannerService  *service.PlannerService
	WSHub           *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	studyHandler := handler.NewStudyHandler(c.StudyService)
	sessionHandler := handler.NewSessionHandler(c.SessionService)
	segmentHandler := handler.NewSegmentHandler(c.SessionService, c.AnalysisService)
	analysisHandler := handler.NewAnalysisHandler(c.SessionService, c.AnalysisService, c.PlannerService)
	runHandler := handler.NewRunHandler(c.AnalysisService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/sessions/{sessionId}", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Analyst routes (require analyst auth)
	analystRoutes := v1.NewRoute().Subrouter()
	analystRoutes.Use(authMW.RequireAnalyst)

	analystRoutes.HandleFunc("/studies", studyHandler.Import).Methods("POST", "OPTIONS")
	analystRoutes.HandleFunc("/studies", studyHandler.List).Methods("GET", "OPTIONS")
	analystRoutes.HandleFunc("/studies/{studyId}", studyHandler.Get).Methods("GET", "OPTIONS")
	analystRoutes.HandleFunc("/studies/{studyId}", studyHandler.Delete).Methods("DELETE", "OPTIONS")

	analystRoutes.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")
	analystRoutes.HandleFunc("/sessions/{sessionId}", sessionHandler.Get).Methods("GET", "OPTIONS")
	analystRoutes.HandleFunc("/sessions/{sessionId}", sessionHandler.End).Methods("DELETE", "OPTIONS")

	analystRoutes.HandleFunc("/sessions/{sessionId}/segments", segmentHandler.Define).Methods("POST", "OPTIONS")
	analystRoutes.HandleFunc("/sessions/{sessionId}/segments", segmentHandler.List).Methods("GET", "OPTIONS")

	analystRoutes.HandleFunc("/sessions/{sessionId}/cuts/validate", analysisHandler.Validate).Methods("POST", "OPTIONS")
	analystRoutes.HandleFunc("/sessions/{sessionId}/cuts/execute", analysisHandler.Execute).Methods("POST", "OPTIONS")
	analystRoutes.HandleFunc("/sessions/{sessionId}/ask", analysisHandler.Ask).Methods("POST", "OPTIONS")

	analystRoutes.HandleFunc("/sessions/{sessionId}/runs", runHandler.ListBySession).Methods("GET", "OPTIONS")
	analystRoutes.HandleFunc("/runs/{runId}", runHandler.Get).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
