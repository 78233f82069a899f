package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ascentra/internal/cache"
	"ascentra/internal/config"
	"ascentra/internal/repository"
	"ascentra/internal/service"
	"ascentra/internal/transport/rest"
	"ascentra/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	aiConfig := config.DefaultAIConfig()
	log.Printf("Planner config:")
	log.Printf("  Cut plan:     %s", aiConfig.Models.CutPlan)
	log.Printf("  Segment plan: %s", aiConfig.Models.SegmentPlan)
	if aiConfig.IsEnabled() {
		log.Println("  API Key:      configured")
	} else {
		log.Println("  API Key:      NOT SET (using keyword planner)")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.Database)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	studyRepo := repository.NewStudyRepo(db)
	runRepo := repository.NewRunRepo(db)

	// Initialize caches
	sessionCache := cache.NewSessionCache(rdb)
	resultCache := cache.NewResultCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService()
	studySvc := service.NewStudyService(studyRepo)
	sessionSvc := service.NewSessionService(studyRepo, sessionCache)
	plannerSvc := service.NewPlannerService()
	analysisSvc := service.NewAnalysisService(sessionSvc, runRepo, resultCache, wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:     authSvc,
		StudyService:    studySvc,
		SessionService:  sessionSvc,
		AnalysisService: analysisSvc,
		PlannerService:  plannerSvc,
		WSHub:           wsHub,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST/GET /v1/studies")
		log.Println("  POST /v1/sessions")
		log.Println("  POST /v1/sessions/{id}/segments")
		log.Println("  POST /v1/sessions/{id}/cuts/validate")
		log.Println("  POST /v1/sessions/{id}/cuts/execute")
		log.Println("  POST /v1/sessions/{id}/ask")
		log.Println("  GET  /v1/runs/{id}")
		log.Println("  WS   /v1/ws/sessions/{id}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
