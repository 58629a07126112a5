package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IANDYI/health-tracker/internal/adapters/handler"
	"github.com/IANDYI/health-tracker/internal/adapters/middleware"
	"github.com/IANDYI/health-tracker/internal/adapters/repository"
	"github.com/IANDYI/health-tracker/internal/adapters/websocket"
	"github.com/IANDYI/health-tracker/internal/config"
	"github.com/IANDYI/health-tracker/internal/core/ports"
	"github.com/IANDYI/health-tracker/internal/core/services"
)

// openStore connects the configured storage backend. The returned func releases it.
func openStore(cfg *config.Config, breaker repository.BreakerSettings) (ports.KeyValueStore, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		// Connect to database with retry logic
		db, err := config.ConnectDatabase(cfg.DatabaseURL, 5, 2*time.Second)
		if err != nil {
			return nil, nil, err
		}
		if err := config.InitDatabase(db, cfg.DropTablesOnStartup); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repository.NewSQLRepository(db, breaker), func() { db.Close() }, nil

	case config.BackendRedis:
		client := repository.NewRedisClient(repository.RedisOptions{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			PoolSize: cfg.RedisPoolSize,
		})
		store := repository.NewRedisRepository(client, breaker)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		log.Printf("Connected to Redis at %s", cfg.RedisAddr)
		return store, func() { store.Close() }, nil

	default:
		log.Println("Using in-memory storage; data is lost on restart")
		return repository.NewMemoryRepository(), func() {}, nil
	}
}

// openPublisher delivers events to the live stream hub and, when enabled, to RabbitMQ
func openPublisher(cfg *config.Config, breaker repository.BreakerSettings, hub *websocket.Hub) (ports.EventPublisher, func(), error) {
	if !cfg.EventsEnabled {
		log.Println("RabbitMQ events disabled (set EVENTS_ENABLED=true to publish to RabbitMQ)")
		fanout := repository.NewFanoutPublisher(repository.NoopPublisher{}, hub)
		return handler.NewInstrumentedPublisher(fanout), func() {}, nil
	}

	publisher, err := repository.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.EventsQueueName, breaker)
	if err != nil {
		return nil, nil, err
	}
	fanout := repository.NewFanoutPublisher(publisher, hub)
	return handler.NewInstrumentedPublisher(fanout), func() { publisher.Close() }, nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	breaker := repository.BreakerSettings{
		MaxRequests: cfg.CircuitBreakerMaxRequests,
		Interval:    cfg.CircuitBreakerInterval,
		Timeout:     cfg.CircuitBreakerTimeout,
	}

	store, closeStore, err := openStore(cfg, breaker)
	if err != nil {
		log.Fatalf("Failed to connect to %s storage: %v", cfg.StorageBackend, err)
	}
	defer closeStore()

	// Live event streams
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := websocket.NewHub()
	go hub.Run(hubCtx)

	publisher, closePublisher, err := openPublisher(cfg, breaker, hub)
	if err != nil {
		log.Fatalf("Failed to initialize RabbitMQ publisher: %v", err)
	}
	defer closePublisher()

	handler.RegisterHealthMetrics()

	// Initialize services
	calculatorService := services.NewCalculatorService(publisher)
	profileService := services.NewProfileService(store)
	trackerService := services.NewTrackerService(store, publisher)
	authService := services.NewAuthService(store, []byte(cfg.JWTSecret), cfg.TokenTTL)

	if cfg.SeedDemoAccount {
		seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := authService.SeedDemoAccount(seedCtx); err != nil {
			log.Printf("Warning: failed to seed demo account: %v", err)
		}
		seedCancel()
	}

	// Initialize handlers
	calculatorHandler := handler.NewCalculatorHandler(calculatorService)
	profileHandler := handler.NewProfileHandler(profileService)
	trackerHandler := handler.NewTrackerHandler(trackerService)
	authHandler := handler.NewAuthHandler(authService)
	healthHandler := handler.NewHealthHandler(store)

	// Initialize JWT middleware
	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.JWTSecret), authService)
	defer authMiddleware.Stop()

	eventsHandler := handler.NewEventsHandler(hub, authMiddleware, authService)

	// Setup HTTP router
	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible, no auth required)
	mux.HandleFunc("GET /metrics", handler.Metrics)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /health/ready", healthHandler.Ready)
	mux.HandleFunc("GET /health/live", healthHandler.Live)

	// Session endpoints
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("POST /auth/logout", authMiddleware.RequireAuth(authHandler.Logout))

	// Calculators and validation (no session needed)
	mux.HandleFunc("POST /calculator/bmi", calculatorHandler.CalculateBMI)
	mux.HandleFunc("POST /calculator/calories", calculatorHandler.CalculateCalories)
	mux.HandleFunc("POST /validate", calculatorHandler.Validate)

	// Profile and goal
	mux.HandleFunc("GET /greeting", authMiddleware.RequireAuth(profileHandler.Greeting))
	mux.HandleFunc("GET /profile", authMiddleware.RequireAuth(profileHandler.GetProfile))
	mux.HandleFunc("PUT /profile", authMiddleware.RequireAuth(profileHandler.SaveProfile))
	mux.HandleFunc("GET /goal", authMiddleware.RequireAuth(profileHandler.GetGoal))
	mux.HandleFunc("PUT /goal", authMiddleware.RequireAuth(profileHandler.SetGoal))

	// Daily trackers
	mux.HandleFunc("GET /intake", authMiddleware.RequireAuth(trackerHandler.GetIntake))
	mux.HandleFunc("POST /intake", authMiddleware.RequireAuth(trackerHandler.LogIntake))
	mux.HandleFunc("DELETE /intake", authMiddleware.RequireAuth(trackerHandler.ResetIntake))

	mux.HandleFunc("GET /water", authMiddleware.RequireAuth(trackerHandler.GetWater))
	mux.HandleFunc("POST /water/cups", authMiddleware.RequireAuth(trackerHandler.AddWaterCup))
	mux.HandleFunc("DELETE /water/cups", authMiddleware.RequireAuth(trackerHandler.RemoveWaterCup))
	mux.HandleFunc("DELETE /water", authMiddleware.RequireAuth(trackerHandler.ResetWater))

	mux.HandleFunc("GET /activities", authMiddleware.RequireAuth(trackerHandler.ListActivities))
	mux.HandleFunc("POST /activities", authMiddleware.RequireAuth(trackerHandler.AddActivity))
	mux.HandleFunc("DELETE /activities/{activity_id}", authMiddleware.RequireAuth(trackerHandler.DeleteActivity))

	mux.HandleFunc("GET /sleep", authMiddleware.RequireAuth(trackerHandler.ListSleep))
	mux.HandleFunc("POST /sleep", authMiddleware.RequireAuth(trackerHandler.LogSleep))
	mux.HandleFunc("DELETE /sleep", authMiddleware.RequireAuth(trackerHandler.ClearSleep))

	// Live health events (WebSocket; token via header or ?token=)
	mux.HandleFunc("GET /events/stream", eventsHandler.Stream)

	// Wrap mux with metrics middleware to track all HTTP requests
	router := middleware.MetricsMiddleware(mux)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting Health Tracker on :%s (storage: %s)", cfg.Port, cfg.StorageBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	stopHub()

	log.Println("Server exited")
}
