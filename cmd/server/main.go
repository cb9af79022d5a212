package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prasetia/lending-engine/internal/config"
	"github.com/prasetia/lending-engine/internal/handler"
	"github.com/prasetia/lending-engine/internal/repository"
	"github.com/prasetia/lending-engine/internal/service"
	"github.com/prasetia/lending-engine/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogging(cfg)

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	loanRepo := repository.NewLoanRepository(db)
	installmentRepo := repository.NewInstallmentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	snapshotCache := repository.NewSnapshotCache(redisClient)

	// Initialize service and handlers
	lendingService := service.NewLendingService(loanRepo, installmentRepo, paymentRepo, snapshotCache, cfg)
	lendingHandler := handler.NewLendingHandler(lendingService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	// Setup routes
	router := setupRoutes(lendingHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func setupLogging(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() && cfg.Logging.Format != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(lendingHandler *handler.LendingHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)
	router.Use(response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/quotes", lendingHandler.Quote).Methods("POST")
	api.HandleFunc("/loans", lendingHandler.CreateLoan).Methods("POST")
	api.HandleFunc("/loans/{loanId}", lendingHandler.GetLoan).Methods("GET")
	api.HandleFunc("/loans/{loanId}/approve", lendingHandler.ApproveLoan).Methods("POST")
	api.HandleFunc("/loans/{loanId}/reject", lendingHandler.RejectLoan).Methods("POST")
	api.HandleFunc("/loans/{loanId}/disburse", lendingHandler.DisburseLoan).Methods("POST")
	api.HandleFunc("/loans/{loanId}/schedule", lendingHandler.GetSchedule).Methods("GET")
	api.HandleFunc("/loans/{loanId}/outstanding", lendingHandler.GetOutstanding).Methods("GET")
	api.HandleFunc("/loans/{loanId}/installments/{emiNumber}/payment", lendingHandler.ApplyPayment).Methods("POST")
	api.HandleFunc("/reports/delinquency", lendingHandler.GetDelinquencySnapshot).Methods("GET")

	return router
}
