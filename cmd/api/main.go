package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asrama/internal/config"
	"asrama/internal/database"
	"asrama/internal/events"
	"asrama/internal/logger"
	"asrama/internal/middleware"
	"asrama/internal/server"
	"asrama/internal/services"
	"asrama/internal/validator"

	"github.com/gin-gonic/gin"
)

// @title           Keuangan Asrama API
// @version         1.0
// @description     Dormitory ledger: income and expense entries, totals, admin-gated mutations.

// @host      localhost:8000
// @BasePath  /api

// @securityDefinitions.apikey AdminToken
// @in header
// @name X-Admin-Token
// @description Shared admin secret required for creating and deleting transactions.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	dbConfig, err := database.NewConfig(appConfig)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("database close error", "error", err)
		}
	}()

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var publishers events.Fanout
	if appConfig.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(appConfig.AMQPURL, appConfig.AMQPExchange)
		if err != nil {
			return fmt.Errorf("failed to connect to AMQP broker: %w", err)
		}
		defer func() {
			if err := amqpPublisher.Close(); err != nil {
				log.Warnw("amqp close error", "error", err)
			}
		}()
		publishers = append(publishers, amqpPublisher)
		log.Infow("Publishing ledger events to AMQP", "exchange", appConfig.AMQPExchange)
	}

	if !appConfig.AdminConfigured() {
		log.Warn("ADMIN_TOKEN is not set; create and delete will answer 503")
	}

	db := dbManager.DB()
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	router := server.NewRouter(server.Deps{
		Transactions: services.NewTransactionService(db, publishers),
		Audit:        services.NewAuditService(db),
		Verifier:     middleware.NewAdminVerifier(appConfig.AdminToken, appConfig.AdminTokenBcrypt),
		Sessions:     middleware.NewSessionManager(appConfig.SessionSecret, appConfig.SessionTTL),
		DB:           sqlDB,
		CORSOrigin:   appConfig.CORSOrigin,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Keuangan Asrama backend on port %s (db=%s)", appConfig.Port, dbConfig.Driver)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
