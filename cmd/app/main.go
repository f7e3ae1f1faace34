package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/ReubenWash/reubensocials-backend/docs"

	"github.com/ReubenWash/reubensocials-backend/internal/config"
	"github.com/ReubenWash/reubensocials-backend/internal/db"
	"github.com/ReubenWash/reubensocials-backend/internal/logger"
	"github.com/ReubenWash/reubensocials-backend/internal/notification"
	"github.com/ReubenWash/reubensocials-backend/internal/payment"
	"github.com/ReubenWash/reubensocials-backend/internal/server"
)

// @title ReubenSocials API
// @version 1.0
// @description Social media backend with exclusive content monetization.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {

	logger.Init()
	defer logger.Sync()
	logger.Info("Starting ReubenSocials application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	dispatcher := notification.New(cfg.RedisAddr, notification.NewRepository(database))
	defer dispatcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Start(ctx)
	logger.Info("Notification dispatcher initialized")

	gateway := payment.NewStripeGateway(cfg.StripeSecretKey)

	srv := server.New(database, cfg, dispatcher, gateway)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
