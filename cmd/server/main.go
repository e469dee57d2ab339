package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/beaconlabs/pairlink/internal/config"
	httpHandler "github.com/beaconlabs/pairlink/internal/delivery/http"
	"github.com/beaconlabs/pairlink/internal/delivery/ws"
	"github.com/beaconlabs/pairlink/internal/middleware"
	"github.com/beaconlabs/pairlink/internal/usecase"
)

func main() {
	// Load .env file (ignore error if not exists, e.g. in production)
	_ = godotenv.Load()

	// Reload config after loading .env
	config.AppConfig = config.LoadFromEnv()
	cfg := config.AppConfig

	// Configuring Logging
	if cfg.LogLevel == "silent" || cfg.LogLevel == "off" {
		log.SetOutput(io.Discard)
	}

	// Initialize dependencies
	roomManager := ws.NewRoomManager(cfg.RoomTTL, cfg.RelayMessageLimit)
	pairingRegistry := usecase.NewPairingRegistry(cfg.PairTTL)
	handler := httpHandler.NewHandler(roomManager, pairingRegistry)

	// Setup routes
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	// Apply security headers middleware to all requests
	securedHandler := middleware.SecurityHeaders(mux)

	// Create server with timeouts
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      securedHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("pairlink relay running at http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	roomManager.Shutdown()
	pairingRegistry.Close()

	log.Println("Server exited gracefully")
}
