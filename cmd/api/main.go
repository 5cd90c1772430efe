package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"AINutritionist/internal/config"
	"AINutritionist/internal/dashboard"
	"AINutritionist/internal/healthdata"
	"AINutritionist/internal/premservice"
	"AINutritionist/internal/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 5 seconds to finish the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")

	done <- true
}

func setupLogger(cfg config.Config) {
	zerolog.SetGlobalLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Fatal error: invalid configuration")
	}
	setupLogger(cfg)

	fetcher := healthdata.NewFetcher(healthdata.Config{
		URL:     cfg.HealthDataURL,
		Timeout: cfg.HTTPClientTimeout,
	}, log.Logger)

	prem := premservice.NewClient(premservice.Config{
		APIKey:    cfg.PremAPIKey,
		ProjectID: cfg.PremProjectID,
		BaseURL:   cfg.PremAPIURL,
		Model:     cfg.PremModel,
		Timeout:   cfg.HTTPClientTimeout,
	}, log.Logger)

	svc := dashboard.NewService(fetcher, prem, log.Logger)
	apiServer := server.NewServer(cfg, svc)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	go gracefulShutdown(apiServer, done)

	log.Info().Str("addr", apiServer.Addr).Msg("Starting AI Nutritionist")
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server error")
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info().Msg("Graceful shutdown complete.")
}
