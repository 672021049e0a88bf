package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/auth"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/config"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/database"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/events"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/logging"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/scheduler"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := logging.New(config.LogConfig{})
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logging.New(cfg.Log)

	// Open database connection
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db, log); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	log.Info().Str("driver", cfg.Database.Driver).Msg("connected to database")

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing events to kafka")
	}
	defer publisher.Close()

	if cfg.Auth.FernetKey == "" {
		log.Warn().Msg("AUTH_FERNET_KEY not set, tokens will not survive a restart")
	}
	issuer, err := auth.NewTokenIssuer(cfg.Auth.FernetKey, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token issuer")
	}

	// Create services
	services := service.New(db, issuer, publisher, log)

	var sched *scheduler.Scheduler
	if cfg.Maintenance.Schedule != "" {
		sched, err = scheduler.New(cfg.Maintenance.Schedule, services.Maintenance, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create scheduler")
		}
		sched.Start()
	}

	// Create router
	router := api.NewRouter(services, issuer, log, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if sched != nil {
		sched.Stop(ctx)
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server exited")
}
