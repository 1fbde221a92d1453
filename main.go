package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"catalog/internal/config"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"

	"github.com/rs/zerolog"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLog.Fatal().Err(err).Msg("Invalid configuration")
	}
	log := newLogger(cfg)

	ctx := context.Background()

	// --- Store ---
	// With STORE_FAIL_FAST unset an unreachable store is logged and the
	// service still starts; every store call then fails with a 500.
	repo, closeStore, err := openStore(ctx, cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to open product store")
	}
	defer closeStore()

	// --- Events ---
	var events services.EventPublisher
	if cfg.EventsEnabled() {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:   cfg.RabbitMQURL,
			Queue: cfg.RabbitMQQueue,
			Log:   &log,
		})
		if err != nil {
			log.Error().Err(err).Msg("RabbitMQ unavailable, product events disabled")
		} else {
			defer mqClient.Close()
			events = mqClient
			if cfg.RabbitMQConsume {
				if err := mqClient.Consume(rabbitmq.LogEvent(&log)); err != nil {
					log.Error().Err(err).Msg("Failed to start RabbitMQ consumer")
				}
			}
		}
	}

	// --- Service ---
	productService := services.NewProductService(repo, events, &log).WithStoreTimeout(cfg.StoreTimeout)
	if cfg.SeedProducts {
		seedProducts(ctx, productService, &log)
	}

	app := newApp(productService, &log)

	// --- Start HTTP Server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logRoutes(app, cfg.AppPort, &log)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Error during Fiber shutdown")
	}
	log.Info().Msg("Server gracefully stopped")
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if cfg.LogPretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Str("service", "catalog").Logger()
}
