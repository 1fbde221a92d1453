package main

import (
	"context"
	"fmt"

	"catalog/internal/config"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/rs/zerolog"
)

// openStore builds the product repository for cfg.StoreDriver and returns a
// function that releases it.
//
// When the store cannot be reached and cfg.StoreFailFast is false, the error
// is logged and a repository is returned anyway: the SQL drivers get an
// UnavailableProductRepository, and the mongo driver keeps its client since
// it reconnects on its own.
func openStore(ctx context.Context, cfg config.Config, log *zerolog.Logger) (repositories.ProductRepository, func(), error) {
	noop := func() {}

	// The memory store has nothing to connect to or release.

	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Info().Msg("Using in-memory product store")
		return repositories.NewMemoryProductRepository(), noop, nil

	case config.DriverPostgres, config.DriverSQLite:
		db, err := repositories.OpenGORM(cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			if cfg.StoreFailFast {
				return nil, noop, err
			}
			// Keep serving; every product call answers 500 until restart.
			log.Error().Err(err).Str("driver", cfg.StoreDriver).Msg("Database connection error")
			return repositories.NewUnavailableProductRepository(cfg.StoreDriver, err), noop, nil
		}
		log.Info().Str("driver", cfg.StoreDriver).Msg("Database connected successfully!")
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		return repositories.NewGORMProductRepository(db), closeDB, nil

	case config.DriverMongo:
		client, err := repositories.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			if cfg.StoreFailFast {
				return nil, noop, err
			}
			// Only a malformed URI fails here; the client does not dial yet.
			log.Error().Err(err).Msg("MongoDB connection error")
			return repositories.NewUnavailableProductRepository(cfg.StoreDriver, err), noop, nil
		}
		disconnect := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("Error disconnecting from MongoDB")
			}
		}
		repo := repositories.NewMongoProductRepository(client, cfg.MongoDatabase, cfg.MongoCollection)

		// Ping once so a dead server shows up in the startup log.
		timeout := cfg.StoreTimeout
		if timeout <= 0 {
			timeout = services.DefaultStoreTimeout
		}
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := repo.Ping(pingCtx); err != nil {
			if cfg.StoreFailFast {
				disconnect()
				return nil, noop, fmt.Errorf("failed to reach mongo: %w", err)
			}
			// The driver reconnects lazily, so the repository stays usable.
			log.Error().Err(err).Msg("MongoDB connection error")
		} else {
			log.Info().Msg("MongoDB connected successfully!")
		}
		return repo, disconnect, nil
	}

	return nil, noop, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
