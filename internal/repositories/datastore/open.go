package datastore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alpha-aviation/enrollment-service/internal/config"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
	"github.com/alpha-aviation/enrollment-service/internal/repositories/fixture"
	"github.com/alpha-aviation/enrollment-service/internal/repositories/mongodb"
	"github.com/alpha-aviation/enrollment-service/internal/repositories/postgres"
	"github.com/alpha-aviation/enrollment-service/pkg"
)

// Connector dials a live store. It must respect ctx's deadline.
type Connector func(ctx context.Context, cfg *config.Config) (repositories.DataStore, error)

// Open picks the store for the lifetime of the process: the configured live store
// when it answers within STORE_CONNECT_TIMEOUT, the fixture store otherwise.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) repositories.DataStore {
	return OpenWith(ctx, cfg, logger, ConnectLive)
}

func OpenWith(ctx context.Context, cfg *config.Config, logger *slog.Logger, connect Connector) repositories.DataStore {
	if cfg.Store.ForceMock {
		logger.Warn("FORCE_MOCK_DATA set, using fixture store")
		return fixture.New()
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Store.ConnectTimeout)
	defer cancel()

	store, err := connect(connectCtx, cfg)
	if err != nil {
		logger.Warn("Live store unavailable, falling back to fixture store",
			"driver", cfg.Store.Driver,
			"timeout", cfg.Store.ConnectTimeout,
			"error", err)
		return fixture.New()
	}

	logger.Info("Connected to live store", "driver", cfg.Store.Driver)
	return store
}

// ConnectLive dials the driver named by STORE_DRIVER and prepares its schema.
func ConnectLive(ctx context.Context, cfg *config.Config) (repositories.DataStore, error) {
	switch cfg.Store.Driver {
	case "postgres":
		db, err := pkg.InitDatabase(ctx, cfg)
		if err != nil {
			return nil, err
		}
		repo := postgres.NewPostgreSQLRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			repo.Close()
			return nil, err
		}
		return repo, nil
	case "mongo":
		client, err := pkg.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		repo := mongodb.NewMongoRepository(client, cfg.Store.MongoDatabase)
		if err := repo.EnsureIndexes(ctx); err != nil {
			repo.Close()
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
