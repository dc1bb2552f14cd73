// Package repository provides the interfaces of storage.
package repository

import (
	"context"
	"fmt"

	"github.com/KretovDmitry/shortlinks/internal/config"
	"github.com/KretovDmitry/shortlinks/internal/errs"
	"github.com/KretovDmitry/shortlinks/internal/logger"
	"github.com/KretovDmitry/shortlinks/internal/models"
	"github.com/KretovDmitry/shortlinks/internal/repository/filestore"
	"github.com/KretovDmitry/shortlinks/internal/repository/memstore"
	"github.com/KretovDmitry/shortlinks/internal/repository/postgres"
	"github.com/KretovDmitry/shortlinks/internal/repository/redisstore"
	"github.com/KretovDmitry/shortlinks/internal/repository/sqlitestore"
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=storage.go -destination=mocks/mock_storage.go -package=mocks

// Interface of the link storage. Every implementation loads and saves
// the complete mapping, there are no per-link operations.
type LinkStorage interface {
	// Load returns all stored links. The map is never nil on success.
	Load(ctx context.Context) (models.Links, error)

	// Save replaces all stored links with the given ones.
	Save(ctx context.Context, links models.Links) error

	// Ping checks the health of the storage.
	Ping(ctx context.Context) error
}

// Interface implementation guards.
var (
	_ LinkStorage = (*filestore.LinkRepository)(nil)
	_ LinkStorage = (*memstore.LinkRepository)(nil)
	_ LinkStorage = (*postgres.LinkRepository)(nil)
	_ LinkStorage = (*redisstore.LinkRepository)(nil)
	_ LinkStorage = (*sqlitestore.LinkRepository)(nil)
)

// NewLinkStorage returns one of the LinkStorage implementations based on
// the configuration. Could be postgres, sqlite, redis, file storage or in memory.
func NewLinkStorage(ctx context.Context, config *config.Config, logger logger.Logger) (LinkStorage, error) {
	// Check for dependencies that can lead to panic.
	if config == nil {
		return nil, fmt.Errorf("%w: config", errs.ErrNilDependency)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger", errs.ErrNilDependency)
	}

	switch {
	case config.DSN != "":
		store, err := postgres.Open(ctx, config.DSN, logger)
		if err != nil {
			return nil, fmt.Errorf("new postgres repository: %w", err)
		}
		logger.Info("postgres link storage initialized")
		return store, nil

	case config.SQLitePath != "":
		store, err := sqlitestore.Open(config.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("new sqlite repository: %w", err)
		}
		logger.Infof("sqlite link storage initialized at: %q", config.SQLitePath)
		return store, nil

	case config.Redis.Address != "":
		client := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Address,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		store, err := redisstore.NewLinkRepository(client, config.Redis.Key)
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("new redis repository: %w", err)
		}
		if err = store.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Infof("redis link storage initialized at: %q, key %q",
			config.Redis.Address, config.Redis.Key)
		return store, nil

	case config.FileStoragePath != "":
		store, err := filestore.NewLinkRepository(config.FileStoragePath, logger)
		if err != nil {
			return nil, fmt.Errorf("new file repository: %w", err)
		}
		logger.Infof("file storage initialized at: %q", config.FileStoragePath)
		return store, nil

	default:
		logger.Info("file storage path isn't set, using in memory storage")
		return memstore.NewLinkRepository(), nil
	}
}
