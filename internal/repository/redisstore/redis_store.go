// Package redisstore keeps links in a single Redis hash.
package redisstore

import (
	"context"
	"fmt"

	"github.com/KretovDmitry/shortlinks/internal/errs"
	"github.com/KretovDmitry/shortlinks/internal/models"
	"github.com/redis/go-redis/v9"
)

// LinkRepository maps every short code to a field of one hash.
type LinkRepository struct {
	client *redis.Client
	key    string
}

// NewLinkRepository creates a repository storing links under the given key.
func NewLinkRepository(client *redis.Client, key string) (*LinkRepository, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: redis client", errs.ErrNilDependency)
	}
	if key == "" {
		return nil, fmt.Errorf("%w: empty redis key", errs.ErrInvalidRequest)
	}
	return &LinkRepository{client: client, key: key}, nil
}

// Load reads the whole hash.
func (r *LinkRepository) Load(ctx context.Context) (models.Links, error) {
	data, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall error: %w", err)
	}

	links := models.NewLinks()
	for code, url := range data {
		links[code] = url
	}

	return links, nil
}

// Save replaces the hash with the given links inside a MULTI/EXEC block.
func (r *LinkRepository) Save(ctx context.Context, links models.Links) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		if len(links) == 0 {
			return nil
		}

		values := make([]interface{}, 0, len(links)*2)
		for code, url := range links {
			values = append(values, code, url)
		}
		pipe.HSet(ctx, r.key, values...)

		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save error: %w", err)
	}

	return nil
}

// Ping checks the connection to the server.
func (r *LinkRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrDBNotConnected, err)
	}
	return nil
}

// Close closes the client.
func (r *LinkRepository) Close() error {
	return r.client.Close()
}
