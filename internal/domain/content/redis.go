package content

import (
	"context"
	"fmt"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/infrastructure/config"
	"github.com/webtop-os/webtop/internal/infrastructure/logging"
)

// Backend holds the redis connection serving the content buckets. In
// embedded mode an in-process miniredis instance backs the client, so the
// server runs with no external services.
type Backend struct {
	Client *redis.Client
	mini   *miniredis.Miniredis
}

// NewBackend connects per config, starting an embedded server when asked
func NewBackend(cfg config.RedisConfig, log *logging.Logger) (*Backend, error) {
	addr := cfg.Addr
	var mini *miniredis.Miniredis

	if cfg.Embedded {
		m, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("start embedded redis: %w", err)
		}
		mini = m
		addr = m.Addr()
		log.Info("embedded redis started", zap.String("addr", addr))
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if mini != nil {
			mini.Close()
		}
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return &Backend{Client: client, mini: mini}, nil
}

// Embedded reports whether an in-process server backs the client
func (b *Backend) Embedded() bool {
	return b.mini != nil
}

// Close releases the client and stops the embedded server if one runs
func (b *Backend) Close() error {
	err := b.Client.Close()
	if b.mini != nil {
		b.mini.Close()
	}
	return err
}
