package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jmgomezsoriano/easy-tube/infrastructure/configuration"
	"github.com/jmgomezsoriano/easy-tube/infrastructure/logger"
)

// NewCache connects to Redis using cfg.URL when set, otherwise host, port and credentials.
func NewCache(ctx context.Context, cfg configuration.RedisClient) (*redis.Client, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
		opts = parsed
	} else {
		db := 0
		if cfg.DatabaseName != "" {
			n, err := strconv.Atoi(cfg.DatabaseName)
			if err != nil {
				return nil, fmt.Errorf("redis database must be a number, got %q", cfg.DatabaseName)
			}
			db = n
		}
		opts = &redis.Options{
			Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       db,
		}
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}
	logger.GetLogger().WithField("addr", opts.Addr).Info("Connected to redis")
	return rdb, nil
}
