package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jmgomezsoriano/easy-tube/domain/model"
	"github.com/jmgomezsoriano/easy-tube/domain/repository"
)

// PageCache stores list pages in Redis as JSON.
type PageCache struct {
	rdb *redis.Client
}

func NewPageCache(rdb *redis.Client) repository.IPageCache {
	return &PageCache{rdb: rdb}
}

func (c *PageCache) GetPage(ctx context.Context, key string) (*model.Page, bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get page %s: %w", key, err)
	}
	page, err := model.DecodePage(data)
	if err != nil {
		return nil, false, err
	}
	return page, true, nil
}

func (c *PageCache) SetPage(ctx context.Context, key string, page *model.Page, ttl time.Duration) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to encode page: %w", err)
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set page %s: %w", key, err)
	}
	return nil
}
