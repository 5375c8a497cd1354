package repository

import (
	"context"
	"time"

	"github.com/jmgomezsoriano/easy-tube/domain/model"
)

// IPageCache stores list pages by request key.
type IPageCache interface {
	// GetPage returns the cached page and true, or false on a miss or an expired entry.
	GetPage(ctx context.Context, key string) (*model.Page, bool, error)
	// SetPage stores page under key for ttl.
	SetPage(ctx context.Context, key string, page *model.Page, ttl time.Duration) error
}
