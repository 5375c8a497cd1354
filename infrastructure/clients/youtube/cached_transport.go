package youtube

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/jmgomezsoriano/easy-tube/domain/model"
	"github.com/jmgomezsoriano/easy-tube/domain/repository"
	"github.com/jmgomezsoriano/easy-tube/infrastructure/logger"
)

// CachedTransport serves list pages from a page cache, falling back to the wrapped transport.
// Cache failures are logged and bypassed; transport errors are returned unchanged and never cached.
type CachedTransport struct {
	next  repository.ITransport
	cache repository.IPageCache
	ttl   time.Duration
}

func NewCachedTransport(next repository.ITransport, cache repository.IPageCache, ttl time.Duration) repository.ITransport {
	return &CachedTransport{next: next, cache: cache, ttl: ttl}
}

// PageKey is the cache key of one list request.
func PageKey(req model.ListRequest) string {
	joined := strings.Join([]string{
		string(req.Collection),
		req.Filter.String(),
		fmt.Sprint(req.PageSize),
		req.Cursor,
	}, "|")
	hash := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("yt:page:%x", hash)
}

func (t *CachedTransport) List(ctx context.Context, req model.ListRequest) (*model.Page, error) {
	key := PageKey(req)
	log := logger.GetLogger().WithField("query", req.Query.String()).WithField("cursor", req.Cursor)

	page, ok, err := t.cache.GetPage(ctx, key)
	switch {
	case err != nil:
		log.WithError(err).Warn("Page cache read failed, fetching from API")
	case ok:
		log.Debug("Page cache hit")
		return page, nil
	}

	page, err = t.next.List(ctx, req)
	if err != nil {
		return nil, err
	}
	if page == nil {
		page = &model.Page{}
	}
	if err := t.cache.SetPage(ctx, key, page, t.ttl); err != nil {
		log.WithError(err).Warn("Page cache write failed")
	}
	return page, nil
}

// Get goes through List so single lookups share the page cache.
func (t *CachedTransport) Get(ctx context.Context, collection model.Collection, id string) (model.RawRecord, error) {
	page, err := t.List(ctx, model.ListRequest{Query: model.Query{Collection: collection, Filter: model.ByIDs(id)}, PageSize: 1})
	if err != nil || len(page.Items) == 0 {
		return nil, err
	}
	return page.Items[0], nil
}
