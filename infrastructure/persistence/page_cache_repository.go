package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmgomezsoriano/easy-tube/domain/model"
	"github.com/jmgomezsoriano/easy-tube/domain/repository"
	"github.com/jmgomezsoriano/easy-tube/infrastructure/logger"
)

// EnsurePageCacheSchema creates the page cache table if not exists
func EnsurePageCacheSchema(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS youtube_page_cache (
        cache_key TEXT PRIMARY KEY,
        data JSONB NOT NULL,
        expires_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create youtube_page_cache table: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_youtube_page_cache_expires_at ON youtube_page_cache(expires_at)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_youtube_page_cache_expires_at")
	}
	return nil
}

// PageCacheRepository stores list pages as JSONB rows.
type PageCacheRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewPageCacheRepository(db *sql.DB) repository.IPageCache {
	return &PageCacheRepository{db: db, now: time.Now}
}

func (r *PageCacheRepository) GetPage(ctx context.Context, key string) (*model.Page, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT data, expires_at FROM youtube_page_cache WHERE cache_key=$1`, key)
	var raw []byte
	var expiresAt time.Time
	if err := row.Scan(&raw, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if r.now().After(expiresAt) {
		return nil, false, nil
	}
	page, err := model.DecodePage(raw)
	if err != nil {
		return nil, false, err
	}
	return page, true, nil
}

func (r *PageCacheRepository) SetPage(ctx context.Context, key string, page *model.Page, ttl time.Duration) error {
	raw, err := json.Marshal(page)
	if err != nil {
		return err
	}
	now := r.now().UTC()
	q := `INSERT INTO youtube_page_cache(cache_key, data, expires_at, updated_at)
          VALUES ($1,$2,$3,$4)
          ON CONFLICT (cache_key) DO UPDATE SET data=EXCLUDED.data, expires_at=EXCLUDED.expires_at, updated_at=EXCLUDED.updated_at`
	_, err = r.db.ExecContext(ctx, q, key, raw, now.Add(ttl), now)
	return err
}

// PurgeExpired deletes expired rows and returns how many were removed.
func (r *PageCacheRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM youtube_page_cache WHERE expires_at < $1`, r.now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
