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

// EnsurePageCacheSchemaMSSQL creates the page cache table on MSSQL if not exists
func EnsurePageCacheSchemaMSSQL(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db is nil")
	}
	ddl := `IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.youtube_page_cache') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.youtube_page_cache (
        cache_key NVARCHAR(128) NOT NULL PRIMARY KEY,
        data NVARCHAR(MAX) NOT NULL,
        expires_at DATETIMEOFFSET NOT NULL,
        updated_at DATETIMEOFFSET NOT NULL
    );
END`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create youtube_page_cache table (mssql): %w", err)
	}
	if _, err := db.ExecContext(ctx, `IF NOT EXISTS (SELECT * FROM sys.indexes WHERE name = 'idx_youtube_page_cache_expires_at' AND object_id = OBJECT_ID('dbo.youtube_page_cache'))
CREATE INDEX idx_youtube_page_cache_expires_at ON dbo.youtube_page_cache(expires_at)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_youtube_page_cache_expires_at")
	}
	return nil
}

// PageCacheRepositoryMSSQL stores list pages as JSON text on SQL Server.
type PageCacheRepositoryMSSQL struct {
	db  *sql.DB
	now func() time.Time
}

func NewPageCacheRepositoryMSSQL(db *sql.DB) repository.IPageCache {
	return &PageCacheRepositoryMSSQL{db: db, now: time.Now}
}

func (r *PageCacheRepositoryMSSQL) GetPage(ctx context.Context, key string) (*model.Page, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT data, expires_at FROM dbo.youtube_page_cache WHERE cache_key=@p1`, key)
	var raw string
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
	page, err := model.DecodePage([]byte(raw))
	if err != nil {
		return nil, false, err
	}
	return page, true, nil
}

func (r *PageCacheRepositoryMSSQL) SetPage(ctx context.Context, key string, page *model.Page, ttl time.Duration) error {
	raw, err := json.Marshal(page)
	if err != nil {
		return err
	}
	now := r.now().UTC()
	q := `MERGE dbo.youtube_page_cache AS target
USING (SELECT @p1 AS cache_key) AS source
ON target.cache_key = source.cache_key
WHEN MATCHED THEN UPDATE SET data=@p2, expires_at=@p3, updated_at=@p4
WHEN NOT MATCHED THEN INSERT (cache_key, data, expires_at, updated_at) VALUES (@p1, @p2, @p3, @p4);`
	_, err = r.db.ExecContext(ctx, q, key, string(raw), now.Add(ttl), now)
	return err
}

func (r *PageCacheRepositoryMSSQL) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dbo.youtube_page_cache WHERE expires_at < @p1`, r.now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
