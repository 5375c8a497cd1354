package persistence

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/jmgomezsoriano/easy-tube/infrastructure/configuration"
)

// MSSQLDSN builds the sqlserver:// URL for cfg. Loopback hosts trust the server certificate.
func MSSQLDSN(cfg configuration.Db) string {
	q := url.Values{}
	if cfg.Name != "" {
		q.Set("database", cfg.Name)
	}
	q.Set("app name", "easy-tube")
	q.Set("connection timeout", "15")
	q.Set("encrypt", "true")
	if cfg.Host == "localhost" || cfg.Host == "127.0.0.1" {
		q.Set("TrustServerCertificate", "true")
	}

	u := &url.URL{Scheme: "sqlserver", Host: fmt.Sprintf("%s:%s", cfg.Host, cfg.Port), RawQuery: q.Encode()}
	switch {
	case cfg.User != "" && cfg.Password != "":
		u.User = url.UserPassword(cfg.User, cfg.Password)
	case cfg.User != "":
		u.User = url.User(cfg.User)
	}
	return u.String()
}

// NewMSSQLDB opens and pings a SQL Server or Azure SQL database through go-mssqldb.
func NewMSSQLDB(cfg configuration.Db) (*sql.DB, error) {
	db, err := sql.Open("sqlserver", MSSQLDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlserver: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(time.Minute)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlserver at %s:%s: %w", cfg.Host, cfg.Port, err)
	}
	return db, nil
}
