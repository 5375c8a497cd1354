package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/jmgomezsoriano/easy-tube/domain/repository"
	"github.com/jmgomezsoriano/easy-tube/infrastructure/auth"
	"github.com/jmgomezsoriano/easy-tube/infrastructure/cache"
	youtubeclient "github.com/jmgomezsoriano/easy-tube/infrastructure/clients/youtube"
	"github.com/jmgomezsoriano/easy-tube/infrastructure/configuration"
	"github.com/jmgomezsoriano/easy-tube/infrastructure/logger"
	"github.com/jmgomezsoriano/easy-tube/infrastructure/persistence"
	"github.com/jmgomezsoriano/easy-tube/infrastructure/utils"
	httpHandler "github.com/jmgomezsoriano/easy-tube/interfaces/http"
	"github.com/jmgomezsoriano/easy-tube/server"
	"github.com/jmgomezsoriano/easy-tube/usecase"
)

var httpServer *http.Server

// purger is implemented by the SQL page caches.
type purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	issueToken := pflag.String("issue-token", "", "print a bearer token for the given subject and exit")
	tokenTTL := pflag.Duration("token-ttl", 24*time.Hour, "lifetime of the token printed by --issue-token")
	pflag.Parse()

	if *issueToken != "" {
		if err := writeToken(os.Stdout, *issueToken, *tokenTTL, configuration.C.App.SecretKey); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	app := configuration.C.App
	ytConfig := configuration.C.YouTube

	healthChecks := map[string]httpHandler.HealthCheck{}

	var youtubeAuthHandler httpHandler.IYouTubeAuthHandler
	if ytConfig.OAuthEnabled() {
		oauthConfig, err := auth.LoadConfig(ytConfig.ClientSecretFile, ytConfig.RedirectURI)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Failed to load OAuth client secret - consent routes disabled")
		} else {
			youtubeAuthHandler = httpHandler.NewYouTubeAuthHandler(oauthConfig, ytConfig.TokenFile)
		}
	}

	var youtubeHandler httpHandler.IYouTubeHandler
	transport, err := InitiateTransport(ctx, ytConfig)
	var authErr *auth.AuthorizationRequiredError
	switch {
	case errors.As(err, &authErr):
		logger.GetLogger().WithField("url", authErr.URL).Warn("YouTube authorization required - visit the URL or /auth/youtube, then restart")
	case err != nil:
		logger.GetLogger().WithField("error", err).Warn("YouTube client not available - YouTube routes disabled")
	default:
		pageCache, check, err := InitiatePageCache(ctx, g, configuration.C)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Page cache not available - continuing without cache")
		}
		if pageCache != nil {
			ttl := time.Duration(configuration.C.Cache.TTLSeconds) * time.Second
			transport = youtubeclient.NewCachedTransport(transport, pageCache, ttl)
			healthChecks[configuration.C.Cache.Backend] = check
		}

		paginator := usecase.NewPaginator(transport)
		resolver := usecase.NewResolver(transport, paginator, usecase.ResolverConfig{
			PageSize:       ytConfig.PageSize,
			VideoBatchSize: ytConfig.VideoBatchSize,
			EagerUploads:   ytConfig.EagerUploads,
		})
		youtubeHandler = httpHandler.NewYouTubeHandler(usecase.NewYouTubeUseCase(resolver))
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"oauth":        ytConfig.OAuthEnabled(),
		"cache":        configuration.C.Cache.Backend,
		"youtubeRoute": youtubeHandler != nil,
		"consentRoute": youtubeAuthHandler != nil,
	}).Info("YouTube initialization summary")

	router := server.InitiateRouter(
		server.RouterConfig{SecretKey: app.SecretKey, AllowOrigins: app.AllowOrigins},
		httpHandler.NewHealthHandler(healthChecks),
		youtubeHandler,
		youtubeAuthHandler,
	)

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		if app.TLSEnabled && app.TLSCertFile != "" && app.TLSKeyFile != "" {
			logger.GetLogger().WithFields(map[string]interface{}{"cert": app.TLSCertFile, "key": app.TLSKeyFile}).Info("Serving HTTPS")
			if err := httpServer.ListenAndServeTLS(app.TLSCertFile, app.TLSKeyFile); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
		if app.TLSEnabled {
			logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server shutdown failed")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// writeToken prints a bearer token for subject, signed with secretKey.
func writeToken(w io.Writer, subject string, ttl time.Duration, secretKey string) error {
	if secretKey == "" {
		return errors.New("app.secretKey is not set")
	}
	token, err := utils.GenerateToken(subject, ttl, secretKey)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}
	_, err = fmt.Fprintln(w, token)
	return err
}

// InitiateTransport builds the YouTube transport. A client secret file selects OAuth mode,
// otherwise the API key is used.
func InitiateTransport(ctx context.Context, cfg configuration.YouTube) (repository.ITransport, error) {
	clientConfig := &youtubeclient.Config{APIKey: cfg.APIKey}
	if cfg.OAuthEnabled() {
		httpClient, err := auth.Authenticate(ctx, cfg.ClientSecretFile, cfg.TokenFile, cfg.RedirectURI)
		if err != nil {
			return nil, err
		}
		clientConfig.HTTPClient = httpClient
	}
	return youtubeclient.NewYouTubeClient(ctx, clientConfig)
}

// InitiatePageCache opens the configured page cache backend and returns it with a health check.
// SQL backends get a background purge of expired pages on g.
func InitiatePageCache(ctx context.Context, g *errgroup.Group, cfg configuration.Config) (repository.IPageCache, httpHandler.HealthCheck, error) {
	var (
		db        *sql.DB
		pageCache repository.IPageCache
		err       error
	)
	switch strings.ToLower(cfg.Cache.Backend) {
	case "", "none":
		return nil, nil, nil
	case "redis":
		rdb, err := cache.NewCache(ctx, cfg.RedisClient)
		if err != nil {
			return nil, nil, err
		}
		logger.GetLogger().Info("Redis page cache connected")
		return cache.NewPageCache(rdb), func(ctx context.Context) error { return rdb.Ping(ctx).Err() }, nil
	case "postgres":
		if db, err = persistence.NewPostgreSQLDB(cfg.Database.Psql); err != nil {
			return nil, nil, err
		}
		if err = persistence.EnsurePageCacheSchema(ctx, db); err != nil {
			return nil, nil, err
		}
		pageCache = persistence.NewPageCacheRepository(db)
	case "mssql":
		if db, err = persistence.NewMSSQLDB(cfg.Database.Mssql); err != nil {
			return nil, nil, err
		}
		if err = persistence.EnsurePageCacheSchemaMSSQL(ctx, db); err != nil {
			return nil, nil, err
		}
		pageCache = persistence.NewPageCacheRepositoryMSSQL(db)
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}

	logger.GetLogger().WithField("backend", cfg.Cache.Backend).Info("SQL page cache connected")
	if p, ok := pageCache.(purger); ok {
		interval := time.Duration(cfg.Cache.TTLSeconds) * time.Second
		if interval <= 0 {
			interval = time.Hour
		}
		g.Go(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return db.Close()
				case <-ticker.C:
					n, err := p.PurgeExpired(ctx)
					if err != nil {
						logger.GetLogger().WithField("error", err).Warn("Failed to purge expired pages")
						continue
					}
					logger.GetLogger().WithField("removed", n).Debug("Purged expired pages")
				}
			}
		})
	}
	return pageCache, db.PingContext, nil
}
