package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/boabp/dashboard/internal/client/cli"
	"github.com/boabp/dashboard/internal/client/client"
	"github.com/boabp/dashboard/internal/client/config"
	"github.com/boabp/dashboard/internal/client/services"
	"github.com/boabp/dashboard/internal/client/session"
	"github.com/boabp/dashboard/internal/client/storage"
	"github.com/boabp/dashboard/internal/logging"
	"github.com/redis/go-redis/v9"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if s, ok := logger.(interface{ Sync() error }); ok {
		defer s.Sync()
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "dashboard stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	db, err := storage.OpenSQLiteFile(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
	}

	registry, err := buildRegistry(ctx, cfg, db, rdb, logger)
	if err != nil {
		return err
	}

	sessions := session.New(ctx, registry, session.WithLogger(logger))
	router := cli.NewRouter(logger)

	interceptor := client.NewAuthInterceptor(sessions, router,
		client.WithSignInRoute(cfg.SignInRoute),
		client.WithInterceptorLogger(logger),
	)
	api, err := client.NewHTTPClient(cfg.APIURL, &http.Client{Timeout: cfg.RequestTimeout}, interceptor.Intercept)
	if err != nil {
		return err
	}

	var authOpts []services.AuthOption
	if cfg.GRPCAddr != "" {
		grpcClient, err := client.NewGRPCClient(cfg.GRPCAddr, interceptor.UnaryClientInterceptor())
		if err != nil {
			return err
		}
		defer grpcClient.Close()
		authOpts = append(authOpts, services.WithHealthChecks(grpcClient))
	}

	auth := services.NewAuthService(api, sessions, router, cfg.SignInRoute, authOpts...)
	resources := services.NewResourceService(api, sessions)

	cli.NewApp(cfg, auth, resources, sessions, router, logger).Run(ctx)
	return nil
}

// buildRegistry configures every backend that can be reached so that a
// sign-out clears the token wherever an earlier run may have left it.
func buildRegistry(ctx context.Context, cfg *config.Config, db *sql.DB, rdb *redis.Client, logger logging.Logger) (*storage.Registry, error) {
	backends := map[storage.Kind]storage.Backend{
		storage.KindPersistent: storage.NewSQLiteBackend(db),
		storage.KindMemory:     storage.NewMemoryBackend(),
	}

	if rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			if cfg.Storage == storage.KindTab {
				return nil, err
			}
			logger.Warn(ctx, "redis unavailable, tab storage disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			tab := storage.NewRedisBackend(rdb, cfg.TabID, cfg.TabTTL)
			backends[storage.KindTab] = tab
			logger.Info(ctx, "tab storage ready", "tab_id", tab.TabID())
		}
	}

	return storage.NewRegistry(cfg.Storage, backends)
}
