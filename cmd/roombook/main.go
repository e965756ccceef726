package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vbonduro/roombook/internal/config"
	"github.com/vbonduro/roombook/internal/db"
	"github.com/vbonduro/roombook/internal/logging"
	"github.com/vbonduro/roombook/internal/query"
	"github.com/vbonduro/roombook/internal/service"
	"github.com/vbonduro/roombook/internal/store"
	"github.com/vbonduro/roombook/internal/web"
	"github.com/vbonduro/roombook/internal/web/templates"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	dialect, err := db.ParseDialect(cfg.DBDriver)
	if err != nil {
		logger.Error("unsupported database driver", "driver", cfg.DBDriver, "error", err)
		return
	}
	database, err := db.Open(dialect, cfg.DSN())
	if err != nil {
		logger.Error("failed to open database", "driver", dialect, "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	roomStore := store.NewRoomStore(database, dialect)
	roomService := service.NewRoomService(roomStore, cfg.QueryTimeout, logging.Component(logger, "service"))

	backend, err := newQueryBackend(cfg, logging.Component(logger, "query"))
	if err != nil {
		logger.Error("failed to initialize query cache", "backend", cfg.CacheBackend, "error", err)
		return
	}
	queries := query.NewClient(backend, logging.Component(logger, "query"))
	defer func() {
		if err := queries.Close(); err != nil {
			logger.Error("failed to close query client", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := web.NewServer(roomService, queries, templates.FS, logging.Component(logger, "web"))
	if err := server.ListenAndServe(ctx, cfg.ListenAddr, cfg.ShutdownTimeout); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newQueryBackend(cfg *config.Config, logger *slog.Logger) (query.Backend, error) {
	switch cfg.CacheBackend {
	case "redis":
		backend, err := query.NewRedisBackend(query.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		}, logger)
		if err != nil {
			return nil, err
		}
		// An unreachable Redis degrades to uncached fetches, so only warn.
		if err := backend.Ping(context.Background()); err != nil {
			logger.Warn("redis not reachable at startup", "addr", cfg.RedisAddr, "error", err)
		}
		logger.Info("using redis query cache", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
		return backend, nil
	default:
		memCfg := query.DefaultMemoryConfig()
		memCfg.Capacity = cfg.CacheCapacity
		memCfg.TTL = cfg.CacheTTL
		logger.Info("using in-memory query cache", "capacity", memCfg.Capacity, "ttl", memCfg.TTL)
		return query.NewMemoryBackend(memCfg)
	}
}
