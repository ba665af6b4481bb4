// cmd/api/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/kbeauty-storefront/internal/config"
	"github.com/your-org/kbeauty-storefront/internal/domain/analytics"
	"github.com/your-org/kbeauty-storefront/internal/domain/order"
	"github.com/your-org/kbeauty-storefront/internal/domain/visitor"
	"github.com/your-org/kbeauty-storefront/internal/infrastructure/backend"
	"github.com/your-org/kbeauty-storefront/internal/infrastructure/database/mongo"
	"github.com/your-org/kbeauty-storefront/internal/infrastructure/database/postgres"
	"github.com/your-org/kbeauty-storefront/internal/infrastructure/database/redis"
	"github.com/your-org/kbeauty-storefront/internal/interfaces/http"
	"github.com/your-org/kbeauty-storefront/internal/interfaces/http/routes"
	"github.com/your-org/kbeauty-storefront/internal/pkg/logger"
	"github.com/your-org/kbeauty-storefront/internal/pkg/pdf"
	"github.com/your-org/kbeauty-storefront/internal/pkg/storage"
)

// persistence is the storage driver selected by configuration together with
// what the server needs from the underlying connection
type persistence struct {
	store   storage.Storage
	limiter goredis.Cmdable
	checks  map[string]http.HealthChecker
	close   func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg)
	log.Infof("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	p, err := openStorage(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to open visitor storage")
	}
	defer func() {
		if err := p.close(); err != nil {
			log.WithError(err).Warn("Failed to close visitor storage")
		}
	}()

	client := backend.NewClient(cfg.Backend, log)

	registry := visitor.NewRegistry(p.store, client, visitor.Options{
		SearchDebounce:   cfg.Storefront.SearchDebounce,
		PopularSearches:  cfg.Storefront.PopularSearches,
		StatusPollPeriod: cfg.Storefront.StatusPollPeriod,
		IdleTTL:          cfg.Storage.VisitorTTL,
	}, log)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go registry.Run(ctx)

	server := http.NewServer(cfg, routes.Dependencies{
		Config:    cfg,
		Visitors:  registry,
		Catalog:   client,
		Orders:    order.NewService(client, log),
		Analytics: analytics.NewService(client, log),
		Receipts:  pdf.NewService(cfg.Receipt),
		Logger:    log,
	}, p.limiter, p.checks, log)

	log.WithFields(logrus.Fields{
		"storage": cfg.Storage.Driver,
		"backend": cfg.Backend.BaseURL,
	}).Info("✅ All systems operational!")

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("👋 Shutting down gracefully...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	log.Info("✅ Server shutdown completed")
}

func openStorage(cfg *config.Config, log *logrus.Logger) (*persistence, error) {
	switch cfg.Storage.Driver {
	case config.StorageRedis:
		rdb, err := redis.NewConnection(cfg, log)
		if err != nil {
			return nil, err
		}
		return &persistence{
			store:   redis.NewStore(rdb.Redis, "kbeauty:", cfg.Storage.TTL),
			limiter: rdb.Redis,
			checks:  map[string]http.HealthChecker{"redis": rdb},
			close:   rdb.Close,
		}, nil

	case config.StoragePostgres:
		db, err := postgres.NewConnection(cfg, log)
		if err != nil {
			return nil, err
		}
		migration := postgres.NewMigration(db.GetDB(), log)
		if err := migration.RunAutoMigrations(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("database migration failed: %w", err)
		}
		if err := migration.CreateIndexes(); err != nil {
			log.WithError(err).Warn("Index creation failed")
		}
		return &persistence{
			store:  postgres.NewStore(db.GetDB(), cfg.Storage.TTL),
			checks: map[string]http.HealthChecker{"database": db},
			close:  db.Close,
		}, nil

	case config.StorageMongo:
		client, err := mongo.NewConnection(cfg, log)
		if err != nil {
			return nil, err
		}
		return &persistence{
			store:  mongo.NewStore(client.Collection(), cfg.Storage.TTL),
			checks: map[string]http.HealthChecker{"mongo": client},
			close:  client.Close,
		}, nil

	default:
		log.Warn("Using in-memory visitor storage, state is lost on restart")
		return &persistence{
			store:  storage.NewMemory(),
			checks: map[string]http.HealthChecker{},
			close:  func() error { return nil },
		}, nil
	}
}
