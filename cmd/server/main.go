package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsdesk/internal/activity"
	"newsdesk/internal/audit"
	"newsdesk/internal/content"
	"newsdesk/internal/content/models"
	"newsdesk/internal/content/service"
	"newsdesk/internal/content/store/inprogress"
	"newsdesk/internal/content/store/item"
	httpapi "newsdesk/internal/http"
	"newsdesk/internal/jwttoken"
	"newsdesk/internal/permissions"
	"newsdesk/internal/platform/config"
	"newsdesk/internal/platform/database"
	"newsdesk/internal/platform/health"
	"newsdesk/internal/platform/httpserver"
	"newsdesk/internal/platform/logger"
	"newsdesk/internal/platform/metrics"
	"newsdesk/internal/platform/middleware"
	"newsdesk/internal/platform/otel"
	"newsdesk/internal/platform/redis"
)

var version = "dev"

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	if err := run(); err != nil {
		slog.Error("newsdesk exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, "newsdesk", cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	m := metrics.New(version)
	checks := health.New(2 * time.Second)

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := item.Migrate(ctx, db); err != nil {
		return err
	}
	checks.Add("database", db.Health)

	ingest, err := item.NewSQL(db, models.Ingest)
	if err != nil {
		return err
	}
	archive, err := item.NewSQL(db, models.Archive)
	if err != nil {
		return err
	}

	opened, err := openedSetStore(ctx, cfg.Redis, checks)
	if err != nil {
		return err
	}
	if cfg.Database.Seed {
		if err := seed(ctx, db, ingest, archive, opened); err != nil {
			return err
		}
		log.Info("seeded demo content")
	}

	auditStore, closeAudit, err := auditStore(ctx, cfg.Kafka, checks)
	if err != nil {
		return err
	}
	defer closeAudit()
	publisher := audit.NewPublisher(audit.DefaultBuffer, log)
	workerCtx, stopWorker := context.WithCancel(context.WithoutCancel(ctx))
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		_ = audit.NewWorker(auditStore, publisher.Events(), log).Run(workerCtx)
	}()

	registry := permissions.NewRegistry()
	permissions.RegisterDefaults(registry)

	catalog := activity.NewCatalog()
	if err := activity.RegisterDefaults(catalog); err != nil {
		return err
	}

	var detailAuth []func(http.Handler) http.Handler
	if cfg.Auth.SigningKey != "" {
		validator := jwttoken.NewJWTServiceAdapter(
			jwttoken.NewJWTService(cfg.Auth.SigningKey, cfg.Auth.Issuer, cfg.Auth.Audience),
		)
		detailAuth = append(detailAuth, middleware.RequireAuth(validator, log))
	}

	contentModule := content.New(content.Deps{
		Ingest:           ingest,
		Archive:          archive,
		Opened:           opened,
		Catalog:          catalog,
		Auditor:          publisher,
		Logger:           log,
		Registerer:       m.Registerer(),
		FetchConcurrency: cfg.Content.FetchConcurrency,
		CriteriaTTL:      cfg.Content.CriteriaTTL,
		DetailMiddleware: detailAuth,
	})

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:         log,
		Metrics:        m,
		Health:         checks,
		Content:        contentModule,
		Permissions:    registry,
		Catalog:        catalog,
		RequestTimeout: cfg.Content.RequestTimeout,
	})

	log.Info("starting newsdesk", "version", version)
	srv := httpserver.New(cfg.Addr, cfg.HTTP, router)
	serveErr := httpserver.Serve(ctx, srv, cfg.HTTP, log)
	stopWorker()
	<-workerDone
	if serveErr != nil {
		return serveErr
	}
	log.Info("newsdesk stopped")
	return nil
}

type openedStore interface {
	service.OpenedSetStore
	openedSetWriter
}

func openedSetStore(ctx context.Context, cfg config.RedisConfig, checks *health.Checker) (openedStore, error) {
	client, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return inprogress.NewInMemory(), nil
	}
	checks.Add("redis", client.Health)
	return inprogress.NewRedis(client.Client), nil
}

func auditStore(ctx context.Context, cfg config.KafkaConfig, checks *health.Checker) (audit.Store, func(), error) {
	if len(cfg.Brokers) == 0 {
		return audit.NewMemoryStore(), func() {}, nil
	}
	store, err := audit.NewKafkaStore(ctx, cfg.Brokers, cfg.Topic)
	if err != nil {
		return nil, nil, err
	}
	checks.Add("kafka", store.Ping)
	return store, store.Close, nil
}
