package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"udyam/internal/pincode"
	"udyam/internal/platform/config"
	"udyam/internal/platform/database"
	"udyam/internal/platform/health"
	"udyam/internal/platform/httpserver"
	"udyam/internal/platform/kafka/producer"
	"udyam/internal/platform/logger"
	"udyam/internal/platform/metrics"
	redisclient "udyam/internal/platform/redis"
	"udyam/internal/platform/tracer"
	"udyam/internal/registration/handler"
	regmetrics "udyam/internal/registration/metrics"
	"udyam/internal/registration/service"
	"udyam/internal/registration/store"
	"udyam/internal/schema"
	"udyam/migrations"
	"udyam/pkg/platform/audit"
	"udyam/pkg/platform/audit/publisher"
	auditmemory "udyam/pkg/platform/audit/store/memory"
	auditpostgres "udyam/pkg/platform/audit/store/postgres"
	"udyam/pkg/platform/circuit"
)

const auditBufferSize = 256

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run wires dependencies from configuration and serves until SIGINT or SIGTERM.
// Optional backends (Postgres, Redis, Kafka) are used only when configured.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Server.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing udyam registration server",
		"addr", cfg.Server.Addr,
		"environment", cfg.Server.Environment,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	healthHandler := health.New(cfg.Server.Environment)

	loader := schema.EmbeddedLoader()
	if cfg.Schema.Path != "" {
		loader = schema.FileLoader(cfg.Schema.Path)
	}
	schemaStore, err := schema.NewStore(loader)
	if err != nil {
		return fmt.Errorf("load field schema: %w", err)
	}

	var (
		records    service.Store = store.NewInMemoryStore()
		auditStore audit.Store   = auditmemory.NewInMemoryStore()
	)
	pool, err := database.New(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if pool != nil {
		defer closeQuietly(log, "database", pool)
		if err := migrations.Apply(ctx, pool.DB()); err != nil {
			return err
		}
		records = store.NewPostgres(pool.DB())
		auditStore = auditpostgres.New(pool.DB())
		healthHandler.RegisterCheck("database", pool.Health)
		log.Info("using postgres record store", "driver", pool.Driver())
	}

	var cache pincode.Cache = pincode.NewInMemoryCache(cfg.Pincode.CacheTTL)
	rdb, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if rdb != nil {
		defer closeQuietly(log, "redis", rdb)
		cache = pincode.NewRedisCache(rdb.Client, cfg.Pincode.CacheTTL)
		healthHandler.RegisterCheck("redis", rdb.Health)
		log.Info("using redis pincode cache")
	}

	publisherOpts := []publisher.PublisherOption{
		publisher.WithAsyncBuffer(auditBufferSize),
		publisher.WithPublisherLogger(log),
	}
	if cfg.Kafka.Enabled() {
		prod, err := producer.New(producer.DefaultConfig(cfg.Kafka.Brokers), log)
		if err != nil {
			return fmt.Errorf("create kafka producer: %w", err)
		}
		defer closeQuietly(log, "kafka", prod)
		publisherOpts = append(publisherOpts, publisher.WithSink(producer.NewAuditSink(prod, cfg.Kafka.AuditTopic)))
		healthHandler.RegisterCheck("kafka", prod.Health)
		log.Info("publishing audit events to kafka", "topic", cfg.Kafka.AuditTopic)
	}
	auditor := publisher.NewPublisher(auditStore, publisherOpts...)
	// Runs before the backend closers so queued events still reach them.
	defer auditor.Close()

	registrations := service.New(records, schemaStore,
		service.WithAuditPublisher(auditor),
		service.WithMetrics(regmetrics.New(reg)),
		service.WithTracer(tracer.NewOTel("udyam/registration")),
		service.WithLogger(log),
		service.WithDemoOTP(cfg.DemoOTP),
	)
	lookups := pincode.NewService(
		pincode.NewGuardedProvider(
			pincode.NewHTTPProvider(cfg.Pincode.APIURL, cfg.Pincode.Timeout),
			circuit.New("postal-api"),
			log,
		),
		cache,
		pincode.NewMetrics(reg),
		log,
	)

	router := newRouter(
		routerConfig{FrontendURL: cfg.Server.FrontendURL, RequestTimeout: cfg.Server.RequestTimeout},
		log,
		metrics.New(reg),
		reg,
		healthHandler,
		schema.NewHandler(schemaStore, log),
		handler.New(registrations, log),
		pincode.NewHandler(lookups, log),
	)
	srv := httpserver.New(cfg.Server.Addr, router, cfg.Server.RequestTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if cfg.Schema.Watch {
		if cfg.Schema.Path == "" {
			log.Warn("SCHEMA_WATCH ignored: no SCHEMA_PATH configured")
		} else {
			watcher := schema.NewWatcher(schemaStore, cfg.Schema.Path, log)
			g.Go(func() error {
				return watcher.Run(gctx)
			})
		}
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

func closeQuietly(log *slog.Logger, name string, c io.Closer) {
	if err := c.Close(); err != nil {
		log.Warn("close failed", "resource", name, "error", err)
	}
}
