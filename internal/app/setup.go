// Package app contains the application setup for the catalog service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/shoecatalog/internal/config"
	"github.com/abgdnv/shoecatalog/internal/service"
	"github.com/abgdnv/shoecatalog/internal/store"
	grpcImpl "github.com/abgdnv/shoecatalog/internal/transport/grpc"
	"github.com/abgdnv/shoecatalog/internal/transport/rest"
	"github.com/abgdnv/shoecatalog/pkg/bootstrap"
	pkgconfig "github.com/abgdnv/shoecatalog/pkg/config"
	"github.com/abgdnv/shoecatalog/pkg/messaging"
	"github.com/abgdnv/shoecatalog/pkg/metrics"
	pnats "github.com/abgdnv/shoecatalog/pkg/nats"
	"github.com/abgdnv/shoecatalog/pkg/resilience"
	"github.com/abgdnv/shoecatalog/pkg/server"
	"github.com/abgdnv/shoecatalog/pkg/web"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
)

const metricsNamespace = "catalog"

type Dependencies struct {
	Store          store.ProductStore
	CatalogService service.CatalogService
	Health         *grpcImpl.HealthReporter
	Registry       *prometheus.Registry
	Logger         *slog.Logger
}

// SetupDependencies wires the catalog service on top of the given store and publisher.
func SetupDependencies(st store.ProductStore, publisher messaging.Publisher, registry *prometheus.Registry, cfg *config.Config, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		Store:          st,
		CatalogService: service.NewService(st, publisher, logger),
		Health:         grpcImpl.NewHealthReporter(st, cfg.GRPC.HealthInterval, logger),
		Registry:       registry,
		Logger:         logger,
	}
}

// OpenStore connects the configured backend and wraps it with the circuit breaker when enabled.
// The returned function releases the backend connections.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.ProductStore, func(), error) {
	var (
		st      store.ProductStore
		closeFn = func() {}
	)
	switch cfg.Store.Driver {
	case pkgconfig.StoreDriverMemory:
		st = store.NewMemoryStore()
	case pkgconfig.StoreDriverMongo:
		client, err := bootstrap.NewMongoClient(ctx, cfg.Mongo.URI, cfg.Mongo.Timeout)
		if err != nil {
			return nil, nil, err
		}
		closeFn = func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error("Failed to disconnect from mongo", "error", err)
			}
		}
		mongoStore := store.NewMongoStore(client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		st = mongoStore
	case pkgconfig.StoreDriverPostgres:
		if cfg.Database.Migrate {
			if err := store.Migrate(cfg.Database.URL); err != nil {
				return nil, nil, err
			}
			logger.Info("Database migrations applied")
		}
		dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
		if err != nil {
			return nil, nil, err
		}
		closeFn = dbPool.Close
		st = store.NewPgStore(dbPool)
	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
	logger.Info("Catalog store ready", "driver", cfg.Store.Driver)

	if cfg.Resilience.CircuitBreaker.Enabled {
		cb := resilience.NewCircuitBreaker[any]("catalog-store", cfg.Resilience.CircuitBreaker, store.IsStoreSuccess, logger)
		st = store.NewBreakerStore(st, cb)
	}
	return st, closeFn, nil
}

// SetupPublisher connects to NATS JetStream when enabled, otherwise events are discarded.
// The returned function closes the connection.
func SetupPublisher(ctx context.Context, cfg pkgconfig.NATSConfig, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Enabled {
		logger.Info("NATS disabled, catalog events will not be published")
		return messaging.NoopPublisher{}, func() {}, nil
	}
	nc, err := pnats.NewClient(cfg.Url, cfg.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := pnats.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	if err := pnats.EnsureStream(ctx, js, cfg.Stream, messaging.CatalogSubjects); err != nil {
		nc.Close()
		return nil, nil, err
	}
	logger.Info("Publishing catalog events to NATS", "stream", cfg.Stream)
	return pnats.NewNatsPublisher(js), nc.Close, nil
}

// SetupHttpHandler initializes the router and routes of the catalog service.
// Used by tests to exercise the full HTTP stack.
func SetupHttpHandler(deps *Dependencies, apiCfg pkgconfig.APIConfig) http.Handler {
	httpMetrics := metrics.NewHTTPMetrics(deps.Registry, metricsNamespace)
	mux := server.NewChiRouter(deps.Logger,
		httpMetrics.Middleware,
		web.APIVersion(deps.Logger, apiCfg.DefaultVersion, apiCfg.SupportedVersions),
	)
	rest.NewHandler(deps.CatalogService, deps.Store, deps.Logger).RegisterRoutes(mux)
	mux.Handle("/metrics", metrics.Handler(deps.Registry))
	return mux
}

// SetupHttpServer creates and configures an instrumented HTTP server for the catalog service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	handler := otelhttp.NewHandler(SetupHttpHandler(deps, cfg.API), "catalog-http")

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, handler)
}

// SetupGrpcServer initializes the gRPC server with the health service.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	return server.NewGRPCServer(deps.Logger, reflectionEnabled, deps.Health.Register)
}
