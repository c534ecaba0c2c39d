package app

import (
	"context"
	"fmt"
	"time"

	"github.com/vibestream/vibestream/core/config"
	"github.com/vibestream/vibestream/core/library"
	logpkg "github.com/vibestream/vibestream/core/logger"
	"github.com/vibestream/vibestream/core/provider"
	"github.com/vibestream/vibestream/core/provider/plugins"
	"github.com/vibestream/vibestream/core/resolver"
	"github.com/vibestream/vibestream/core/server"
	"github.com/vibestream/vibestream/core/stream"
	"github.com/vibestream/vibestream/core/worker"
	"golang.org/x/sync/errgroup"
	gormlogger "gorm.io/gorm/logger"
)

// BuildInfo carries version details stamped in at link time.
type BuildInfo struct {
	RuntimeVer string
	BinVersion string
	CommitSHA  string
	BuildTime  string
	BuildArch  string
}

// App wires configuration, logging, storage, providers, resolution and
// the HTTP server together, and owns their lifecycles.
type App struct {
	cfg      *config.Config
	logger   *logpkg.Logger
	library  *library.Repository
	pool     *worker.Pool
	registry *provider.Registry
	resolver *resolver.Resolver
	streams  *stream.Service
	server   *server.Server

	shutdownTimeout time.Duration
}

// New loads configuration and constructs every component. Provider
// plugins registered via init are instantiated in the configured order.
func New(ctx context.Context, configPath string, info BuildInfo) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logpkg.New(cfg.GetString("LogLevel"), cfg.GetString("LogFormat"), cfg.GetBool("LogSource"))
	if err != nil {
		return nil, err
	}

	logger.Info("starting",
		"version", info.BinVersion,
		"commit", info.CommitSHA,
		"built", info.BuildTime,
		"runtime", info.RuntimeVer,
		"arch", info.BuildArch,
	)

	gormLog := logpkg.NewGormLogger(logger.Slog(), parseGormLevel(cfg.GetString("GormLogLevel")))
	repo, err := library.NewSQLiteRepository(cfg.GetString("Database"), gormLog)
	if err != nil {
		return nil, fmt.Errorf("open library database: %w", err)
	}
	if err := repo.ConfigurePool(
		cfg.GetInt("DBMaxOpenConns"),
		cfg.GetInt("DBMaxIdleConns"),
		time.Duration(cfg.GetInt("DBConnMaxLifetimeSec"))*time.Second,
	); err != nil {
		return nil, err
	}

	registry := provider.NewRegistry(logger)
	if err := loadProviders(cfg, logger, registry); err != nil {
		return nil, err
	}

	res := resolver.New(registry, resolver.Options{
		FallbackProvider:   cfg.GetString("FallbackProvider"),
		LastResortProvider: cfg.GetString("LastResortProvider"),
		SearchLimit:        cfg.GetInt("FallbackSearchLimit"),
	}, logger)

	streams := stream.NewService(stream.Options{
		Timeout:  time.Duration(cfg.GetInt("RequestTimeoutSec")) * time.Second,
		BufferKB: cfg.GetInt("StreamBufferKB"),
	}, logger)

	srv := server.New(server.Options{
		Addr:               cfg.GetString("ListenAddr"),
		DeliveryMode:       cfg.GetString("AudioDeliveryMode"),
		SearchLimit:        cfg.GetInt("SearchLimit"),
		PrimaryProvider:    cfg.GetString("PrimaryProvider"),
		RateLimitPerSecond: cfg.GetFloat64("RateLimitPerSecond"),
		RateLimitBurst:     cfg.GetInt("RateLimitBurst"),
	}, registry, streams, logger)

	return &App{
		cfg:             cfg,
		logger:          logger,
		library:         repo,
		pool:            worker.New(cfg.GetInt("WorkerPoolSize")),
		registry:        registry,
		resolver:        res,
		streams:         streams,
		server:          srv,
		shutdownTimeout: time.Duration(cfg.GetInt("ShutdownTimeoutSec")) * time.Second,
	}, nil
}

// loadProviders instantiates registered provider factories in the order
// given by ProviderOrder. A provider can be disabled with enable=false in
// its config section; an unknown name in the order is an error.
func loadProviders(cfg *config.Config, logger *logpkg.Logger, registry *provider.Registry) error {
	order := cfg.GetStringSlice("ProviderOrder")
	if len(order) == 0 {
		order = plugins.Names()
	}

	for _, name := range order {
		factory, ok := plugins.Get(name)
		if !ok {
			return fmt.Errorf("provider %s not registered", name)
		}

		if pcfg, ok := cfg.GetProviderConfig(name); ok {
			if _, set := pcfg["enable"]; set && !cfg.GetProviderBool(name, "enable") {
				logger.Info("provider disabled", "provider", name)
				continue
			}
		}

		contribution, err := factory(cfg, logger)
		if err != nil {
			return fmt.Errorf("initialize provider %s: %w", name, err)
		}
		if contribution == nil {
			continue
		}
		if contribution.Provider != nil {
			registry.Register(contribution.Provider)
		}
		for _, p := range contribution.Providers {
			registry.Register(p)
		}
		logger.Info("provider registered", "provider", name)
	}

	if len(registry.Names()) == 0 {
		return fmt.Errorf("no providers enabled")
	}
	return nil
}

// Resolver exposes the resolution pipeline for embedding callers.
func (a *App) Resolver() *resolver.Resolver { return a.resolver }

// Library exposes the local library repository.
func (a *App) Library() *library.Repository { return a.library }

// Pool exposes the shared worker pool.
func (a *App) Pool() *worker.Pool { return a.pool }

// Start probes provider connectivity and begins serving HTTP. Probe
// failures are logged, not fatal; the fallback chain covers a provider
// that comes back later.
func (a *App) Start(ctx context.Context) error {
	probeTimeout := time.Duration(a.cfg.GetInt("ConnectivityProbeTimeoutSec")) * time.Second
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	g, probeCtx := errgroup.WithContext(probeCtx)
	for _, name := range a.registry.Names() {
		p := a.registry.Get(name)
		if p == nil {
			continue
		}
		g.Go(func() error {
			if !p.TestConnectivity(probeCtx) {
				a.logger.Warn("provider unreachable at startup", "provider", p.Name())
			}
			return nil
		})
	}
	_ = g.Wait()

	return a.server.Start(ctx)
}

// Shutdown stops the server, drains the worker pool and closes the log.
func (a *App) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(ctx)
	if perr := a.pool.Shutdown(ctx); err == nil {
		err = perr
	}
	a.logger.Info("shutdown complete")
	_ = a.logger.Close()
	return err
}

func parseGormLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	case "warn":
		fallthrough
	default:
		return gormlogger.Warn
	}
}
