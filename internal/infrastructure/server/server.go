package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	api "github.com/webtop-os/webtop/internal/api/http"
	"github.com/webtop-os/webtop/internal/api/middleware"
	"github.com/webtop-os/webtop/internal/api/ws"
	"github.com/webtop-os/webtop/internal/domain/content"
	"github.com/webtop-os/webtop/internal/domain/instance"
	"github.com/webtop-os/webtop/internal/domain/registry"
	"github.com/webtop-os/webtop/internal/domain/session"
	"github.com/webtop-os/webtop/internal/domain/vfs"
	"github.com/webtop-os/webtop/internal/domain/workspace"
	"github.com/webtop-os/webtop/internal/infrastructure/config"
	"github.com/webtop-os/webtop/internal/infrastructure/events"
	"github.com/webtop-os/webtop/internal/infrastructure/logging"
	"github.com/webtop-os/webtop/internal/infrastructure/monitoring"
	"github.com/webtop-os/webtop/internal/infrastructure/persist"
	"github.com/webtop-os/webtop/internal/infrastructure/tracing"
)

// Server wires the desktop managers behind one HTTP surface.
type Server struct {
	router    *gin.Engine
	http      *http.Server
	fs        *vfs.Manager
	instances *instance.Manager
	sessions  *session.Manager
	backend   *content.Backend
	logger    *logging.Logger
	config    *config.Config
	metrics   *monitoring.Metrics
}

// New assembles a server from configuration. Everything the desktop needs
// runs in this process: in embedded mode even the content store's redis is
// started here.
func New(cfg *config.Config) (*Server, error) {
	// Initialize logger
	logCfg := logging.DefaultConfig()
	if cfg.Logging.Development {
		logCfg = logging.DevelopmentConfig()
	}
	if cfg.Logging.Level != "" {
		logCfg.Level = cfg.Logging.Level
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	logger.Info("Initializing webtop server",
		zap.String("port", cfg.Server.Port),
		zap.String("state_dir", cfg.Storage.StateDir),
		zap.Bool("embedded_redis", cfg.Redis.Embedded),
	)

	// Initialize metrics first (needed by most components)
	metrics := monitoring.NewMetrics()

	// Initialize request tracing
	tracer := tracing.New("webtop", logger.Logger)

	// Event bus feeding the WebSocket stream
	bus := events.New()

	// On-disk state for filesystem metadata and window instances
	persistStore, err := persist.NewStore(cfg.Storage.StateDir, logger)
	if err != nil {
		return nil, fmt.Errorf("open state dir: %w", err)
	}

	// Content store: redis-backed buckets holding every file payload
	backend, err := content.NewBackend(cfg.Redis, logger)
	if err != nil {
		return nil, fmt.Errorf("content backend: %w", err)
	}
	store, err := content.NewStore(backend, cfg.Content, logger)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("content store: %w", err)
	}
	store.WithMetrics(metrics)

	fetcher := content.NewFetcher(cfg.Content)
	loader := content.NewLoader(store, fetcher, cfg.Content.SharedBase, logger).WithMetrics(metrics)

	// Bundled assets become lazy content sources
	ctx := context.Background()
	scanner := content.NewScanner(cfg.Storage.AssetsDir, loader, logger)
	if _, err := scanner.Scan(ctx); err != nil {
		logger.Warn("Asset scan failed", zap.Error(err))
	}

	// Virtual filesystem, restored from disk before the library seeds
	fs := vfs.NewManager(logger).WithMetrics(metrics).WithBus(bus)
	fs.EnablePersistence(persistStore, cfg.Storage.SaveDelay)

	// App registry: built-ins from the embedded manifest, then installed
	// applets from the content store
	appRegistry := registry.NewManager(logger).WithMetrics(metrics)
	seeder := registry.NewSeeder(appRegistry, store, logger)
	if err := seeder.SeedBuiltins(); err != nil {
		logger.Warn("Failed to seed built-in apps", zap.Error(err))
	}
	if err := seeder.LoadInstalled(ctx); err != nil {
		logger.Warn("Failed to load installed applets", zap.Error(err))
	}

	// Window instances, restored so a restart brings the desktop back up
	instances := instance.NewManager(appRegistry, logger).WithMetrics(metrics).WithBus(bus)
	instances.EnablePersistence(persistStore, cfg.Storage.SaveDelay)

	// Workspace facade over the stores
	wsManager := workspace.NewManager(workspace.Deps{
		FS:        fs,
		Content:   store,
		Loader:    loader,
		Registry:  appRegistry,
		Seeder:    seeder,
		Instances: instances,
	}, logger).WithMetrics(metrics).WithBus(bus)

	if err := fs.Bootstrap(ctx, store); err != nil {
		return nil, fmt.Errorf("bootstrap library: %w", err)
	}

	// Saved sessions
	sessions := session.NewManager(instances, cfg.Storage.StateDir, logger).WithMetrics(metrics).WithBus(bus)
	if err := sessions.LoadAll(); err != nil {
		logger.Warn("Failed to load saved sessions", zap.Error(err))
	}

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(middleware.RequestLog(logger))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.CORSForOrigins(cfg.Server.AllowedOrigins)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	// Register routes
	handlers := api.NewHandlers(wsManager, instances, sessions, appRegistry, store, loader, fs, logger).
		WithMetrics(metrics)
	handlers.Routes(router)

	// WebSocket event stream
	wsHandler := ws.NewHandler(bus, logger).WithMetrics(metrics)
	router.GET("/stream", wsHandler.HandleConnection)

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("Server initialized")

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
			Handler: router,
		},
		fs:        fs,
		instances: instances,
		sessions:  sessions,
		backend:   backend,
		logger:    logger,
		config:    cfg,
		metrics:   metrics,
	}, nil
}

// Router exposes the gin engine, for tests driving the server in-process.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves HTTP until Close is called or the listener fails.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close drains in-flight requests, flushes persisted state and releases
// the content backend.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Warn("HTTP shutdown forced", zap.Error(err))
	}

	// Flush debounced savers so nothing mutated in the last seconds is lost
	s.instances.Shutdown()
	s.fs.Close()

	if err := s.backend.Close(); err != nil {
		s.logger.Error("Failed to close content backend", zap.Error(err))
		return fmt.Errorf("close content backend: %w", err)
	}

	s.logger.Sync()
	return nil
}
