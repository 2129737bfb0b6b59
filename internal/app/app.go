package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/caa-backend/internal/data/db"
	apphttp "github.com/yungbote/caa-backend/internal/http"
	"github.com/yungbote/caa-backend/internal/observability"
	"github.com/yungbote/caa-backend/internal/platform/logger"
	"github.com/yungbote/caa-backend/internal/services"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients
	Metrics  *observability.Metrics

	dbService    *db.Service
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	envErr := godotenv.Load()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if envErr != nil {
		log.Debug("No .env file loaded", "error", envErr)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: serviceName,
		Environment: cfg.Env,
		Version:     cfg.Version,
		Endpoint:    cfg.OtelEndpoint,
		Insecure:    cfg.OtelInsecure,
		SampleRatio: cfg.OtelSampleRatio,
	})
	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.Init(log)
	}

	dbService, err := db.NewService(log, cfg.DatabaseURL)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	theDB := dbService.DB()
	if err := db.AutoMigrateAll(theDB); err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	if cfg.SeedOnStart {
		if _, err := db.Seed(ctx, theDB, log, db.SeedOptions{
			CatalogFile:  cfg.SeedCatalogFile,
			HashPassword: services.HashPassword,
		}); err != nil {
			_ = dbService.Close()
			log.Sync()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	clientset, err := wireClients(log, cfg)
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}
	host, err := resolveImageHost(ctx, log, cfg)
	if err != nil {
		clientset.Close()
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, clientset, host)
	if err != nil {
		clientset.Close()
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, cfg, serviceset)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, handlerset, middleware, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clientset,
		Metrics:      metrics,
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP and the background loops until ctx is cancelled or one of them fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	addr := ":" + strings.TrimPrefix(a.Cfg.Port, ":")
	g.Go(func() error {
		a.Log.Info("Server listening", "addr", addr)
		srv := &apphttp.Server{Engine: a.Router}
		return srv.Run(gctx, addr, a.Cfg.ShutdownTimeout)
	})

	if a.Services.Purger != nil {
		g.Go(func() error {
			return services.RunSessionJanitor(gctx, a.Log, a.Services.Purger, a.Cfg.JanitorInterval)
		})
	}

	if a.Metrics != nil {
		a.Metrics.StartDBCollector(gctx, a.Log, a.DB, a.Cfg.MetricsInterval)
		if a.Clients.Redis != nil {
			a.Metrics.StartRedisCollector(gctx, a.Log, a.Clients.Redis.Client(), a.Cfg.MetricsInterval)
		}
		if addr := strings.TrimSpace(a.Cfg.MetricsAddr); addr != "" {
			g.Go(func() error {
				return serveMetrics(gctx, a.Log, addr, a.Metrics, a.Cfg.ShutdownTimeout)
			})
		}
	}

	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	a.Clients.Close()
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
