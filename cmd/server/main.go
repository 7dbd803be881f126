package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/commerceintel/admin-service/config"
	_ "github.com/commerceintel/admin-service/docs"
	"github.com/commerceintel/admin-service/internal/catalog"
	"github.com/commerceintel/admin-service/internal/database"
	"github.com/commerceintel/admin-service/internal/docstore"
	"github.com/commerceintel/admin-service/internal/handlers"
	"github.com/commerceintel/admin-service/internal/http/ratelimit"
	"github.com/commerceintel/admin-service/internal/jobs"
	"github.com/commerceintel/admin-service/internal/middleware"
	"github.com/commerceintel/admin-service/internal/service"
	"github.com/commerceintel/admin-service/internal/storage"
	"github.com/commerceintel/admin-service/internal/store"
	"github.com/commerceintel/admin-service/internal/telemetry"
)

// @title Commerce Admin API
// @version 1.0
// @description Admin API for waste pricing, competitor index pricing and segment configuration.
// @BasePath /
func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Str("driver", cfg.Database.Driver).Msg("Starting admin service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Environment: cfg.Telemetry.Environment,
		SampleRatio: cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	st, err := openStore(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open store")
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("Store connected")

	cache, err := catalog.NewCache(catalog.CacheConfig{
		Enabled:  cfg.Cache.Enabled,
		RedisURL: cfg.Cache.RedisURL,
		TTL:      cfg.Cache.TTL,
		Breaker: catalog.BreakerConfig{
			MaxFailures:  cfg.Cache.BreakerMaxFailures,
			ResetTimeout: cfg.Cache.BreakerResetTimeout,
		},
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Catalog cache unavailable, continuing without cache")
		cache = catalog.NewNoopCache()
	}

	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL: cfg.Catalog.BaseURL,
		APIKey:  cfg.Catalog.APIKey,
		Timeout: cfg.Catalog.Timeout,
		RateLimit: ratelimit.Config{
			RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
			Burst:             cfg.Catalog.Burst,
			MaxRetries:        cfg.Catalog.MaxRetries,
			InitialBackoff:    cfg.Catalog.InitialBackoff,
			MaxBackoff:        cfg.Catalog.MaxBackoff,
		},
		BatchSize:   cfg.Catalog.BatchSize,
		Concurrency: cfg.Catalog.Concurrency,
	}, cache)

	indexService := service.NewIndexService(st, catalogClient)
	if dir := cfg.Uploads.ArchiveDir; dir != "" {
		archive, err := storage.NewLocalArchive(dir)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to open upload archive")
		}
		indexService.WithArchive(archive)
		logger.Info().Str("dir", dir).Msg("Archiving index uploads")
	}

	wasteService := service.NewWasteService(st, catalogClient)
	handlers.InitServices(st, catalogClient,
		wasteService,
		indexService,
		service.NewSegmentService(st))

	regeneratorLogger := logger.With().Str("component", "waste-regenerator").Logger()
	regenerator := jobs.NewWasteRegenerator(wasteService, &regeneratorLogger, cfg.Jobs.WasteRegenerationInterval)
	go regenerator.Start(ctx)

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery(*logger))
	router.Use(middleware.Tracing())
	router.Use(middleware.RequestLogger(*logger))
	router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))
	router.Use(middleware.RateLimitMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.Burst,
	}, ctx.Done()))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	handlers.RegisterRoutes(router)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()

	logger.Info().Msg("Shutting down server...")
	regenerator.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := st.Close(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to close store")
	}
	if cfg.Database.Driver == config.DriverPostgres {
		database.Close()
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to flush telemetry")
	}

	logger.Info().Msg("Server exited")
}

// openStore connects the configured database driver
func openStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		return docstore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, docstore.Options{
			MaxPoolSize:    uint64(cfg.MaxConnections),
			MinPoolSize:    uint64(cfg.MinConnections),
			ConnectTimeout: cfg.ConnectTimeout,
		})

	case config.DriverPostgres:
		if err := database.Connect(ctx, database.PoolConfig{
			URL:                cfg.URL,
			MaxConns:           cfg.MaxConnections,
			MinConns:           cfg.MinConnections,
			MaxConnLifetime:    cfg.MaxConnLifetime,
			MaxConnIdleTime:    cfg.MaxConnIdleTime,
			SlowQueryThreshold: cfg.SlowQueryThreshold,
		}); err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, database.Pool()); err != nil {
			database.Close()
			return nil, err
		}
		return database.NewStore(database.Pool()), nil

	case config.DriverMemory:
		log.Warn().Msg("Using in-memory store; data is lost on restart")
		return store.NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func corsConfig(allowedOrigins []string) cors.Config {
	c := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range allowedOrigins {
		if o == "*" {
			c.AllowOrigins = nil
			c.AllowOriginFunc = func(string) bool { return true }
			break
		}
	}
	return c
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "admin-service").Logger()
	log.Logger = logger
	zerolog.SetGlobalLevel(level)
	return &logger
}
