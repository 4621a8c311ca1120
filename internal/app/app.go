package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "twofa/docs"
	"twofa/internal/config"
	"twofa/internal/handlers"
	"twofa/internal/logging"
	"twofa/internal/metrics"
	"twofa/internal/middleware"
	"twofa/internal/repositories"
	"twofa/internal/routes"
	"twofa/internal/services"
)

type App struct {
	Config  *config.Config
	Log     *clog.Logger
	Metrics *metrics.Metrics
	Seeds   services.SeedService
	TOTP    services.TOTPService
	Router  *gin.Engine
}

// New собирает зависимости и роутер. Сеть не трогает.
func New(cfg *config.Config, logger *clog.Logger) *App {
	if logger == nil {
		logger = logging.New(cfg.Log, nil)
	}
	gin.SetMode(cfg.Server.Mode)

	// === Storage ===
	seedRepo := repositories.NewFileSeedRepository(cfg.Storage.DataDir, cfg.Storage.SeedFile)

	// === Services ===
	seedService := services.NewSeedService(seedRepo, cfg.Keys.PrivateKeyPath)
	totpService := services.NewTOTPService(seedRepo)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// === Handlers ===
	seedHandler := handlers.NewSeedHandler(seedService, m, logger)
	totpHandler := handlers.NewTOTPHandler(totpService, m, logger)
	healthHandler := handlers.NewHealthHandler(seedService)

	// === Gin ===
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(corsMiddleware())
	if m != nil {
		router.Use(middleware.Metrics(m))
		router.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}
	if cfg.Swagger.Enabled {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	var guard gin.HandlerFunc
	if cfg.Auth.JWTSecret != "" {
		guard = middleware.SeedGuard(cfg.Auth.JWTSecret)
		logger.Info("[app] seed upload requires bearer token")
	}
	routes.SetupRoutes(router, seedHandler, totpHandler, healthHandler, guard)

	return &App{
		Config:  cfg,
		Log:     logger,
		Metrics: m,
		Seeds:   seedService,
		TOTP:    totpService,
		Router:  router,
	}
}

// Serve слушает до отмены ctx, затем делает graceful shutdown.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.ListenAddr(),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	a.Log.Info("[app] server started", "addr", srv.Addr,
		"data_dir", a.Config.Storage.DataDir, "seed_ready", a.Seeds.Ready())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	a.Log.Info("[app] shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Run: точка входа команды serve.
func Run(cfg *config.Config) error {
	logger := logging.New(cfg.Log, os.Stderr)
	a := New(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Serve(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
