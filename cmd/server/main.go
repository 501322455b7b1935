package main

import (
	"log"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"ubigeo_app_go/config"
	"ubigeo_app_go/db"
	"ubigeo_app_go/handlers"
	"ubigeo_app_go/logger"
	"ubigeo_app_go/metrics"
	"ubigeo_app_go/middleware"
	"ubigeo_app_go/models"
	"ubigeo_app_go/services"
	"ubigeo_app_go/services/i18n"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database
	if err := db.Initialize(cfg, zlog); err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.Department{}, &models.Province{}, &models.District{}, &models.User{}, &models.HistoryEvent{}); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	if err := i18n.Load(zlog); err != nil {
		zlog.Fatal("failed to load locales", zap.Error(err))
	}
	i18n.SetDefault(cfg.DefaultLocale)

	authz, err := services.NewAuthorizer(cfg.AuthzPolicyFile, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize authorizer", zap.Error(err))
	}

	deps := &handlers.Deps{
		DB:       db.DB,
		Log:      zlog,
		Authz:    authz,
		Storage:  services.NewStorage(cfg, zlog),
		Resolver: services.NewResolverRegistry(db.DB),
		AppName:  cfg.AppName,
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Pre(echomiddleware.AddTrailingSlashWithConfig(echomiddleware.TrailingSlashConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/static/")
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				zlog.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			zlog.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Locale(cfg))

	// Static files and metrics
	e.Static("/static", "static")
	e.GET("/metrics/", metrics.Handler())

	// Maintenance routes (basic authentication)
	protected := e.Group("")
	protected.Use(middleware.RequireAuth(db.DB, zlog, services.NewLoginMonitor(zlog)))
	protected.Use(middleware.EventContext())
	handlers.Register(protected, deps)

	// Start server
	zlog.Info("server starting", zap.String("port", cfg.ServerPort), zap.String("environment", cfg.Environment))
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}
