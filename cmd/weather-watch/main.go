package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/weatherwatch/weather-watch/internal/api/http"
	"github.com/weatherwatch/weather-watch/internal/config"
	"github.com/weatherwatch/weather-watch/internal/database"
	"github.com/weatherwatch/weather-watch/internal/enrich"
	"github.com/weatherwatch/weather-watch/internal/geo"
	"github.com/weatherwatch/weather-watch/internal/services"
	"github.com/weatherwatch/weather-watch/internal/weather"
	"github.com/weatherwatch/weather-watch/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog := logger.New(cfg.Debug)
	defer zlog.Sync()

	db, err := database.Connect(cfg.DatabaseURL, cfg.Debug)
	if err != nil {
		zlog.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		zlog.Sugar().Fatalw("failed to migrate database", "error", err)
	}

	// Shared HTTP client for outbound upstream calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	geocoder := geo.NewGeocoder(httpClient, cfg.GeocodingBaseURL, cfg.GoogleAPIKey, logger.Named(zlog, "geo"))
	weatherClient := weather.NewClient(httpClient, cfg.WeatherBaseURL, logger.Named(zlog, "weather"))
	queryService := services.NewQueryService(db, geocoder, weatherClient, logger.Named(zlog, "queries"))
	enricher := enrich.NewService(httpClient, cfg.YouTubeBaseURL, cfg.GoogleAPIKey, cfg.YouTubeAPIKey, logger.Named(zlog, "enrich"))

	app := fiber.New(fiber.Config{
		AppName:               "weather-watch",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := err.Error()
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			return c.Status(code).JSON(fiber.Map{
				"error": message,
			})
		},
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Weather Watch API is running",
		})
	})

	handlers := httpapi.New(geocoder, weatherClient, queryService, enricher, logger.Named(zlog, "http"))
	handlers.Register(app)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Sugar().Errorw("fiber server stopped", "error", err)
		}
	}()
	zlog.Sugar().Infow("server started", "port", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zlog.Sugar().Errorw("error during shutdown", "error", err)
	}
}
