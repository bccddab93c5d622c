package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hokkystyle/toolrent-backend/internal/api/router"
	"github.com/hokkystyle/toolrent-backend/internal/bookings"
	"github.com/hokkystyle/toolrent-backend/internal/catalog"
	appconfig "github.com/hokkystyle/toolrent-backend/internal/config"
	"github.com/hokkystyle/toolrent-backend/internal/intake"
	"github.com/hokkystyle/toolrent-backend/internal/notify"
	"github.com/hokkystyle/toolrent-backend/internal/observability/metrics"
	"github.com/hokkystyle/toolrent-backend/internal/ratelimit"
	"github.com/hokkystyle/toolrent-backend/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting toolrent backend",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Relational store is optional; without it the API serves sample data.
	var pool *pgxpool.Pool
	if dsn := cfg.DatabaseDSN(); dsn != "" {
		var err error
		pool, err = pgxpool.New(ctx, dsn)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
	} else {
		logger.Warn("DATABASE_URL not set, serving sample data and skipping persistence")
	}

	var catalogStore catalog.Store
	var bookingStore bookings.Store = bookings.NoopStore{}
	if pool != nil {
		catalogStore = catalog.NewPostgresStore(pool)
		bookingStore = bookings.NewPostgresStore(pool)
	}

	// Notification sinks; each one is optional.
	var sinks []notify.Sink
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		telegram, err := notify.NewTelegramSink(notify.TelegramConfig{
			BaseURL:  cfg.TelegramAPIBaseURL,
			BotToken: cfg.TelegramBotToken,
			ChatID:   cfg.TelegramChatID,
			Logger:   logger,
		})
		if err != nil {
			logger.Error("failed to init telegram sink", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, telegram)
	} else {
		logger.Warn("telegram credentials are not configured, chat notifications disabled")
	}
	if cfg.GoogleServiceAccountJSON != "" && cfg.GoogleSheetID != "" {
		sheetsSink, err := notify.NewSheetsSink(ctx, notify.SheetsConfig{
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
			SpreadsheetID:      cfg.GoogleSheetID,
			SheetName:          cfg.LeadsSheetName,
		})
		if err != nil {
			logger.Error("failed to init sheets sink", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, sheetsSink)
	} else {
		logger.Warn("sheets credentials are not configured, spreadsheet append disabled")
	}

	intakeMetrics := metrics.NewIntakeMetrics(prometheus.DefaultRegisterer)
	notifier := notify.NewService(sinks, logger, intakeMetrics)
	limiter := ratelimit.New(cfg.RateLimitMax, cfg.RateLimitWindow)
	defer limiter.Close()

	pipeline := intake.NewPipeline(bookingStore, notifier, limiter, logger, intakeMetrics)

	r := router.New(&router.Config{
		Logger:             logger,
		CatalogHandler:     catalog.NewHandler(catalogStore, logger),
		IntakeHandler:      intake.NewHandler(pipeline, logger),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		StaticDir:          cfg.StaticDir,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
