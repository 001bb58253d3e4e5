package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/brightsmiledental/clinic-platform/internal/api/router"
	"github.com/brightsmiledental/clinic-platform/internal/appointments"
	"github.com/brightsmiledental/clinic-platform/internal/auth"
	appconfig "github.com/brightsmiledental/clinic-platform/internal/config"
	"github.com/brightsmiledental/clinic-platform/internal/db"
	"github.com/brightsmiledental/clinic-platform/internal/http/handlers"
	"github.com/brightsmiledental/clinic-platform/internal/notify"
	"github.com/brightsmiledental/clinic-platform/internal/observability/metrics"
	"github.com/brightsmiledental/clinic-platform/internal/schedule"
	"github.com/brightsmiledental/clinic-platform/pkg/logging"
)

func main() {
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	// Schema must be in place before the first request is served.
	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database migrations applied")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Sessions live in Redis when an address is configured so restarts do
	// not log admins out; otherwise they stay in process memory.
	var sessions auth.SessionStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to redis", "error", err, "addr", cfg.RedisAddr)
			os.Exit(1)
		}
		sessions = auth.NewRedisStore(client, cfg.SessionTTL)
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
	} else {
		sessions = auth.NewMemoryStore(cfg.SessionTTL)
		logger.Info("using in-memory session store")
	}

	sender := buildEmailSender(ctx, cfg, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	bookingMetrics := metrics.NewBookingMetrics(registry)

	sched := schedule.New(cfg.OpenHour, cfg.CloseHour, cfg.SlotMinutes, cfg.WorkDays)
	repo := appointments.NewPgRepository(pool)
	notifier := notify.NewBookingNotifier(sender, cfg.FromName, logger)
	svc := appointments.NewService(repo, sched, notifier, bookingMetrics, logger, cfg.EmailTimeout)
	creds := auth.NewCredentials(pool)

	r := router.New(&router.Config{
		Logger:             logger,
		SlotsHandler:       handlers.NewSlotsHandler(svc, logger),
		BookingHandler:     handlers.NewBookingHandler(svc, logger),
		AdminHandler:       handlers.NewAdminHandler(repo, creds, sessions, cfg.SessionTTL, logger),
		SessionStore:       sessions,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
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

// buildEmailSender picks the confirmation email transport from config.
// Missing credentials downgrade to the logging stub rather than failing
// startup, since booking must work without email.
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		if s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
		}, logger); s != nil {
			logger.Info("using sendgrid email sender")
			return s
		}
		logger.Warn("SENDGRID_API_KEY not set, falling back to stub email sender")
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Warn("failed to load AWS config, falling back to stub email sender", "error", err)
			break
		}
		if s := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
		}, logger); s != nil {
			logger.Info("using SES email sender", "region", cfg.AWSRegion)
			return s
		}
	}
	return notify.NewStubEmailSender(logger)
}
