package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/rai252/Cliniify-marketplaces/cmd/mainconfig"
	"github.com/rai252/Cliniify-marketplaces/internal/api/router"
	"github.com/rai252/Cliniify-marketplaces/internal/appointments"
	appconfig "github.com/rai252/Cliniify-marketplaces/internal/config"
	"github.com/rai252/Cliniify-marketplaces/internal/doctors"
	"github.com/rai252/Cliniify-marketplaces/internal/establishments"
	"github.com/rai252/Cliniify-marketplaces/internal/feedback"
	"github.com/rai252/Cliniify-marketplaces/internal/notify"
	"github.com/rai252/Cliniify-marketplaces/internal/observability/metrics"
	"github.com/rai252/Cliniify-marketplaces/internal/patients"
	"github.com/rai252/Cliniify-marketplaces/internal/search"
	"github.com/rai252/Cliniify-marketplaces/internal/stats"
	"github.com/rai252/Cliniify-marketplaces/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting cliniify marketplace API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create connection pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	// Repositories
	patientRepo := patients.NewPostgresRepository(pool)
	doctorRepo := doctors.NewPostgresRepository(pool)
	establishmentRepo := establishments.NewPostgresRepository(pool)
	feedbackRepo := feedback.NewPostgresRepository(pool)
	appointmentRepo := appointments.NewPostgresRepository(pool)

	// Metrics (default registry, served on /metrics)
	bookingMetrics := metrics.NewBookingMetrics(nil)
	searchMetrics := metrics.NewSearchMetrics(nil)

	// Notification pipeline: publisher feeds the queue, the dispatcher
	// drains it and sends email.
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	sender := buildEmailSender(ctx, cfg, logger)
	var publisher *notify.Publisher
	var dispatcher *notify.Dispatcher
	if cfg.UseMemoryQueue || cfg.NotifyQueueURL == "" {
		var queue *notify.MemoryQueue
		publisher, queue = notify.NewMemoryPublisher(0, logger)
		dispatcher = notify.NewDispatcher(queue, sender, patientRepo, doctorRepo, cfg.NotifyWorkers, logger)
	} else {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		queue := notify.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.NotifyQueueURL)
		publisher = notify.NewSQSPublisher(queue, logger)
		dispatcher = notify.NewDispatcher(queue, sender, patientRepo, doctorRepo, cfg.NotifyWorkers, logger)
	}
	dispatcher.Start(workerCtx)

	// Search cache (optional)
	var searchCache *search.Cache
	if cfg.RedisAddr != "" {
		redisOptions := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(redisOptions)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis not available, search cache disabled", "error", err)
		} else {
			searchCache = search.NewCache(redisClient, cfg.SearchCacheTTL, logger)
		}
	}

	// Services and handlers
	appointmentSvc := appointments.NewService(appointmentRepo, doctorRepo, publisher, bookingMetrics, logger)
	staffSvc := establishments.NewStaffService(establishmentRepo, doctorRepo, logger)
	searchSvc := search.NewService(doctorRepo, establishmentRepo, feedbackRepo, searchCache, searchMetrics, logger)
	statsSvc := stats.NewService(appointmentRepo, nil)

	routerCfg := &router.Config{
		Logger:                logger,
		PatientsHandler:       patients.NewHandler(patientRepo, logger),
		DoctorsHandler:        doctors.NewHandler(doctorRepo, appointmentRepo, bookingMetrics, logger, cfg.SlotRangeStart, cfg.SlotRangeEnd),
		AppointmentsHandler:   appointments.NewHandler(appointmentSvc, logger),
		FeedbackHandler:       feedback.NewHandler(feedbackRepo, logger),
		EstablishmentsHandler: establishments.NewHandler(establishmentRepo, staffSvc, logger),
		SearchHandler:         search.NewHandler(searchSvc, logger),
		StatsHandler:          stats.NewHandler(statsSvc, logger),
		MetricsHandler:        promhttp.Handler(),
		CORSAllowedOrigins:    cfg.CORSAllowedOrigins,
		UserAuthSecret:        cfg.JWTSecret,
	}
	r := router.New(routerCfg)

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

	// Drain the notification workers after the server stops taking traffic.
	stopWorkers()
	dispatcher.Wait()

	logger.Info("server stopped")
}

func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config for SES", "error", err)
			os.Exit(1)
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
	case "sendgrid":
		if cfg.SendGridAPIKey != "" {
			return notify.NewSendGridSender(notify.SendGridConfig{
				APIKey:    cfg.SendGridAPIKey,
				FromEmail: cfg.SendGridFromEmail,
				FromName:  cfg.SendGridFromName,
			}, logger)
		}
	}
	logger.Warn("no email provider configured, notifications are logged only")
	return notify.NewStubEmailSender(logger)
}
