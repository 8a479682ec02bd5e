// Command httpd runs the content moderation HTTP service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/north-cloud/moderation/internal/api"
	"github.com/jonesrussell/north-cloud/moderation/internal/config"
	"github.com/jonesrussell/north-cloud/moderation/internal/database"
	"github.com/jonesrussell/north-cloud/moderation/internal/engine"
	"github.com/jonesrussell/north-cloud/moderation/internal/events"
	"github.com/jonesrussell/north-cloud/moderation/internal/logger"
	"github.com/jonesrussell/north-cloud/moderation/internal/moderation"
	"github.com/jonesrussell/north-cloud/moderation/internal/publisher"
	"github.com/jonesrussell/north-cloud/moderation/internal/scoring"
	"github.com/jonesrussell/north-cloud/moderation/internal/scoring/mlclient"
	"github.com/jonesrussell/north-cloud/moderation/internal/telemetry"
)

const (
	startupProbeTimeout  = 3 * time.Second
	fallbackModelVersion = "1.0.0"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "moderation service failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.GetConfigPath("config.yaml"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log = log.With(
		logger.String("service", cfg.Service.Name),
		logger.String("version", cfg.Service.Version),
	)

	log.Info("starting moderation service", logger.Int("port", cfg.Service.Port))

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = db.Close() }()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = events.NewClient(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.Database)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("redis connection established", logger.String("addr", cfg.Redis.URL))
	} else {
		log.Info("redis disabled, classified events will not be published")
	}

	tel := telemetry.NewProvider()

	thresholdStore, err := engine.NewThresholdStore(engine.Thresholds{
		ToxicityHigh:   cfg.Thresholds.ToxicityHigh,
		ToxicityMedium: cfg.Thresholds.ToxicityMedium,
		SpamHigh:       cfg.Thresholds.SpamHigh,
		SpamMedium:     cfg.Thresholds.SpamMedium,
		ConfidenceLow:  cfg.Thresholds.ConfidenceLow,
	})
	if err != nil {
		return fmt.Errorf("invalid thresholds: %w", err)
	}
	verdictEngine := engine.New(thresholdStore)

	modelClient := mlclient.NewClient(cfg.Scorer.URL, cfg.Scorer.Timeout)
	scorer := scoring.NewScorer(modelClient, scoring.NewSpamScorer(), cfg.Scorer.Timeout)

	contentRepo := database.NewContentRepository(db)
	queueRepo := database.NewQueueRepository(db)
	violationRepo := database.NewViolationRepository(db)
	notificationRepo := database.NewNotificationRepository(db)
	metricsRepo := database.NewMetricsRepository(db)
	socialPostRepo := database.NewSocialPostRepository(db)

	poster := publisher.NewSocialPoster(cfg.Publisher, log)
	worker := publisher.NewWorker(poster, socialPostRepo, publisher.WorkerConfig{
		Workers:        cfg.Publisher.Workers,
		QueueSize:      cfg.Publisher.QueueSize,
		PostTimeout:    cfg.Publisher.PostTimeout,
		PostsPerSecond: cfg.Publisher.PostsPerSecond,
	}, tel, log)

	eventPub := events.NewPublisher(redisClient, cfg.Redis.EventChannel, log)
	dispatcher := moderation.NewDispatcher(queueRepo, notificationRepo, violationRepo, tel, log)

	service := moderation.NewService(
		scorer,
		verdictEngine,
		dispatcher,
		contentRepo,
		metricsRepo,
		eventPub,
		worker,
		tel,
		log,
		probeModelVersion(modelClient, log),
	)

	handler := api.NewHandler(
		service,
		verdictEngine,
		scorer,
		contentRepo,
		queueRepo,
		metricsRepo,
		db,
		redisClient,
		cfg.Service.Name,
		cfg.Service.Version,
		log,
	)

	server := api.NewServer(handler, cfg.Service.Port, cfg.Service.Debug, cfg.Auth.JWTSecret, log)
	api.RegisterMetrics(server.Router(), tel.Handler())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The worker gets its own context so a shutdown signal does not cut
	// off in-flight posts; Stop drains the queue below.
	worker.Start(context.Background())
	errCh := server.StartAsync()

	select {
	case err = <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	// Stop accepting requests first, then drain the publish queue.
	if shutdownErr := server.Shutdown(context.Background()); shutdownErr != nil {
		log.Error("server shutdown failed", logger.Error(shutdownErr))
	}
	worker.Stop()

	log.Info("moderation service stopped")
	return nil
}

// probeModelVersion asks the scorer sidecar for its model version at
// startup. The service still starts when the sidecar is down; requests
// degrade to the safe default until it recovers.
func probeModelVersion(client *mlclient.Client, log logger.Logger) string {
	ctx, cancel := context.WithTimeout(context.Background(), startupProbeTimeout)
	defer cancel()

	version, err := client.Health(ctx)
	if err != nil {
		log.Warn("model sidecar unreachable at startup", logger.Error(err))
		return fallbackModelVersion
	}
	if version == "" {
		return fallbackModelVersion
	}
	return version
}
