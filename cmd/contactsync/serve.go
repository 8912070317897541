package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	appmigration "github.com/ministryofjustice/hmpps-contacts-sync/application/migration"
	"github.com/ministryofjustice/hmpps-contacts-sync/application/reconcile"
	"github.com/ministryofjustice/hmpps-contacts-sync/application/sync"
	"github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/api"
	v1 "github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/api/v1"
	"github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/dps"
	"github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/httpclient"
	"github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/mappingapi"
	"github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/nomis"
	"github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/persistence"
	"github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/queue"
	"github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/telemetry"
	"github.com/ministryofjustice/hmpps-contacts-sync/internal/database"
	"github.com/ministryofjustice/hmpps-contacts-sync/internal/log"
)

func serveCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the synchronisation service",
		Long: `Start the synchronisation service: the Kafka event intake, the
migration control API and the metrics endpoint.

Configuration comes from the environment (optionally seeded from a .env
file). Variables carry the CONTACTSYNC_ prefix:

  CONTACTSYNC_HOST                 Bind host (default: 0.0.0.0)
  CONTACTSYNC_PORT                 Bind port (default: 8080)
  CONTACTSYNC_DB_URL               Run-history database (default: sqlite:///contactsync.db)
  CONTACTSYNC_LOG_LEVEL            DEBUG, INFO, WARN, ERROR (default: INFO)
  CONTACTSYNC_LOG_FORMAT           text or json (default: json)

  CONTACTSYNC_NOMIS_API_URL        Source system base URL (required)
  CONTACTSYNC_NOMIS_API_TOKEN      Source system bearer token
  CONTACTSYNC_DPS_API_URL          Destination system base URL (required)
  CONTACTSYNC_DPS_API_TOKEN        Destination system bearer token
  CONTACTSYNC_MAPPING_API_URL      Mapping service base URL (required)
  CONTACTSYNC_MAPPING_API_TOKEN    Mapping service bearer token

  CONTACTSYNC_KAFKA_BROKERS        Broker list (default: localhost:9092)
  CONTACTSYNC_KAFKA_TOPIC          Event topic (default: contact-events)
  CONTACTSYNC_KAFKA_CONSUMER_GROUP Consumer group (default: contactsync)
  CONTACTSYNC_KAFKA_DLQ_TOPIC      Dead-letter topic (default: <topic>-dlq)

  CONTACTSYNC_MIGRATION_WORKER_COUNT  Migration concurrency (default: 4)
  CONTACTSYNC_MIGRATION_PAGE_SIZE     Source id page size (default: 100)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	return cmd
}

func runServe(envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	logger := log.New(cfg.LogLevel(), cfg.LogFormat())
	logger.Info("starting contactsync",
		slog.String("version", version),
		slog.String("addr", cfg.Addr()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.DBURL())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("close database", slog.Any("error", err))
		}
	}()

	runStore, err := persistence.NewRunStore(db)
	if err != nil {
		return fmt.Errorf("create run store: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := telemetry.New(logger, registry)

	source := nomis.NewClient(
		httpclient.New(cfg.Nomis().BaseURL, cfg.Nomis().Token, cfg.Nomis().TimeoutDuration(), logger),
		logger,
	)
	destination := dps.New(cfg.DPS().BaseURL, cfg.DPS().Token, cfg.DPS().TimeoutDuration(), logger)
	mappings := mappingapi.NewClient(
		httpclient.New(cfg.Mapping().BaseURL, cfg.Mapping().Token, cfg.Mapping().TimeoutDuration(), logger),
		httpclient.RetryPolicy{
			MaxRetries:    cfg.Mapping().MaxRetries,
			InitialDelay:  cfg.Mapping().InitialDelayDuration(),
			BackoffFactor: cfg.Mapping().BackoffFactor,
		},
		logger,
	)

	syncRegistry := sync.NewRegistry(source, destination, mappings, recorder, logger)
	reconciler := reconcile.NewEngine(source, destination, mappings, recorder, logger)
	router := sync.NewRouter(syncRegistry, reconciler, logger)

	driver := appmigration.NewDriver(
		source, destination, mappings, runStore, recorder, logger,
		cfg.Migration().WorkerCount, cfg.Migration().PageSize,
	)

	consumer := queue.NewConsumer(queue.Config{
		Brokers:         cfg.Kafka().Brokers,
		Topic:           cfg.Kafka().Topic,
		ConsumerGroup:   cfg.Kafka().ConsumerGroup,
		DeadLetterTopic: cfg.Kafka().DeadLetterTopic,
		MaxRetries:      cfg.Kafka().MaxRetries,
		RetryDelay:      cfg.Kafka().RetryDelayDuration(),
	}, logger, router.Dispatch)
	consumer.Start(ctx)

	server := api.NewServer(cfg.Addr(), logger)
	server.Router().Mount("/api/v1/migrations", v1.NewMigrationsRouter(driver, logger).Routes())
	server.Router().Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server.Router().Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"status":"UP","version":%q}`, version)
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("shutting down")
		cancel()

		if err := consumer.Stop(); err != nil {
			logger.Error("stop consumer", slog.Any("error", err))
		}
		driver.Shutdown()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
	}()

	if err := server.Start(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
