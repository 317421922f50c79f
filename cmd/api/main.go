package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/batebc/backend-challenge/cmd/mainconfig"
	"github.com/batebc/backend-challenge/internal/api/router"
	"github.com/batebc/backend-challenge/internal/appointment"
	appconfig "github.com/batebc/backend-challenge/internal/config"
	"github.com/batebc/backend-challenge/internal/http/handlers"
	"github.com/batebc/backend-challenge/internal/observability/metrics"
	"github.com/batebc/backend-challenge/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting appointments API",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	var repo appointment.Repository
	var dispatch appointment.DispatchPublisher

	if cfg.UseMemoryStore {
		logger.Warn("USE_MEMORY_STORE enabled; appointments are not persisted")
		repo = appointment.NewInMemoryRepository()
		dispatch = appointment.NewLogPublisher(logger)
	} else {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}

		repo = appointment.NewDynamoRepository(dynamodb.NewFromConfig(awsCfg), cfg.AppointmentsTable)

		switch {
		case cfg.DispatchTopicARN != "":
			dispatch = appointment.NewSNSPublisher(sns.NewFromConfig(awsCfg), cfg.DispatchTopicARN)
		case cfg.DispatchQueueURL != "":
			logger.Info("dispatching straight to queue", "queue_url", cfg.DispatchQueueURL)
			dispatch = appointment.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.DispatchQueueURL)
		default:
			logger.Warn("no dispatch topic or queue configured; dispatch messages are logged only")
			dispatch = appointment.NewLogPublisher(logger)
		}
	}

	service := appointment.NewService(repo, dispatch, logger)

	registry := prometheus.NewRegistry()
	workflowMetrics := metrics.NewWorkflowMetrics(registry)

	apptHandler := handlers.NewAppointmentsHandler(service, workflowMetrics, logger)
	r := router.New(&router.Config{
		Logger:         logger,
		Appointments:   apptHandler,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
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
