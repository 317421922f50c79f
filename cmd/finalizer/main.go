package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/batebc/backend-challenge/cmd/mainconfig"
	"github.com/batebc/backend-challenge/internal/appointment"
	appconfig "github.com/batebc/backend-challenge/internal/config"
	"github.com/batebc/backend-challenge/internal/worker/finalizer"
	"github.com/batebc/backend-challenge/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	repo := appointment.NewDynamoRepository(dynamodb.NewFromConfig(awsCfg), cfg.AppointmentsTable)

	// The finalizer never dispatches; the log publisher satisfies the
	// service wiring without a topic.
	service := appointment.NewService(repo, appointment.NewLogPublisher(logger), logger)
	handler := finalizer.NewHandler(service, nil, logger)

	logger.Info("status updater starting", "table", cfg.AppointmentsTable)
	lambda.Start(handler.Handle)
}
