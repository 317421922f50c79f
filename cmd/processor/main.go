package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/batebc/backend-challenge/cmd/mainconfig"
	"github.com/batebc/backend-challenge/internal/appointment"
	appconfig "github.com/batebc/backend-challenge/internal/config"
	"github.com/batebc/backend-challenge/internal/processing"
	"github.com/batebc/backend-challenge/internal/worker/processor"
	"github.com/batebc/backend-challenge/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	completions := processing.NewEventBridgePublisher(eventbridge.NewFromConfig(awsCfg), cfg.CompletionBusName)

	// One pool per country, built once per process and reused across
	// invocations.
	stores := processing.NewStoreSet()
	countryDSNs := map[appointment.Country]string{
		appointment.CountryPE: cfg.RDSPeDSN,
		appointment.CountryCL: cfg.RDSClDSN,
	}
	for country, dsn := range countryDSNs {
		if dsn == "" {
			continue
		}
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			logger.Error("failed to connect system-of-record database",
				"country", country,
				"error", err,
			)
			os.Exit(1)
		}
		defer pool.Close()
		stores.Register(country, processing.NewPostgresStore(pool))
	}

	countries := stores.Countries()
	if len(countries) == 0 {
		logger.Error("no system-of-record DSN configured; set RDS_PE_DSN and/or RDS_CL_DSN")
		os.Exit(1)
	}
	logger.Info("country processor starting", "countries", countries)

	service := processing.NewService(stores, completions, logger)
	handler := processor.NewHandler(service, nil, logger)

	lambda.Start(handler.Handle)
}
