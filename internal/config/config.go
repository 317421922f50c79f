package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Fast store (DynamoDB) holding the appointment read model. When
	// UseMemoryStore is set the API keeps appointments in process memory
	// instead, for local runs without AWS.
	AppointmentsTable string
	UseMemoryStore    bool

	// Dispatch channel for newly created appointments. The SNS topic is
	// the production path; the queue URL sends straight to a country
	// queue for local runs without an SNS topic in front.
	DispatchTopicARN string
	DispatchQueueURL string

	// Completion event bus consumed by the status updater.
	CompletionBusName string

	// Per-country system-of-record databases. A country without a DSN
	// is simply not served by this processor instance.
	RDSPeDSN string
	RDSClDSN string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		AppointmentsTable: getEnv("APPOINTMENTS_TABLE", "appointments"),
		UseMemoryStore:    getEnvAsBool("USE_MEMORY_STORE", false),

		DispatchTopicARN: getEnv("DISPATCH_TOPIC_ARN", ""),
		DispatchQueueURL: getEnv("DISPATCH_QUEUE_URL", ""),

		CompletionBusName: getEnv("COMPLETION_BUS_NAME", ""),

		RDSPeDSN: getEnv("RDS_PE_DSN", ""),
		RDSClDSN: getEnv("RDS_CL_DSN", ""),
	}
}

// getEnv gets an environment variable with a fallback default
func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as a boolean with a fallback default
func getEnvAsBool(key string, defaultValue bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
