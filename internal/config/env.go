// Package config provides application configuration.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration. Variables carry the
// CONTACTSYNC_ prefix (e.g. CONTACTSYNC_NOMIS_API_URL).
type EnvConfig struct {
	// Host is the server host to bind to.
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	Port int `envconfig:"PORT" default:"8080"`

	// DBURL is the database connection URL for migration-run history.
	// Either sqlite:///path/to/file.db or a postgres URL.
	DBURL string `envconfig:"DB_URL" default:"sqlite:///contactsync.db"`

	// LogLevel is the log verbosity level (DEBUG, INFO, WARN, ERROR).
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (text or json).
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// Nomis configures the source system client.
	Nomis RemoteEnv `envconfig:"NOMIS_API"`

	// DPS configures the destination system client.
	DPS RemoteEnv `envconfig:"DPS_API"`

	// Mapping configures the mapping service client.
	Mapping RemoteEnv `envconfig:"MAPPING_API"`

	// Kafka configures the change-notification intake.
	Kafka KafkaEnv `envconfig:"KAFKA"`

	// Migration configures the bulk migration driver.
	Migration MigrationEnv `envconfig:"MIGRATION"`
}

// RemoteEnv holds connection settings for one remote HTTP API.
type RemoteEnv struct {
	// BaseURL is the base URL of the API.
	BaseURL string `envconfig:"URL"`

	// Token is the static bearer token presented on every request.
	Token string `envconfig:"TOKEN"`

	// Timeout is the per-request timeout in seconds.
	Timeout float64 `envconfig:"TIMEOUT" default:"30"`

	// MaxRetries bounds transient-failure retries, where the client retries
	// at all (only the mapping client does).
	MaxRetries int `envconfig:"MAX_RETRIES" default:"3"`

	// InitialDelay is the initial retry delay in seconds.
	InitialDelay float64 `envconfig:"INITIAL_DELAY" default:"0.5"`

	// BackoffFactor is the retry backoff multiplier.
	BackoffFactor float64 `envconfig:"BACKOFF_FACTOR" default:"2.0"`
}

// KafkaEnv holds the intake transport settings.
type KafkaEnv struct {
	// Brokers is a comma-separated list of broker addresses.
	Brokers []string `envconfig:"BROKERS" default:"localhost:9092"`

	// Topic is the change-notification topic.
	Topic string `envconfig:"TOPIC" default:"contact-events"`

	// ConsumerGroup is the consumer group id.
	ConsumerGroup string `envconfig:"CONSUMER_GROUP" default:"contactsync"`

	// DeadLetterTopic receives events whose handling exhausted the retry
	// budget. Empty means "<topic>-dlq".
	DeadLetterTopic string `envconfig:"DLQ_TOPIC"`

	// MaxRetries bounds in-place redelivery of a failed event.
	MaxRetries int `envconfig:"MAX_RETRIES" default:"3"`

	// RetryDelay is the initial in-place retry delay in seconds.
	RetryDelay float64 `envconfig:"RETRY_DELAY" default:"1"`
}

// MigrationEnv holds migration driver settings.
type MigrationEnv struct {
	// WorkerCount bounds per-item concurrency. The bound respects the
	// downstream systems' rate limits, not throughput alone.
	WorkerCount int `envconfig:"WORKER_COUNT" default:"4"`

	// PageSize is the source id page size.
	PageSize int `envconfig:"PAGE_SIZE" default:"100"`
}

// LoadEnv reads configuration from the environment.
func LoadEnv() (EnvConfig, error) {
	var env EnvConfig
	if err := envconfig.Process("CONTACTSYNC", &env); err != nil {
		return EnvConfig{}, err
	}
	return env, nil
}

// TimeoutDuration returns the remote timeout as a duration.
func (r RemoteEnv) TimeoutDuration() time.Duration {
	return time.Duration(r.Timeout * float64(time.Second))
}

// InitialDelayDuration returns the initial retry delay as a duration.
func (r RemoteEnv) InitialDelayDuration() time.Duration {
	return time.Duration(r.InitialDelay * float64(time.Second))
}

// RetryDelayDuration returns the initial redelivery delay as a duration.
func (k KafkaEnv) RetryDelayDuration() time.Duration {
	return time.Duration(k.RetryDelay * float64(time.Second))
}
