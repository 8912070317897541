package config

import "fmt"

// AppConfig is the immutable application configuration assembled from the
// environment.
type AppConfig struct {
	host      string
	port      int
	dbURL     string
	logLevel  string
	logFormat string
	nomis     RemoteEnv
	dps       RemoteEnv
	mapping   RemoteEnv
	kafka     KafkaEnv
	migration MigrationEnv
}

// FromEnv builds an AppConfig from environment configuration.
func FromEnv(env EnvConfig) AppConfig {
	return AppConfig{
		host:      env.Host,
		port:      env.Port,
		dbURL:     env.DBURL,
		logLevel:  env.LogLevel,
		logFormat: env.LogFormat,
		nomis:     env.Nomis,
		dps:       env.DPS,
		mapping:   env.Mapping,
		kafka:     env.Kafka,
		migration: env.Migration,
	}
}

// Load reads the environment and builds an AppConfig.
func Load() (AppConfig, error) {
	env, err := LoadEnv()
	if err != nil {
		return AppConfig{}, fmt.Errorf("load configuration: %w", err)
	}
	return FromEnv(env), nil
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() string { return c.logFormat }

// Nomis returns the source system client settings.
func (c AppConfig) Nomis() RemoteEnv { return c.nomis }

// DPS returns the destination system client settings.
func (c AppConfig) DPS() RemoteEnv { return c.dps }

// Mapping returns the mapping service client settings.
func (c AppConfig) Mapping() RemoteEnv { return c.mapping }

// Kafka returns the intake transport settings.
func (c AppConfig) Kafka() KafkaEnv { return c.kafka }

// Migration returns the migration driver settings.
func (c AppConfig) Migration() MigrationEnv { return c.migration }

// Validate reports configuration that cannot work at runtime.
func (c AppConfig) Validate() error {
	if c.nomis.BaseURL == "" {
		return fmt.Errorf("CONTACTSYNC_NOMIS_API_URL is required")
	}
	if c.dps.BaseURL == "" {
		return fmt.Errorf("CONTACTSYNC_DPS_API_URL is required")
	}
	if c.mapping.BaseURL == "" {
		return fmt.Errorf("CONTACTSYNC_MAPPING_API_URL is required")
	}
	return nil
}
