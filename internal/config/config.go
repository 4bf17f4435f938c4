// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Store driver selection values.
const (
	StoreDriverRemote   = "remote"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
)

// Config holds application configuration values loaded from file or
// environment variables. The remote identifiers are required startup
// configuration in remote mode; absence is a fatal misconfiguration.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	RedisURL       string `mapstructure:"REDIS_URL"`

	StoreDriver   string `mapstructure:"STORE_DRIVER"`
	LocalStoreDSN string `mapstructure:"LOCAL_STORE_DSN"`

	RemoteEndpoint   string `mapstructure:"REMOTE_ENDPOINT"`
	RemoteProjectID  string `mapstructure:"REMOTE_PROJECT_ID"`
	RemoteAPIKey     string `mapstructure:"REMOTE_API_KEY"`
	RemoteDatabaseID string `mapstructure:"REMOTE_DATABASE_ID"`

	UsersCollectionID string `mapstructure:"USERS_COLLECTION_ID"`
	PostsCollectionID string `mapstructure:"POSTS_COLLECTION_ID"`
	SavesCollectionID string `mapstructure:"SAVES_COLLECTION_ID"`
	StorageBucketID   string `mapstructure:"STORAGE_BUCKET_ID"`

	TracingEnabled  bool   `mapstructure:"TRACING_ENABLED"`
	TracingExporter string `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint    string `mapstructure:"OTLP_ENDPOINT"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// Initial read to get APP_ENV if set in base config
	// We intentionally ignore this error as the config file may not exist yet
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	// Set default values for development
	viper.SetDefault("PORT", "8473")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("STORE_DRIVER", StoreDriverSQLite)
	viper.SetDefault("LOCAL_STORE_DSN", "file:glimpse.db?cache=shared")
	viper.SetDefault("USERS_COLLECTION_ID", "users")
	viper.SetDefault("POSTS_COLLECTION_ID", "posts")
	viper.SetDefault("SAVES_COLLECTION_ID", "saves")
	viper.SetDefault("STORAGE_BUCKET_ID", "media")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}

	switch c.StoreDriver {
	case StoreDriverRemote:
		if c.RemoteEndpoint == "" {
			return errors.New("REMOTE_ENDPOINT is required in remote mode")
		}
		if c.RemoteProjectID == "" {
			return errors.New("REMOTE_PROJECT_ID is required in remote mode")
		}
		if c.RemoteDatabaseID == "" {
			return errors.New("REMOTE_DATABASE_ID is required in remote mode")
		}
	case StoreDriverSQLite, StoreDriverPostgres:
		if c.LocalStoreDSN == "" {
			return errors.New("LOCAL_STORE_DSN is required in local mode")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.UsersCollectionID == "" || c.PostsCollectionID == "" || c.SavesCollectionID == "" {
		return errors.New("USERS_COLLECTION_ID, POSTS_COLLECTION_ID and SAVES_COLLECTION_ID are required")
	}
	if c.StorageBucketID == "" {
		return errors.New("STORAGE_BUCKET_ID is required")
	}

	isProduction := c.Env == "production" || c.Env == "prod"
	if isProduction {
		if c.StoreDriver != StoreDriverRemote && c.StoreDriver != StoreDriverPostgres {
			log.Println("WARNING: running production with the sqlite local store. Data will not survive the host.")
		}
		if c.StoreDriver == StoreDriverRemote && c.RemoteAPIKey == "" {
			log.Println("WARNING: REMOTE_API_KEY is empty in production. Server-side operations will be limited to session scope.")
		}
	}

	return nil
}
