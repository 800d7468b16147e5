package config

import (
	"fmt"
	"os"
	"strings"

	httpapi "github.com/amitd-dev/icebarcatmf/internal/api/http"
	"github.com/amitd-dev/icebarcatmf/internal/kv"
	"github.com/amitd-dev/icebarcatmf/internal/store"
	"github.com/amitd-dev/icebarcatmf/log"
	"github.com/spf13/viper"
)

// Config represents the global configuration for the service.
type Config struct {
	DB     store.Config   `mapstructure:"postgres"`
	Logger log.Config     `mapstructure:"logger"`
	HTTP   httpapi.Config `mapstructure:"http"`
	Redis  kv.Config      `mapstructure:"redis"`
}

// LoadConfig loads the configuration from a file and/or environment variables.
// Environment variables take precedence over config file values.
// Nested config keys use double underscore, e.g., POSTGRES__DSN for postgres.dsn
func LoadConfig(cfgFile string) (*Config, error) {
	viper.SetConfigType("toml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))

	bindEnvVars()

	// Config file is optional, env vars alone are enough.
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("$HOME/config/icebarcatmf")
		viper.AddConfigPath("/etc/icebarcatmf")
		_ = viper.ReadInConfig()
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %v", err)
	}

	// Construct the DSN from individual env vars when it is not set directly.
	if config.DB.DSN == "" {
		host := os.Getenv("POSTGRES_HOST")
		if host != "" {
			port := os.Getenv("POSTGRES_PORT")
			if port == "" {
				port = "5432"
			}
			user := os.Getenv("POSTGRES_USER")
			password := os.Getenv("POSTGRES_PASSWORD")
			database := os.Getenv("POSTGRES_DATABASE")
			sslmode := os.Getenv("POSTGRES_SSLMODE")
			if sslmode == "" {
				sslmode = "disable"
			}
			if user != "" && database != "" {
				config.DB.DSN = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
					user, password, host, port, database, sslmode)
			}
		}
	}

	return &config, nil
}

// bindEnvVars binds flat environment variable names to nested config keys.
func bindEnvVars() {
	// Postgres
	viper.BindEnv("postgres.dsn", "POSTGRES_DSN")
	viper.BindEnv("postgres.automigrate", "POSTGRES_AUTOMIGRATE")
	viper.BindEnv("postgres.max_open_connections", "POSTGRES_MAX_OPEN_CONNECTIONS")
	viper.BindEnv("postgres.max_idle_connections", "POSTGRES_MAX_IDLE_CONNECTIONS")

	// Logger
	viper.BindEnv("logger.level", "LOG_LEVEL")
	viper.BindEnv("logger.add_source", "LOG_ADD_SOURCE")

	// HTTP
	viper.BindEnv("http.port", "HTTP_PORT")
	viper.BindEnv("http.address", "HTTP_ADDRESS")
	viper.BindEnv("http.allowed_origins", "HTTP_ALLOWED_ORIGINS")

	// Redis
	viper.BindEnv("redis.address", "REDIS_ADDRESS")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")
	viper.BindEnv("redis.ttl", "REDIS_TTL")
}
