package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration of the registration server.
type Config struct {
	Server   Server
	Schema   SchemaConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Pincode  PincodeConfig
	// DemoOTP is the only OTP accepted while real OTP delivery is out of scope.
	DemoOTP string `validate:"required,len=6,numeric"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `validate:"required"`
	Environment     string        `validate:"required"`
	LogLevel        string        `validate:"oneof=debug info warn error"`
	FrontendURL     string        `validate:"omitempty,url"`
	RequestTimeout  time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// SchemaConfig locates the field schema file. An empty Path selects the embedded schema.
type SchemaConfig struct {
	Path  string
	Watch bool
}

// DatabaseConfig selects the Postgres-backed record store when URL is set.
type DatabaseConfig struct {
	URL             string
	Driver          string `validate:"oneof=pgx postgres"`
	MaxOpenConns    int    `validate:"gte=1"`
	MaxIdleConns    int    `validate:"gte=0"`
	ConnMaxLifetime time.Duration
}

// RedisConfig selects the Redis-backed pincode cache when URL is set.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig enables audit publishing when Brokers is set.
type KafkaConfig struct {
	Brokers    string
	AuditTopic string `validate:"required"`
}

// PincodeConfig configures the postal-code lookup collaborator.
type PincodeConfig struct {
	APIURL   string        `validate:"required,url"`
	CacheTTL time.Duration `validate:"gt=0"`
	Timeout  time.Duration `validate:"gt=0"`
}

// Enabled reports whether a database URL was configured.
func (c DatabaseConfig) Enabled() bool { return c.URL != "" }

// Enabled reports whether a Redis URL was configured.
func (c RedisConfig) Enabled() bool { return c.URL != "" }

// Enabled reports whether Kafka brokers were configured.
func (c KafkaConfig) Enabled() bool { return c.Brokers != "" }

func setDefaults(v *viper.Viper) {
	v.SetDefault("ADDR", ":5001")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("REQUEST_TIMEOUT", 30*time.Second)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)

	v.SetDefault("SCHEMA_PATH", "")
	v.SetDefault("SCHEMA_WATCH", false)

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATABASE_DRIVER", "pgx")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute)

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 2)
	v.SetDefault("REDIS_DIAL_TIMEOUT", 5*time.Second)
	v.SetDefault("REDIS_READ_TIMEOUT", 3*time.Second)
	v.SetDefault("REDIS_WRITE_TIMEOUT", 3*time.Second)

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("AUDIT_TOPIC", "registration.audit")

	v.SetDefault("PINCODE_API_URL", "https://api.postalpincode.in/pincode")
	v.SetDefault("PINCODE_CACHE_TTL", 24*time.Hour)
	v.SetDefault("PINCODE_TIMEOUT", 5*time.Second)

	v.SetDefault("DEMO_OTP", "123456")
}

// Load reads configuration from an optional .env file, an optional config.yaml
// and the process environment, in increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: Server{
			Addr:            v.GetString("ADDR"),
			Environment:     v.GetString("ENVIRONMENT"),
			LogLevel:        strings.ToLower(v.GetString("LOG_LEVEL")),
			FrontendURL:     v.GetString("FRONTEND_URL"),
			RequestTimeout:  v.GetDuration("REQUEST_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Schema: SchemaConfig{
			Path:  v.GetString("SCHEMA_PATH"),
			Watch: v.GetBool("SCHEMA_WATCH"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("DATABASE_URL"),
			Driver:          v.GetString("DATABASE_DRIVER"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DATABASE_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			URL:          v.GetString("REDIS_URL"),
			PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
			DialTimeout:  v.GetDuration("REDIS_DIAL_TIMEOUT"),
			ReadTimeout:  v.GetDuration("REDIS_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("REDIS_WRITE_TIMEOUT"),
		},
		Kafka: KafkaConfig{
			Brokers:    v.GetString("KAFKA_BROKERS"),
			AuditTopic: v.GetString("AUDIT_TOPIC"),
		},
		Pincode: PincodeConfig{
			APIURL:   strings.TrimSuffix(v.GetString("PINCODE_API_URL"), "/"),
			CacheTTL: v.GetDuration("PINCODE_CACHE_TTL"),
			Timeout:  v.GetDuration("PINCODE_TIMEOUT"),
		},
		DemoOTP: v.GetString("DEMO_OTP"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
