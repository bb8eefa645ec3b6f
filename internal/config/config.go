package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/meditriage/triage-api/internal/scoring"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Inference InferenceConfig `mapstructure:"inference"`
	Triage    TriageConfig    `mapstructure:"triage"`
	Worker    WorkerConfig    `mapstructure:"worker"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port" envconfig:"PORT"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	RateLimit      int `mapstructure:"rate_limit"`
	RateBurst      int `mapstructure:"rate_burst"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// InferenceConfig points at the external scoring endpoint. An empty token
// disables remote inference entirely and every call is served locally.
type InferenceConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	Token          string `mapstructure:"token"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxFailures    int    `mapstructure:"max_failures"`
}

func (c InferenceConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type TriageConfig struct {
	Weights         scoring.Weights `mapstructure:"weights"`
	CacheTTLSeconds int             `mapstructure:"cache_ttl_seconds"`
}

func (c TriageConfig) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

type WorkerConfig struct {
	OutboxBatchSize         int `mapstructure:"outbox_batch_size"`
	OutboxPollSeconds       int `mapstructure:"outbox_poll_seconds"`
	AssignmentRetentionDays int `mapstructure:"assignment_retention_days"`
	CleanupIntervalMinutes  int `mapstructure:"cleanup_interval_minutes"`
}

// LoadConfig reads config.yaml via viper, then lets TRIAGE_* environment
// variables override individual fields.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	config.Triage.Weights = scoring.DefaultWeights()
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("triage", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment overrides: %w", err)
	}

	return &config, nil
}
