// Package config handles loading and validation of the console configuration
// from environment variables.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/OldiBike/mototrip-planner-sub000/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// ServerConfig holds console HTTP server settings.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
	// PublicOrigin is the customer-facing site used to build published trip URLs.
	PublicOrigin string `mapstructure:"PUBLIC_ORIGIN" yaml:"public_origin"`
}

// BackendConfig describes the admin API the console consumes.
type BackendConfig struct {
	BaseURL string `mapstructure:"BASE_URL" yaml:"base_url"`
	APIKey  string `mapstructure:"API_KEY" yaml:"api_key"`
	// TimeoutSeconds of 0 disables the client timeout.
	TimeoutSeconds int `mapstructure:"TIMEOUT_SECONDS" yaml:"timeout_seconds"`
}

// Timeout returns the configured request timeout.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// RedisConfig holds Redis connection details for the toast store.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"ENABLED" yaml:"enabled"`
	Address  string `mapstructure:"ADDRESS" yaml:"address"`
	Password string `mapstructure:"PASSWORD" yaml:"password"`
	DB       int    `mapstructure:"DB" yaml:"db"`
	UseTLS   bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
}

// ConsoleConfig holds UI timing and session settings.
type ConsoleConfig struct {
	SessionCookie     string `mapstructure:"SESSION_COOKIE" yaml:"session_cookie"`
	ToastTTLSeconds   int    `mapstructure:"TOAST_TTL_SECONDS" yaml:"toast_ttl_seconds"`
	SuggestDebounceMS int    `mapstructure:"SUGGEST_DEBOUNCE_MS" yaml:"suggest_debounce_ms"`
	ProgressTickMS    int    `mapstructure:"PROGRESS_TICK_MS" yaml:"progress_tick_ms"`
	ProgressCeiling   int    `mapstructure:"PROGRESS_CEILING" yaml:"progress_ceiling"`
	DefaultLanguage   string `mapstructure:"DEFAULT_LANGUAGE" yaml:"default_language"`
	// WorkspaceIdleMinutes evicts sessions nobody touched for that long.
	WorkspaceIdleMinutes int `mapstructure:"WORKSPACE_IDLE_MINUTES" yaml:"workspace_idle_minutes"`
	// SearchPerMinute caps moto-friendly searches per session; enforced only with Redis.
	SearchPerMinute int `mapstructure:"SEARCH_PER_MINUTE" yaml:"search_per_minute"`
}

func (c ConsoleConfig) ToastTTL() time.Duration {
	return time.Duration(c.ToastTTLSeconds) * time.Second
}

func (c ConsoleConfig) SuggestDebounce() time.Duration {
	return time.Duration(c.SuggestDebounceMS) * time.Millisecond
}

func (c ConsoleConfig) ProgressTick() time.Duration {
	return time.Duration(c.ProgressTickMS) * time.Millisecond
}

func (c ConsoleConfig) WorkspaceIdle() time.Duration {
	return time.Duration(c.WorkspaceIdleMinutes) * time.Minute
}

// WorkerPoolConfig holds configuration for the background photo upload pool.
type WorkerPoolConfig struct {
	// MaxWorkers is the number of uploads sent concurrently (default: 4)
	MaxWorkers int `mapstructure:"MAX_WORKERS" yaml:"max_workers"`
	// QueueSize is the maximum number of uploads waiting for a worker (default: 32)
	QueueSize int `mapstructure:"QUEUE_SIZE" yaml:"queue_size"`
	// JobTimeoutSeconds bounds one upload (default: 300)
	JobTimeoutSeconds int `mapstructure:"JOB_TIMEOUT_SECONDS" yaml:"job_timeout_seconds"`
	// ShutdownTimeoutSeconds is the max time to wait for uploads during shutdown (default: 30)
	ShutdownTimeoutSeconds int `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS" yaml:"shutdown_timeout_seconds"`
}

func (w WorkerPoolConfig) JobTimeout() time.Duration {
	return time.Duration(w.JobTimeoutSeconds) * time.Second
}

func (w WorkerPoolConfig) ShutdownTimeout() time.Duration {
	return time.Duration(w.ShutdownTimeoutSeconds) * time.Second
}

// Config aggregates all application configuration sections.
type Config struct {
	Server     ServerConfig     `mapstructure:"SERVER" yaml:"server"`
	Backend    BackendConfig    `mapstructure:"BACKEND" yaml:"backend"`
	Redis      RedisConfig      `mapstructure:"REDIS" yaml:"redis"`
	Console    ConsoleConfig    `mapstructure:"CONSOLE" yaml:"console"`
	WorkerPool WorkerPoolConfig `mapstructure:"WORKER_POOL" yaml:"worker_pool"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables using Viper,
// applies defaults, unmarshals and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("SERVER.PUBLIC_ORIGIN", "http://localhost:5000")
	v.SetDefault("BACKEND.BASE_URL", "http://localhost:5000")
	v.SetDefault("BACKEND.API_KEY", "")
	v.SetDefault("BACKEND.TIMEOUT_SECONDS", 0)
	v.SetDefault("REDIS.ENABLED", false)
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("CONSOLE.SESSION_COOKIE", "console_session")
	v.SetDefault("CONSOLE.TOAST_TTL_SECONDS", 300)
	v.SetDefault("CONSOLE.SUGGEST_DEBOUNCE_MS", 300)
	v.SetDefault("CONSOLE.PROGRESS_TICK_MS", 200)
	v.SetDefault("CONSOLE.PROGRESS_CEILING", 90)
	v.SetDefault("CONSOLE.DEFAULT_LANGUAGE", "fr")
	v.SetDefault("CONSOLE.WORKSPACE_IDLE_MINUTES", 120)
	v.SetDefault("CONSOLE.SEARCH_PER_MINUTE", 20)
	v.SetDefault("WORKER_POOL.MAX_WORKERS", 4)
	v.SetDefault("WORKER_POOL.QUEUE_SIZE", 32)
	v.SetDefault("WORKER_POOL.JOB_TIMEOUT_SECONDS", 300)
	v.SetDefault("WORKER_POOL.SHUTDOWN_TIMEOUT_SECONDS", 30)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.VERSION", "VERSION"},
		{"SERVER.PUBLIC_ORIGIN", "PUBLIC_ORIGIN"},
		{"BACKEND.BASE_URL", "BACKEND_BASE_URL"},
		{"BACKEND.API_KEY", "BACKEND_API_KEY"},
		{"BACKEND.TIMEOUT_SECONDS", "BACKEND_TIMEOUT_SECONDS"},
		{"REDIS.ENABLED", "REDIS_ENABLED"},
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"REDIS.USE_TLS", "REDIS_USE_TLS"},
		{"CONSOLE.SESSION_COOKIE", "CONSOLE_SESSION_COOKIE"},
		{"CONSOLE.TOAST_TTL_SECONDS", "CONSOLE_TOAST_TTL_SECONDS"},
		{"CONSOLE.SUGGEST_DEBOUNCE_MS", "CONSOLE_SUGGEST_DEBOUNCE_MS"},
		{"CONSOLE.PROGRESS_TICK_MS", "CONSOLE_PROGRESS_TICK_MS"},
		{"CONSOLE.PROGRESS_CEILING", "CONSOLE_PROGRESS_CEILING"},
		{"CONSOLE.DEFAULT_LANGUAGE", "CONSOLE_DEFAULT_LANGUAGE"},
		{"CONSOLE.WORKSPACE_IDLE_MINUTES", "CONSOLE_WORKSPACE_IDLE_MINUTES"},
		{"CONSOLE.SEARCH_PER_MINUTE", "CONSOLE_SEARCH_PER_MINUTE"},
		{"WORKER_POOL.MAX_WORKERS", "WORKER_POOL_MAX_WORKERS"},
		{"WORKER_POOL.QUEUE_SIZE", "WORKER_POOL_QUEUE_SIZE"},
		{"WORKER_POOL.JOB_TIMEOUT_SECONDS", "WORKER_POOL_JOB_TIMEOUT_SECONDS"},
		{"WORKER_POOL.SHUTDOWN_TIMEOUT_SECONDS", "WORKER_POOL_SHUTDOWN_TIMEOUT_SECONDS"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	log.Infow("Configuration loaded",
		"environment", v.GetString("SERVER.ENVIRONMENT"),
		"server_port", v.GetString("SERVER.PORT"),
		"backend_url", v.GetString("BACKEND.BASE_URL"),
		"backend_api_key", logger.MaskAPIKey(v.GetString("BACKEND.API_KEY")),
		"redis_enabled", v.GetBool("REDIS.ENABLED"),
		"suggest_debounce_ms", v.GetInt("CONSOLE.SUGGEST_DEBOUNCE_MS"),
	)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Info("Configuration validated successfully")
	return &cfg, nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	log := logger.GetLogger()

	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if !containsWildcard(cfg.Server.AllowedOrigins) {
		for _, origin := range cfg.Server.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}
	if _, err := url.ParseRequestURI(cfg.Server.PublicOrigin); err != nil {
		return fmt.Errorf("invalid public origin: %w", err)
	}
	cfg.Server.PublicOrigin = strings.TrimRight(cfg.Server.PublicOrigin, "/")

	if cfg.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL is required")
	}
	if _, err := url.ParseRequestURI(cfg.Backend.BaseURL); err != nil {
		return fmt.Errorf("invalid backend base URL: %w", err)
	}
	cfg.Backend.BaseURL = strings.TrimRight(cfg.Backend.BaseURL, "/")
	if cfg.Backend.TimeoutSeconds < 0 {
		return fmt.Errorf("backend timeout cannot be negative")
	}
	if cfg.Backend.APIKey == "" {
		log.Warn("Backend API key is not set. Requests are sent without credentials.")
	}

	if cfg.Redis.Enabled && cfg.Redis.Address == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}

	if cfg.Console.SessionCookie == "" {
		return fmt.Errorf("console session cookie name is required")
	}
	if cfg.Console.ToastTTLSeconds <= 0 {
		return fmt.Errorf("toast TTL must be positive")
	}
	if cfg.Console.SuggestDebounceMS <= 0 {
		return fmt.Errorf("suggest debounce must be positive")
	}
	if cfg.Console.ProgressTickMS <= 0 {
		return fmt.Errorf("progress tick must be positive")
	}
	if cfg.Console.ProgressCeiling <= 0 || cfg.Console.ProgressCeiling >= 100 {
		return fmt.Errorf("progress ceiling must be between 1 and 99")
	}
	if cfg.Console.WorkspaceIdleMinutes <= 0 {
		return fmt.Errorf("workspace idle timeout must be positive")
	}
	if cfg.Console.SearchPerMinute < 0 {
		return fmt.Errorf("search rate cannot be negative")
	}

	if cfg.WorkerPool.MaxWorkers <= 0 {
		return fmt.Errorf("worker pool needs at least one worker")
	}
	if cfg.WorkerPool.QueueSize <= 0 {
		return fmt.Errorf("worker pool queue size must be positive")
	}
	if cfg.WorkerPool.JobTimeoutSeconds <= 0 {
		return fmt.Errorf("upload timeout must be positive")
	}

	return nil
}

// containsWildcard checks if the list of allowed origins contains the wildcard "*".
func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
