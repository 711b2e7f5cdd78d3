package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Decks   DecksConfig   `mapstructure:"decks"`
	LLM     LLMConfig     `mapstructure:"llm"     validate:"required"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Tasks   TasksConfig   `mapstructure:"tasks"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// Storage backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// StorageConfig selects where the reading history and settings documents live.
type StorageConfig struct {
	Backend     string `mapstructure:"backend"      validate:"required,oneof=file postgres"`
	Dir         string `mapstructure:"dir"          validate:"required_if=Backend file"`
	DatabaseURL string `mapstructure:"database_url" validate:"required_if=Backend postgres"`
}

// DecksConfig locates the optional library of user supplied decks.
type DecksConfig struct {
	LibraryDir string `mapstructure:"library_dir"`
}

// Interpretation providers.
const (
	ProviderNone       = "none"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	Provider          string        `mapstructure:"provider"            validate:"required,oneof=none gemini openrouter"`
	APIKey            string        `mapstructure:"api_key"             validate:"required_unless=Provider none"`
	Model             string        `mapstructure:"model"`
	BaseURL           string        `mapstructure:"base_url"            validate:"omitempty,url"`
	Temperature       float32       `mapstructure:"temperature"         validate:"gte=0,lte=2"`
	Timeout           time.Duration `mapstructure:"timeout"             validate:"gt=0"`
	MaxRetries        int           `mapstructure:"max_retries"         validate:"gte=0,lte=10"`
	RetryDelaySeconds int           `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
}

// AuthConfig contains the optional API authentication settings. An empty
// secret disables authentication.
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"     validate:"omitempty,min=32"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime" validate:"gt=0"`
}

// TasksConfig sizes the background worker pool.
type TasksConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"gt=0,lte=64"`
	QueueSize   int `mapstructure:"queue_size"   validate:"gt=0"`
}

// AuthEnabled reports whether API requests must carry a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.Auth.JWTSecret != ""
}
