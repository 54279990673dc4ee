package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration. It is loaded once at startup
// and passed explicitly into constructors; nothing reads the environment
// after Load returns.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	CORS      CORSConfig
	Extractor ExtractorConfig
	Validator ValidatorConfig
	Cache     CacheConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExtractorConfig holds primary extraction backend settings. Provider "none"
// disables the primary path entirely; analysis then goes straight to the
// regex fallback.
type ExtractorConfig struct {
	Provider     string `mapstructure:"provider"`
	Host         string `mapstructure:"host"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
	MaxRetries   int    `mapstructure:"max_retries"`
	RetryDelayMs int    `mapstructure:"retry_delay_ms"`
}

// Timeout returns the request-level timeout for a single backend attempt.
func (e *ExtractorConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSecs) * time.Second
}

// RetryDelay returns the fixed delay between retry attempts.
func (e *ExtractorConfig) RetryDelay() time.Duration {
	return time.Duration(e.RetryDelayMs) * time.Millisecond
}

// ValidatorConfig holds grounding validation thresholds. The defaults mirror
// long-observed production behavior; they are tunable, not hard-coded.
type ValidatorConfig struct {
	SuspectRatio    float64 `mapstructure:"suspect_ratio"`
	MinTokenRatio   float64 `mapstructure:"min_token_ratio"`
	AmountTolerance float64 `mapstructure:"amount_tolerance"`
}

// CacheConfig holds memoization cache settings.
type CacheConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Capacity int  `mapstructure:"capacity"`
}

// Load reads configuration from environment variables with the RECSCAN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RECSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Extractor defaults
	v.SetDefault("extractor.provider", "ollama")
	v.SetDefault("extractor.host", "http://localhost:11434")
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.default_model", "mistral")
	v.SetDefault("extractor.timeout_secs", 60)
	v.SetDefault("extractor.max_retries", 2)
	v.SetDefault("extractor.retry_delay_ms", 500)

	// Validator defaults
	v.SetDefault("validator.suspect_ratio", 0.75)
	v.SetDefault("validator.min_token_ratio", 1.0/3.0)
	v.SetDefault("validator.amount_tolerance", 0.01)

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.capacity", 100)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "RECSCAN_SERVER_PORT",
		"server.read_timeout":        "RECSCAN_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "RECSCAN_SERVER_WRITE_TIMEOUT",
		"server.environment":         "RECSCAN_SERVER_ENVIRONMENT",
		"log.level":                  "RECSCAN_LOG_LEVEL",
		"cors.allowed_origins":       "RECSCAN_CORS_ALLOWED_ORIGINS",
		"extractor.provider":         "RECSCAN_EXTRACTOR_PROVIDER",
		"extractor.host":             "RECSCAN_EXTRACTOR_HOST",
		"extractor.api_key":          "RECSCAN_EXTRACTOR_API_KEY",
		"extractor.default_model":    "RECSCAN_EXTRACTOR_DEFAULT_MODEL",
		"extractor.timeout_secs":     "RECSCAN_EXTRACTOR_TIMEOUT_SECS",
		"extractor.max_retries":      "RECSCAN_EXTRACTOR_MAX_RETRIES",
		"extractor.retry_delay_ms":   "RECSCAN_EXTRACTOR_RETRY_DELAY_MS",
		"validator.suspect_ratio":    "RECSCAN_VALIDATOR_SUSPECT_RATIO",
		"validator.min_token_ratio":  "RECSCAN_VALIDATOR_MIN_TOKEN_RATIO",
		"validator.amount_tolerance": "RECSCAN_VALIDATOR_AMOUNT_TOLERANCE",
		"cache.enabled":              "RECSCAN_CACHE_ENABLED",
		"cache.capacity":             "RECSCAN_CACHE_CAPACITY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if RECSCAN_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("RECSCAN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level: v.GetString("log.level"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Extractor = ExtractorConfig{
		Provider:     v.GetString("extractor.provider"),
		Host:         v.GetString("extractor.host"),
		APIKey:       v.GetString("extractor.api_key"),
		DefaultModel: v.GetString("extractor.default_model"),
		TimeoutSecs:  v.GetInt("extractor.timeout_secs"),
		MaxRetries:   v.GetInt("extractor.max_retries"),
		RetryDelayMs: v.GetInt("extractor.retry_delay_ms"),
	}

	cfg.Validator = ValidatorConfig{
		SuspectRatio:    v.GetFloat64("validator.suspect_ratio"),
		MinTokenRatio:   v.GetFloat64("validator.min_token_ratio"),
		AmountTolerance: v.GetFloat64("validator.amount_tolerance"),
	}

	cfg.Cache = CacheConfig{
		Enabled:  v.GetBool("cache.enabled"),
		Capacity: v.GetInt("cache.capacity"),
	}

	return cfg, nil
}
