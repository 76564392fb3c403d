// Package config loads service configuration from defaults, an optional YAML
// file and environment variables, in increasing priority.
package config

import "time"

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	LLM      LLMConfig      `koanf:"llm"`
	Overpass OverpassConfig `koanf:"overpass"`
	Database DatabaseConfig `koanf:"database"`
	Logging  LoggingConfig  `koanf:"logging"`

	// Source is the config file that was loaded, empty when none was found.
	Source string `koanf:"-"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	// Environment is development, production or test.
	Environment string `koanf:"environment"`
	// RequestTimeout bounds one whole recommendation pipeline.
	RequestTimeout time.Duration `koanf:"request_timeout"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	// WriteTimeout must exceed RequestTimeout.
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// LLMConfig selects and tunes the generative-text provider.
type LLMConfig struct {
	Provider      string        `koanf:"provider"` // openai | ollama
	OpenAIKey     string        `koanf:"openai_key"`
	OpenAIModel   string        `koanf:"openai_model"`
	OpenAIBaseURL string        `koanf:"openai_base_url"`
	OllamaURL     string        `koanf:"ollama_url"`
	OllamaModel   string        `koanf:"ollama_model"`
	Timeout       time.Duration `koanf:"timeout"` // per attempt
	MaxRetries    int           `koanf:"max_retries"`
	MaxTokens     int           `koanf:"max_tokens"`
	Temperature   float64       `koanf:"temperature"`
}

// OverpassConfig points at the geographic search service.
type OverpassConfig struct {
	URL            string        `koanf:"url"`
	Timeout        time.Duration `koanf:"timeout"`
	BreakerEnabled bool          `koanf:"breaker_enabled"`
}

// DatabaseConfig selects the history store.
type DatabaseConfig struct {
	Driver     string `koanf:"driver"` // sqlite | postgres | memory
	URL        string `koanf:"url"`    // postgres DSN
	SQLitePath string `koanf:"sqlite_path"`
}

// LoggingConfig is applied to the global zerolog logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json | console
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether internal error details must be hidden.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return joinHostPort(c.Server.Host, c.Server.Port)
}
