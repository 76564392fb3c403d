package config

import (
	"errors"
	"fmt"
	"strings"
)

// normalize lowercases the enumerated settings so every consumer can
// compare them exactly.
func (c *Config) normalize() {
	c.Server.Environment = strings.ToLower(strings.TrimSpace(c.Server.Environment))
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

// Validate checks provider, driver and required keys.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	switch c.Server.Environment {
	case "development", "production", "test":
	default:
		errs = append(errs, fmt.Errorf("server.environment must be development, production or test, got %q", c.Server.Environment))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, errors.New("server.request_timeout must be positive"))
	}
	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout <= c.Server.RequestTimeout {
		errs = append(errs, errors.New("server.write_timeout must exceed server.request_timeout"))
	}

	switch c.LLM.Provider {
	case "openai":
		if c.LLM.OpenAIKey == "" {
			errs = append(errs, errors.New("llm.openai_key (OPENAI_KEY) is required for the openai provider"))
		}
	case "ollama":
		if c.LLM.OllamaURL == "" {
			errs = append(errs, errors.New("llm.ollama_url is required for the ollama provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("llm.provider must be openai or ollama, got %q", c.LLM.Provider))
	}
	if c.LLM.MaxRetries < 0 {
		errs = append(errs, errors.New("llm.max_retries must not be negative"))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature must be between 0 and 2, got %v", c.LLM.Temperature))
	}

	if c.Overpass.URL == "" {
		errs = append(errs, errors.New("overpass.url is required"))
	}

	switch c.Database.Driver {
	case "sqlite", "memory":
	case "postgres":
		if c.Database.URL == "" {
			errs = append(errs, errors.New("database.url (DATABASE_URL) is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver must be sqlite, postgres or memory, got %q", c.Database.Driver))
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not a known level", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}
