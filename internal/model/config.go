package model

import "fmt"

// Config is the full runtime configuration. Values come from defaults,
// the config file, REPCOST_* environment variables, then CLI flags.
type Config struct {
	Oracle      OracleConfig      `yaml:"oracle" mapstructure:"oracle"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Pricing     PricingConfig     `yaml:"pricing" mapstructure:"pricing"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// OracleConfig configures the external pricing oracle.
type OracleConfig struct {
	// Provider name: "openai", "anthropic", or "" (oracle disabled,
	// price-table-only mode).
	Provider string `yaml:"provider" mapstructure:"provider"`

	// Model name (provider-specific).
	Model string `yaml:"model" mapstructure:"model"`

	// APIKey for the provider. Usually supplied via environment.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	// BaseURL for custom endpoints.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout per oracle call, in seconds.
	Timeout int `yaml:"timeout" mapstructure:"timeout"`

	// MaxTokens limits the response length.
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`

	// RequestsPerSecond rate-limits oracle calls. Zero disables limiting;
	// pricing correctness never depends on it.
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// Burst for the rate limiter.
	Burst int `yaml:"burst" mapstructure:"burst"`
}

// CacheConfig configures the priced-result cache.
type CacheConfig struct {
	Dir      string `yaml:"dir" mapstructure:"dir"`
	Disabled bool   `yaml:"disabled" mapstructure:"disabled"`
}

// PricingConfig selects the regional pricing context.
type PricingConfig struct {
	Region string `yaml:"region" mapstructure:"region"`
	State  string `yaml:"state" mapstructure:"state"`
}

// ConcurrencyConfig bounds phase-1 pricing parallelism.
type ConcurrencyConfig struct {
	PricingWorkers int `yaml:"pricing_workers" mapstructure:"pricing_workers"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Oracle: OracleConfig{
			Provider:  "",
			Timeout:   30,
			MaxTokens: 1024,
		},
		Cache: CacheConfig{
			Dir: ".estimate_cache",
		},
		Pricing: PricingConfig{
			Region: "Default",
			State:  "Texas",
		},
		Concurrency: ConcurrencyConfig{
			PricingWorkers: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate reports fatal configuration errors. These abort the run
// before any pricing begins.
func (c Config) Validate() error {
	switch c.Oracle.Provider {
	case "", "openai", "anthropic":
	default:
		return fmt.Errorf("unknown oracle provider: %q (supported: openai, anthropic)", c.Oracle.Provider)
	}
	if c.Oracle.Provider != "" && c.Oracle.APIKey == "" {
		return fmt.Errorf("oracle provider %q requires an API key", c.Oracle.Provider)
	}
	if c.Concurrency.PricingWorkers < 0 {
		return fmt.Errorf("pricing_workers must be >= 0, got %d", c.Concurrency.PricingWorkers)
	}
	if !c.Cache.Disabled && c.Cache.Dir == "" {
		return fmt.Errorf("cache.dir is required unless the cache is disabled")
	}
	return nil
}
