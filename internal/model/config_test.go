package model

import "testing"

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name: "openai with key",
			mutate: func(c *Config) {
				c.Oracle.Provider = "openai"
				c.Oracle.APIKey = "sk-test"
			},
		},
		{
			name: "provider without key",
			mutate: func(c *Config) {
				c.Oracle.Provider = "anthropic"
			},
			wantErr: true,
		},
		{
			name: "unknown provider",
			mutate: func(c *Config) {
				c.Oracle.Provider = "gemini"
			},
			wantErr: true,
		},
		{
			name: "negative workers",
			mutate: func(c *Config) {
				c.Concurrency.PricingWorkers = -1
			},
			wantErr: true,
		},
		{
			name: "enabled cache without dir",
			mutate: func(c *Config) {
				c.Cache.Dir = ""
			},
			wantErr: true,
		},
		{
			name: "disabled cache without dir",
			mutate: func(c *Config) {
				c.Cache.Dir = ""
				c.Cache.Disabled = true
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
