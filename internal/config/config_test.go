package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.NavTimeout != DefaultNavTimeout {
		t.Errorf("NavTimeout = %v, want %v", cfg.NavTimeout, DefaultNavTimeout)
	}
	if cfg.WaitSelector != DefaultWaitSelector {
		t.Errorf("WaitSelector = %q, want %q", cfg.WaitSelector, DefaultWaitSelector)
	}
	if !cfg.Headless {
		t.Error("Headless should default to true")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MWPROFILE_USER_AGENT", "custom-agent")
	t.Setenv("MWPROFILE_PROXY", "http://localhost:8080")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UserAgent != "custom-agent" {
		t.Errorf("UserAgent = %q, want custom-agent", cfg.UserAgent)
	}
	if cfg.Proxy != "http://localhost:8080" {
		t.Errorf("Proxy = %q, want http://localhost:8080", cfg.Proxy)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*Config)
		valid bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"zero nav timeout", func(c *Config) { c.NavTimeout = 0 }, false},
		{"zero ready timeout", func(c *Config) { c.ReadyTimeout = 0 }, false},
		{"empty wait selector", func(c *Config) { c.WaitSelector = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				NavTimeout:   DefaultNavTimeout,
				ReadyTimeout: DefaultReadyTimeout,
				HTTPTimeout:  30 * time.Second,
				WaitSelector: DefaultWaitSelector,
			}
			tt.mut(cfg)
			err := validate(cfg)
			if (err == nil) != tt.valid {
				t.Errorf("validate() = %v, want valid=%v", err, tt.valid)
			}
		})
	}
}
