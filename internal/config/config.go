package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// Fetching
	NavTimeout   time.Duration
	ReadyTimeout time.Duration
	HTTPTimeout  time.Duration
	UserAgent    string
	Proxy        string
	WaitSelector string

	// Browser
	ChromePath string
	Headless   bool

	// Artifacts
	OutputDir string
}

// Load builds a Config by layering defaults, environment variables, and CLI
// flags. Caller should pass the root *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := &Config{
		LogLevel:     DefaultLogLevel,
		JSONLog:      DefaultJSONLog,
		NavTimeout:   DefaultNavTimeout,
		ReadyTimeout: DefaultReadyTimeout,
		HTTPTimeout:  DefaultHTTPTimeout,
		UserAgent:    DefaultUserAgent,
		WaitSelector: DefaultWaitSelector,
		Headless:     DefaultHeadless,
		OutputDir:    DefaultOutputDir,
	}

	if v := os.Getenv("MWPROFILE_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("MWPROFILE_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("MWPROFILE_CHROME_PATH"); v != "" {
		cfg.ChromePath = v
	}
	if v := os.Getenv("MWPROFILE_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}

	if cmd != nil {
		if f := cmd.Flags().Lookup("user-agent"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.UserAgent = s
			}
		}
		if f := cmd.Flags().Lookup("proxy"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.Proxy = s
			}
		}
		if f := cmd.Flags().Lookup("timeout"); f != nil {
			if s := f.Value.String(); s != "" {
				if d, err := time.ParseDuration(s); err == nil {
					cfg.NavTimeout = d
				}
			}
		}
		if f := cmd.Flags().Lookup("json"); f != nil {
			if f.Value.String() == "true" {
				cfg.JSONLog = true
			}
		}
		if f := cmd.Flags().Lookup("verbose"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "debug"
			}
		}
		if f := cmd.Flags().Lookup("quiet"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "error"
			}
		}
		if f := cmd.Flags().Lookup("show-browser"); f != nil {
			if f.Value.String() == "true" {
				cfg.Headless = false
			}
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
