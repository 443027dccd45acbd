package config

import "fmt"

func validate(c *Config) error {
	if c.NavTimeout <= 0 {
		return fmt.Errorf("navigation timeout must be > 0")
	}
	if c.ReadyTimeout <= 0 {
		return fmt.Errorf("readiness timeout must be > 0")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.WaitSelector == "" {
		return fmt.Errorf("wait selector must not be empty")
	}
	return nil
}
