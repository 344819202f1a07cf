package logger

import "fmt"

// Config contains logging configuration.
type Config struct {
	Level     string `json:"level"`
	Format    string `json:"format"`
	Output    string `json:"output"`
	NoColor   bool   `json:"no_color"`
	Timestamp bool   `json:"timestamp"`
}

// ApplyDefaults applies default values to unset logging configuration.
// Explicit values, including Timestamp false, are left alone.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
}

// Validate validates logging configuration.
func (c *Config) Validate() error {
	validLevels := []string{"trace", "debug", "info", "warn", "error"}
	if !contains(validLevels, c.Level) {
		return fmt.Errorf("logging.level must be one of %v (got: %s)", validLevels, c.Level)
	}
	validFormats := []string{"json", "console"}
	if !contains(validFormats, c.Format) {
		return fmt.Errorf("logging.format must be one of %v (got: %s)", validFormats, c.Format)
	}
	return nil
}

func contains(slice []string, val string) bool {
	for _, s := range slice {
		if s == val {
			return true
		}
	}
	return false
}
