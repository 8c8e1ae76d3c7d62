// internal/workers/uptake/sweep-sensitivity/config.go
package sweepsensitivity

import (
	"fmt"
	"time"

	"plan-uptake-workers/internal/uptake"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetries    int           `mapstructure:"max_retries"`
	MaxPoints     int           `mapstructure:"max_points"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       15 * time.Second,
		MaxRetries:    3,
		MaxPoints:     uptake.MaxSweepPoints,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if c.MaxPoints <= 0 || c.MaxPoints > uptake.MaxSweepPoints {
		return fmt.Errorf("max_points must be in [1, %d]", uptake.MaxSweepPoints)
	}
	return nil
}
