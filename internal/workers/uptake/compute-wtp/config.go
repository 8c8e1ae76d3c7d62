// internal/workers/uptake/compute-wtp/config.go
package computewtp

import (
	"fmt"
	"time"

	"plan-uptake-workers/internal/uptake"
)

type Config struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxJobsActive   int           `mapstructure:"max_jobs_active"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
	ConfidenceLevel float64       `mapstructure:"confidence_level"`
	Adjustment      uptake.AdjustmentWeights
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		MaxJobsActive:   5,
		Timeout:         5 * time.Second,
		MaxRetries:      3,
		ConfidenceLevel: uptake.DefaultConfidenceLevel,
		Adjustment:      uptake.DefaultAdjustmentWeights,
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
	if !(c.ConfidenceLevel > 0 && c.ConfidenceLevel < 1) {
		return fmt.Errorf("confidence_level must be in (0,1)")
	}
	if c.Adjustment.Min > c.Adjustment.Max {
		return fmt.Errorf("adjustment bounds are inverted")
	}
	return nil
}
