package generator

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is the sentinel every configuration validation error unwraps to.
var ErrInvalidConfig = errors.New("invalid configuration")

// InvalidConfigError reports a generation parameter that is out of range.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

func (e *InvalidConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Config drives the synthetic transaction generator.
type Config struct {
	Count            int
	UserPoolSize     int
	MerchantPoolSize int
	AmountMin        float64
	AmountMax        float64
	// FailureRate is the base probability of a failed status. Per-merchant and
	// per-city overrides take precedence, merchant first.
	FailureRate          float64
	MerchantFailureRates map[string]float64
	CityFailureRates     map[string]float64
	WindowStart          time.Time
	WindowEnd            time.Time
	Seed                 int64
}

// DefaultConfig mirrors the sample dataset consumed by the analysis jobs:
// 10k transactions over 1k users and 50 merchants, 30-day window.
func DefaultConfig() Config {
	now := time.Now().UTC().Truncate(time.Second)
	return Config{
		Count:            10000,
		UserPoolSize:     1000,
		MerchantPoolSize: 50,
		AmountMin:        10,
		AmountMax:        1000,
		FailureRate:      0.15,
		WindowStart:      now.AddDate(0, 0, -30),
		WindowEnd:        now,
		Seed:             42,
	}
}

// Validate checks every generation parameter before a run starts.
func (c Config) Validate() error {
	if c.Count <= 0 {
		return &InvalidConfigError{Field: "count", Reason: "must be positive"}
	}
	if c.UserPoolSize <= 0 {
		return &InvalidConfigError{Field: "user_pool_size", Reason: "must be positive"}
	}
	if c.MerchantPoolSize <= 0 {
		return &InvalidConfigError{Field: "merchant_pool_size", Reason: "must be positive"}
	}
	if c.AmountMin <= 0 {
		return &InvalidConfigError{Field: "amount_range", Reason: "minimum must be positive"}
	}
	if c.AmountMax < c.AmountMin {
		return &InvalidConfigError{Field: "amount_range", Reason: "bounds are inverted"}
	}
	if c.FailureRate < 0 || c.FailureRate > 1 {
		return &InvalidConfigError{Field: "failure_rate", Reason: "must lie in [0,1]"}
	}
	for id, rate := range c.MerchantFailureRates {
		if rate < 0 || rate > 1 {
			return &InvalidConfigError{Field: "merchant_failure_rates", Reason: fmt.Sprintf("rate for %s must lie in [0,1]", id)}
		}
	}
	for city, rate := range c.CityFailureRates {
		if rate < 0 || rate > 1 {
			return &InvalidConfigError{Field: "city_failure_rates", Reason: fmt.Sprintf("rate for %s must lie in [0,1]", city)}
		}
	}
	if c.WindowStart.IsZero() || c.WindowEnd.IsZero() {
		return &InvalidConfigError{Field: "time_window", Reason: "bounds are required"}
	}
	if !c.WindowEnd.After(c.WindowStart) {
		return &InvalidConfigError{Field: "time_window", Reason: "end must be after start"}
	}
	return nil
}
