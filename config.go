package captcha

import (
	"errors"
	"time"
)

// Config is the timing policy for a Solver: how long one solve operation may
// run and how often it polls for the result. A Config is immutable once the
// Solver is constructed and is shared read-only across all Solve calls.
type Config struct {
	// Timeout bounds one solve operation, measured from task submission.
	Timeout time.Duration

	// PollInterval is the pause between result polls.
	PollInterval time.Duration
}

// FastConfig is the preset for development and easy captcha types.
func FastConfig() Config {
	return Config{Timeout: 60 * time.Second, PollInterval: 2 * time.Second}
}

// BalancedConfig is the preset for most production use.
func BalancedConfig() Config {
	return Config{Timeout: 120 * time.Second, PollInterval: 3 * time.Second}
}

// PatientConfig is the preset for slow vendors and complex captcha types.
func PatientConfig() Config {
	return Config{Timeout: 300 * time.Second, PollInterval: 5 * time.Second}
}

// DefaultConfig is the balanced preset.
func DefaultConfig() Config { return BalancedConfig() }

var (
	ErrNonPositiveTimeout      = errors.New("captcha: timeout must be positive")
	ErrNonPositivePollInterval = errors.New("captcha: poll interval must be positive")
	ErrPollIntervalTooLarge    = errors.New("captcha: poll interval must not exceed timeout")
)

// NewConfig builds a validated Config.
func NewConfig(timeout, pollInterval time.Duration) (Config, error) {
	cfg := Config{Timeout: timeout, PollInterval: pollInterval}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the timing invariants.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrNonPositiveTimeout
	}
	if c.PollInterval <= 0 {
		return ErrNonPositivePollInterval
	}
	if c.PollInterval > c.Timeout {
		return ErrPollIntervalTooLarge
	}
	return nil
}
