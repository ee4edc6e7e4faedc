package resilience

import (
	"time"

	"github.com/riskibarqy/league-auction/internal/platform/logging"
)

type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

func (c CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if c.FailureThreshold < 1 {
		c.FailureThreshold = defaults.FailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaults.OpenTimeout
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return c
}

// FromConfig returns nil for a disabled config; Execute on a nil breaker
// always runs the call.
func FromConfig(name string, cfg CircuitBreakerConfig, opts ...Option) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	return NewCircuitBreaker(name, cfg, opts...)
}

// LogTransitions reports every breaker transition at warn level, or info
// when the breaker closes again.
func LogTransitions(logger *logging.Logger) Option {
	return WithStateChange(func(name string, from, to CircuitState) {
		if to == CircuitStateClosed {
			logger.Info("circuit breaker closed", "dependency", name, "from", string(from))
			return
		}
		logger.Warn("circuit breaker state changed", "dependency", name, "from", string(from), "to", string(to))
	})
}
