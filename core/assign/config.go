package assign

import (
	"fmt"
	"time"
)

// Strategy names accepted by Config.
const (
	StrategyILP    = "ilp"
	StrategyGreedy = "greedy"
)

// Config selects the assignment strategy and the solver budgets.
type Config struct {
	Strategy        string  `json:"strategy"`
	Fallback        bool    `json:"fallback"` // rerun with greedy when the solver times out
	SolverTimeoutMS int     `json:"solver_timeout_ms"`
	Tolerance       float64 `json:"tolerance"` // binary rounding tolerance
}

// SetDefaults fills unset fields with production defaults.
func (c *Config) SetDefaults() {
	if c.Strategy == "" {
		c.Strategy = StrategyILP
	}
	if c.SolverTimeoutMS == 0 {
		c.SolverTimeoutMS = int(DefaultSolverTimeout / time.Millisecond)
	}
	if c.Tolerance == 0 {
		c.Tolerance = DefaultTolerance
	}
}

// Validate rejects unknown strategies and unusable budgets.
func (c *Config) Validate() error {
	switch c.Strategy {
	case StrategyILP, StrategyGreedy:
	default:
		return fmt.Errorf("unknown assignment strategy %q", c.Strategy)
	}
	if c.SolverTimeoutMS < 0 {
		return fmt.Errorf("solver_timeout_ms must not be negative")
	}
	if c.Tolerance < 0 || c.Tolerance >= 0.5 {
		return fmt.Errorf("tolerance must be in [0, 0.5)")
	}
	return nil
}

// SolverTimeout returns the configured budget as a duration.
func (c Config) SolverTimeout() time.Duration {
	return time.Duration(c.SolverTimeoutMS) * time.Millisecond
}
