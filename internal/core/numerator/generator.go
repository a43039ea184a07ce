package numerator

import (
	"context"
)

// Strategy defines how the next counter is derived.
type Strategy int

const (
	// StrategyCounter increments a dedicated row in sys_sequences inside the
	// caller's transaction. The row lock serializes writers of one key and a
	// rolled back issuance rolls the counter back too, so counters stay dense.
	// The first use of a key seeds it from the numbers already issued.
	StrategyCounter Strategy = iota

	// StrategyScan returns max(existing counter)+1 by scanning issued numbers.
	// Concurrent writers may compute the same value; the unique constraint on
	// the number column rejects the loser and RunWithRetry tries again.
	StrategyScan
)

func (s Strategy) String() string {
	switch s {
	case StrategyScan:
		return "scan"
	default:
		return "counter"
	}
}

// ParseStrategy maps a configuration value onto a Strategy.
func ParseStrategy(s string) Strategy {
	if s == "scan" {
		return StrategyScan
	}
	return StrategyCounter
}

// Generator allocates document numbers.
// Implementations must run on the transaction carried by ctx so that the
// allocation commits or rolls back together with the document insert.
type Generator interface {
	// NextNumber returns the formatted next number of cfg's series for scope.
	NextNumber(ctx context.Context, cfg Config, scope Scope) (string, error)
}
