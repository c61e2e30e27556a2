package events

// StrategyEvent is emitted when the assignment manager picks a strategy.
// Action is the strategy name suffixed with "_attempt", "_failure" or
// "_fallback", e.g. "ilp_attempt".
type StrategyEvent struct {
	CycleID string
	Action  string
	Err     error
}
