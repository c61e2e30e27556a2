package events

import "time"

// CycleReceivedEvent is published when a batch of requests enters the
// assignment pipeline.
type CycleReceivedEvent struct {
	CycleID    string
	Requests   int
	Slots      []string
	ReceivedAt time.Time
}

// CycleSolvedEvent summarizes a completed solve.
type CycleSolvedEvent struct {
	CycleID    string
	Strategy   string
	Requests   int
	Placed     int
	Unassigned int
	Duration   time.Duration
}
