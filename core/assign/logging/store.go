package logging

import (
	"context"
	"time"
)

// CycleRecord captures one solved cycle for auditing.
type CycleRecord struct {
	Timestamp   time.Time         `json:"timestamp"`
	CycleID     string            `json:"cycle_id"`
	Strategy    string            `json:"strategy"`
	Slots       []string          `json:"slots"`
	Requests    int               `json:"requests"`
	Assignments map[string]string `json:"assignments"`
	Unassigned  []string          `json:"unassigned"`
	Objective   int               `json:"objective"`
	DurationMS  int64             `json:"duration_ms"`
	Error       string            `json:"error,omitempty"`
}

// LogQuery defines filters for retrieving records.
type LogQuery struct {
	Start    time.Time
	End      time.Time
	CycleID  string
	Provider string // records with at least one placement on this provider
	Slot     string
}

// LogStore persists CycleRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec CycleRecord) error
	Query(ctx context.Context, q LogQuery) ([]CycleRecord, error)
	Close() error
}

// match applies the non-time filters of q to rec. Time bounds are handled by
// the stores, which can push them into their storage layer.
func match(rec CycleRecord, q LogQuery) bool {
	if q.CycleID != "" && rec.CycleID != q.CycleID {
		return false
	}
	if q.Slot != "" {
		found := false
		for _, s := range rec.Slots {
			if s == q.Slot {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.Provider != "" {
		found := false
		for _, p := range rec.Assignments {
			if p == q.Provider {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
