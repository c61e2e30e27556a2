// Package notify defines the downstream notification contract. After a cycle
// is solved, the engine fans the result out to interested consumers: one
// notice per provider carrying its placements, plus a cycle-level summary.
package notify

import "time"

// ProviderNotice carries the placements a single provider received in one cycle.
type ProviderNotice struct {
	NoticeID string              `json:"notice_id"`
	CycleID  string              `json:"cycle_id"`
	Provider string              `json:"provider"`
	Placed   int                 `json:"placed"`
	BySlot   map[string][]string `json:"by_slot,omitempty"`
	SolvedAt time.Time           `json:"solved_at"`
}

// CycleSummary describes the outcome of one solved cycle.
type CycleSummary struct {
	CycleID    string    `json:"cycle_id"`
	Strategy   string    `json:"strategy"`
	Requests   int       `json:"requests"`
	Placed     int       `json:"placed"`
	Unassigned []string  `json:"unassigned,omitempty"`
	SolvedAt   time.Time `json:"solved_at"`
}

// Notifier publishes assignment outcomes to downstream consumers.
type Notifier interface {
	// NotifyProvider publishes the placements one provider received.
	NotifyProvider(n ProviderNotice) error

	// NotifyCycle publishes the summary of a solved cycle.
	NotifyCycle(s CycleSummary) error

	// Close releases the underlying connection.
	Close() error
}
