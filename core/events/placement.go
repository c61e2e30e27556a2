package events

import "github.com/careops/bookd/core/model"

// PlacementEvent is published for each request once a solve decides its
// provider. Unassigned is true when the provider is the sink.
type PlacementEvent struct {
	CycleID    string
	RequestID  string
	Category   model.CategoryID
	Slot       string
	Provider   string
	Unassigned bool
}
