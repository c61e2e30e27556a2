// Package events defines the assignment related events emitted on the event bus.
//
// Available event types:
//   - CycleReceivedEvent: a new cycle of requests entered the pipeline
//   - StrategyEvent: strategy selection and fallback information
//   - PlacementEvent: one request placed on a provider
//   - CycleSolvedEvent: summary of a completed solve
package events
