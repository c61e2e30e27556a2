// Package metrics defines the recorder interfaces and events used to observe
// the assignment pipeline. Sinks like PromSink and InfluxSink record cycle
// summaries, per-request placements and provider utilization, and can be
// combined with NewMultiSink. The factory helpers return a MultiSink
// automatically when multiple sinks are configured.
package metrics
