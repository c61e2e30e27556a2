package metrics

import (
	"context"
	"time"

	"github.com/careops/bookd/core/events"
	coremetrics "github.com/careops/bookd/core/metrics"
	"github.com/careops/bookd/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// events the manager publishes. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.Sink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.CycleReceivedEvent:
					if r, ok := sink.(coremetrics.IntakeRecorder); ok {
						_ = r.RecordIntake(coremetrics.IntakeEvent{
							Source:   "manager",
							Requests: e.Requests,
							Time:     e.ReceivedAt,
						})
					}
				case events.StrategyEvent:
					if r, ok := sink.(coremetrics.StrategyRecorder); ok {
						_ = r.RecordStrategy(coremetrics.StrategyOutcome{
							CycleID: e.CycleID,
							Action:  e.Action,
							Time:    time.Now(),
						})
					}
				}
			}
		}
	}()
}
