package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/careops/bookd/core/metrics"
	"github.com/careops/bookd/infra/logger"
)

// InfluxSink writes assignment events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordAssignments writes one point per assignment decision.
func (s *InfluxSink) RecordAssignments(recs []coremetrics.AssignmentRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range recs {
		p := write.NewPointWithMeasurement("assignment_event").
			AddTag("cycle_id", r.CycleID).
			AddTag("provider", r.Provider).
			AddTag("category", string(r.Category)).
			AddTag("slot", r.Slot).
			AddTag("unassigned", strconv.FormatBool(r.Unassigned)).
			AddTag("strategy", r.Strategy).
			AddTag("component", "assignment_manager").
			AddField("count", 1).
			SetTime(r.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordCycle persists the summary of one solved cycle.
func (s *InfluxSink) RecordCycle(stats coremetrics.CycleStats) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("assignment_cycle").
		AddTag("cycle_id", stats.CycleID).
		AddTag("strategy", stats.Strategy).
		AddTag("component", "assignment_manager").
		AddField("requests", stats.Requests).
		AddField("placed", stats.Placed).
		AddField("unassigned", stats.Unassigned).
		AddField("duration_ms", round3(float64(stats.Duration)/float64(time.Millisecond))).
		SetTime(stats.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSolveLatency records one solver run.
func (s *InfluxSink) RecordSolveLatency(l coremetrics.SolveLatency) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("solve_latency").
		AddTag("strategy", l.Strategy).
		AddTag("component", "assignment_manager").
		AddField("duration_ms", round3(float64(l.Duration)/float64(time.Millisecond))).
		AddField("requests", l.Requests).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordUtilization writes per-slot load snapshots.
func (s *InfluxSink) RecordUtilization(uts []coremetrics.ProviderUtilization) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, u := range uts {
		fill := 0.0
		if u.Capacity > 0 {
			fill = float64(u.Placed) / float64(u.Capacity)
		}
		p := write.NewPointWithMeasurement("provider_utilization").
			AddTag("provider", u.Provider).
			AddTag("slot", u.Slot).
			AddTag("component", "assignment_manager").
			AddField("placed", u.Placed).
			AddField("capacity", u.Capacity).
			AddField("fill_rate", round3(fill)).
			SetTime(u.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordIntake writes a received batch event.
func (s *InfluxSink) RecordIntake(ev coremetrics.IntakeEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("intake_event").
		AddTag("source", ev.Source).
		AddTag("component", "intake").
		AddField("requests", ev.Requests).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordStrategy writes a strategy selection step.
func (s *InfluxSink) RecordStrategy(out coremetrics.StrategyOutcome) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("strategy_event").
		AddTag("cycle_id", out.CycleID).
		AddTag("action", out.Action).
		AddTag("component", "assignment_manager").
		AddField("count", 1).
		SetTime(out.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
