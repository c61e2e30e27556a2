package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/careops/bookd/config"
	"github.com/careops/bookd/core/assign"
	"github.com/careops/bookd/core/model"
	"github.com/careops/bookd/core/slotplan"
	"github.com/careops/bookd/infra/logger"
	"github.com/careops/bookd/infra/metrics"
	"github.com/careops/bookd/intake"
	"github.com/careops/bookd/internal/eventbus"
)

func waitForHTTPServer(s *intake.Server, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		url := "http://" + s.Addr() + "/intake/ping"
		resp, err := http.Get(url)
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			if err := resp.Body.Close(); err != nil {
				return err
			}
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("server not ready: %s", s.Addr())
}

func waitForMetric(url, substr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			body, _ := io.ReadAll(resp.Body)
			if err := resp.Body.Close(); err != nil {
				return err
			}
			if strings.Contains(string(body), substr) {
				return nil
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("metric %s not found", substr)
}

func mustPlan(t *testing.T) *slotplan.Plan {
	t.Helper()
	cfg := slotplan.Config{}
	cfg.SetDefaults()
	plan, err := slotplan.New(cfg)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	return plan
}

func TestIntakeAssignEndToEnd(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	categories := model.NewCategorySet(
		model.Category{ID: "general"},
		model.Category{ID: "radiology"},
	)
	providers := []model.Provider{
		{Name: "clinic-a", Categories: []model.CategoryID{"general"}, Capacity: 1},
		{Name: "clinic-b", Categories: []model.CategoryID{"radiology"}, Capacity: 1},
		model.NewSink("unassigned"),
	}

	bus := eventbus.New()
	mgr, err := assign.NewManager(providers, categories,
		assign.NewILPAssigner(assign.DefaultSolverTimeout, assign.DefaultTolerance),
		assign.NewGreedyAssigner(), sink, bus, logger.NopLogger{})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	metrics.StartEventCollector(ctx, bus, sink)

	srv := intake.NewServerWithRegistry(config.IntakeServerConfig{Address: "127.0.0.1:0"}, mgr, mustPlan(t), reg)
	go func() { _ = srv.Start(ctx) }()
	if err := waitForHTTPServer(srv, 2*time.Second); err != nil {
		t.Fatalf("server not ready: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	metricsTS := httptest.NewServer(mux)
	defer metricsTS.Close()

	payload := intake.CycleRequest{
		CycleID: "c1",
		Reservations: []intake.Reservation{
			{ID: "r1", Category: "general", Slot: "2026-03-02T09:00"},
			{ID: "r2", Category: "radiology", Slot: "2026-03-02T09:00"},
		},
	}
	data, _ := json.Marshal(payload)
	resp, err := http.Post("http://"+srv.Addr()+"/intake/cycles", "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var out intake.CycleResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.CycleID != "c1" || out.Placed != 2 || len(out.Unassigned) != 0 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if out.Assignments["r1"] != "clinic-a" || out.Assignments["r2"] != "clinic-b" {
		t.Fatalf("unexpected assignments: %+v", out.Assignments)
	}

	metricsResp, err := http.Get(metricsTS.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	body, _ := io.ReadAll(metricsResp.Body)
	if err := metricsResp.Body.Close(); err != nil {
		t.Fatalf("close body: %v", err)
	}
	scraped := string(body)
	for _, want := range []string{
		`assignment_events_total{category="general",provider="clinic-a",unassigned="false"} 1`,
		`assignment_events_total{category="radiology",provider="clinic-b",unassigned="false"} 1`,
		`assignment_cycles_total{strategy="ilp"} 1`,
		`intake_cycles_total{source="http"} 1`,
	} {
		if !strings.Contains(scraped, want) {
			t.Errorf("metric missing: %s", want)
		}
	}

	// The strategy counter flows through the event bus, so give it a moment.
	if err := waitForMetric(metricsTS.URL+"/metrics", `assignment_strategy_total{action="ilp_attempt"} 1`, 2*time.Second); err != nil {
		t.Errorf("metric wait: %v", err)
	}
}
