package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/careops/bookd/auth"
	"github.com/careops/bookd/config"
	"github.com/careops/bookd/core/slotplan"
	"github.com/careops/bookd/infra/logger"
)

// PollingClient fetches pending reservations from the upstream booking API.
type PollingClient struct {
	mgr      Manager
	plan     *slotplan.Plan
	log      logger.Logger
	client   *http.Client
	creds    *auth.ClientCred
	apiURL   string
	interval time.Duration
	cycles   *prometheus.CounterVec
	failed   *prometheus.CounterVec
}

// NewPollingClient creates a polling client using the default Prometheus
// registerer.
func NewPollingClient(cfg config.IntakeClientConfig, m Manager, plan *slotplan.Plan) *PollingClient {
	return NewPollingClientWithRegistry(cfg, m, plan, prometheus.DefaultRegisterer)
}

// NewPollingClientWithRegistry creates a polling client and registers metrics
// on the provided registerer. If reg is nil the default registerer is used.
func NewPollingClientWithRegistry(cfg config.IntakeClientConfig, m Manager, plan *slotplan.Plan, reg prometheus.Registerer) *PollingClient {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if cfg.PollIntervalSeconds <= 0 {
		cfg.PollIntervalSeconds = 60
	}
	log := logger.New("intake-client")
	cycles, failed := intakeMetrics(reg, log)
	var creds *auth.ClientCred
	if cfg.Auth.ClientID != "" {
		creds = auth.NewClientCred(cfg.Auth)
	}
	return &PollingClient{
		mgr:      m,
		plan:     plan,
		log:      log,
		client:   &http.Client{Timeout: 10 * time.Second},
		creds:    creds,
		apiURL:   cfg.APIURL,
		interval: time.Duration(cfg.PollIntervalSeconds) * time.Second,
		cycles:   cycles,
		failed:   failed,
	}
}

// Start begins the polling loop.
func (c *PollingClient) Start(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := c.poll(ctx); err != nil {
				c.failed.WithLabelValues(sourcePoll).Inc()
				c.log.Errorf("poll error: %v", err)
			}
		}
	}
}

// poll fetches one batch and hands it to the manager. A 204 response means
// nothing is pending.
func (c *PollingClient) poll(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.creds != nil {
		if err := c.creds.SetAuthHeader(ctx, req); err != nil {
			return fmt.Errorf("failed to set auth header: %w", err)
		}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	var batch CycleRequest
	if err := json.Unmarshal(body, &batch); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(batch.Reservations) == 0 {
		return nil
	}
	cycle, err := batch.ToModel(c.plan)
	if err != nil {
		return err
	}
	res, err := c.mgr.Process(ctx, cycle)
	if err != nil {
		return err
	}
	c.cycles.WithLabelValues(sourcePoll).Inc()
	c.log.Infof("cycle %s solved: %d placed, %d unassigned", res.CycleID, res.Placed(), len(res.Unassigned))
	return nil
}
