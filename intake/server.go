package intake

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/careops/bookd/config"
	"github.com/careops/bookd/core/slotplan"
	"github.com/careops/bookd/infra/logger"
)

// Server exposes HTTP endpoints accepting reservation batches.
type Server struct {
	addr   string
	token  string
	mgr    Manager
	plan   *slotplan.Plan
	log    logger.Logger
	srv    *http.Server
	cycles *prometheus.CounterVec
	failed *prometheus.CounterVec
}

// NewServer creates an intake server using the default Prometheus registerer.
func NewServer(cfg config.IntakeServerConfig, m Manager, plan *slotplan.Plan) *Server {
	return NewServerWithRegistry(cfg, m, plan, prometheus.DefaultRegisterer)
}

// NewServerWithRegistry creates an intake server and registers metrics on the
// provided registerer. If reg is nil the default registerer is used.
func NewServerWithRegistry(cfg config.IntakeServerConfig, m Manager, plan *slotplan.Plan, reg prometheus.Registerer) *Server {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	log := logger.New("intake-server")
	cycles, failed := intakeMetrics(reg, log)
	return &Server{
		addr:   cfg.Address,
		token:  cfg.Token,
		mgr:    m,
		plan:   plan,
		log:    log,
		cycles: cycles,
		failed: failed,
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/intake/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("pong")); err != nil {
			s.log.Errorf("write pong: %v", err)
		}
	})
	mux.HandleFunc("/intake/cycles", s.handleCycles)
	return mux
}

func (s *Server) handleCycles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.token != "" {
		auth := r.Header.Get("Authorization")
		if auth != "Bearer "+s.token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}
	var batch CycleRequest
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		s.failed.WithLabelValues(sourceHTTP).Inc()
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	cycle, err := batch.ToModel(s.plan)
	if err != nil {
		s.failed.WithLabelValues(sourceHTTP).Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := s.mgr.Process(r.Context(), cycle)
	if err != nil {
		s.failed.WithLabelValues(sourceHTTP).Inc()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.cycles.WithLabelValues(sourceHTTP).Inc()
	s.log.Infof("cycle %s solved: %d placed, %d unassigned", res.CycleID, res.Placed(), len(res.Unassigned))

	w.Header().Set("Content-Type", "application/json")
	out := CycleResponse{
		CycleID:     res.CycleID,
		Strategy:    res.Strategy,
		Placed:      res.Placed(),
		Assignments: res.Assignments,
		Unassigned:  res.Unassigned,
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		s.log.Errorf("encode response: %v", err)
	}
}

// Addr returns the listening address once Start has been called.
func (s *Server) Addr() string { return s.addr }

// Start runs the HTTP server until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	mux := s.routes()
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.addr = ln.Addr().String()
	s.srv = &http.Server{Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("shutdown server: %v", err)
		}
		cancel()
	}()
	s.log.Infof("intake server listening on %s", s.addr)
	err = s.srv.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
