package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cory-johannsen/votemenot/internal/config"
)

const metricsNamespace = "votemenot"

// Metrics exposes Prometheus collectors describing hearing activity.
// A nil *Metrics records nothing.
type Metrics struct {
	sessionsActive  prometheus.Gauge
	sessionsEnded   *prometheus.CounterVec
	sessionDuration prometheus.Histogram
	checks          *prometheus.CounterVec
	verdicts        *prometheus.CounterVec
	finalEthics     prometheus.Histogram
}

// NewMetrics creates the hearing collectors and registers them with reg.
//
// Precondition: reg must be non-nil and must not already hold these collectors.
// Postcondition: Returns registered Metrics or a non-nil error.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_active",
			Help:      "Hearings currently in progress.",
		}),
		sessionsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_ended_total",
			Help:      "Hearings that ended, by how they ended.",
		}, []string{"outcome"}),
		sessionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "session_duration_seconds",
			Help:      "Wall time spent in a hearing.",
			Buckets:   []float64{30, 60, 120, 300, 600, 1200, 2400},
		}),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "skill_checks_total",
			Help:      "Resolved skill checks.",
		}, []string{"kind", "skill", "result"}),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "verdicts_total",
			Help:      "Accepted and rejected speakers by affiliation.",
		}, []string{"decision", "affiliation"}),
		finalEthics: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "final_ethics_score",
			Help:      "Ethics score of hearings that reached the end of the roster.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
	}
	for _, c := range []prometheus.Collector{
		m.sessionsActive, m.sessionsEnded, m.sessionDuration, m.checks, m.verdicts, m.finalEthics,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering hearing metrics: %w", err)
		}
	}
	return m, nil
}

// SessionStarted marks a hearing as in progress.
func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.sessionsActive.Inc()
}

// SessionEnded records a finished hearing. outcome is a short label such as
// "finished", "quit", "idle", "closed" or "error".
func (m *Metrics) SessionEnded(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.sessionsActive.Dec()
	m.sessionsEnded.WithLabelValues(outcome).Inc()
	m.sessionDuration.Observe(d.Seconds())
}

// ObserveCheck counts one resolved skill check.
func (m *Metrics) ObserveCheck(kind, skill string, success bool) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.checks.WithLabelValues(kind, skill, result).Inc()
}

// ObserveVerdict counts one decision on a speaker.
func (m *Metrics) ObserveVerdict(decision, affiliation string) {
	if m == nil {
		return
	}
	m.verdicts.WithLabelValues(decision, affiliation).Inc()
}

// ObserveFinalEthics records the score of a completed roster.
func (m *Metrics) ObserveFinalEthics(score int) {
	if m == nil {
		return
	}
	m.finalEthics.Observe(float64(score))
}

// MetricsServer serves a Prometheus registry over HTTP. It satisfies the
// lifecycle Service contract.
type MetricsServer struct {
	cfg    config.MetricsConfig
	srv    *http.Server
	logger *zap.Logger

	mu       sync.Mutex
	listener net.Listener
}

// NewMetricsServer creates a server exposing gatherer at cfg.Path.
//
// Precondition: gatherer and logger must be non-nil.
func NewMetricsServer(cfg config.MetricsConfig, gatherer prometheus.Gatherer, logger *zap.Logger) *MetricsServer {
	if gatherer == nil || logger == nil {
		panic("observability.NewMetricsServer: gatherer and logger must not be nil")
	}
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return &MetricsServer{
		cfg:    cfg,
		logger: logger,
		srv: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start listens and serves until Stop is called.
//
// Postcondition: Returns nil after Stop, or the listen/serve error.
func (s *MetricsServer) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr(), err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("metrics endpoint listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("path", s.cfg.Path),
	)
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving metrics: %w", err)
	}
	return nil
}

// Stop shuts the server down, waiting briefly for in-flight scrapes.
func (s *MetricsServer) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("metrics shutdown", zap.Error(err))
	}
}

// Addr returns the bound address once Start is listening, or the configured address.
func (s *MetricsServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr()
}
