package observability

import (
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/votemenot/internal/config"
)

func TestMetrics_Counts(t *testing.T) {
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.SessionStarted()
	m.SessionStarted()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessionsActive))

	m.ObserveCheck("hard", "speech", true)
	m.ObserveCheck("hard", "speech", false)
	m.ObserveCheck("tree", "scholar", false)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checks.WithLabelValues("hard", "speech", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checks.WithLabelValues("hard", "speech", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checks.WithLabelValues("tree", "scholar", "failure")))

	m.ObserveVerdict("accept", "good")
	m.ObserveVerdict("accept", "good")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.verdicts.WithLabelValues("accept", "good")))

	m.SessionEnded("finished", 90*time.Second)
	m.ObserveFinalEthics(70)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsEnded.WithLabelValues("finished")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.finalEthics))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SessionStarted()
		m.ObserveCheck("hard", "speech", true)
		m.ObserveVerdict("reject", "evil")
		m.ObserveFinalEthics(10)
		m.SessionEnded("quit", time.Second)
	})
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)
	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetricsServer_ServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	m.ObserveVerdict("reject", "evil")

	srv := NewMetricsServer(config.MetricsConfig{Enabled: true, Host: "127.0.0.1", Port: 0, Path: "/metrics"}, reg, zap.NewNop())
	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + srv.Addr() + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		body = string(b)
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, body, `votemenot_verdicts_total{affiliation="evil",decision="reject"} 1`)

	srv.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestNewMetricsServer_NilPanics(t *testing.T) {
	assert.Panics(t, func() { NewMetricsServer(config.MetricsConfig{Path: "/metrics"}, nil, zap.NewNop()) })
}
