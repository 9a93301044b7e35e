package server_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/votemenot/internal/server"
)

type blockingService struct {
	name    string
	started atomic.Bool
	quit    chan struct{}
	once    sync.Once
	order   *stopOrder
}

type stopOrder struct {
	mu    sync.Mutex
	names []string
}

func (o *stopOrder) add(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.names = append(o.names, name)
}

func newBlockingService(name string, order *stopOrder) *blockingService {
	return &blockingService{name: name, quit: make(chan struct{}), order: order}
}

func (b *blockingService) Start() error {
	b.started.Store(true)
	<-b.quit
	return nil
}

func (b *blockingService) Stop() {
	b.once.Do(func() {
		b.order.add(b.name)
		close(b.quit)
	})
}

func waitStarted(t *testing.T, svcs ...*blockingService) {
	t.Helper()
	require.Eventually(t, func() bool {
		for _, s := range svcs {
			if !s.started.Load() {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLifecycle_StopsInReverseOrder(t *testing.T) {
	lc := server.NewLifecycle(zaptest.NewLogger(t), time.Second)
	order := &stopOrder{}
	first := newBlockingService("first", order)
	second := newBlockingService("second", order)
	lc.Add("first", first)
	lc.Add("second", second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()

	waitStarted(t, first, second)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
	}
	assert.Equal(t, []string{"second", "first"}, order.names)
}

func TestLifecycle_ReturnsServiceError(t *testing.T) {
	lc := server.NewLifecycle(zaptest.NewLogger(t), time.Second)
	order := &stopOrder{}
	steady := newBlockingService("steady", order)
	boom := errors.New("bind failed")
	lc.Add("steady", steady)
	lc.Add("telnet", &server.FuncService{
		StartFn: func() error { return boom },
		StopFn:  func() {},
	})

	err := lc.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "telnet")
	assert.Equal(t, []string{"steady"}, order.names)
}

func TestLifecycle_StopTimeoutIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	lc := server.NewLifecycle(zap.New(core), 20*time.Millisecond)

	release := make(chan struct{})
	defer close(release)
	lc.Add("stuck", &server.FuncService{
		StartFn: func() error { <-release; return nil },
		StopFn:  func() { <-release },
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, lc.Run(ctx))
	assert.Equal(t, 1, logs.FilterMessage("service did not stop cleanly").Len())
}

func TestFuncService(t *testing.T) {
	started, stopped := false, false
	svc := &server.FuncService{
		StartFn: func() error { started = true; return nil },
		StopFn:  func() { stopped = true },
	}

	assert.NoError(t, svc.Start())
	assert.True(t, started)
	svc.Stop()
	assert.True(t, stopped)
}
