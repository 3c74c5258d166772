package rewards

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hongminglow/reward-points/internal/models"
	"github.com/hongminglow/reward-points/internal/storage/memory"
)

func startReconciler(t *testing.T, r *Reconciler) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestReconciler_ReconcilesEnqueuedPeriod(t *testing.T) {
	store := memory.New()
	customer := seedCustomer(t, store, "ada@example.com")
	seedTransaction(t, store, customer.ID, "150", march(15))

	engine := NewAccrualEngine(store, store, zap.NewNop())
	r := NewReconciler(engine, ReconcilerConfig{Workers: 2, QueueSize: 8, MaxAttempts: 1}, zap.NewNop())
	startReconciler(t, r)

	require.True(t, r.Enqueue(Job{CustomerID: customer.ID, Period: march2025}))

	require.Eventually(t, func() bool {
		rows, err := store.FindRewardPoints(context.Background(), customer.ID, march2025)
		return err == nil && len(rows) == 1 && rows[0].Points == 150
	}, time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool { return r.Stats().Succeeded == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(1), r.Stats().Enqueued)
}

func TestReconciler_RetriesThenSucceeds(t *testing.T) {
	target := &flakyTarget{failures: 2}
	r := NewReconciler(target, ReconcilerConfig{Workers: 1, QueueSize: 1, MaxAttempts: 3, RetryDelay: time.Millisecond}, zap.NewNop())
	startReconciler(t, r)

	require.True(t, r.Enqueue(Job{CustomerID: 1, Period: march2025}))

	require.Eventually(t, func() bool { return r.Stats().Succeeded == 1 }, time.Second, 5*time.Millisecond)
	stats := r.Stats()
	assert.Equal(t, int64(2), stats.Retried)
	assert.Zero(t, stats.Failed)
	assert.Equal(t, 3, target.attempts())
}

func TestReconciler_GivesUpAfterMaxAttempts(t *testing.T) {
	target := &flakyTarget{failures: 10}
	r := NewReconciler(target, ReconcilerConfig{Workers: 1, QueueSize: 1, MaxAttempts: 2, RetryDelay: time.Millisecond}, zap.NewNop())
	startReconciler(t, r)

	require.True(t, r.Enqueue(Job{CustomerID: 1, Period: march2025}))

	require.Eventually(t, func() bool { return r.Stats().Failed == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), r.Stats().Retried)
	assert.Equal(t, 2, target.attempts())
}

func TestReconciler_DropsWhenFull(t *testing.T) {
	r := NewReconciler(&flakyTarget{}, ReconcilerConfig{Workers: 1, QueueSize: 1, MaxAttempts: 1}, zap.NewNop())

	assert.True(t, r.Enqueue(Job{CustomerID: 1, Period: march2025}))
	assert.False(t, r.Enqueue(Job{CustomerID: 2, Period: march2025}))

	stats := r.Stats()
	assert.Equal(t, int64(1), stats.Enqueued)
	assert.Equal(t, int64(1), stats.Dropped)
}

func TestReconciler_RunStopsOnCancel(t *testing.T) {
	r := NewReconciler(&flakyTarget{}, ReconcilerConfig{}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Run(ctx), context.Canceled)
}

type flakyTarget struct {
	mu       sync.Mutex
	failures int
	calls    int
}

func (f *flakyTarget) Reconcile(_ context.Context, customerID int64, period models.Period) (models.RewardPoints, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return models.RewardPoints{}, errors.New("transient")
	}
	return models.RewardPoints{CustomerID: customerID, Month: period.Month, Year: period.Year}, nil
}

func (f *flakyTarget) attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
