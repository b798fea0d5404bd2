package wizard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acceptAll() Sink {
	return SinkFunc(func(context.Context, Payload) (Receipt, error) {
		return Receipt{MemberID: "member"}, nil
	})
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry(acceptAll(), time.Minute)

	id, ctrl, err := r.Open(WithInitialStep(StepHeritage))
	require.NoError(t, err)
	assert.Equal(t, StepHeritage, ctrl.Step())
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, uint64(1), r.Opened())

	got, err := r.Get(id)
	require.NoError(t, err)
	assert.Same(t, ctrl, got)

	require.NoError(t, r.Close(id))
	assert.False(t, ctrl.Snapshot().Open)
	assert.Equal(t, 0, r.Len())

	_, err = r.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.Close(id), ErrNotFound)
}

func TestRegistryRejectsBadInitialStep(t *testing.T) {
	r := NewRegistry(acceptAll(), time.Minute)
	_, _, err := r.Open(WithInitialStep(Step(12)))
	assert.ErrorIs(t, err, ErrInvalidStep)
	assert.Equal(t, 0, r.Len())
}

func TestRegistrySweepClosesIdleWizards(t *testing.T) {
	now := time.Date(2025, 8, 21, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(acceptAll(), 10*time.Minute)
	r.now = func() time.Time { return now }

	staleID, stale, err := r.Open()
	require.NoError(t, err)

	now = now.Add(8 * time.Minute)
	freshID, _, err := r.Open()
	require.NoError(t, err)

	now = now.Add(5 * time.Minute)
	assert.Equal(t, 1, r.Sweep())
	assert.False(t, stale.Snapshot().Open)

	_, err = r.Get(staleID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.Get(freshID)
	assert.NoError(t, err)
}

func TestRegistryGetRefreshesIdleClock(t *testing.T) {
	now := time.Date(2025, 8, 21, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(acceptAll(), 10*time.Minute)
	r.now = func() time.Time { return now }

	id, _, err := r.Open()
	require.NoError(t, err)

	now = now.Add(9 * time.Minute)
	_, err = r.Get(id)
	require.NoError(t, err)

	now = now.Add(9 * time.Minute)
	assert.Zero(t, r.Sweep())
}

func TestRegistryRunStopsWithContext(t *testing.T) {
	r := NewRegistry(acceptAll(), time.Nanosecond)
	_, ctrl, err := r.Open()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, time.Millisecond)
	assert.False(t, ctrl.Snapshot().Open)
	cancel()
	<-done
}
