package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commentify/commentify/internal/api"
	"github.com/commentify/commentify/internal/notify"
)

// fakeQueueAPI serves scripted stats responses
type fakeQueueAPI struct {
	mu         sync.Mutex
	stats      api.QueueStats
	statsErr   error
	statsCalls int
	cmdErr     error
	pauses     int
	resumes    int
	cleans     int

	// block, when set, holds QueueStats calls until released
	block chan struct{}
}

func (f *fakeQueueAPI) QueueStats(ctx context.Context) (api.QueueStats, error) {
	f.mu.Lock()
	f.statsCalls++
	block := f.block
	stats, err := f.stats, f.statsErr
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return stats, err
}

func (f *fakeQueueAPI) PauseQueue(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pauses++
	return "paused", f.cmdErr
}

func (f *fakeQueueAPI) ResumeQueue(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumes++
	return "resumed", f.cmdErr
}

func (f *fakeQueueAPI) CleanQueue(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleans++
	return "cleaned", f.cmdErr
}

func (f *fakeQueueAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statsCalls
}

func (f *fakeQueueAPI) set(stats api.QueueStats, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats = stats
	f.statsErr = err
}

// recordingSink captures notifications for assertions
type recordingSink struct {
	mu      sync.Mutex
	notices []notify.Notification
}

func (r *recordingSink) Notify(n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingSink) all() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.Notification, len(r.notices))
	copy(out, r.notices)
	return out
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name  string
		stats api.QueueStats
		want  float64
	}{
		{"empty queue", api.QueueStats{}, 0},
		{"half processed", api.QueueStats{Waiting: 3, Active: 2, Completed: 4, Failed: 1}, 50},
		{"all completed", api.QueueStats{Completed: 7}, 100},
		{"nothing processed", api.QueueStats{Waiting: 5, Active: 5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Progress(tt.stats)
			if got != tt.want {
				t.Errorf("Progress(%+v) = %v, want %v", tt.stats, got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("Progress out of range: %v", got)
			}
		})
	}
}

func TestRefresh_UpdatesSnapshotAndNotifiesOnce(t *testing.T) {
	fake := &fakeQueueAPI{stats: api.QueueStats{Waiting: 2, Active: 1}}
	sink := &recordingSink{}
	m := New(fake, sink, time.Hour)

	require.Nil(t, m.Snapshot())
	require.NoError(t, m.Refresh(context.Background()))

	snap := m.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, 2, snap.Stats.Waiting)
	assert.False(t, snap.FetchedAt.IsZero())

	notices := sink.all()
	require.Len(t, notices, 1)
	assert.Equal(t, notify.Info, notices[0].Severity)
}

func TestRefresh_FailureKeepsStaleSnapshot(t *testing.T) {
	fake := &fakeQueueAPI{stats: api.QueueStats{Completed: 3}}
	sink := &recordingSink{}
	m := New(fake, sink, time.Hour)

	require.NoError(t, m.Refresh(context.Background()))
	before := m.Snapshot()

	fake.set(api.QueueStats{}, errors.New("connection refused"))
	require.Error(t, m.Refresh(context.Background()))

	after := m.Snapshot()
	require.NotNil(t, after, "failed refresh must not discard the last snapshot")
	assert.Equal(t, before.Stats, after.Stats)

	notices := sink.all()
	require.Len(t, notices, 2)
	assert.Equal(t, notify.Destructive, notices[1].Severity)
}

func TestCommands_TriggerImmediateRefresh(t *testing.T) {
	fake := &fakeQueueAPI{stats: api.QueueStats{Waiting: 1}}
	sink := &recordingSink{}
	m := New(fake, sink, time.Hour)

	require.NoError(t, m.Pause(context.Background()))
	assert.Equal(t, 1, fake.pauses)
	assert.Equal(t, 1, fake.calls(), "pause success must refresh immediately")
	require.NotNil(t, m.Snapshot())

	require.NoError(t, m.Resume(context.Background()))
	require.NoError(t, m.Clean(context.Background()))
	assert.Equal(t, 1, fake.resumes)
	assert.Equal(t, 1, fake.cleans)
	assert.Equal(t, 3, fake.calls())

	// One notification per command.
	assert.Len(t, sink.all(), 3)
}

func TestCommands_FailureLeavesSnapshotUnchanged(t *testing.T) {
	fake := &fakeQueueAPI{stats: api.QueueStats{Waiting: 4}}
	sink := &recordingSink{}
	m := New(fake, sink, time.Hour)

	require.NoError(t, m.Refresh(context.Background()))
	before := m.Snapshot()

	fake.mu.Lock()
	fake.cmdErr = errors.New("forbidden")
	fake.mu.Unlock()

	require.Error(t, m.Pause(context.Background()))
	assert.Equal(t, before.Stats, m.Snapshot().Stats)
	// No refresh after a failed command.
	assert.Equal(t, 1, fake.calls())
}

func TestStart_ImmediateAndScheduledRefresh(t *testing.T) {
	fake := &fakeQueueAPI{stats: api.QueueStats{Active: 1}}
	m := New(fake, &recordingSink{}, 20*time.Millisecond)

	m.Start(context.Background())
	defer m.Stop()

	// Start performs an immediate refresh before the first tick.
	require.NotNil(t, m.Snapshot())
	first := fake.calls()
	assert.GreaterOrEqual(t, first, 1)

	assert.Eventually(t, func() bool {
		return fake.calls() > first
	}, time.Second, 5*time.Millisecond, "scheduled tick should fire")
}

func TestStop_HaltsPolling(t *testing.T) {
	fake := &fakeQueueAPI{}
	m := New(fake, &recordingSink{}, 10*time.Millisecond)

	m.Start(context.Background())
	m.Stop()

	settled := fake.calls()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, fake.calls(), "no fetches may happen after Stop")
}

func TestStop_WithoutStartIsNoop(t *testing.T) {
	m := New(&fakeQueueAPI{}, &recordingSink{}, time.Hour)
	m.Stop() // must not block or panic
}

func TestFetch_NewestRequestWins(t *testing.T) {
	block := make(chan struct{})
	fake := &fakeQueueAPI{stats: api.QueueStats{Waiting: 1}, block: block}
	sink := &recordingSink{}
	m := New(fake, sink, time.Hour)

	// First request hangs in flight.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.Refresh(context.Background())
	}()

	// Wait until the slow request is issued, then let a newer request
	// complete with different counters.
	assert.Eventually(t, func() bool { return fake.calls() == 1 }, time.Second, time.Millisecond)
	fake.mu.Lock()
	fake.block = nil
	fake.stats = api.QueueStats{Waiting: 9}
	fake.mu.Unlock()

	require.NoError(t, m.Refresh(context.Background()))
	require.Equal(t, 9, m.Snapshot().Stats.Waiting)

	// Release the stale response; it must not overwrite the newer one.
	close(block)
	wg.Wait()
	assert.Equal(t, 9, m.Snapshot().Stats.Waiting,
		"a response from an older request must not overwrite newer state")
}
