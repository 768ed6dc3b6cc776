// Package monitor maintains a live view of aggregate queue state and
// issues queue-wide control commands. The snapshot is replaced wholesale
// on each successful fetch; on fetch failure the last-known snapshot
// stays authoritative (stale-but-available).
package monitor

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/commentify/commentify/internal/api"
	"github.com/commentify/commentify/internal/notify"
)

// DefaultInterval is how often the scheduled refresh fires
const DefaultInterval = 10 * time.Second

// QueueAPI is the slice of the transport the monitor needs
type QueueAPI interface {
	QueueStats(ctx context.Context) (api.QueueStats, error)
	PauseQueue(ctx context.Context) (string, error)
	ResumeQueue(ctx context.Context) (string, error)
	CleanQueue(ctx context.Context) (string, error)
}

// Snapshot is one atomically-replaced view of the queue counters
type Snapshot struct {
	Stats     api.QueueStats
	FetchedAt time.Time
}

// Progress returns the percentage of jobs that have reached a terminal
// status, in [0,100]. Defined as 0 when the queue is empty. This is a
// pure function of the counters, recomputed on every read, never stored.
func Progress(stats api.QueueStats) float64 {
	total := stats.Total()
	if total == 0 {
		return 0
	}
	return float64(stats.Completed+stats.Failed) / float64(total) * 100
}

// Monitor polls queue stats on a fixed interval and exposes the queue
// control commands. Safe for concurrent use; a manual Refresh may
// overlap a scheduled tick.
type Monitor struct {
	api      QueueAPI
	sink     notify.Sink
	interval time.Duration
	verbose  bool

	mu         sync.RWMutex
	snapshot   *Snapshot
	issuedSeq  uint64 // last fetch sequence handed out
	appliedSeq uint64 // sequence of the applied snapshot

	started  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New creates a monitor. An interval of 0 uses DefaultInterval.
func New(a QueueAPI, sink notify.Sink, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		api:      a,
		sink:     sink,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// SetVerbose enables logging of swallowed polling errors
func (m *Monitor) SetVerbose(v bool) {
	m.verbose = v
}

// Start performs an immediate refresh, then refreshes on the interval
// until Stop is called or ctx is cancelled. Scheduled-tick failures are
// swallowed: logged in verbose mode, never surfaced per-tick.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	m.fetch(ctx)

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.fetch(ctx)
			case <-m.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels the scheduled refresh loop and waits for it to exit.
// No fetches or snapshot writes occur after Stop returns. Safe to call
// more than once.
func (m *Monitor) Stop() {
	m.mu.RLock()
	started := m.started
	m.mu.RUnlock()
	if !started {
		return
	}
	m.stopOnce.Do(func() { close(m.stop) })
	<-m.done
}

// Snapshot returns the last successfully fetched view, or nil if no
// fetch has succeeded yet.
func (m *Monitor) Snapshot() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snapshot == nil {
		return nil
	}
	snap := *m.snapshot
	return &snap
}

// Refresh fetches stats on explicit user request and produces exactly
// one notification for the outcome.
func (m *Monitor) Refresh(ctx context.Context) error {
	if err := m.fetch(ctx); err != nil {
		notify.Errorf(m.sink, "Error", "Failed to refresh queue statistics: %v", err)
		return err
	}
	notify.Infof(m.sink, "Stats Updated", "Queue statistics have been refreshed")
	return nil
}

// fetch issues one stats request and applies the result under the
// newest-request-wins rule: a response from an older request never
// overwrites state applied from a newer one.
func (m *Monitor) fetch(ctx context.Context) error {
	m.mu.Lock()
	m.issuedSeq++
	seq := m.issuedSeq
	m.mu.Unlock()

	stats, err := m.api.QueueStats(ctx)
	if err != nil {
		if m.verbose {
			log.Printf("queue stats fetch failed: %v", err)
		}
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if seq <= m.appliedSeq {
		// A newer request already landed; discard this response.
		return nil
	}
	m.appliedSeq = seq
	m.snapshot = &Snapshot{Stats: stats, FetchedAt: time.Now()}
	return nil
}

// Pause stops the queue from starting new jobs. On success the counters
// are refreshed immediately so the display reflects the command without
// waiting for the next tick. Failures leave the snapshot unchanged and
// are not retried.
func (m *Monitor) Pause(ctx context.Context) error {
	if _, err := m.api.PauseQueue(ctx); err != nil {
		notify.Errorf(m.sink, "Error", "Failed to pause queue: %v", err)
		return err
	}
	notify.Infof(m.sink, "Queue Paused", "Comment queue has been paused successfully")
	m.fetch(ctx)
	return nil
}

// Resume restarts a paused queue
func (m *Monitor) Resume(ctx context.Context) error {
	if _, err := m.api.ResumeQueue(ctx); err != nil {
		notify.Errorf(m.sink, "Error", "Failed to resume queue: %v", err)
		return err
	}
	notify.Infof(m.sink, "Queue Resumed", "Comment queue has been resumed successfully")
	m.fetch(ctx)
	return nil
}

// Clean removes completed and failed jobs from the queue
func (m *Monitor) Clean(ctx context.Context) error {
	if _, err := m.api.CleanQueue(ctx); err != nil {
		notify.Errorf(m.sink, "Error", "Failed to clean queue: %v", err)
		return err
	}
	notify.Infof(m.sink, "Queue Cleaned", "Completed and failed jobs have been cleaned")
	m.fetch(ctx)
	return nil
}
