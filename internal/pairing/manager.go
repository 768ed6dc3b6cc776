// Package pairing runs the time-bounded handshake that associates a
// locally installed browser extension with the authenticated user. The
// extension cannot be invoked directly; it is only polled for evidence
// that it has acted. The manager owns both timers of a session (the
// countdown and the poll loop) and every session-ending transition goes
// through a single teardown path so neither can leak.
package pairing

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/commentify/commentify/internal/api"
	"github.com/commentify/commentify/internal/notify"
)

const (
	// DefaultTimeout is the application-level handshake deadline,
	// independent of the transport's own timeout.
	DefaultTimeout = 180 * time.Second

	// DefaultPollInterval is how often the status check runs while armed
	DefaultPollInterval = 5 * time.Second
)

// ErrAlreadyPaired is returned by Connect while a prior session's
// outcome (connected or wrong-user) has not been cleared.
var ErrAlreadyPaired = errors.New("extension already paired; disconnect first")

// StatusAPI is the slice of the transport the manager needs
type StatusAPI interface {
	ExtensionStatus(ctx context.Context, userID, userEmail string) (api.ExtensionStatus, error)
	InitiatePairing(ctx context.Context, payload api.PairingPayload) error
	DisconnectExtension(ctx context.Context, userID string) error
}

// PayloadStore persists the pairing payload for the extension to read.
// The client never reads the payload back; its view of pairing state
// comes exclusively from server status checks.
type PayloadStore interface {
	SavePairing(payload api.PairingPayload) error
	ClearPairing() error
}

// Identity is the session context the manager acts for
type Identity struct {
	UserID string
	Email  string
	Token  string
}

// Manager is the pairing handshake state machine. At most one countdown
// timer and one poll loop are active at any time; both belong to the
// current armed session and are stopped together on every
// session-ending transition and on manager teardown.
type Manager struct {
	api     StatusAPI
	store   PayloadStore
	sink    notify.Sink
	user    Identity
	timeout time.Duration
	poll    time.Duration
	verbose bool

	mu       sync.Mutex
	phase    Phase
	deadline time.Time
	gen      uint64        // bumped on every arm/teardown; stale loops check it
	stop     chan struct{} // closed to end the current session's loop
	done     chan struct{} // closed when the loop goroutine exits
}

// NewManager creates a manager in the idle phase. Zero durations use
// the defaults (180s deadline, 5s poll).
func NewManager(a StatusAPI, store PayloadStore, sink notify.Sink, user Identity, timeout, poll time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Manager{
		api:     a,
		store:   store,
		sink:    sink,
		user:    user,
		timeout: timeout,
		poll:    poll,
		phase:   PhaseIdle,
	}
}

// SetVerbose enables logging of swallowed polling errors
func (m *Manager) SetVerbose(v bool) {
	m.verbose = v
}

// Phase returns the current phase
func (m *Manager) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Remaining returns the seconds left on the countdown, or 0 outside an
// armed session.
func (m *Manager) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseArmed {
		return 0
	}
	left := time.Until(m.deadline)
	if left < 0 {
		return 0
	}
	return int(left.Round(time.Second) / time.Second)
}

// Connect arms a new handshake session: it persists the pairing payload
// for the extension, notifies the server of the attempt (best-effort),
// and starts the countdown and the poll loop. From connected or
// wrong-user it fails with ErrAlreadyPaired; while already armed it is
// a no-op.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	switch m.phase {
	case PhaseArmed:
		m.mu.Unlock()
		return nil
	case PhaseConnected, PhaseWrongUser:
		m.mu.Unlock()
		notify.Errorf(m.sink, "Pairing Error", "%v", ErrAlreadyPaired)
		return ErrAlreadyPaired
	}

	payload := api.PairingPayload{
		UserID:    m.user.UserID,
		UserEmail: m.user.Email,
		AuthToken: m.user.Token,
		Nonce:     uuid.NewString(),
		CreatedAt: time.Now(),
	}
	if err := m.store.SavePairing(payload); err != nil {
		m.mu.Unlock()
		notify.Errorf(m.sink, "Pairing Error", "Failed to store pairing payload: %v", err)
		return err
	}

	m.gen++
	gen := m.gen
	m.phase = PhaseArmed
	m.deadline = time.Now().Add(m.timeout)
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	stop, done := m.stop, m.done
	m.mu.Unlock()

	// Fire-and-forget: a failed notification does not abort the
	// handshake, which is driven entirely by polling.
	go func() {
		if err := m.api.InitiatePairing(ctx, payload); err != nil && m.verbose {
			log.Printf("initiate pairing notification failed: %v", err)
		}
	}()

	notify.Infof(m.sink, "Pairing Started", "Waiting for the browser extension to connect (%ds)", int(m.timeout/time.Second))

	go m.run(ctx, gen, stop, done)
	return nil
}

// run owns the session's two timers. It exits when the session is torn
// down, the countdown expires, a status check settles the handshake, or
// ctx is cancelled.
func (m *Manager) run(ctx context.Context, gen uint64, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.poll)
	defer ticker.Stop()
	countdown := time.NewTimer(m.timeout)
	defer countdown.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			m.teardown(gen, PhaseIdle)
			return
		case <-countdown.C:
			if m.teardown(gen, PhaseExpired) {
				notify.Errorf(m.sink, "Pairing Expired", "The extension did not connect in time; run connect again to retry")
			}
			return
		case <-ticker.C:
			if m.checkTick(ctx, gen) {
				return
			}
		}
	}
}

// checkTick performs one status check. Transport failures are transient
// polling misses: logged in verbose mode, never a state transition.
// Returns true when the session has settled and the loop should exit.
func (m *Manager) checkTick(ctx context.Context, gen uint64) bool {
	status, err := m.api.ExtensionStatus(ctx, m.user.UserID, m.user.Email)
	if err != nil {
		if m.verbose {
			log.Printf("extension status check failed: %v", err)
		}
		return false
	}
	if !status.IsPaired {
		return false
	}

	if status.ExtensionInfo != nil && status.ExtensionInfo.UserEmail == m.user.Email {
		if m.teardown(gen, PhaseConnected) {
			notify.Infof(m.sink, "Extension Connected", "Browser extension paired to %s", m.user.Email)
		}
	} else {
		if m.teardown(gen, PhaseWrongUser) {
			notify.Errorf(m.sink, "Wrong Account", "The extension is paired to a different account; disconnect it to continue")
		}
	}
	return true
}

// teardown is the single session-ending path: it settles the phase and
// signals the loop so both timers stop together. It is a no-op (returns
// false) when the session generation is stale or the manager is no
// longer armed, so a late tick from a torn-down session can never
// disturb newer state.
func (m *Manager) teardown(gen uint64, to Phase) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen || m.phase != PhaseArmed {
		return false
	}
	m.phase = to
	m.gen++
	select {
	case <-m.stop:
	default:
		close(m.stop)
	}
	return true
}

// Cancel stops an armed session and returns to idle without notifying
// the server. Outside an armed session it is a no-op, not an error.
func (m *Manager) Cancel() {
	m.mu.Lock()
	if m.phase != PhaseArmed {
		m.mu.Unlock()
		return
	}
	m.phase = PhaseIdle
	m.gen++
	select {
	case <-m.stop:
	default:
		close(m.stop)
	}
	done := m.done
	m.mu.Unlock()
	<-done
}

// Disconnect clears the durable pairing payload, invalidates the
// pairing record server-side, and returns to idle. It is idempotent:
// calling it twice leaves the manager idle both times without error.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	if m.phase == PhaseArmed {
		// An in-flight handshake is abandoned before disconnecting.
		m.gen++
		select {
		case <-m.stop:
		default:
			close(m.stop)
		}
	}
	m.phase = PhaseIdle
	m.mu.Unlock()

	if err := m.store.ClearPairing(); err != nil {
		notify.Errorf(m.sink, "Error", "Failed to clear pairing payload: %v", err)
		return err
	}
	if err := m.api.DisconnectExtension(ctx, m.user.UserID); err != nil {
		notify.Errorf(m.sink, "Error", "Failed to disconnect extension: %v", err)
		return err
	}

	notify.Infof(m.sink, "Extension Disconnected", "The pairing record has been removed")
	return nil
}

// CheckNow performs a phase-setting status check outside an active
// session, as on initial startup: if the extension was already paired
// from a previous run it moves idle directly to connected or
// wrong-user. It never starts the countdown or the poll loop.
func (m *Manager) CheckNow(ctx context.Context) (Phase, error) {
	status, err := m.api.ExtensionStatus(ctx, m.user.UserID, m.user.Email)
	if err != nil {
		return m.Phase(), err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseIdle || !status.IsPaired {
		return m.phase, nil
	}
	if status.ExtensionInfo != nil && status.ExtensionInfo.UserEmail == m.user.Email {
		m.phase = PhaseConnected
	} else {
		m.phase = PhaseWrongUser
	}
	return m.phase, nil
}

// Wait blocks until the current armed session settles (or ctx is
// cancelled) and returns the resulting phase. Outside an armed session
// it returns immediately.
func (m *Manager) Wait(ctx context.Context) Phase {
	m.mu.Lock()
	done := m.done
	armed := m.phase == PhaseArmed
	m.mu.Unlock()

	if armed && done != nil {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}
	return m.Phase()
}

// Close tears down any active session. After Close returns no timer
// fires and no state write occurs.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.phase != PhaseArmed {
		m.mu.Unlock()
		return
	}
	m.phase = PhaseIdle
	m.gen++
	select {
	case <-m.stop:
	default:
		close(m.stop)
	}
	done := m.done
	m.mu.Unlock()
	<-done
}
