package pairing

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

var testUser = Identity{UserID: "user-1", Email: "user@example.com", Token: "tok"}

// fakeStatusAPI serves a scripted extension status
type fakeStatusAPI struct {
	mu          sync.Mutex
	status      api.ExtensionStatus
	statusErr   error
	statusCalls int
	initiates   int
	disconnects int
}

func (f *fakeStatusAPI) ExtensionStatus(ctx context.Context, userID, userEmail string) (api.ExtensionStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	return f.status, f.statusErr
}

func (f *fakeStatusAPI) InitiatePairing(ctx context.Context, payload api.PairingPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initiates++
	return nil
}

func (f *fakeStatusAPI) DisconnectExtension(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects++
	return nil
}

func (f *fakeStatusAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls
}

func (f *fakeStatusAPI) set(status api.ExtensionStatus, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.statusErr = err
}

func pairedTo(email string) api.ExtensionStatus {
	return api.ExtensionStatus{
		IsPaired:      true,
		ExtensionInfo: &api.ExtensionInfo{UserEmail: email},
	}
}

// fakeStore records pairing payload writes
type fakeStore struct {
	mu      sync.Mutex
	saved   *api.PairingPayload
	saveErr error
	clears  int
}

func (f *fakeStore) SavePairing(payload api.PairingPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = &payload
	return nil
}

func (f *fakeStore) ClearPairing() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	f.saved = nil
	return nil
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

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notices)
}

func newTestManager(fake *fakeStatusAPI, store *fakeStore) *Manager {
	return NewManager(fake, store, &recordingSink{}, testUser, 60*time.Millisecond, 5*time.Millisecond)
}

func TestConnect_ArmsAndPersistsPayload(t *testing.T) {
	fake := &fakeStatusAPI{}
	store := &fakeStore{}
	m := newTestManager(fake, store)
	defer m.Close()

	require.NoError(t, m.Connect(context.Background()))
	assert.Equal(t, PhaseArmed, m.Phase())
	assert.Greater(t, m.Remaining(), 0)

	store.mu.Lock()
	defer store.mu.Unlock()
	require.NotNil(t, store.saved)
	assert.Equal(t, testUser.UserID, store.saved.UserID)
	assert.Equal(t, testUser.Email, store.saved.UserEmail)
	assert.NotEmpty(t, store.saved.Nonce)
}

func TestConnect_WhileArmedIsNoop(t *testing.T) {
	fake := &fakeStatusAPI{}
	m := newTestManager(fake, &fakeStore{})
	defer m.Close()

	require.NoError(t, m.Connect(context.Background()))
	require.NoError(t, m.Connect(context.Background()))
	assert.Equal(t, PhaseArmed, m.Phase())
}

func TestConnect_StoreFailureAborts(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}
	m := newTestManager(&fakeStatusAPI{}, store)

	require.Error(t, m.Connect(context.Background()))
	assert.Equal(t, PhaseIdle, m.Phase())
}

func TestExpiry_StopsBothTimers(t *testing.T) {
	fake := &fakeStatusAPI{}
	m := newTestManager(fake, &fakeStore{})

	require.NoError(t, m.Connect(context.Background()))
	phase := m.Wait(context.Background())

	assert.Equal(t, PhaseExpired, phase)
	assert.Equal(t, 0, m.Remaining())

	// No further polling after expiry.
	settled := fake.calls()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, fake.calls())
}

func TestMatch_SettlesConnected(t *testing.T) {
	fake := &fakeStatusAPI{status: pairedTo(testUser.Email)}
	m := newTestManager(fake, &fakeStore{})

	require.NoError(t, m.Connect(context.Background()))
	phase := m.Wait(context.Background())

	assert.Equal(t, PhaseConnected, phase)

	settled := fake.calls()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, fake.calls(), "polling must stop once settled")
}

func TestMismatch_SettlesWrongUser(t *testing.T) {
	fake := &fakeStatusAPI{status: pairedTo("other@example.com")}
	m := newTestManager(fake, &fakeStore{})

	require.NoError(t, m.Connect(context.Background()))
	assert.Equal(t, PhaseWrongUser, m.Wait(context.Background()))

	// Wrong-user blocks re-pairing until an explicit disconnect.
	err := m.Connect(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyPaired)

	require.NoError(t, m.Disconnect(context.Background()))
	assert.Equal(t, PhaseIdle, m.Phase())
	require.NoError(t, m.Connect(context.Background()))
	assert.Equal(t, PhaseArmed, m.Phase())
	m.Close()
}

func TestTransportErrors_AreTransientMisses(t *testing.T) {
	fake := &fakeStatusAPI{statusErr: errors.New("connection refused")}
	m := newTestManager(fake, &fakeStore{})
	defer m.Close()

	require.NoError(t, m.Connect(context.Background()))

	// Failed checks keep the session armed until the countdown expires.
	assert.Eventually(t, func() bool { return fake.calls() >= 2 }, time.Second, time.Millisecond)
	assert.Equal(t, PhaseArmed, m.Phase())

	fake.set(pairedTo(testUser.Email), nil)
	assert.Equal(t, PhaseConnected, m.Wait(context.Background()))
}

func TestCancel(t *testing.T) {
	fake := &fakeStatusAPI{}
	m := newTestManager(fake, &fakeStore{})

	// No-op outside an armed session.
	m.Cancel()
	assert.Equal(t, PhaseIdle, m.Phase())

	require.NoError(t, m.Connect(context.Background()))
	m.Cancel()
	assert.Equal(t, PhaseIdle, m.Phase())

	settled := fake.calls()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, fake.calls(), "cancel must stop the poll loop")
}

func TestDisconnect_Idempotent(t *testing.T) {
	fake := &fakeStatusAPI{status: pairedTo(testUser.Email)}
	store := &fakeStore{}
	m := newTestManager(fake, store)

	require.NoError(t, m.Connect(context.Background()))
	require.Equal(t, PhaseConnected, m.Wait(context.Background()))

	require.NoError(t, m.Disconnect(context.Background()))
	assert.Equal(t, PhaseIdle, m.Phase())

	// Second disconnect is not an error and leaves the manager idle.
	require.NoError(t, m.Disconnect(context.Background()))
	assert.Equal(t, PhaseIdle, m.Phase())
	assert.Equal(t, 2, store.clears)
	assert.Equal(t, 2, fake.disconnects)
}

func TestCheckNow_SetsPhaseWithoutArming(t *testing.T) {
	fake := &fakeStatusAPI{status: pairedTo(testUser.Email)}
	m := newTestManager(fake, &fakeStore{})

	phase, err := m.CheckNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseConnected, phase)
	assert.Equal(t, 0, m.Remaining(), "a startup check never starts the countdown")
}

func TestCheckNow_WrongUser(t *testing.T) {
	fake := &fakeStatusAPI{status: pairedTo("other@example.com")}
	m := newTestManager(fake, &fakeStore{})

	phase, err := m.CheckNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseWrongUser, phase)
}

func TestCheckNow_UnpairedStaysIdle(t *testing.T) {
	fake := &fakeStatusAPI{}
	m := newTestManager(fake, &fakeStore{})

	phase, err := m.CheckNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, phase)
}

func TestConnect_NotifiesOncePerOutcome(t *testing.T) {
	fake := &fakeStatusAPI{status: pairedTo(testUser.Email)}
	sink := &recordingSink{}
	m := NewManager(fake, &fakeStore{}, sink, testUser, 60*time.Millisecond, 5*time.Millisecond)

	require.NoError(t, m.Connect(context.Background()))
	m.Wait(context.Background())

	// One notification for the start, one for the settled outcome.
	assert.Eventually(t, func() bool { return sink.count() == 2 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 2, sink.count())
}
