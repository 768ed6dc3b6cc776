package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commentify/commentify/internal/api"
	"github.com/commentify/commentify/internal/store"
)

// fakeAuthAPI scripts the auth endpoints
type fakeAuthAPI struct {
	loginResp *api.AuthResponse
	loginErr  error
	logoutErr error
	logouts   int
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResp, nil
}

func (f *fakeAuthAPI) Logout(ctx context.Context) error {
	f.logouts++
	return f.logoutErr
}

func (f *fakeAuthAPI) CurrentUser(ctx context.Context) (*api.User, error) {
	return nil, errors.New("not implemented")
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// signToken builds an HS256 token with the service's claim shape
func signToken(t *testing.T, userID, email string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"userId": userID,
		"email":  email,
	}
	if !expiresAt.IsZero() {
		claims["exp"] = expiresAt.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestLogin_PersistsToken(t *testing.T) {
	st := openTestStore(t)
	fake := &fakeAuthAPI{loginResp: &api.AuthResponse{
		Token: "jwt-1",
		User:  api.User{ID: "user-1", Username: "u", Email: "user@example.com"},
	}}

	sess, err := Login(context.Background(), fake, st, "user@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, "user@example.com", sess.Email)

	stored, err := st.Token()
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", stored)
}

func TestLogin_FailureStoresNothing(t *testing.T) {
	st := openTestStore(t)
	fake := &fakeAuthAPI{loginErr: &api.APIError{Status: 401, Message: "Invalid credentials"}}

	_, err := Login(context.Background(), fake, st, "user@example.com", "wrong")
	require.Error(t, err)

	_, err = st.Token()
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRestore_ReadsClaimsWithoutNetwork(t *testing.T) {
	st := openTestStore(t)
	token := signToken(t, "user-1", "user@example.com", time.Now().Add(time.Hour))
	require.NoError(t, st.SaveToken(token))

	sess, err := Restore(st)
	require.NoError(t, err)

	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, "user@example.com", sess.Email)
	assert.Equal(t, token, sess.Token)
}

func TestRestore_NoToken(t *testing.T) {
	st := openTestStore(t)

	_, err := Restore(st)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestRestore_ExpiredToken(t *testing.T) {
	st := openTestStore(t)
	token := signToken(t, "user-1", "user@example.com", time.Now().Add(-time.Hour))
	require.NoError(t, st.SaveToken(token))

	_, err := Restore(st)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestRestore_TokenWithoutExpiry(t *testing.T) {
	st := openTestStore(t)
	token := signToken(t, "user-1", "user@example.com", time.Time{})
	require.NoError(t, st.SaveToken(token))

	_, err := Restore(st)
	assert.NoError(t, err, "tokens without an exp claim are accepted")
}

func TestRestore_MalformedToken(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.SaveToken("not-a-jwt"))

	_, err := Restore(st)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotLoggedIn)
}

func TestLogout_AlwaysClearsLocalState(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.SaveToken("jwt-1"))
	require.NoError(t, st.SavePairing(api.PairingPayload{
		UserID: "user-1", UserEmail: "a@example.com", AuthToken: "jwt-1",
		Nonce: "n", CreatedAt: time.Now().UTC(),
	}))

	// Server-side invalidation failing must not keep local state alive.
	fake := &fakeAuthAPI{logoutErr: errors.New("connection refused")}
	err := Logout(context.Background(), fake, st)
	assert.Error(t, err)
	assert.Equal(t, 1, fake.logouts)

	_, err = st.Token()
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Pairing()
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLogout_Success(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.SaveToken("jwt-1"))

	fake := &fakeAuthAPI{}
	require.NoError(t, Logout(context.Background(), fake, st))

	_, err := st.Token()
	assert.ErrorIs(t, err, store.ErrNotFound)
}
