package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-im/parley/internal/directory"
	"github.com/parley-im/parley/internal/store"
)

func setupProvider(t *testing.T) *Provider {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	dir := directory.New(st, nil)
	verifier := NewJWTVerifier([]byte("test-secret"))
	return NewProvider(dir, verifier, time.Hour, nil)
}

func TestProvider_RegisterAndLogin(t *testing.T) {
	p := setupProvider(t)
	ctx := context.Background()

	require.NoError(t, p.Register(ctx, "alice", "hunter2", "555-0101"))

	sess, err := p.Login(ctx, "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.Login)
	assert.NotEmpty(t, sess.Token)
	assert.False(t, sess.StartedAt.IsZero())

	login, err := p.Verify(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", login)
}

func TestProvider_Register_DuplicateLogin(t *testing.T) {
	p := setupProvider(t)
	ctx := context.Background()

	require.NoError(t, p.Register(ctx, "alice", "hunter2", "555-0101"))
	assert.ErrorIs(t, p.Register(ctx, "alice", "other", "555-0102"), store.ErrDuplicateLogin)
}

func TestProvider_Login_WrongPassword(t *testing.T) {
	p := setupProvider(t)
	ctx := context.Background()

	require.NoError(t, p.Register(ctx, "alice", "hunter2", "555-0101"))

	_, err := p.Login(ctx, "alice", "hunter3")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestProvider_Login_UnknownUser(t *testing.T) {
	p := setupProvider(t)

	// Same error as a wrong password; callers can't tell them apart
	_, err := p.Login(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestProvider_Login_NormalizesLogin(t *testing.T) {
	p := setupProvider(t)
	ctx := context.Background()

	require.NoError(t, p.Register(ctx, "alice", "hunter2", "555-0101"))

	sess, err := p.Login(ctx, "  alice  ", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.Login)
}

func TestProvider_StoresHashNotPassword(t *testing.T) {
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	dir := directory.New(st, nil)
	p := NewProvider(dir, NewJWTVerifier([]byte("test-secret")), time.Hour, nil)
	ctx := context.Background()

	require.NoError(t, p.Register(ctx, "alice", "hunter2", "555-0101"))

	user, err := st.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", user.Password)
	assert.Contains(t, user.Password, "$2a$")
}
