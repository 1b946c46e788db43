package directory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-im/parley/internal/store"
)

func setupService(t *testing.T) (*Service, *store.SQLiteStore) {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return New(st, nil), st
}

func TestService_CreateUser(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "alice", "hash", "555-0101")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Login)

	_, err = svc.CreateUser(ctx, "alice", "hash", "555-0102")
	assert.ErrorIs(t, err, store.ErrDuplicateLogin)
}

func TestService_CreateUser_NormalizesLogin(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "  alice ", "hash", "555-0101")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Login)

	// The padded spelling is the same identity everywhere
	retrieved, err := svc.GetUser(ctx, "alice  ")
	require.NoError(t, err)
	assert.Equal(t, "alice", retrieved.Login)

	_, err = svc.CreateUser(ctx, "alice", "hash", "555-0102")
	assert.ErrorIs(t, err, store.ErrDuplicateLogin)
}

func TestService_CreateUser_EmptyLogin(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.CreateUser(context.Background(), "   ", "hash", "555-0101")
	assert.ErrorIs(t, err, ErrEmptyLogin)
}

func TestService_ContactList(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice", "hash", "555-0101")
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, "bob", "hash", "555-0102")
	require.NoError(t, err)

	require.NoError(t, svc.AddContact(ctx, "alice", "bob"))

	contacts, err := svc.Contacts(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, contacts)

	// Exactly once, even after a rejected duplicate add
	assert.ErrorIs(t, svc.AddContact(ctx, "alice", "bob"), store.ErrDuplicateMembership)
	contacts, err = svc.Contacts(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, contacts)

	require.NoError(t, svc.RemoveContact(ctx, "alice", "bob"))
	contacts, err = svc.Contacts(ctx, "alice")
	require.NoError(t, err)
	assert.NotContains(t, contacts, "bob")
}

func TestService_AddContact_UnknownTarget(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice", "hash", "555-0101")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.AddContact(ctx, "alice", "ghost"), store.ErrNotFound)
}

func TestService_BlockList_SelfMembershipAllowed(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice", "hash", "555-0101")
	require.NoError(t, err)

	// No self-membership constraint exists; blocking yourself is odd but legal
	require.NoError(t, svc.AddBlock(ctx, "alice", "alice"))

	blocks, err := svc.Blocks(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, blocks)
}

func TestService_DeleteUser(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice", "hash", "555-0101")
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, "bob", "hash", "555-0102")
	require.NoError(t, err)

	chatRow, err := st.CreateChat(ctx, store.ChatKindPrivate, "alice", []string{"alice", "bob"})
	require.NoError(t, err)
	_, err = st.InsertMessage(ctx, chatRow.ID, "bob", "hello")
	require.NoError(t, err)

	// Bob sent a message, so he can't go
	assert.ErrorIs(t, svc.DeleteUser(ctx, "bob"), store.ErrReferentialConflict)

	// Once the chat (and its messages) are gone, both are deletable
	require.NoError(t, st.DeleteChat(ctx, chatRow.ID))
	require.NoError(t, svc.DeleteUser(ctx, "bob"))
	require.NoError(t, svc.DeleteUser(ctx, "alice"))
}
