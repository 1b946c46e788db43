package access

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-im/parley/internal/store"
)

func setupGuard(t *testing.T) (*Guard, *store.SQLiteStore) {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return New(st), st
}

func TestGuard_UserExists(t *testing.T) {
	guard, st := setupGuard(t)
	ctx := context.Background()

	_, err := st.CreateUser(ctx, "alice", "hash", "555-0100")
	require.NoError(t, err)

	exists, err := guard.UserExists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = guard.UserExists(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGuard_ChatPredicates(t *testing.T) {
	guard, st := setupGuard(t)
	ctx := context.Background()

	for _, login := range []string{"alice", "bob"} {
		_, err := st.CreateUser(ctx, login, "hash", "555-0100")
		require.NoError(t, err)
	}
	chatRow, err := st.CreateChat(ctx, store.ChatKindGroup, "alice", []string{"alice"})
	require.NoError(t, err)

	isMember, err := guard.IsChatMember(ctx, chatRow.ID, "alice")
	require.NoError(t, err)
	assert.True(t, isMember)

	isMember, err = guard.IsChatMember(ctx, chatRow.ID, "bob")
	require.NoError(t, err)
	assert.False(t, isMember)

	owner, err := guard.IsChatOwner(ctx, chatRow.ID, "alice")
	require.NoError(t, err)
	assert.True(t, owner)

	owner, err = guard.IsChatOwner(ctx, chatRow.ID, "bob")
	require.NoError(t, err)
	assert.False(t, owner)

	// Missing chat is false, not an error
	owner, err = guard.IsChatOwner(ctx, 404, "alice")
	require.NoError(t, err)
	assert.False(t, owner)
}

func TestGuard_IsMessageSender(t *testing.T) {
	guard, st := setupGuard(t)
	ctx := context.Background()

	for _, login := range []string{"alice", "bob"} {
		_, err := st.CreateUser(ctx, login, "hash", "555-0100")
		require.NoError(t, err)
	}
	chatRow, err := st.CreateChat(ctx, store.ChatKindPrivate, "alice", []string{"alice", "bob"})
	require.NoError(t, err)
	msg, err := st.InsertMessage(ctx, chatRow.ID, "alice", "hi")
	require.NoError(t, err)

	isSender, err := guard.IsMessageSender(ctx, msg.ID, "alice")
	require.NoError(t, err)
	assert.True(t, isSender)

	isSender, err = guard.IsMessageSender(ctx, msg.ID, "bob")
	require.NoError(t, err)
	assert.False(t, isSender)

	// Absence is an error here, not a quiet false
	_, err = guard.IsMessageSender(ctx, 404, "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGuard_ReadsFreshState(t *testing.T) {
	guard, st := setupGuard(t)
	ctx := context.Background()

	_, err := st.CreateUser(ctx, "alice", "hash", "555-0100")
	require.NoError(t, err)
	chatRow, err := st.CreateChat(ctx, store.ChatKindGroup, "alice", []string{"alice"})
	require.NoError(t, err)

	isMember, err := guard.IsChatMember(ctx, chatRow.ID, "alice")
	require.NoError(t, err)
	assert.True(t, isMember)

	// No caching: the very next call sees the removal
	require.NoError(t, st.RemoveChatMember(ctx, chatRow.ID, "alice"))
	isMember, err = guard.IsChatMember(ctx, chatRow.ID, "alice")
	require.NoError(t, err)
	assert.False(t, isMember)
}
