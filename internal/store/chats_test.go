package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateChat_Private(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, store, "alice")
	mustCreateUser(t, store, "bob")

	chat, err := store.CreateChat(ctx, ChatKindPrivate, "alice", []string{"alice", "bob"})
	require.NoError(t, err)
	assert.Equal(t, ChatKindPrivate, chat.Kind)
	assert.Equal(t, "alice", chat.InitSender)
	assert.Positive(t, chat.ID)

	members, err := store.ChatMembers(ctx, chat.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, members)
}

func TestStore_CreateChat_Group(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, store, "alice")

	chat, err := store.CreateChat(ctx, ChatKindGroup, "alice", []string{"alice"})
	require.NoError(t, err)

	members, err := store.ChatMembers(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, members)

	retrieved, err := store.GetChat(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, chat.ID, retrieved.ID)
	assert.Equal(t, "alice", retrieved.InitSender)
	assert.False(t, retrieved.CreatedAt.IsZero())
}

func TestStore_GetChat_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetChat(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_AddChatMember(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, store, "alice")
	mustCreateUser(t, store, "bob")

	chat, err := store.CreateChat(ctx, ChatKindGroup, "alice", []string{"alice"})
	require.NoError(t, err)

	require.NoError(t, store.AddChatMember(ctx, chat.ID, "bob"))

	isMember, err := store.IsChatMember(ctx, chat.ID, "bob")
	require.NoError(t, err)
	assert.True(t, isMember)

	// Duplicate joins are rejected, missing chats surface as not found
	assert.ErrorIs(t, store.AddChatMember(ctx, chat.ID, "bob"), ErrDuplicateMembership)
	assert.ErrorIs(t, store.AddChatMember(ctx, 404, "bob"), ErrNotFound)
}

func TestStore_AddChatMember_UnknownUserIsNotDuplicate(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, store, "alice")

	chat, err := store.CreateChat(ctx, ChatKindGroup, "alice", []string{"alice"})
	require.NoError(t, err)

	// Referencing a nonexistent user trips the foreign key, which must not
	// masquerade as a duplicate membership
	err = store.AddChatMember(ctx, chat.ID, "ghost")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateMembership)
}

func TestStore_RemoveChatMember_LeavesChatIntact(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, store, "alice")
	mustCreateUser(t, store, "bob")

	chat, err := store.CreateChat(ctx, ChatKindPrivate, "alice", []string{"alice", "bob"})
	require.NoError(t, err)

	require.NoError(t, store.RemoveChatMember(ctx, chat.ID, "bob"))

	_, err = store.GetChat(ctx, chat.ID)
	require.NoError(t, err)

	members, err := store.ChatMembers(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, members)

	// Absent pair removal is a no-op
	require.NoError(t, store.RemoveChatMember(ctx, chat.ID, "bob"))
}

func TestStore_DeleteChat_CascadesMembershipsAndMessages(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, store, "alice")
	mustCreateUser(t, store, "bob")

	chat, err := store.CreateChat(ctx, ChatKindPrivate, "alice", []string{"alice", "bob"})
	require.NoError(t, err)
	msg, err := store.InsertMessage(ctx, chat.ID, "bob", "bye")
	require.NoError(t, err)

	require.NoError(t, store.DeleteChat(ctx, chat.ID))

	_, err = store.GetChat(ctx, chat.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	isMember, err := store.IsChatMember(ctx, chat.ID, "bob")
	require.NoError(t, err)
	assert.False(t, isMember)

	_, err = store.GetMessage(ctx, msg.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DeleteChat_NotFound(t *testing.T) {
	store := setupTestStore(t)

	assert.ErrorIs(t, store.DeleteChat(context.Background(), 404), ErrNotFound)
}

func TestStore_ChatsForUser(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, store, "alice")
	mustCreateUser(t, store, "bob")
	mustCreateUser(t, store, "carol")

	private, err := store.CreateChat(ctx, ChatKindPrivate, "alice", []string{"alice", "bob"})
	require.NoError(t, err)
	group, err := store.CreateChat(ctx, ChatKindGroup, "carol", []string{"carol"})
	require.NoError(t, err)
	require.NoError(t, store.AddChatMember(ctx, group.ID, "alice"))

	summaries, err := store.ChatsForUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, private.ID, summaries[0].Chat.ID)
	assert.ElementsMatch(t, []string{"alice", "bob"}, summaries[0].Members)
	assert.Equal(t, group.ID, summaries[1].Chat.ID)
	assert.ElementsMatch(t, []string{"carol", "alice"}, summaries[1].Members)

	// Bob only sees the private chat
	summaries, err = store.ChatsForUser(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, private.ID, summaries[0].Chat.ID)
}
