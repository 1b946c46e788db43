// ABOUTME: Cross-cutting authorization predicates consumed by the chat and message services
// ABOUTME: Stateless; every call is a fresh read against current store state

package access

import (
	"context"
	"errors"

	"github.com/parley-im/parley/internal/store"
)

// GuardStore defines what the guard needs from storage.
type GuardStore interface {
	UserExists(ctx context.Context, login string) (bool, error)
	IsChatMember(ctx context.Context, chatID int64, login string) (bool, error)
	GetChat(ctx context.Context, chatID int64) (*store.Chat, error)
	GetMessage(ctx context.Context, messageID int64) (*store.Message, error)
}

// Guard answers ownership and membership questions for the mutating
// services. It holds no state and never caches: staleness is acceptable
// within a single operation, never across a prompt-response cycle.
type Guard struct {
	store GuardStore
}

// New creates a Guard over the given store.
func New(s GuardStore) *Guard {
	return &Guard{store: s}
}

// UserExists reports whether login names a registered user.
func (g *Guard) UserExists(ctx context.Context, login string) (bool, error) {
	return g.store.UserExists(ctx, login)
}

// IsChatMember reports whether login is currently a member of the chat.
func (g *Guard) IsChatMember(ctx context.Context, chatID int64, login string) (bool, error) {
	return g.store.IsChatMember(ctx, chatID, login)
}

// IsChatOwner reports whether login created the chat. A missing chat is
// false, not an error.
func (g *Guard) IsChatOwner(ctx context.Context, chatID int64, login string) (bool, error) {
	chat, err := g.store.GetChat(ctx, chatID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return chat.InitSender == login, nil
}

// IsMessageSender reports whether login originally sent the message.
// Unlike IsChatOwner, a missing message surfaces as store.ErrNotFound:
// the message service must tell absence apart from someone else's message.
func (g *Guard) IsMessageSender(ctx context.Context, messageID int64, login string) (bool, error) {
	msg, err := g.store.GetMessage(ctx, messageID)
	if err != nil {
		return false, err
	}
	return msg.Sender == login, nil
}
