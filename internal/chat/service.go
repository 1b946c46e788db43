// ABOUTME: Chat service: creation, membership management under a configurable policy, and leave-or-delete
// ABOUTME: The creator owns delete rights; member management defaults to the permissive legacy policy

package chat

import (
	"context"
	"errors"
	"log/slog"

	"github.com/parley-im/parley/internal/access"
	"github.com/parley-im/parley/internal/directory"
	"github.com/parley-im/parley/internal/store"
)

// ErrForbidden is returned when the acting user lacks the rights for a
// member-management action under the owner-only policy.
var ErrForbidden = errors.New("forbidden")

// ErrMissingTarget is returned when a private chat is created without
// exactly one target user.
var ErrMissingTarget = errors.New("private chat needs exactly one target user")

// MemberPolicy controls who may add or remove chat members.
type MemberPolicy string

const (
	// PolicyOpen lets any user add or remove members of any chat. This is
	// the legacy behavior and the default.
	PolicyOpen MemberPolicy = "open"
	// PolicyOwner restricts member management to the chat creator.
	PolicyOwner MemberPolicy = "owner"
)

// Valid reports whether p is a known policy.
func (p MemberPolicy) Valid() bool {
	return p == PolicyOpen || p == PolicyOwner
}

// ChatStore defines what the service needs from storage.
type ChatStore interface {
	store.ChatStore
}

// Service manages chats and their memberships.
type Service struct {
	store  ChatStore
	guard  *access.Guard
	policy MemberPolicy
	logger *slog.Logger
}

// New creates a new chat service. An empty policy falls back to PolicyOpen.
func New(s ChatStore, guard *access.Guard, policy MemberPolicy, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if policy == "" {
		policy = PolicyOpen
	}
	return &Service{
		store:  s,
		guard:  guard,
		policy: policy,
		logger: logger.With("component", "chat"),
	}
}

// CreateGroup starts a group chat with the creator as its only member.
// Others join later through AddMember.
func (s *Service) CreateGroup(ctx context.Context, creator string) (*store.Chat, error) {
	creator = directory.NormalizeLogin(creator)
	chat, err := s.store.CreateChat(ctx, store.ChatKindGroup, creator, []string{creator})
	if err != nil {
		return nil, err
	}
	s.logger.Info("group chat created", "chat_id", chat.ID, "creator", creator)
	return chat, nil
}

// CreatePrivate starts a private chat between the creator and exactly one
// target. Returns store.ErrNotFound if the target doesn't exist. The chat
// row and both memberships are inserted atomically.
func (s *Service) CreatePrivate(ctx context.Context, creator, target string) (*store.Chat, error) {
	creator = directory.NormalizeLogin(creator)
	target = directory.NormalizeLogin(target)
	if target == "" {
		return nil, ErrMissingTarget
	}

	exists, err := s.guard.UserExists(ctx, target)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrNotFound
	}

	chat, err := s.store.CreateChat(ctx, store.ChatKindPrivate, creator, []string{creator, target})
	if err != nil {
		return nil, err
	}
	s.logger.Info("private chat created", "chat_id", chat.ID, "creator", creator, "target", target)
	return chat, nil
}

// AddMember adds target to a chat on behalf of actor. Under PolicyOpen any
// actor may do this (legacy behavior); under PolicyOwner only the creator.
// Returns store.ErrNotFound for a missing target user or chat.
func (s *Service) AddMember(ctx context.Context, chatID int64, actor, target string) error {
	target = directory.NormalizeLogin(target)

	if err := s.checkManagementRights(ctx, chatID, actor); err != nil {
		return err
	}

	exists, err := s.guard.UserExists(ctx, target)
	if err != nil {
		return err
	}
	if !exists {
		return store.ErrNotFound
	}

	if err := s.store.AddChatMember(ctx, chatID, target); err != nil {
		return err
	}
	s.logger.Info("chat member added", "chat_id", chatID, "actor", actor, "target", target)
	return nil
}

// RemoveMember removes target's membership from a chat on behalf of actor.
// The chat itself and other memberships stay intact; removing an absent
// pair is a no-op.
func (s *Service) RemoveMember(ctx context.Context, chatID int64, actor, target string) error {
	target = directory.NormalizeLogin(target)

	if err := s.checkManagementRights(ctx, chatID, actor); err != nil {
		return err
	}

	if _, err := s.store.GetChat(ctx, chatID); err != nil {
		return err
	}

	if err := s.store.RemoveChatMember(ctx, chatID, target); err != nil {
		return err
	}
	s.logger.Info("chat member removed", "chat_id", chatID, "actor", actor, "target", target)
	return nil
}

// LeaveOrDelete resolves what leaving means for the actor: the creator
// deletes the chat outright, cascading all memberships and messages; any
// other member drops only their own membership. Returns store.ErrNotFound
// if the chat doesn't exist.
func (s *Service) LeaveOrDelete(ctx context.Context, chatID int64, actor string) error {
	actor = directory.NormalizeLogin(actor)

	chat, err := s.store.GetChat(ctx, chatID)
	if err != nil {
		return err
	}

	if chat.InitSender == actor {
		if err := s.store.DeleteChat(ctx, chatID); err != nil {
			return err
		}
		s.logger.Info("chat deleted by owner", "chat_id", chatID, "owner", actor)
		return nil
	}

	if err := s.store.RemoveChatMember(ctx, chatID, actor); err != nil {
		return err
	}
	s.logger.Info("member left chat", "chat_id", chatID, "member", actor)
	return nil
}

// ChatsForUser returns every chat the login belongs to with full member lists.
func (s *Service) ChatsForUser(ctx context.Context, login string) ([]*store.ChatSummary, error) {
	return s.store.ChatsForUser(ctx, directory.NormalizeLogin(login))
}

// IsOwner reports whether login created the chat; false for missing chats.
func (s *Service) IsOwner(ctx context.Context, chatID int64, login string) (bool, error) {
	return s.guard.IsChatOwner(ctx, chatID, directory.NormalizeLogin(login))
}

// checkManagementRights enforces the configured member-management policy.
func (s *Service) checkManagementRights(ctx context.Context, chatID int64, actor string) error {
	if s.policy == PolicyOpen {
		return nil
	}
	owner, err := s.guard.IsChatOwner(ctx, chatID, directory.NormalizeLogin(actor))
	if err != nil {
		return err
	}
	if !owner {
		return ErrForbidden
	}
	return nil
}
