// ABOUTME: Message service: append, paginated history, and sender-gated edit/remove
// ABOUTME: Ownership follows the original sender, never current chat membership

package message

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/parley-im/parley/internal/access"
	"github.com/parley-im/parley/internal/directory"
	"github.com/parley-im/parley/internal/store"
)

// ErrEmptyText is returned when a message body is blank after trimming.
var ErrEmptyText = errors.New("message text must not be empty")

// ErrForbidden is returned when the acting user is not allowed to touch the
// message or chat: appending without membership, or editing/removing a
// message someone else sent.
var ErrForbidden = errors.New("forbidden")

// DefaultPageSize is the page length used when a caller passes limit <= 0.
const DefaultPageSize = 10

// MessageStore defines what the service needs from storage.
type MessageStore interface {
	store.MessageStore
}

// Service owns per-chat ordered message history.
type Service struct {
	store    MessageStore
	guard    *access.Guard
	pageSize int
	logger   *slog.Logger
}

// New creates a new message service. pageSize <= 0 falls back to
// DefaultPageSize.
func New(s MessageStore, guard *access.Guard, pageSize int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{
		store:    s,
		guard:    guard,
		pageSize: pageSize,
		logger:   logger.With("component", "message"),
	}
}

// Append records a message in a chat. The sender must be a current member
// of the chat at insert time; the store assigns the timestamp.
// Returns ErrEmptyText for a blank body and ErrForbidden for a non-member.
func (s *Service) Append(ctx context.Context, chatID int64, sender, text string) (*store.Message, error) {
	sender = directory.NormalizeLogin(sender)
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	isMember, err := s.guard.IsChatMember(ctx, chatID, sender)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrForbidden
	}

	msg, err := s.store.InsertMessage(ctx, chatID, sender, text)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("message appended", "chat_id", chatID, "msg_id", msg.ID, "sender", sender)
	return msg, nil
}

// Page returns one bounded slice of a chat's history, oldest first, starting
// at offset. limit <= 0 uses the configured page size. hasMore is true when
// the page came back full — a hint, not a proof: when exactly limit messages
// remained, the next page is legitimately empty and that empty page is the
// authoritative end.
func (s *Service) Page(ctx context.Context, chatID int64, offset, limit int) ([]*store.Message, bool, error) {
	if limit <= 0 {
		limit = s.pageSize
	}

	messages, err := s.store.PageMessages(ctx, chatID, offset, limit)
	if err != nil {
		return nil, false, err
	}

	return messages, len(messages) == limit, nil
}

// Edit replaces the body of a message the actor originally sent.
// Returns store.ErrNotFound for a missing message, ErrForbidden when the
// actor is not the sender, and ErrEmptyText for a blank replacement.
// Current chat membership is irrelevant here.
func (s *Service) Edit(ctx context.Context, messageID int64, actor, newText string) error {
	if strings.TrimSpace(newText) == "" {
		return ErrEmptyText
	}

	if err := s.checkSender(ctx, messageID, actor); err != nil {
		return err
	}

	if err := s.store.UpdateMessageText(ctx, messageID, newText); err != nil {
		return err
	}
	s.logger.Info("message edited", "msg_id", messageID, "actor", actor)
	return nil
}

// Remove deletes a message the actor originally sent. Same ownership rules
// as Edit.
func (s *Service) Remove(ctx context.Context, messageID int64, actor string) error {
	if err := s.checkSender(ctx, messageID, actor); err != nil {
		return err
	}

	if err := s.store.DeleteMessage(ctx, messageID); err != nil {
		return err
	}
	s.logger.Info("message removed", "msg_id", messageID, "actor", actor)
	return nil
}

// checkSender distinguishes a missing message (ErrNotFound) from one owned
// by someone else (ErrForbidden); neither case may ever pass silently.
func (s *Service) checkSender(ctx context.Context, messageID int64, actor string) error {
	isSender, err := s.guard.IsMessageSender(ctx, messageID, directory.NormalizeLogin(actor))
	if err != nil {
		return err
	}
	if !isSender {
		return ErrForbidden
	}
	return nil
}
