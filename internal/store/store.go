// ABOUTME: Store interfaces and data types for parley persistence
// ABOUTME: Defines User, Chat, Message and the sentinel errors shared by all services

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a referenced user, chat or message does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateLogin is returned when creating a user whose login is already taken
var ErrDuplicateLogin = errors.New("login already exists")

// ErrDuplicateMembership is returned when inserting a (list, member) or
// (chat, member) pair that is already present
var ErrDuplicateMembership = errors.New("membership already exists")

// ErrReferentialConflict is returned when a user deletion is blocked by
// existing references (chat membership, chat ownership, sent messages or
// list membership)
var ErrReferentialConflict = errors.New("user is still referenced")

// ListKind constants for relation lists
const (
	ListKindContact = "contact"
	ListKindBlock   = "block"
)

// ChatKind constants for chat types
const (
	ChatKindGroup   = "group"
	ChatKindPrivate = "private"
)

// User is a registered identity. Login is the primary key and immutable.
// Password is an opaque credential; the store never interprets it.
type User struct {
	Login         string
	Password      string
	Phone         string
	ContactListID int64
	BlockListID   int64
}

// Chat is a group or private conversation. InitSender is the creator and
// owner for delete rights; it never changes after creation.
type Chat struct {
	ID         int64
	Kind       string
	InitSender string
	CreatedAt  time.Time
}

// ChatSummary pairs a chat with its full current member list.
type ChatSummary struct {
	Chat    Chat
	Members []string
}

// Message is one entry in a chat's ordered history. CreatedAt is assigned
// by the server at insert time, never by the caller.
type Message struct {
	ID        int64
	ChatID    int64
	Sender    string
	Text      string
	CreatedAt time.Time
}

// UserStore covers user rows and the guarded delete.
type UserStore interface {
	CreateUser(ctx context.Context, login, password, phone string) (*User, error)
	GetUser(ctx context.Context, login string) (*User, error)
	UserExists(ctx context.Context, login string) (bool, error)
	DeleteUser(ctx context.Context, login string) error
}

// ListStore covers the generic owner→members relation backing both
// contact and block lists.
type ListStore interface {
	AddListMember(ctx context.Context, listID int64, login string) error
	RemoveListMember(ctx context.Context, listID int64, login string) error
	ListMembers(ctx context.Context, listID int64) ([]string, error)
}

// ChatStore covers chat rows, membership and cascading deletion.
type ChatStore interface {
	CreateChat(ctx context.Context, kind, creator string, members []string) (*Chat, error)
	GetChat(ctx context.Context, chatID int64) (*Chat, error)
	DeleteChat(ctx context.Context, chatID int64) error
	AddChatMember(ctx context.Context, chatID int64, login string) error
	RemoveChatMember(ctx context.Context, chatID int64, login string) error
	ChatMembers(ctx context.Context, chatID int64) ([]string, error)
	IsChatMember(ctx context.Context, chatID int64, login string) (bool, error)
	ChatsForUser(ctx context.Context, login string) ([]*ChatSummary, error)
}

// MessageStore covers per-chat ordered message history.
type MessageStore interface {
	InsertMessage(ctx context.Context, chatID int64, sender, text string) (*Message, error)
	GetMessage(ctx context.Context, messageID int64) (*Message, error)
	PageMessages(ctx context.Context, chatID int64, offset, limit int) ([]*Message, error)
	UpdateMessageText(ctx context.Context, messageID int64, text string) error
	DeleteMessage(ctx context.Context, messageID int64) error
}

// Store is the full persistence surface. SQLiteStore implements it in a
// single struct; services depend on the narrow interfaces above.
type Store interface {
	UserStore
	ListStore
	ChatStore
	MessageStore

	// Close releases any resources held by the store
	Close() error
}
