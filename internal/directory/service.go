// ABOUTME: Directory service: user lifecycle plus the contact and block lists hanging off each user
// ABOUTME: Both list kinds run through the same owner→members relation in the store

package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/parley-im/parley/internal/store"
)

// ErrEmptyLogin is returned when a login is blank after trimming.
var ErrEmptyLogin = errors.New("login must not be empty")

// DirectoryStore defines what the service needs from storage.
type DirectoryStore interface {
	store.UserStore
	store.ListStore
}

// Service owns user identities and the two named relation lists per user.
type Service struct {
	store  DirectoryStore
	logger *slog.Logger
}

// New creates a new directory service.
func New(s DirectoryStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  s,
		logger: logger.With("component", "directory"),
	}
}

// NormalizeLogin canonicalizes a login for identity comparison. Trimming
// happens exactly once, here at the boundary; everything downstream compares
// with plain string equality.
func NormalizeLogin(login string) string {
	return strings.TrimSpace(login)
}

// CreateUser registers a new identity with a fresh contact list and a fresh
// block list. The credential is opaque here; hashing is the auth provider's
// concern. Returns store.ErrDuplicateLogin for a taken login.
func (s *Service) CreateUser(ctx context.Context, login, password, phone string) (*store.User, error) {
	login = NormalizeLogin(login)
	if login == "" {
		return nil, ErrEmptyLogin
	}

	user, err := s.store.CreateUser(ctx, login, password, phone)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", "login", login)
	return user, nil
}

// GetUser retrieves a user by login.
func (s *Service) GetUser(ctx context.Context, login string) (*store.User, error) {
	return s.store.GetUser(ctx, NormalizeLogin(login))
}

// DeleteUser removes a user, refusing with store.ErrReferentialConflict
// while any chat membership, chat ownership, sent message or list
// membership still references the login.
func (s *Service) DeleteUser(ctx context.Context, login string) error {
	login = NormalizeLogin(login)
	if err := s.store.DeleteUser(ctx, login); err != nil {
		return err
	}
	s.logger.Info("user deleted", "login", login)
	return nil
}

// AddContact puts target on owner's contact list.
func (s *Service) AddContact(ctx context.Context, owner, target string) error {
	return s.addToList(ctx, owner, target, store.ListKindContact)
}

// RemoveContact takes target off owner's contact list. No-op when absent.
func (s *Service) RemoveContact(ctx context.Context, owner, target string) error {
	return s.removeFromList(ctx, owner, target, store.ListKindContact)
}

// Contacts returns owner's contact list in insertion order.
func (s *Service) Contacts(ctx context.Context, owner string) ([]string, error) {
	return s.listMembers(ctx, owner, store.ListKindContact)
}

// AddBlock puts target on owner's block list.
func (s *Service) AddBlock(ctx context.Context, owner, target string) error {
	return s.addToList(ctx, owner, target, store.ListKindBlock)
}

// RemoveBlock takes target off owner's block list. No-op when absent.
func (s *Service) RemoveBlock(ctx context.Context, owner, target string) error {
	return s.removeFromList(ctx, owner, target, store.ListKindBlock)
}

// Blocks returns owner's block list in insertion order.
func (s *Service) Blocks(ctx context.Context, owner string) ([]string, error) {
	return s.listMembers(ctx, owner, store.ListKindBlock)
}

// listID resolves which of the owner's two lists a kind refers to.
func (s *Service) listID(ctx context.Context, owner, kind string) (int64, error) {
	user, err := s.store.GetUser(ctx, NormalizeLogin(owner))
	if err != nil {
		return 0, fmt.Errorf("resolving %s list for %q: %w", kind, owner, err)
	}
	if kind == store.ListKindBlock {
		return user.BlockListID, nil
	}
	return user.ContactListID, nil
}

func (s *Service) addToList(ctx context.Context, owner, target, kind string) error {
	listID, err := s.listID(ctx, owner, kind)
	if err != nil {
		return err
	}
	if err := s.store.AddListMember(ctx, listID, NormalizeLogin(target)); err != nil {
		return err
	}
	s.logger.Debug("list member added", "kind", kind, "owner", owner, "target", target)
	return nil
}

func (s *Service) removeFromList(ctx context.Context, owner, target, kind string) error {
	listID, err := s.listID(ctx, owner, kind)
	if err != nil {
		return err
	}
	return s.store.RemoveListMember(ctx, listID, NormalizeLogin(target))
}

func (s *Service) listMembers(ctx context.Context, owner, kind string) ([]string, error) {
	listID, err := s.listID(ctx, owner, kind)
	if err != nil {
		return nil, err
	}
	return s.store.ListMembers(ctx, listID)
}
