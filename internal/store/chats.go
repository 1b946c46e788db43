// ABOUTME: Chat persistence: creation with initial memberships, cascading deletion, membership queries
// ABOUTME: Implements the ChatStore interface on SQLiteStore

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CreateChat inserts the chat row and one membership per login in members.
// The creator must be first in members; callers build the slice so that a
// private chat carries exactly {creator, target} and a group chat {creator}.
// The inserts are one transaction so a chat never exists with fewer members
// than it was created with.
func (s *SQLiteStore) CreateChat(ctx context.Context, kind, creator string, members []string) (*Chat, error) {
	now := time.Now().UTC()
	var chat Chat

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO chat (chat_type, init_sender, created_at)
			VALUES (?, ?, ?)
		`, kind, creator, now.Format(timeLayout))
		if err != nil {
			return fmt.Errorf("inserting chat: %w", err)
		}

		chatID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading chat id: %w", err)
		}

		for _, member := range members {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO chat_list (chat_id, member) VALUES (?, ?)
			`, chatID, member)
			if err != nil {
				if isConstraintViolation(err) {
					return ErrDuplicateMembership
				}
				return fmt.Errorf("inserting chat member %q: %w", member, err)
			}
		}

		chat = Chat{
			ID:         chatID,
			Kind:       kind,
			InitSender: creator,
			CreatedAt:  now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("created chat", "chat_id", chat.ID, "kind", kind, "init_sender", creator)
	return &chat, nil
}

// GetChat retrieves a chat by id.
// Returns ErrNotFound if the chat doesn't exist.
func (s *SQLiteStore) GetChat(ctx context.Context, chatID int64) (*Chat, error) {
	var chat Chat
	var createdAtStr string

	err := s.db.QueryRowContext(ctx, `
		SELECT chat_id, chat_type, init_sender, created_at
		FROM chat
		WHERE chat_id = ?
	`, chatID).Scan(&chat.ID, &chat.Kind, &chat.InitSender, &createdAtStr)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying chat: %w", err)
	}

	chat.CreatedAt, err = time.Parse(timeLayout, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &chat, nil
}

// DeleteChat removes a chat row. Memberships and messages cascade via
// their foreign keys. Returns ErrNotFound if the chat doesn't exist.
func (s *SQLiteStore) DeleteChat(ctx context.Context, chatID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM chat WHERE chat_id = ?`, chatID)
	if err != nil {
		return fmt.Errorf("deleting chat: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted chat", "chat_id", chatID)
	return nil
}

// AddChatMember inserts (chatID, login) into the chat membership relation.
// Returns ErrNotFound if the chat doesn't exist and ErrDuplicateMembership
// if the pair is already present.
func (s *SQLiteStore) AddChatMember(ctx context.Context, chatID int64, login string) error {
	if _, err := s.GetChat(ctx, chatID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_list (chat_id, member) VALUES (?, ?)
	`, chatID, login)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicateMembership
		}
		return fmt.Errorf("inserting chat member: %w", err)
	}

	s.logger.Debug("added chat member", "chat_id", chatID, "member", login)
	return nil
}

// RemoveChatMember deletes (chatID, login) from the membership relation.
// Removing an absent pair is a no-op. The chat row itself is untouched.
func (s *SQLiteStore) RemoveChatMember(ctx context.Context, chatID int64, login string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM chat_list WHERE chat_id = ? AND member = ?
	`, chatID, login)
	if err != nil {
		return fmt.Errorf("deleting chat member: %w", err)
	}
	return nil
}

// ChatMembers returns the current member logins of a chat in join order.
func (s *SQLiteStore) ChatMembers(ctx context.Context, chatID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT member FROM chat_list
		WHERE chat_id = ?
		ORDER BY rowid
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("querying chat members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var login string
		if err := rows.Scan(&login); err != nil {
			return nil, fmt.Errorf("scanning chat member: %w", err)
		}
		members = append(members, login)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat members: %w", err)
	}
	return members, nil
}

// IsChatMember reports whether login is currently a member of the chat.
func (s *SQLiteStore) IsChatMember(ctx context.Context, chatID int64, login string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM chat_list WHERE chat_id = ? AND member = ?
	`, chatID, login).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying chat membership: %w", err)
	}
	return true, nil
}

// ChatsForUser returns every chat the login belongs to, oldest first, each
// paired with its full current member list. The member lists come from a
// second lookup per chat; under concurrent writers they reflect
// read-committed state, which is all the interactive shell needs.
func (s *SQLiteStore) ChatsForUser(ctx context.Context, login string) ([]*ChatSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.chat_id, c.chat_type, c.init_sender, c.created_at
		FROM chat c
		JOIN chat_list l ON l.chat_id = c.chat_id
		WHERE l.member = ?
		ORDER BY c.chat_id
	`, login)
	if err != nil {
		return nil, fmt.Errorf("querying chats for user: %w", err)
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		var chat Chat
		var createdAtStr string
		if err := rows.Scan(&chat.ID, &chat.Kind, &chat.InitSender, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning chat row: %w", err)
		}
		chat.CreatedAt, err = time.Parse(timeLayout, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat rows: %w", err)
	}

	summaries := make([]*ChatSummary, 0, len(chats))
	for _, chat := range chats {
		members, err := s.ChatMembers(ctx, chat.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &ChatSummary{Chat: chat, Members: members})
	}
	return summaries, nil
}
