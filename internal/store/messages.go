// ABOUTME: Message persistence: server-timestamped inserts, offset/limit paging, text updates, deletion
// ABOUTME: Implements the MessageStore interface on SQLiteStore

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// InsertMessage appends a message to a chat's history. The timestamp is
// assigned here, never by the caller, and paging orders by
// (msg_timestamp, msg_id) so same-instant inserts keep insertion order.
func (s *SQLiteStore) InsertMessage(ctx context.Context, chatID int64, sender, text string) (*Message, error) {
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO message (msg_text, sender_login, chat_id, msg_timestamp)
		VALUES (?, ?, ?, ?)
	`, text, sender, chatID, now.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("inserting message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading message id: %w", err)
	}

	s.logger.Debug("inserted message", "msg_id", id, "chat_id", chatID, "sender", sender)
	return &Message{
		ID:        id,
		ChatID:    chatID,
		Sender:    sender,
		Text:      text,
		CreatedAt: now,
	}, nil
}

// GetMessage retrieves a message by id.
// Returns ErrNotFound if the message doesn't exist.
func (s *SQLiteStore) GetMessage(ctx context.Context, messageID int64) (*Message, error) {
	var msg Message
	var createdAtStr string

	err := s.db.QueryRowContext(ctx, `
		SELECT msg_id, chat_id, sender_login, msg_text, msg_timestamp
		FROM message
		WHERE msg_id = ?
	`, messageID).Scan(&msg.ID, &msg.ChatID, &msg.Sender, &msg.Text, &createdAtStr)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying message: %w", err)
	}

	msg.CreatedAt, err = time.Parse(timeLayout, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing msg_timestamp: %w", err)
	}

	return &msg, nil
}

// PageMessages returns up to limit messages of a chat ordered by timestamp
// ascending (msg_id tiebreak), starting at offset. Rows already handed out
// never reorder under concurrent appends; new messages only land on pages
// not yet read.
func (s *SQLiteStore) PageMessages(ctx context.Context, chatID int64, offset, limit int) ([]*Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT msg_id, chat_id, sender_login, msg_text, msg_timestamp
		FROM message
		WHERE chat_id = ?
		ORDER BY msg_timestamp, msg_id
		LIMIT ? OFFSET ?
	`, chatID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying message page: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		var msg Message
		var createdAtStr string
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.Sender, &msg.Text, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		msg.CreatedAt, err = time.Parse(timeLayout, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing msg_timestamp: %w", err)
		}
		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message rows: %w", err)
	}
	return messages, nil
}

// UpdateMessageText replaces a message body in place.
// Returns ErrNotFound if the message doesn't exist.
func (s *SQLiteStore) UpdateMessageText(ctx context.Context, messageID int64, text string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE message SET msg_text = ? WHERE msg_id = ?
	`, text, messageID)
	if err != nil {
		return fmt.Errorf("updating message: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("updated message", "msg_id", messageID)
	return nil
}

// DeleteMessage removes a message.
// Returns ErrNotFound if the message doesn't exist.
func (s *SQLiteStore) DeleteMessage(ctx context.Context, messageID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM message WHERE msg_id = ?`, messageID)
	if err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted message", "msg_id", messageID)
	return nil
}
