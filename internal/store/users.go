// ABOUTME: User persistence: creation with fresh relation lists and reference-guarded deletion
// ABOUTME: Implements the UserStore interface on SQLiteStore

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateUser allocates a fresh block list and contact list, then inserts the
// user row referencing both. The three inserts are one transaction so a
// failed user insert never leaves orphaned lists behind.
// Returns ErrDuplicateLogin if the login is already taken.
func (s *SQLiteStore) CreateUser(ctx context.Context, login, password, phone string) (*User, error) {
	var user User

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		blockID, err := insertList(ctx, tx, ListKindBlock)
		if err != nil {
			return fmt.Errorf("creating block list: %w", err)
		}
		contactID, err := insertList(ctx, tx, ListKindContact)
		if err != nil {
			return fmt.Errorf("creating contact list: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO usr (login, password, phone, block_list, contact_list)
			VALUES (?, ?, ?, ?, ?)
		`, login, password, phone, blockID, contactID)
		if err != nil {
			if isConstraintViolation(err) {
				return ErrDuplicateLogin
			}
			return fmt.Errorf("inserting user: %w", err)
		}

		user = User{
			Login:         login,
			Password:      password,
			Phone:         phone,
			ContactListID: contactID,
			BlockListID:   blockID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("created user", "login", login)
	return &user, nil
}

func insertList(ctx context.Context, tx *sql.Tx, kind string) (int64, error) {
	res, err := tx.ExecContext(ctx, `INSERT INTO user_list (list_type) VALUES (?)`, kind)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetUser retrieves a user by login.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) GetUser(ctx context.Context, login string) (*User, error) {
	query := `
		SELECT login, password, phone, block_list, contact_list
		FROM usr
		WHERE login = ?
	`

	var user User
	err := s.db.QueryRowContext(ctx, query, login).Scan(
		&user.Login,
		&user.Password,
		&user.Phone,
		&user.BlockListID,
		&user.ContactListID,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	return &user, nil
}

// UserExists reports whether a user row exists for the login.
func (s *SQLiteStore) UserExists(ctx context.Context, login string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM usr WHERE login = ?`, login).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying user existence: %w", err)
	}
	return true, nil
}

// DeleteUser removes a user row, but only if the login appears nowhere else:
// not as a chat member, not as a chat owner, not as a message sender and not
// as a member of any relation list. The check and the delete run in one
// transaction so a reference added by a concurrent writer either lands
// before the check or after the commit, never in between.
// Returns ErrReferentialConflict when references exist, ErrNotFound when the
// user doesn't exist.
func (s *SQLiteStore) DeleteUser(ctx context.Context, login string) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var referenced int
		err := tx.QueryRowContext(ctx, `
			SELECT 1 WHERE EXISTS (
				SELECT member FROM chat_list WHERE member = ?
				UNION
				SELECT init_sender FROM chat WHERE init_sender = ?
				UNION
				SELECT sender_login FROM message WHERE sender_login = ?
				UNION
				SELECT list_member FROM user_list_contains WHERE list_member = ?
			)
		`, login, login, login, login).Scan(&referenced)
		if err == nil {
			return ErrReferentialConflict
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("checking user references: %w", err)
		}

		var blockID, contactID int64
		err = tx.QueryRowContext(ctx,
			`SELECT block_list, contact_list FROM usr WHERE login = ?`, login,
		).Scan(&blockID, &contactID)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("querying user lists: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM usr WHERE login = ?`, login); err != nil {
			return fmt.Errorf("deleting user: %w", err)
		}

		// The user's own lists are owned exclusively, so remove them too
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM user_list_contains WHERE list_id IN (?, ?)`, blockID, contactID); err != nil {
			return fmt.Errorf("deleting list members: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM user_list WHERE list_id IN (?, ?)`, blockID, contactID); err != nil {
			return fmt.Errorf("deleting lists: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("deleted user", "login", login)
	return nil
}
