// ABOUTME: Generic owner→members relation backing both contact and block lists
// ABOUTME: Implements the ListStore interface on SQLiteStore

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// AddListMember inserts (listID, login) into the relation.
// Returns ErrNotFound if no user exists for login, and ErrDuplicateMembership
// if the pair is already present; duplicate adds are not silently absorbed.
func (s *SQLiteStore) AddListMember(ctx context.Context, listID int64, login string) error {
	exists, err := s.UserExists(ctx, login)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_list_contains (list_id, list_member)
		VALUES (?, ?)
	`, listID, login)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicateMembership
		}
		return fmt.Errorf("inserting list member: %w", err)
	}

	s.logger.Debug("added list member", "list_id", listID, "member", login)
	return nil
}

// RemoveListMember deletes (listID, login) from the relation.
// Removing an absent pair is a no-op, not an error.
func (s *SQLiteStore) RemoveListMember(ctx context.Context, listID int64, login string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM user_list_contains WHERE list_id = ? AND list_member = ?
	`, listID, login)
	if err != nil {
		return fmt.Errorf("deleting list member: %w", err)
	}
	return nil
}

// ListMembers returns the logins in a list in insertion order.
// The ordering is stable but carries no meaning.
func (s *SQLiteStore) ListMembers(ctx context.Context, listID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT list_member FROM user_list_contains
		WHERE list_id = ?
		ORDER BY rowid
	`, listID)
	if err != nil {
		return nil, fmt.Errorf("querying list members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var login string
		if err := rows.Scan(&login); err != nil {
			return nil, fmt.Errorf("scanning list member: %w", err)
		}
		members = append(members, login)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating list members: %w", err)
	}
	return members, nil
}

// listKind returns the list_type for a list id, ErrNotFound if absent.
// Kept unexported; only tests and the directory service care about kinds.
func (s *SQLiteStore) listKind(ctx context.Context, listID int64) (string, error) {
	var kind string
	err := s.db.QueryRowContext(ctx,
		`SELECT list_type FROM user_list WHERE list_id = ?`, listID).Scan(&kind)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying list kind: %w", err)
	}
	return kind, nil
}
