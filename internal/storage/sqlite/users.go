package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hisaab-app/hisaab/internal/models"
	"github.com/hisaab-app/hisaab/internal/storage"
)

// CreateUser inserts a new user document.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt == 0 {
		user.CreatedAt = s.timestamp()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, name, dob, contact, password_hash, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Email, user.Name, user.DOB, user.Contact, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by id, including the groups array.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.getUser(ctx, "id", userID)
}

// GetUserByEmail retrieves a user by email, including the groups array.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", email)
}

func (s *SQLiteStore) getUser(ctx context.Context, column, value string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, name, dob, contact, password_hash, created_at FROM users WHERE "+column+" = ?",
		value,
	).Scan(&user.ID, &user.Email, &user.Name, &user.DOB, &user.Contact, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	groups, err := s.userGroups(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Groups = groups
	return user, nil
}

// userGroups loads the user's group ids in join order.
func (s *SQLiteStore) userGroups(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT group_id FROM user_groups WHERE user_id = ? ORDER BY rowid",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user groups: %w", err)
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		groups = append(groups, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user groups: %w", err)
	}
	return groups, nil
}

// AddUserGroup appends the group id to the user's groups array.
// Adding an id that is already present is a no-op (array-union).
func (s *SQLiteStore) AddUserGroup(ctx context.Context, userID, groupID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO user_groups (user_id, group_id) VALUES (?, ?)",
		userID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to add group to user: %w", err)
	}
	return nil
}

// RemoveUserGroup removes the group id from the user's groups array.
// Removing an absent id is a no-op (array-remove).
func (s *SQLiteStore) RemoveUserGroup(ctx context.Context, userID, groupID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM user_groups WHERE user_id = ? AND group_id = ?",
		userID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove group from user: %w", err)
	}
	return nil
}
