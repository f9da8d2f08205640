// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/hisaab-app/hisaab/internal/models"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// Store defines the document operations the application needs. The
// abstraction allows swapping storage backends (SQLite, PostgreSQL, a hosted
// document database) without changing the service layer.
//
// User.Groups and Group.Members are updated by separate AddUserGroup /
// AddGroupMember calls with no cross-document transaction; callers treat the
// pair as eventually consistent and heal dangling references on read.
type Store interface {
	// CreateUser persists a new user document. The user.ID must already be
	// assigned (it comes from registration); CreatedAt is assigned here.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by id. Returns ErrNotFound if absent.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// GetUserByEmail retrieves a user by email. Returns ErrNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// AddUserGroup appends groupID to the user's groups array (array-union:
	// adding an id that is already present is a no-op).
	AddUserGroup(ctx context.Context, userID, groupID string) error

	// RemoveUserGroup removes groupID from the user's groups array
	// (array-remove: removing an absent id is a no-op).
	RemoveUserGroup(ctx context.Context, userID, groupID string) error

	// CreateGroup persists a new group document, assigning ID and CreatedAt.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by id. Returns ErrNotFound if absent.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// FindGroupByJoinCode retrieves the group with the given join code.
	// Returns ErrNotFound if no group carries the code.
	FindGroupByJoinCode(ctx context.Context, code string) (*models.Group, error)

	// AddGroupMember appends userID to the group's members array
	// (array-union semantics, join order preserved).
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// AppendExpense durably appends an expense to its group's ledger,
	// assigning ID and CreatedAt. CreatedAt uses the store clock at write
	// time, not the client clock. There is no dedup key: a retried append
	// after an ambiguous failure may duplicate the expense.
	AppendExpense(ctx context.Context, expense *models.Expense) error

	// ListGroupExpenses returns the group's full ledger, newest first
	// (CreatedAt descending, insertion order breaking ties).
	ListGroupExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)

	// Close releases any resources held by the store.
	Close() error
}
