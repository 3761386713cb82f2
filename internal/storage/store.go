// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for expense-sharing storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) when no
	// such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns (nil, nil) when no such
	// user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs retrieves multiple users keyed by ID. Users that do not
	// exist are omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// CreateExpense persists a new expense after enforcing the creation
	// invariants (positive amount, non-empty participants). The expense ID
	// and CreatedAt are populated by the store when unset.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListVisibleExpenses returns every expense where userID is the payer or
	// a participant, newest first, with display names resolved. The read is
	// a single consistent snapshot.
	ListVisibleExpenses(ctx context.Context, userID string) ([]models.Expense, error)

	// CreateSettlement records an initiated payment redirect.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlementsByUser returns settlements the user initiated or
	// received, newest first.
	ListSettlementsByUser(ctx context.Context, userID string) ([]*models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}
