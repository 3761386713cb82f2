package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/models"
)

var (
	// ErrNonPositiveAmount rejects expenses with an amount <= 0.
	ErrNonPositiveAmount = errors.New("expense amount must be positive")
	// ErrNoParticipants rejects expenses with an empty participant set.
	ErrNoParticipants = errors.New("expense must have at least one participant")
)

// CreateExpense persists a new expense and its participant set.
// The creation-boundary invariants are enforced here: expenses violating them
// are rejected before anything is written, so they can never reach the
// balance engine.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if !expense.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if len(expense.Participants) == 0 {
		return ErrNoParticipants
	}

	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Category == "" {
		expense.Category = models.DefaultCategory
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, description, amount, category, payer_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.Amount.String(),
		expense.Category, expense.Payer.ID, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, p := range expense.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, user_id) VALUES (?, ?)",
			expense.ID, p.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListVisibleExpenses returns every expense where userID is the payer or a
// participant, newest first, with payer and participant display names
// resolved. The whole read runs inside one transaction so the returned
// snapshot is internally consistent even against concurrent writes.
func (s *SQLiteStore) ListVisibleExpenses(ctx context.Context, userID string) ([]models.Expense, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT DISTINCT e.id, e.description, e.amount, e.category, e.payer_id, u.display_name, e.created_at
		 FROM expenses e
		 JOIN users u ON u.id = e.payer_id
		 LEFT JOIN expense_participants ep ON ep.expense_id = e.id
		 WHERE e.payer_id = ? OR ep.user_id = ?
		 ORDER BY e.created_at DESC, e.id`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var amount string
		if err := rows.Scan(&e.ID, &e.Description, &amount, &e.Category,
			&e.Payer.ID, &e.Payer.DisplayName, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount for expense %s: %w", e.ID, err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for i := range expenses {
		participants, err := listParticipants(ctx, tx, expenses[i].ID)
		if err != nil {
			return nil, err
		}
		expenses[i].Participants = participants
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return expenses, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listParticipants(ctx context.Context, q querier, expenseID string) ([]models.UserRef, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT p.user_id, u.display_name
		 FROM expense_participants p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.expense_id = ?
		 ORDER BY u.display_name, p.user_id`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []models.UserRef
	for rows.Next() {
		var ref models.UserRef
		if err := rows.Scan(&ref.ID, &ref.DisplayName); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}
