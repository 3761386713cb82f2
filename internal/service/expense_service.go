package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/ledger"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/models"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/storage"
)

var (
	// ErrNotInvolved rejects expenses the creating user is not part of.
	ErrNotInvolved = errors.New("you must be the payer or a participant of this expense")
	// ErrUnknownUser rejects references to users that do not exist.
	ErrUnknownUser = errors.New("unknown user")
)

// ExpenseService handles expense creation and the per-user balance and
// statistics views derived from them.
type ExpenseService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, logger: logger}
}

// AddExpenseInput carries the user-provided fields of a new expense.
type AddExpenseInput struct {
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Category       string          `json:"category"`
	PayerID        string          `json:"payer_id"`
	ParticipantIDs []string        `json:"participant_ids"`
}

// Statistics bundles the two aggregations over a user's visibility scope.
// Totals are raw; scaling for chart rendering belongs to the consumer.
type Statistics struct {
	ByCategory map[string]decimal.Decimal `json:"by_category"`
	ByMonth    []ledger.MonthTotal        `json:"by_month"`
}

// AddExpense validates and persists a new expense created by creatorID.
// The payer defaults to the creator when omitted; the creator must be the
// payer or one of the participants.
func (s *ExpenseService) AddExpense(ctx context.Context, creatorID string, in AddExpenseInput) (*models.Expense, error) {
	if in.Description == "" {
		return nil, fmt.Errorf("%w: description required", ErrInvalidInput)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if len(in.ParticipantIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one participant required", ErrInvalidInput)
	}

	payerID := in.PayerID
	if payerID == "" {
		payerID = creatorID
	}

	participantIDs := dedupe(in.ParticipantIDs)
	if creatorID != payerID && !contains(participantIDs, creatorID) {
		return nil, ErrNotInvolved
	}

	// Resolve everyone involved in one query; unknown IDs fail the request.
	users, err := s.store.GetUsersByIDs(ctx, append([]string{payerID}, participantIDs...))
	if err != nil {
		return nil, err
	}
	payer, ok := users[payerID]
	if !ok {
		return nil, fmt.Errorf("%w: payer %s", ErrUnknownUser, payerID)
	}
	participants := make([]models.UserRef, len(participantIDs))
	for i, id := range participantIDs {
		user, ok := users[id]
		if !ok {
			return nil, fmt.Errorf("%w: participant %s", ErrUnknownUser, id)
		}
		participants[i] = models.UserRef{ID: user.ID, DisplayName: user.DisplayName}
	}

	expense := &models.Expense{
		Description:  in.Description,
		Amount:       in.Amount,
		Category:     in.Category,
		Payer:        models.UserRef{ID: payer.ID, DisplayName: payer.DisplayName},
		Participants: participants,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		s.logger.Error("CreateExpense failed", "creator_id", creatorID, "error", err)
		return nil, err
	}

	s.logger.Info("Expense created",
		"expense_id", expense.ID,
		"payer_id", payer.ID,
		"amount", expense.Amount.String(),
		"participants", len(participants),
	)
	return expense, nil
}

// ListExpenses returns the expenses visible to the user, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID string) ([]models.Expense, error) {
	return s.store.ListVisibleExpenses(ctx, userID)
}

// Balances fetches the user's visibility scope and reduces it to net
// pairwise positions. Store errors pass through unchanged; engine errors
// indicate corrupt data and are surfaced as-is too.
func (s *ExpenseService) Balances(ctx context.Context, userID string) ([]ledger.Balance, error) {
	expenses, err := s.store.ListVisibleExpenses(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ledger.ComputeBalances(userID, expenses)
}

// Statistics aggregates the user's visibility scope by category and month.
func (s *ExpenseService) Statistics(ctx context.Context, userID string) (*Statistics, error) {
	expenses, err := s.store.ListVisibleExpenses(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Statistics{
		ByCategory: ledger.TotalsByCategory(expenses),
		ByMonth:    ledger.TotalsByMonth(expenses),
	}, nil
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
