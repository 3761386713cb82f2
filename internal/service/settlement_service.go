package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/ledger"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/models"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/payments"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/storage"
)

// ErrNothingOwed is returned when the user has no positive debt toward the
// requested counterparty.
var ErrNothingOwed = errors.New("nothing owed to this counterparty")

// Gateway is the slice of the payment integration the settlement service
// needs; payments.Client implements it.
type Gateway interface {
	CreateRedirect(ctx context.Context, from, to *models.User, amount decimal.Decimal) (*payments.Redirect, error)
}

// SettlementService turns a net debt into a payment redirect and records the
// attempt. It never moves money itself.
type SettlementService struct {
	store   storage.Store
	gateway Gateway
	logger  *slog.Logger
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(store storage.Store, gateway Gateway, logger *slog.Logger) *SettlementService {
	return &SettlementService{store: store, gateway: gateway, logger: logger}
}

// Initiate settles what userID currently owes counterpartyID: it recomputes
// the caller's balances, requires a positive "owes" entry for the
// counterparty, requests a redirect for exactly that amount and records the
// settlement.
func (s *SettlementService) Initiate(ctx context.Context, userID, counterpartyID string) (*models.Settlement, error) {
	if counterpartyID == "" || counterpartyID == userID {
		return nil, fmt.Errorf("%w: counterparty required", ErrInvalidInput)
	}

	counterparty, err := s.store.GetUserByID(ctx, counterpartyID)
	if err != nil {
		return nil, err
	}
	if counterparty == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, counterpartyID)
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, userID)
	}

	expenses, err := s.store.ListVisibleExpenses(ctx, userID)
	if err != nil {
		return nil, err
	}
	balances, err := ledger.ComputeBalances(userID, expenses)
	if err != nil {
		return nil, err
	}

	var owed decimal.Decimal
	found := false
	for _, b := range balances {
		if b.CounterpartyID == counterpartyID && b.Direction == ledger.DirectionOwes {
			owed = b.Amount
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNothingOwed
	}

	redirect, err := s.gateway.CreateRedirect(ctx, user, counterparty, owed)
	if err != nil {
		s.logger.Error("Payment redirect request failed",
			"user_id", userID, "counterparty_id", counterpartyID, "error", err)
		return nil, err
	}

	settlement := &models.Settlement{
		FromUserID:  userID,
		ToUserID:    counterpartyID,
		Amount:      owed,
		GatewayRef:  redirect.Reference,
		RedirectURL: redirect.URL,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		return nil, err
	}

	s.logger.Info("Settlement initiated",
		"settlement_id", settlement.ID,
		"from", userID,
		"to", counterpartyID,
		"amount", owed.String(),
	)
	return settlement, nil
}

// List returns settlements the user initiated or received, newest first.
func (s *SettlementService) List(ctx context.Context, userID string) ([]*models.Settlement, error) {
	return s.store.ListSettlementsByUser(ctx, userID)
}
