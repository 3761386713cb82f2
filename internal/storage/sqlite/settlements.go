package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/models"
)

// CreateSettlement records an initiated payment redirect.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, from_user_id, to_user_id, amount, gateway_ref, redirect_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.FromUserID, settlement.ToUserID,
		settlement.Amount.String(), settlement.GatewayRef, settlement.RedirectURL,
		settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

// ListSettlementsByUser retrieves settlements the user initiated or received,
// newest first.
func (s *SQLiteStore) ListSettlementsByUser(ctx context.Context, userID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, from_user_id, to_user_id, amount, gateway_ref, redirect_url, created_at
		 FROM settlements
		 WHERE from_user_id = ? OR to_user_id = ?
		 ORDER BY created_at DESC, id`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		var amount string
		if err := rows.Scan(&settlement.ID, &settlement.FromUserID, &settlement.ToUserID,
			&amount, &settlement.GatewayRef, &settlement.RedirectURL, &settlement.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlement.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount for settlement %s: %w", settlement.ID, err)
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}
