package models

import "github.com/shopspring/decimal"

// DefaultCategory is assigned to expenses created with a blank category.
const DefaultCategory = "General"

// UserRef identifies a user within an expense, with the display name already
// resolved so consumers never need a second lookup per counterparty.
type UserRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Expense represents a shared expense fronted by a single payer.
// Expenses are immutable once created.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// Description is the human-readable label for the expense.
	Description string `json:"description"`

	// Amount is the total amount paid. Invariant: strictly positive.
	Amount decimal.Decimal `json:"amount"`

	// Category groups the expense for statistics. Defaults to
	// DefaultCategory when left blank at creation.
	Category string `json:"category"`

	// Payer is the user who fronted the money.
	Payer UserRef `json:"payer"`

	// Participants are the users sharing the cost, each owing an equal
	// share of Amount. Invariant: non-empty. May include the payer, whose
	// own share nets against themselves but still divides the denominator.
	Participants []UserRef `json:"participants"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	// Defaults to now at creation.
	CreatedAt int64 `json:"created_at"`
}
