package models

import "github.com/shopspring/decimal"

// Settlement records a payment redirect requested from the external gateway
// to clear a net debt. It is kept for listing; settlements do not feed back
// into balance computation.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// FromUserID is the debtor who initiated the payment.
	FromUserID string `json:"from_user_id"`

	// ToUserID is the creditor being paid.
	ToUserID string `json:"to_user_id"`

	// Amount is the net debt the redirect was requested for.
	Amount decimal.Decimal `json:"amount"`

	// GatewayRef is the payment gateway's reference for the redirect.
	GatewayRef string `json:"gateway_ref"`

	// RedirectURL is where the debtor completes the payment.
	RedirectURL string `json:"redirect_url"`

	// CreatedAt is the Unix timestamp when the redirect was requested.
	CreatedAt int64 `json:"created_at"`
}
