// Package payments integrates with the external payment gateway that hosts
// the actual money transfer. The service only ever asks for a redirect URL;
// completing the payment happens entirely on the gateway's side.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/models"
)

const defaultTimeout = 10 * time.Second

// Redirect is the gateway's answer to a payment link request.
type Redirect struct {
	// Reference is the gateway's identifier for the payment link.
	Reference string
	// URL is where the debtor completes the payment.
	URL string
}

// Client talks to the payment gateway over HTTP with basic auth.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

// NewClient creates a gateway client for the given base URL and API key pair.
func NewClient(baseURL, keyID, keySecret string) *Client {
	return &Client{
		baseURL:    baseURL,
		keyID:      keyID,
		keySecret:  keySecret,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type createLinkRequest struct {
	Amount      string       `json:"amount"`
	Currency    string       `json:"currency"`
	Description string       `json:"description"`
	Customer    linkCustomer `json:"customer"`
	Payee       linkCustomer `json:"payee"`
}

type linkCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type createLinkResponse struct {
	ID       string `json:"id"`
	ShortURL string `json:"short_url"`
	Status   string `json:"status"`
}

// CreateRedirect requests a payment link for the given net debt and returns
// the redirect the debtor should be sent to.
func (c *Client) CreateRedirect(ctx context.Context, from, to *models.User, amount decimal.Decimal) (*Redirect, error) {
	payload := createLinkRequest{
		Amount:      amount.StringFixed(2),
		Currency:    "EUR",
		Description: fmt.Sprintf("Settling up with %s", to.DisplayName),
		Customer:    linkCustomer{Name: from.DisplayName, Email: from.Email},
		Payee:       linkCustomer{Name: to.DisplayName, Email: to.Email},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment link request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payment_links", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment link request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}
	if res.StatusCode >= 300 {
		return nil, &StatusError{Status: res.StatusCode, Body: string(resBody)}
	}

	var out createLinkResponse
	if err := json.Unmarshal(resBody, &out); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	if out.ShortURL == "" {
		return nil, fmt.Errorf("gateway returned no redirect URL (status %q)", out.Status)
	}

	return &Redirect{Reference: out.ID, URL: out.ShortURL}, nil
}

// StatusError is returned for non-2xx gateway responses.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("payment gateway returned status %d", e.Status)
}
