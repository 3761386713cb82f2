// Package auth handles user registration, credential verification and
// session token management.
package auth

import (
	"context"

	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// The abstraction keeps the service layer independent of the credential
// scheme (password today, OAuth or passkeys later).
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credentials and returns the user if valid.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's
	// requirements before any account is touched.
	ValidateCredential(credential string) error
}
