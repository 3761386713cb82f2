// Package service implements the application services sitting between the
// HTTP handlers and the store, balance engine and payment gateway.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/auth"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/models"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/storage"
)

// ErrInvalidInput marks request validation failures that map to 400s.
var ErrInvalidInput = errors.New("invalid input")

// AuthService handles registration, login and session lookup.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
		logger:        logger,
	}
}

// Session is the result of a successful registration or login.
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates a new user account and returns a session for it.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (*Session, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email required", ErrInvalidInput)
	}
	if displayName == "" {
		return nil, fmt.Errorf("%w: display name required", ErrInvalidInput)
	}

	user, err := s.authenticator.Register(ctx, email, displayName, password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", email, "error", err)
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "email", user.Email)
	return &Session{User: user, Token: token}, nil
}

// Login authenticates a user and returns a fresh session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Warn("Login failed", "email", email, "error", err)
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return &Session{User: user, Token: token}, nil
}

// CurrentUser fetches the full account for an authenticated user ID.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, storage.ErrNotFound
	}
	return user, nil
}
