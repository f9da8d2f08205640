package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hisaab-app/hisaab/internal/auth"
	"github.com/hisaab-app/hisaab/internal/models"
)

// AuthService wires the authenticator and the token manager behind the
// account endpoints.
type AuthService struct {
	authenticator auth.Authenticator
	tokens        *auth.JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(authenticator auth.Authenticator, tokens *auth.JWTManager) *AuthService {
	return &AuthService{authenticator: authenticator, tokens: tokens}
}

// Register creates an account and signs the new user straight in, returning
// the user and a session token.
func (s *AuthService) Register(ctx context.Context, reg auth.Registration) (*models.User, string, error) {
	user, err := s.authenticator.Register(ctx, reg)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("Account created", "user_id", user.ID)
	return user, token, nil
}

// SignIn verifies the credentials and returns the user with a session token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("User signed in", "user_id", user.ID)
	return user, token, nil
}
