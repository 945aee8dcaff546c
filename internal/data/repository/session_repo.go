package repository

import (
	"context"
	"fmt"

	"catalog-console/pkg/backend"

	"go.uber.org/zap"
)

type SessionRepository interface {
	Register(ctx context.Context, email, password string) error
	Create(ctx context.Context, email, password string) (*backend.Session, error)
	FindValidSession(ctx context.Context, token string) (*backend.Session, error)
	Revoke(ctx context.Context, token string) error
}

type sessionRepository struct {
	auth backend.Auth
	log  *zap.Logger
}

func NewSessionRepository(auth backend.Auth, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		auth: auth,
		log:  log.With(zap.String("repository", "session")),
	}
}

// Register creates the account; it does not sign in.
func (r *sessionRepository) Register(ctx context.Context, email, password string) error {
	if err := r.auth.SignUp(ctx, email, password); err != nil {
		r.log.Warn("Sign up rejected", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("sign up: %w", err)
	}
	return nil
}

// Create signs in with email and password and returns the new session.
func (r *sessionRepository) Create(ctx context.Context, email, password string) (*backend.Session, error) {
	session, err := r.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		r.log.Warn("Sign in rejected", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return session, nil
}

// FindValidSession returns nil, nil when token has no live session.
func (r *sessionRepository) FindValidSession(ctx context.Context, token string) (*backend.Session, error) {
	session, err := r.auth.GetSession(ctx, token)
	if err != nil {
		r.log.Error("Failed to find valid session", zap.Error(err))
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, token string) error {
	if err := r.auth.SignOut(ctx, token); err != nil {
		r.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}
