package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-console/internal/data/entity"
	"catalog-console/internal/data/repository"
	"catalog-console/internal/dto/request"
	"catalog-console/pkg/utils"

	"go.uber.org/zap"
)

type AuthService interface {
	Login(ctx context.Context, req *request.CredentialsRequest) (*entity.Session, error)
	Signup(ctx context.Context, req *request.CredentialsRequest) error
	Logout(ctx context.Context, accessToken string) error
	// Authenticate resolves a session cookie to a live backend session.
	Authenticate(ctx context.Context, cookie string) (*entity.Session, error)
}

type authService struct {
	sessions repository.SessionRepository
	config   utils.SessionConfig
	log      *zap.Logger
}

func NewAuthService(
	sessions repository.SessionRepository,
	config utils.SessionConfig,
	log *zap.Logger,
) AuthService {
	return &authService{
		sessions: sessions,
		config:   config,
		log:      log.With(zap.String("service", "auth")),
	}
}

func (s *authService) ttl() time.Duration {
	hours := s.config.ExpiryHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// checkCredentials enforces the only local rule: both fields present.
func checkCredentials(req *request.CredentialsRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return ErrMissingCredentials
	}
	return nil
}

func (s *authService) Login(ctx context.Context, req *request.CredentialsRequest) (*entity.Session, error) {
	if err := checkCredentials(req); err != nil {
		return nil, err
	}

	session, err := s.sessions.Create(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if session == nil {
		s.log.Warn("Backend returned no session", zap.String("email", req.Email))
		return nil, &FormError{Message: "Login failed: no session was issued"}
	}

	cookie, exp, err := utils.NewSessionToken(s.config.Secret, session.AccessToken, req.Email, s.ttl())
	if err != nil {
		s.log.Error("Failed to issue session cookie", zap.Error(err))
		return nil, fmt.Errorf("issue session cookie: %w", err)
	}

	s.log.Info("Admin logged in", zap.String("email", req.Email))

	return &entity.Session{
		Cookie:      cookie,
		ExpiresAt:   exp,
		AccessToken: session.AccessToken,
		Email:       req.Email,
	}, nil
}

func (s *authService) Signup(ctx context.Context, req *request.CredentialsRequest) error {
	if err := checkCredentials(req); err != nil {
		return err
	}

	if err := s.sessions.Register(ctx, req.Email, req.Password); err != nil {
		return err
	}

	s.log.Info("Admin signed up", zap.String("email", req.Email))
	return nil
}

func (s *authService) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, accessToken)
}

func (s *authService) Authenticate(ctx context.Context, cookie string) (*entity.Session, error) {
	if cookie == "" {
		return nil, ErrNoSession
	}

	claims, err := utils.ParseSessionToken(s.config.Secret, cookie)
	if err != nil {
		s.log.Debug("Rejected session cookie", zap.Error(err))
		return nil, errors.Join(ErrNoSession, err)
	}

	session, err := s.sessions.FindValidSession(ctx, claims.AccessToken)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoSession
	}

	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	return &entity.Session{
		ID:          claims.ID,
		Cookie:      cookie,
		ExpiresAt:   exp,
		AccessToken: claims.AccessToken,
		Email:       claims.Email,
	}, nil
}
