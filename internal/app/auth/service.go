package auth

import (
	"context"
	"errors"

	"github.com/queueless/canteen/internal/adapter/logger"
	"github.com/queueless/canteen/internal/domain"
	"github.com/queueless/canteen/internal/interfaces"
)

// Service is the session gate. It resolves bearer tokens to users for
// the rest of the core, which then only sees "current user and role".
//
// Passwords are stored and compared as provided; hardening them is
// out of scope here.
type Service struct {
	userRepo interfaces.UserRepository
	logger   logger.Logger
}

func NewService(userRepo interfaces.UserRepository, logger logger.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Register creates a student account and opens a session for it.
func (s *Service) Register(ctx context.Context, cmd interfaces.RegisterCommand) (*interfaces.AuthResult, error) {
	user, err := domain.NewUser(cmd.Name, cmd.Email, cmd.Password, domain.RoleStudent)
	if err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.GetByEmail(ctx, cmd.Email); err == nil && existing != nil {
		return nil, domain.NewConflict("email already registered")
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	session := domain.NewSession(user.ID)
	if err := s.userRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("user_registered", "User registered", "", map[string]interface{}{
		"user_id": user.ID,
	})
	return &interfaces.AuthResult{Token: session.Token, User: user}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*interfaces.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.NewValidation("missing fields")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Password != password {
		return nil, domain.ErrInvalidCredentials
	}

	session := domain.NewSession(user.ID)
	if err := s.userRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Debug("user_logged_in", "User logged in", "", map[string]interface{}{
		"user_id": user.ID,
	})
	return &interfaces.AuthResult{Token: session.Token, User: user}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.userRepo.DeleteSession(ctx, token)
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidCredentials
	}
	session, err := s.userRepo.GetSession(ctx, token)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}
