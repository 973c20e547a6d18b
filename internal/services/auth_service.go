package services

import (
	"context"
	"errors"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog"

	"task-api/internal/models"
	"task-api/internal/repository"
)

type authServiceImpl struct {
	logger zerolog.Logger
	users  repository.UserStore
	tokens TokenService
}

func NewAuthService(
	logger zerolog.Logger,
	users repository.UserStore,
	tokens TokenService,
) AuthService {
	return &authServiceImpl{
		logger: logger,
		users:  users,
		tokens: tokens,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	passwordHash, err := argon2id.CreateHash(params.Password, argon2id.DefaultParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}

	user := &models.User{
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}

	err = s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.logger.Error().
				Str("email", user.Email).
				Msg("email already registered")
			return nil, ErrEmailAlreadyRegistered
		}

		s.logger.Error().
			Err(err).
			Msg("failed to create user")
		return nil, err
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to issue token")
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("email", user.Email).
		Msg("registered user")
	return &AuthResult{
		Token: token,
		User:  user,
	}, nil
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Deliberately the same error as a password mismatch
			// so callers cannot tell which check failed.
			s.logger.Debug().
				Str("email", params.Email).
				Msg("login for unknown email")
			return nil, ErrInvalidCredentials
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select user by email")
		return nil, err
	}

	match, err := argon2id.ComparePasswordAndHash(params.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return nil, err
	}
	if !match {
		s.logger.Debug().
			Int64("user_id", user.ID).
			Msg("password mismatch")
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to issue token")
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Msg("logged in")
	return &AuthResult{
		Token: token,
		User:  user,
	}, nil
}

func (s *authServiceImpl) Authenticate(ctx context.Context, token string) (*models.User, error) {
	subject, err := s.tokens.ExtractSubject(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Debug().
				Str("subject", subject).
				Msg("token subject no longer resolves to a user")
			return nil, ErrUnauthenticated
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select user by email")
		return nil, err
	}

	valid, err := s.tokens.Validate(token, user.Email)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrUnauthenticated
	}

	return user, nil
}
