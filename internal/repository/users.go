package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"task-api/internal/models"
)

type pgUserStore struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewUserStore(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) UserStore {
	return &pgUserStore{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *pgUserStore) Create(ctx context.Context, user *models.User) error {
	const insertUserQuery = `
INSERT INTO users (name,
                   email,
                   password_hash,
                   created_at)
VALUES ($1, $2, $3, $4)
RETURNING id
`
	err := s.pgPool.QueryRow(
		ctx,
		insertUserQuery,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			s.logger.Error().
				Str("email", user.Email).
				Msg("user with this email already exists")
			return ErrDuplicateEmail
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return err
	}
	s.logger.Debug().
		Int64("user_id", user.ID).
		Str("email", user.Email).
		Msg("inserted user")

	return nil
}

func (s *pgUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{ID: id}

	const selectUserByIDQuery = `
SELECT name,
       email,
       password_hash,
       created_at
FROM users
WHERE id = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectUserByIDQuery,
		user.ID,
	).Scan(
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("user_id", id).
			Msg("failed to select user by id")
		return nil, err
	}
	s.logger.Debug().
		Int64("user_id", user.ID).
		Msg("selected user by id")

	return user, nil
}

func (s *pgUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{Email: email}

	const selectUserByEmailQuery = `
SELECT id,
       name,
       password_hash,
       created_at
FROM users
WHERE email = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectUserByEmailQuery,
		user.Email,
	).Scan(
		&user.ID,
		&user.Name,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("email", email).
			Msg("failed to select user by email")
		return nil, err
	}
	s.logger.Debug().
		Int64("user_id", user.ID).
		Str("email", user.Email).
		Msg("selected user by email")

	return user, nil
}
