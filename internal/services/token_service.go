package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MinSigningKeyLen is the minimum signing key size in bytes (256 bits).
const MinSigningKeyLen = 32

type tokenServiceImpl struct {
	logger     zerolog.Logger
	issuer     string
	signingKey []byte
	tokenTTL   time.Duration
}

func NewTokenService(
	logger zerolog.Logger,
	issuer string,
	signingKey []byte,
	tokenTTL time.Duration,
) TokenService {
	return &tokenServiceImpl{
		logger:     logger,
		issuer:     issuer,
		signingKey: signingKey,
		tokenTTL:   tokenTTL,
	}
}

func (s *tokenServiceImpl) Issue(subject string) (string, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate token id: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        tokenUUID.String(),
		Issuer:    s.issuer,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to sign token")
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *tokenServiceImpl) ExtractSubject(token string) (string, error) {
	claims, _, err := s.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (s *tokenServiceImpl) ExtractExpiration(token string) (time.Time, error) {
	claims, _, err := s.parse(token)
	if err != nil {
		return time.Time{}, err
	}
	return claims.ExpiresAt.Time, nil
}

func (s *tokenServiceImpl) Validate(token, expectedSubject string) (bool, error) {
	claims, expired, err := s.parse(token)
	if err != nil {
		return false, err
	}
	return !expired && claims.Subject == expectedSubject, nil
}

// parse verifies the signature and decodes the registered claims.
// Expiry is reported separately so callers can treat an expired
// token as invalid rather than corrupt.
func (s *tokenServiceImpl) parse(token string) (*jwt.RegisteredClaims, bool, error) {
	claims := new(jwt.RegisteredClaims)
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return claims, true, nil
		}

		s.logger.Debug().
			Err(err).
			Msg("failed to parse token")
		return nil, false, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	return claims, false, nil
}
