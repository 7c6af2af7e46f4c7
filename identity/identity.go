// Package identity issues and validates the bearer tokens that carry a
// caller's user id, and hashes account passwords.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the token lifetime used when Config.TTL is zero.
const DefaultTTL = 24 * time.Hour

// ErrInvalidToken is returned by [Service.Validate] for any token that is
// malformed, badly signed, expired or missing the user id.
var ErrInvalidToken = errors.New("invalid token")

// Config configures a [Service].
type Config struct {
	Secret []byte           // HMAC signing key
	TTL    time.Duration    // Token lifetime
	Issuer string           // Optional iss claim
	Now    func() time.Time // Clock, defaults to time.Now
}

// Claims are the identity claims carried by a token.
type Claims struct {
	UserID    string
	Username  string
	ExpiresAt time.Time
}

// tokenClaims is the wire form of a token.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// Service issues and validates HS256 tokens.
type Service struct {
	cfg Config
}

// New returns a Service. The secret is required.
func New(cfg Config) (*Service, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{cfg: cfg}, nil
}

// Issue signs a token for the given user.
func (s *Service) Issue(userID, username string) (string, error) {
	now := s.cfg.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
		UserID:   userID,
		Username: username,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Validate verifies the token signature and expiry and returns its claims.
func (s *Service) Validate(token string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.cfg.Now),
		jwt.WithExpirationRequired(),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}

	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return s.cfg.Secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if parsed.UserID == "" {
		return Claims{}, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}

	return Claims{
		UserID:    parsed.UserID,
		Username:  parsed.Username,
		ExpiresAt: parsed.ExpiresAt.Time,
	}, nil
}

// ParseBearer extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
