package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Service signs and verifies HMAC access tokens.
type Service struct {
	key    []byte
	method gojwt.SigningMethod
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service) error

// WithAlgorithm selects HS256 (default), HS384 or HS512.
func WithAlgorithm(alg string) Option {
	return func(s *Service) error {
		switch alg {
		case "", gojwt.SigningMethodHS256.Alg():
			s.method = gojwt.SigningMethodHS256
		case gojwt.SigningMethodHS384.Alg():
			s.method = gojwt.SigningMethodHS384
		case gojwt.SigningMethodHS512.Alg():
			s.method = gojwt.SigningMethodHS512
		default:
			return fmt.Errorf("%w: %s", ErrInvalidSigningMethod, alg)
		}
		return nil
	}
}

// WithIssuer sets the iss claim and requires it on decode.
func WithIssuer(iss string) Option {
	return func(s *Service) error {
		s.issuer = iss
		return nil
	}
}

// WithTTL sets the default token lifetime. Defaults to 30 minutes.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) error {
		if ttl > 0 {
			s.ttl = ttl
		}
		return nil
	}
}

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(s *Service) error {
		if now != nil {
			s.now = now
		}
		return nil
	}
}

// New creates a Service signing with key.
func New(key []byte, opts ...Option) (*Service, error) {
	if len(key) == 0 {
		return nil, ErrMissingSigningKey
	}
	s := &Service{
		key:    key,
		method: gojwt.SigningMethodHS256,
		ttl:    30 * time.Minute,
		now:    time.Now,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewFromString is New with a string key.
func NewFromString(key string, opts ...Option) (*Service, error) {
	return New([]byte(key), opts...)
}

// TTL returns the default token lifetime.
func (s *Service) TTL() time.Duration { return s.ttl }

// Encode signs claims with an expiry of ttl from now (the service default
// when ttl is not positive). Time-based claims present in c are overwritten.
func (s *Service) Encode(c Claims, ttl time.Duration) (string, error) {
	if c.Subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidClaims)
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now()
	c.IssuedAt = gojwt.NewNumericDate(now)
	c.NotBefore = gojwt.NewNumericDate(now)
	c.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	if s.issuer != "" {
		c.Issuer = s.issuer
	}

	signed, err := gojwt.NewWithClaims(s.method, c).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature, algorithm and expiry of token and returns its
// claims. Expired tokens yield ErrExpiredToken, any other failure ErrInvalidToken.
func (s *Service) Decode(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.method.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	_, err := gojwt.ParseWithClaims(token, claims, func(*gojwt.Token) (any, error) {
		return s.key, nil
	}, opts...)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, gojwt.ErrTokenExpired):
		return nil, errors.Join(ErrExpiredToken, err)
	default:
		return nil, errors.Join(ErrInvalidToken, err)
	}
}
