package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/tenancy/pkg/auth"
	"github.com/dmitrymomot/tenancy/pkg/email"
	"github.com/dmitrymomot/tenancy/pkg/jwt"
	"github.com/dmitrymomot/tenancy/pkg/logger"
)

// CoreAuthConfig carries the settings of the core identity flows.
type CoreAuthConfig struct {
	AppName         string
	BaseURL         string
	VerificationTTL time.Duration
}

// CoreAuth implements registration, email verification, login and token
// authentication for core users.
type CoreAuth struct {
	users  CoreUserStorage
	hasher auth.Hasher
	tokens *jwt.Service
	mailer email.EmailSender
	cfg    CoreAuthConfig
	now    func() time.Time
	log    *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

type CoreAuthOption func(*CoreAuth)

func WithCoreAuthLogger(l *slog.Logger) CoreAuthOption {
	return func(a *CoreAuth) {
		if l != nil {
			a.log = l
		}
	}
}

// WithMailer sets the sender for verification emails. Without one no email is sent.
func WithMailer(m email.EmailSender) CoreAuthOption {
	return func(a *CoreAuth) { a.mailer = m }
}

func WithCoreAuthClock(now func() time.Time) CoreAuthOption {
	return func(a *CoreAuth) {
		if now != nil {
			a.now = now
		}
	}
}

func NewCoreAuth(users CoreUserStorage, hasher auth.Hasher, tokens *jwt.Service, cfg CoreAuthConfig, opts ...CoreAuthOption) *CoreAuth {
	if cfg.VerificationTTL <= 0 {
		cfg.VerificationTTL = 24 * time.Hour
	}
	a := &CoreAuth{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		cfg:    cfg,
		now:    time.Now,
		log:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With(logger.Component("core_auth"))
	return a
}

// Register creates an unverified core user and returns an access token along
// with the verification token. The verification email is best effort.
func (a *CoreAuth) Register(ctx context.Context, emailAddr, password string, isOwner bool) (*Registration, error) {
	emailAddr = auth.NormalizeEmail(emailAddr)
	if err := auth.ValidateCredentials(emailAddr, password); err != nil {
		return nil, err
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	token, err := auth.NewVerificationToken()
	if err != nil {
		return nil, fmt.Errorf("generate verification token: %w", err)
	}
	issuedAt := a.now().UTC()

	u := &CoreUser{
		Email:                      emailAddr,
		PasswordHash:               hash,
		IsOwner:                    isOwner,
		VerificationToken:          &token,
		VerificationTokenCreatedAt: &issuedAt,
	}
	if err := a.users.CreateCoreUser(ctx, u); err != nil {
		return nil, err
	}

	session, err := a.issue(u)
	if err != nil {
		return nil, err
	}

	a.sendVerification(ctx, u.Email, token)
	a.log.InfoContext(ctx, "core user registered", logger.UserID(u.ID), slog.Bool("is_owner", u.IsOwner))

	return &Registration{User: u, Session: session, VerificationToken: token}, nil
}

// VerifyEmail marks the owner of token as verified. It reports true when the
// user had already been verified.
func (a *CoreAuth) VerifyEmail(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, auth.ErrTokenRequired
	}

	u, err := a.users.GetCoreUserByVerificationToken(ctx, token)
	if err != nil {
		return false, err
	}
	if u.IsVerified {
		return true, nil
	}

	var issuedAt time.Time
	if u.VerificationTokenCreatedAt != nil {
		issuedAt = *u.VerificationTokenCreatedAt
	}
	if auth.VerificationExpired(issuedAt, a.cfg.VerificationTTL, a.now()) {
		return false, auth.ErrTokenExpired
	}

	if err := a.users.MarkCoreUserVerified(ctx, u.ID); err != nil {
		return false, err
	}
	a.log.InfoContext(ctx, "core user verified", logger.UserID(u.ID))
	return false, nil
}

// Login checks credentials first and verification second, so an unverified
// user only learns that fact after proving the password.
func (a *CoreAuth) Login(ctx context.Context, emailAddr, password string) (*Session, *CoreUser, error) {
	emailAddr = auth.NormalizeEmail(emailAddr)

	u, err := a.users.GetCoreUserByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			a.burnHash(password)
			return nil, nil, auth.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !a.hasher.Verify(u.PasswordHash, password) {
		return nil, nil, auth.ErrInvalidCredentials
	}
	if !u.IsVerified {
		return nil, nil, auth.ErrEmailNotVerified
	}

	session, err := a.issue(u)
	if err != nil {
		return nil, nil, err
	}
	return &session, u, nil
}

// Authenticate resolves a core access token to its user. Tokens issued inside
// a tenant are rejected.
func (a *CoreAuth) Authenticate(ctx context.Context, token string) (*CoreUser, error) {
	claims, err := a.tokens.Decode(token)
	if err != nil {
		return nil, errors.Join(ErrUnauthenticated, err)
	}
	if _, scoped := claims.TenantID(); scoped {
		return nil, ErrUnauthenticated
	}
	uid, err := claims.UserID()
	if err != nil {
		return nil, errors.Join(ErrUnauthenticated, err)
	}

	u, err := a.users.GetCoreUserByID(ctx, uid)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return u, nil
}

func (a *CoreAuth) issue(u *CoreUser) (Session, error) {
	claims := jwt.NewClaims(u.ID, nil)
	claims.Owner = u.IsOwner
	token, err := a.tokens.Encode(claims, 0)
	if err != nil {
		return Session{}, err
	}
	return Session{AccessToken: token, TokenType: TokenTypeBearer, ExpiresIn: a.tokens.TTL()}, nil
}

func (a *CoreAuth) sendVerification(ctx context.Context, to, token string) {
	if a.mailer == nil {
		return
	}
	msg, err := email.VerificationEmail(a.cfg.AppName, a.cfg.BaseURL, to, token, a.cfg.VerificationTTL.String())
	if err == nil {
		err = a.mailer.SendEmail(ctx, msg)
	}
	if err != nil {
		a.log.WarnContext(ctx, "verification email not sent", logger.Error(err))
	}
}

// burnHash spends one hash comparison so unknown emails take as long as
// wrong passwords.
func (a *CoreAuth) burnHash(password string) {
	a.dummyOnce.Do(func() {
		a.dummyHash, _ = a.hasher.Hash("not-a-real-password")
	})
	a.hasher.Verify(a.dummyHash, password)
}
