package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/authkit/authkit/pkg/logger"
	"github.com/authkit/authkit/pkg/onetime"
	"github.com/authkit/authkit/pkg/sanitizer"
	"github.com/authkit/authkit/pkg/validator"
)

// CodeSender delivers a one-time sign-in code out-of-band. The key is the
// normalized email the code was issued for; origin is the base URL used
// for links in the message.
type CodeSender interface {
	SendMagicCode(ctx context.Context, email, key, code, origin string) error
}

// CodeSenderFunc adapts a plain function to the CodeSender interface.
type CodeSenderFunc func(ctx context.Context, email, key, code, origin string) error

func (f CodeSenderFunc) SendMagicCode(ctx context.Context, email, key, code, origin string) error {
	return f(ctx, email, key, code, origin)
}

// MagicCodeService issues one-time sign-in codes and authenticates the
// challenge responses. Issuing a new code for an email supersedes any
// pending one.
type MagicCodeService struct {
	codes    onetime.Store
	sender   CodeSender
	resolver *Resolver

	log         *slog.Logger
	sendTimeout time.Duration
}

// MagicCodeOption configures a MagicCodeService.
type MagicCodeOption func(*MagicCodeService)

// WithMagicCodeLogger sets the logger. Logging is discarded by default.
func WithMagicCodeLogger(log *slog.Logger) MagicCodeOption {
	return func(s *MagicCodeService) {
		if log != nil {
			s.log = log
		}
	}
}

// WithSendTimeout bounds the background delivery of each code email.
func WithSendTimeout(d time.Duration) MagicCodeOption {
	return func(s *MagicCodeService) {
		if d > 0 {
			s.sendTimeout = d
		}
	}
}

// NewMagicCodeService wires the service over a code store, a delivery
// channel, and the shared resolver.
func NewMagicCodeService(codes onetime.Store, sender CodeSender, resolver *Resolver, opts ...MagicCodeOption) *MagicCodeService {
	s := &MagicCodeService{
		codes:       codes,
		sender:      sender,
		resolver:    resolver,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		sendTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request issues a fresh code for the email and dispatches it in the
// background. It returns the challenge key the caller must present
// together with the code. Delivery failures are logged, not surfaced;
// the caller cannot act on them and the code simply expires unused.
func (s *MagicCodeService) Request(ctx context.Context, email, origin string) (string, error) {
	email = sanitizer.NormalizeEmail(email)
	if err := validator.Apply(validator.ValidEmail("email", email)); err != nil {
		return "", ErrInvalidEmail
	}

	code, err := s.codes.Generate(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to issue sign-in code: %w", err)
	}

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("panic in sign-in code delivery", slog.Any("panic", rec))
			}
		}()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.sendTimeout)
		defer cancel()
		if err := s.sender.SendMagicCode(sctx, email, email, code, origin); err != nil {
			s.log.ErrorContext(sctx, "failed to deliver sign-in code",
				logger.Email(email), logger.Error(err))
		}
	}()

	return email, nil
}

// Authenticate verifies the challenge response and completes the sign-in.
func (s *MagicCodeService) Authenticate(ctx context.Context, key, code string, login LoginContext) (*User, bool, error) {
	return s.Adapter(key, code).Authenticate(ctx, login)
}

// Adapter returns a single-use adapter for one challenge response.
func (s *MagicCodeService) Adapter(key, code string) *MagicCodeAdapter {
	return &MagicCodeAdapter{
		codes:    s.codes,
		resolver: s.resolver,
		key:      sanitizer.NormalizeEmail(key),
		code:     strings.ToUpper(strings.TrimSpace(code)),
	}
}

var _ Adapter = (*MagicCodeAdapter)(nil)

// MagicCodeAdapter authenticates one magic-code challenge response.
type MagicCodeAdapter struct {
	codes    onetime.Store
	resolver *Resolver
	key      string
	code     string
}

func (a *MagicCodeAdapter) Provider() string { return ProviderMagicCode }

// GetUserToken consumes the pending code. Success is single-use: a second
// call with the same code reports expiry. There is no provider token, so
// the returned TokenData is nil.
func (a *MagicCodeAdapter) GetUserToken(ctx context.Context) (*TokenData, error) {
	err := a.codes.Verify(ctx, a.key, a.code)
	switch {
	case err == nil:
		return nil, nil
	case errors.Is(err, onetime.ErrCodeExpired):
		return nil, ErrMagicCodeExpired
	case errors.Is(err, onetime.ErrCodeMismatch):
		return nil, ErrInvalidMagicCode
	default:
		return nil, fmt.Errorf("failed to verify sign-in code: %w", err)
	}
}

// GetUserResponse reports the proven identity. Holding a valid code proves
// mailbox ownership, so the password is autoset for new accounts.
func (a *MagicCodeAdapter) GetUserResponse(_ context.Context) (UserData, error) {
	return UserData{
		Email: a.key,
		User:  UserAttributes{IsPasswordAutoset: true},
	}, nil
}

// CreateUpdateAccount is a no-op: magic-code logins have no external
// provider account.
func (a *MagicCodeAdapter) CreateUpdateAccount(context.Context, *User) error { return nil }

func (a *MagicCodeAdapter) Authenticate(ctx context.Context, login LoginContext) (*User, bool, error) {
	token, err := a.GetUserToken(ctx)
	if err != nil {
		return nil, false, err
	}
	data, err := a.GetUserResponse(ctx)
	if err != nil {
		return nil, false, err
	}
	return a.resolver.CompleteLoginOrSignup(ctx, data, token, a.Provider(), login, a)
}
