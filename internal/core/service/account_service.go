package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/rs/zerolog"

	"github.com/folioworks/account-service/internal/core/domain"
	"github.com/folioworks/account-service/internal/core/ports"
	"github.com/folioworks/account-service/internal/metrics"
)

const otpMailSubject = "OTP for email verification"

// Config bounds the account workflows. Zero values fall back to the
// defaults below.
type Config struct {
	// OTPTTL is the validity window stamped into registration claims.
	OTPTTL time.Duration
	// SessionTTL is the lifetime of issued session tokens.
	SessionTTL time.Duration
	// RegisterCooldown is the minimum interval between registration
	// requests for the same email. Ignored when no limiter is wired.
	RegisterCooldown time.Duration
}

const (
	defaultOTPTTL           = 2 * time.Minute
	defaultSessionTTL       = 24 * time.Hour
	defaultRegisterCooldown = time.Minute
)

// AccountService implements registration, account creation, login and
// logout. It holds its collaborators explicitly; there is no package-level
// state beyond the metrics collectors.
type AccountService struct {
	repo    ports.UserRepository
	hasher  ports.PasswordHasher
	codec   ports.TokenCodec
	mailer  ports.MailEnqueuer
	limiter ports.RegistrationLimiter // optional; nil disables the cooldown
	cfg     Config
	log     zerolog.Logger
}

func NewAccountService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	codec ports.TokenCodec,
	mailer ports.MailEnqueuer,
	limiter ports.RegistrationLimiter,
	cfg Config,
	log zerolog.Logger,
) *AccountService {
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = defaultOTPTTL
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.RegisterCooldown <= 0 {
		cfg.RegisterCooldown = defaultRegisterCooldown
	}
	return &AccountService{
		repo:    repo,
		hasher:  hasher,
		codec:   codec,
		mailer:  mailer,
		limiter: limiter,
		cfg:     cfg,
		log:     log,
	}
}

// Register starts the signup flow for email: it checks that no account
// exists, issues an OTP, wraps {email, otp, expiry} into a signed token and
// queues the OTP mail. The token is the only pending-registration state —
// nothing is persisted until the token is redeemed.
func (s *AccountService) Register(ctx context.Context, email string) (*ports.RegistrationResult, error) {
	if !validEmail(email) {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: email must be a valid address", domain.ErrInvalidInput)
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, email, s.cfg.RegisterCooldown)
		if err != nil {
			// A limiter outage must not block signups.
			s.log.Warn().Err(err).Str("email", email).Msg("registration cooldown check failed, proceeding")
		} else if !ok {
			metrics.RegistrationsTotal.WithLabelValues("throttled").Inc()
			return nil, domain.ErrTooManyRequests
		}
	}

	switch _, err := s.repo.FindByEmail(ctx, email); {
	case err == nil:
		metrics.RegistrationsTotal.WithLabelValues("exists").Inc()
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	otp, err := s.hasher.GenerateOTP()
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	expiry := time.Now().UTC().Add(s.cfg.OTPTTL).Format(time.RFC3339)
	token, err := s.codec.Encode(map[string]any{
		"email":  email,
		"otp":    otp,
		"expiry": expiry,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	// Fire-and-forget: the response does not wait for, or depend on,
	// mail delivery.
	s.mailer.Enqueue(ports.EmailJob{To: email, Subject: otpMailSubject, Body: otp})

	metrics.RegistrationsTotal.WithLabelValues("ok").Inc()
	s.log.Info().Str("email", email).Msg("registration token issued")

	return &ports.RegistrationResult{Email: email, Token: token}, nil
}

// CreateAccount redeems a registration token: the submitted OTP and email
// must match the signed claim, then the user is persisted and a session is
// issued. The claim's expiry is not re-checked here; the signed OTP pair
// alone gates creation.
func (s *AccountService) CreateAccount(ctx context.Context, in ports.CreateAccountInput) (*domain.User, *ports.Session, error) {
	if in.Token == "" || in.OTP == "" || in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, nil, fmt.Errorf("%w: token, otp, email, password and name are required", domain.ErrInvalidInput)
	}
	for platform := range in.SocialLinks {
		if !platform.IsValid() {
			return nil, nil, fmt.Errorf("%w: unknown social platform %q", domain.ErrInvalidInput, platform)
		}
	}

	claims, err := s.codec.Decode(in.Token)
	if err != nil {
		return nil, nil, err
	}
	if otp, _ := claims["otp"].(string); otp != in.OTP {
		return nil, nil, domain.ErrInvalidOTP
	}
	if email, _ := claims["email"].(string); email != in.Email {
		return nil, nil, domain.ErrEmailMismatch
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Email:         in.Email,
		Password:      hash,
		Name:          in.Name,
		Summary:       in.Summary,
		SocialLinks:   in.SocialLinks,
		Experiences:   in.Experiences,
		Skills:        in.Skills,
		Achievements:  in.Achievements,
		Organizations: []string{},
		Activated:     false,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}

	id, err := s.repo.Insert(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	user.ID = id

	session, err := s.issueSession(id)
	if err != nil {
		return nil, nil, err
	}

	metrics.AccountsCreatedTotal.Inc()
	s.log.Info().Str("user_id", id).Str("email", in.Email).Msg("account created")

	return user, session, nil
}

// Login verifies credentials and issues a fresh session.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.User, *ports.Session, error) {
	if email == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("not_found").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return nil, nil, err
	}

	if !s.hasher.Verify(password, user.Password) {
		metrics.LoginsTotal.WithLabelValues("bad_password").Inc()
		return nil, nil, domain.ErrIncorrectPassword
	}

	session, err := s.issueSession(user.ID)
	if err != nil {
		return nil, nil, err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("login")

	return user, session, nil
}

// Logout validates the supplied identifiers. There is no server-side session
// state to revoke: well-formed identifiers always succeed and the transport
// layer clears the cookie.
func (s *AccountService) Logout(_ context.Context, userID, currentUser string) error {
	if !validObjectID(userID) || !validObjectID(currentUser) {
		return fmt.Errorf("%w: identifiers must be valid object ids", domain.ErrInvalidInput)
	}
	return nil
}

// GetUser resolves a user by identifier.
func (s *AccountService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if !validObjectID(id) {
		return nil, fmt.Errorf("%w: id must be a valid object id", domain.ErrInvalidInput)
	}
	return s.repo.FindByID(ctx, id)
}

// issueSession signs a {user_id, expiry} claim valid for the session TTL.
func (s *AccountService) issueSession(userID string) (*ports.Session, error) {
	expiresAt := time.Now().UTC().Add(s.cfg.SessionTTL).Truncate(time.Second)
	token, err := s.codec.Encode(map[string]any{
		"user_id": userID,
		"expiry":  expiresAt.Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	return &ports.Session{Token: token, ExpiresAt: expiresAt}, nil
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// validObjectID reports whether s looks like a 24-character hex identifier.
func validObjectID(s string) bool {
	if len(s) != 24 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
