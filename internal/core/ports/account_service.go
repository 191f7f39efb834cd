package ports

import (
	"context"
	"time"

	"github.com/folioworks/account-service/internal/core/domain"
)

// RegistrationResult is returned after a successful registration request.
// Token carries the signed {email, otp, expiry} claim the client must echo
// back together with the OTP it received by mail.
type RegistrationResult struct {
	Email string
	Token string
}

// CreateAccountInput is the DTO passed from the transport layer when the
// client redeems a registration token.
type CreateAccountInput struct {
	Token        string
	OTP          string
	Email        string
	Password     string
	Name         string
	Summary      string
	SocialLinks  map[domain.Platform]string
	Experiences  []domain.Experience
	Skills       []string
	Achievements []string
}

// Session is an issued session token and its expiry, rendered by the
// transport layer as the access_token cookie.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// AccountService defines the account use cases: OTP-backed registration,
// account creation, login and logout.
type AccountService interface {
	Register(ctx context.Context, email string) (*RegistrationResult, error)
	CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.User, *Session, error)
	Login(ctx context.Context, email, password string) (*domain.User, *Session, error)
	// Logout validates the supplied identifiers; cookie clearing is the
	// transport layer's job.
	Logout(ctx context.Context, userID, currentUser string) error
	// GetUser resolves a user by its identifier, for session introspection.
	GetUser(ctx context.Context, id string) (*domain.User, error)
}
