package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/folioworks/account-service/internal/core/domain"
	"github.com/folioworks/account-service/internal/core/ports"
)

type stubAccountService struct {
	registerFn      func(ctx context.Context, email string) (*ports.RegistrationResult, error)
	createAccountFn func(ctx context.Context, in ports.CreateAccountInput) (*domain.User, *ports.Session, error)
	loginFn         func(ctx context.Context, email, password string) (*domain.User, *ports.Session, error)
	logoutFn        func(ctx context.Context, userID, currentUser string) error
	getUserFn       func(ctx context.Context, id string) (*domain.User, error)
}

func (s *stubAccountService) Register(ctx context.Context, email string) (*ports.RegistrationResult, error) {
	return s.registerFn(ctx, email)
}

func (s *stubAccountService) CreateAccount(ctx context.Context, in ports.CreateAccountInput) (*domain.User, *ports.Session, error) {
	return s.createAccountFn(ctx, in)
}

func (s *stubAccountService) Login(ctx context.Context, email, password string) (*domain.User, *ports.Session, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAccountService) Logout(ctx context.Context, userID, currentUser string) error {
	return s.logoutFn(ctx, userID, currentUser)
}

func (s *stubAccountService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUserFn(ctx, id)
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	res := rec.Result()
	defer res.Body.Close()
	for _, cookie := range res.Cookies() {
		if cookie.Name == SessionCookieName {
			return cookie
		}
	}
	t.Fatalf("no %s cookie set", SessionCookieName)
	return nil
}

func TestAccountHandler_Register_Success(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(_ context.Context, email string) (*ports.RegistrationResult, error) {
			if email != "alice@example.com" {
				t.Fatalf("unexpected email: %s", email)
			}
			return &ports.RegistrationResult{Email: email, Token: "signed-token"}, nil
		},
	}
	h := NewAccountHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/register", `{"email":"alice@example.com"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp registerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Email != "alice@example.com" || resp.Token != "signed-token" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAccountHandler_Register_InvalidEmail(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		registerFn: func(_ context.Context, _ string) (*ports.RegistrationResult, error) {
			t.Fatalf("service should not be called for invalid payloads")
			return nil, nil
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/auth/register", `{"email":"not-an-email"}`)
	_ = h.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// Registration reports an existing account as 400, not the 409 used by the
// signup endpoint.
func TestAccountHandler_Register_Exists(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		registerFn: func(_ context.Context, _ string) (*ports.RegistrationResult, error) {
			return nil, domain.ErrUserExists
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/auth/register", `{"email":"bob@example.com"}`)
	_ = h.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Register_Throttled(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		registerFn: func(_ context.Context, _ string) (*ports.RegistrationResult, error) {
			return nil, domain.ErrTooManyRequests
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/auth/register", `{"email":"bob@example.com"}`)
	_ = h.Register(c)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestAccountHandler_Register_StoreDown(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		registerFn: func(_ context.Context, _ string) (*ports.RegistrationResult, error) {
			return nil, domain.ErrStoreUnavailable
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/auth/register", `{"email":"bob@example.com"}`)
	_ = h.Register(c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

const createAccountBody = `{
	"token": "signed-token",
	"otp": "123456",
	"user_details": {
		"email": "alice@example.com",
		"password": "p4ssword!",
		"name": "Alice",
		"summary": "engineer",
		"social_links": {"github": "https://github.com/alice"},
		"skills": ["go"]
	}
}`

func TestAccountHandler_CreateAccount_Success(t *testing.T) {
	expiresAt := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	stub := &stubAccountService{
		createAccountFn: func(_ context.Context, in ports.CreateAccountInput) (*domain.User, *ports.Session, error) {
			if in.Token != "signed-token" || in.OTP != "123456" || in.Email != "alice@example.com" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.SocialLinks[domain.PlatformGitHub] != "https://github.com/alice" {
				t.Fatalf("social links not mapped: %+v", in.SocialLinks)
			}
			user := &domain.User{
				ID:    "000000000000000000000001",
				Email: in.Email,
				Name:  in.Name,
			}
			return user, &ports.Session{Token: "session-token", ExpiresAt: expiresAt}, nil
		},
	}
	h := NewAccountHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/signup", createAccountBody)
	if err := h.CreateAccount(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	cookie := sessionCookieFrom(t, rec)
	if cookie.Value != "Bearer session-token" {
		t.Fatalf("unexpected cookie value: %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}
	if !cookie.Expires.Equal(expiresAt) {
		t.Fatalf("cookie expiry %v does not match session expiry %v", cookie.Expires, expiresAt)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if _, leaked := resp["password"]; leaked {
		t.Fatalf("password must not appear in the response")
	}
	if resp["email"] != "alice@example.com" {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestAccountHandler_CreateAccount_WrongOTP(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		createAccountFn: func(_ context.Context, _ ports.CreateAccountInput) (*domain.User, *ports.Session, error) {
			return nil, nil, domain.ErrInvalidOTP
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/auth/signup", createAccountBody)
	_ = h.CreateAccount(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAccountHandler_CreateAccount_Duplicate(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		createAccountFn: func(_ context.Context, _ ports.CreateAccountInput) (*domain.User, *ports.Session, error) {
			return nil, nil, domain.ErrUserExists
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/auth/signup", createAccountBody)
	_ = h.CreateAccount(c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAccountHandler_CreateAccount_BadToken(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		createAccountFn: func(_ context.Context, _ ports.CreateAccountInput) (*domain.User, *ports.Session, error) {
			return nil, nil, domain.ErrInvalidToken
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/auth/signup", createAccountBody)
	_ = h.CreateAccount(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_CreateAccount_ShortOTP(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		createAccountFn: func(_ context.Context, _ ports.CreateAccountInput) (*domain.User, *ports.Session, error) {
			t.Fatalf("service should not be called for invalid payloads")
			return nil, nil, nil
		},
	})

	body := `{"token":"x","otp":"12","user_details":{"email":"a@x.com","password":"p4ssword!","name":"A"}}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/signup", body)
	_ = h.CreateAccount(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Login_Success(t *testing.T) {
	expiresAt := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	h := NewAccountHandler(&stubAccountService{
		loginFn: func(_ context.Context, email, password string) (*domain.User, *ports.Session, error) {
			if email != "alice@example.com" || password != "s3cret99" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return &domain.User{ID: "000000000000000000000001", Email: email},
				&ports.Session{Token: "session-token", ExpiresAt: expiresAt}, nil
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"s3cret99"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cookie := sessionCookieFrom(t, rec); cookie.Value != "Bearer session-token" {
		t.Fatalf("unexpected cookie value: %q", cookie.Value)
	}
}

func TestAccountHandler_Login_UnknownEmail(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		loginFn: func(_ context.Context, _, _ string) (*domain.User, *ports.Session, error) {
			return nil, nil, domain.ErrUserNotFound
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"ghost@example.com","password":"p"}`)
	_ = h.Login(c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_Login_WrongPassword(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		loginFn: func(_ context.Context, _, _ string) (*domain.User, *ports.Session, error) {
			return nil, nil, domain.ErrIncorrectPassword
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"bad"}`)
	_ = h.Login(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAccountHandler_Login_MalformedBody(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{})

	c, rec := newTestContext(t, http.MethodPost, "/auth/login", "{")
	_ = h.Login(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Logout_Success(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		logoutFn: func(_ context.Context, userID, currentUser string) error {
			if userID != "000000000000000000000001" || currentUser != "000000000000000000000002" {
				t.Fatalf("unexpected identifiers: %s %s", userID, currentUser)
			}
			return nil
		},
	})

	body := `{"user_id":"000000000000000000000001","current_user":"000000000000000000000002"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/logout", body)
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cookie := sessionCookieFrom(t, rec)
	if cookie.Value != "" || cookie.MaxAge != -1 {
		t.Fatalf("expected cleared cookie, got value=%q max-age=%d", cookie.Value, cookie.MaxAge)
	}
}

func TestAccountHandler_Logout_MalformedIdentifiers(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		logoutFn: func(_ context.Context, _, _ string) error {
			t.Fatalf("service should not be called for invalid payloads")
			return nil
		},
	})

	body := `{"user_id":"abc","current_user":"000000000000000000000002"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/logout", body)
	_ = h.Logout(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Me(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		getUserFn: func(_ context.Context, id string) (*domain.User, error) {
			if id != "000000000000000000000001" {
				t.Fatalf("unexpected id: %s", id)
			}
			return &domain.User{ID: id, Email: "alice@example.com"}, nil
		},
	})

	c, rec := newTestContext(t, http.MethodGet, "/auth/me", "")
	c.Set("user_id", "000000000000000000000001")

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_Me_NoSession(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{})

	c, _ := newTestContext(t, http.MethodGet, "/auth/me", "")

	err := h.Me(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
