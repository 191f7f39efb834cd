package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/folioworks/account-service/internal/core/domain"
	"github.com/folioworks/account-service/internal/core/ports"
)

// SessionCookieName is the cookie carrying the bearer session token.
const SessionCookieName = "access_token"

type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Register starts signup for an email address and returns the signed
// registration token; the OTP travels by mail.
//
// @Summary      Request an OTP registration token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Email to register"
// @Success      200   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	res, err := h.accounts.Register(c.Request().Context(), req.Email)
	if err != nil {
		// An existing account is reported as 400 here; signup reports the
		// same collision as 409.
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUserExists):
			status = http.StatusBadRequest
		case errors.Is(err, domain.ErrTooManyRequests):
			status = http.StatusTooManyRequests
		case errors.Is(err, domain.ErrStoreUnavailable):
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: domain.ErrStoreUnavailable.Error()})
		default:
			return c.JSON(status, errorResponse{Error: "internal server error"})
		}
		return c.JSON(status, errorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, registerResponse{Email: res.Email, Token: res.Token})
}

// CreateAccount redeems a registration token + OTP, persists the user and
// issues the session cookie.
//
// @Summary      Create an account from a registration token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      createAccountRequest  true  "Token, OTP and profile"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/signup [post]
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	user, session, err := h.accounts.CreateAccount(c.Request().Context(), toCreateAccountInput(&req))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidToken):
			status = http.StatusBadRequest
		case errors.Is(err, domain.ErrInvalidOTP), errors.Is(err, domain.ErrEmailMismatch):
			status = http.StatusUnauthorized
		case errors.Is(err, domain.ErrUserExists):
			status = http.StatusConflict
		case errors.Is(err, domain.ErrStoreUnavailable):
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: domain.ErrStoreUnavailable.Error()})
		default:
			return c.JSON(status, errorResponse{Error: "internal server error"})
		}
		return c.JSON(status, errorResponse{Error: err.Error()})
	}

	c.SetCookie(sessionCookie(session))
	return c.JSON(http.StatusCreated, user)
}

// Login verifies credentials and issues the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	user, session, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			status = http.StatusBadRequest
		case errors.Is(err, domain.ErrUserNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrIncorrectPassword):
			status = http.StatusUnauthorized
		case errors.Is(err, domain.ErrStoreUnavailable):
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: domain.ErrStoreUnavailable.Error()})
		default:
			return c.JSON(status, errorResponse{Error: "internal server error"})
		}
		return c.JSON(status, errorResponse{Error: err.Error()})
	}

	c.SetCookie(sessionCookie(session))
	return c.JSON(http.StatusOK, user)
}

// Logout validates the supplied identifiers and clears the session cookie.
// Sessions are stateless, so a well-formed request always succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      logoutRequest  true  "User identifiers"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AccountHandler) Logout(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	if err := h.accounts.Logout(c.Request().Context(), req.UserID, req.CurrentUser); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	c.SetCookie(clearedSessionCookie())
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out successfully"})
}

// Me returns the account behind the current session cookie.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.accounts.GetUser(c.Request().Context(), userID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			status = http.StatusBadRequest
		case errors.Is(err, domain.ErrUserNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrStoreUnavailable):
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: domain.ErrStoreUnavailable.Error()})
		default:
			return c.JSON(status, errorResponse{Error: "internal server error"})
		}
		return c.JSON(status, errorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, user)
}

func toCreateAccountInput(req *createAccountRequest) ports.CreateAccountInput {
	links := make(map[domain.Platform]string, len(req.UserDetails.SocialLinks))
	for platform, url := range req.UserDetails.SocialLinks {
		links[domain.Platform(platform)] = url
	}

	experiences := make([]domain.Experience, 0, len(req.UserDetails.Experiences))
	for _, e := range req.UserDetails.Experiences {
		experiences = append(experiences, domain.Experience{
			Title:       e.Title,
			Company:     e.Company,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			Description: e.Description,
		})
	}

	return ports.CreateAccountInput{
		Token:        req.Token,
		OTP:          req.OTP,
		Email:        req.UserDetails.Email,
		Password:     req.UserDetails.Password,
		Name:         req.UserDetails.Name,
		Summary:      req.UserDetails.Summary,
		SocialLinks:  links,
		Experiences:  experiences,
		Skills:       req.UserDetails.Skills,
		Achievements: req.UserDetails.Achievements,
	}
}

// sessionCookie renders a session as the HttpOnly bearer cookie the
// authentication gate expects.
func sessionCookie(session *ports.Session) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "Bearer " + session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
	}
}

// clearedSessionCookie expires the session cookie client-side. There is no
// server-side revocation list.
func clearedSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	}
}
