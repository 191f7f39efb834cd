package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type registerResponse struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type experienceRequest struct {
	Title       string `json:"title"       validate:"required"`
	Company     string `json:"company"     validate:"required"`
	StartDate   string `json:"start_date"  validate:"required"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

type userDetailsRequest struct {
	Email        string              `json:"email"    validate:"required,email"`
	Password     string              `json:"password" validate:"required,min=8"`
	Name         string              `json:"name"     validate:"required"`
	Summary      string              `json:"summary"`
	SocialLinks  map[string]string   `json:"social_links"`
	Experiences  []experienceRequest `json:"experiences" validate:"dive"`
	Skills       []string            `json:"skills"`
	Achievements []string            `json:"achievements"`
}

type createAccountRequest struct {
	Token       string             `json:"token" validate:"required"`
	OTP         string             `json:"otp"   validate:"required,len=6,numeric"`
	UserDetails userDetailsRequest `json:"user_details" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type logoutRequest struct {
	UserID      string `json:"user_id"      validate:"required,len=24,hexadecimal"`
	CurrentUser string `json:"current_user" validate:"required,len=24,hexadecimal"`
}

type messageResponse struct {
	Message string `json:"message"`
}
