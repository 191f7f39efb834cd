package ports

// TokenCodec signs and verifies claim payloads. Decode verifies the
// signature only: payloads carry an "expiry" claim (RFC 3339 string) that
// callers compare against the current time themselves.
type TokenCodec interface {
	Encode(claims map[string]any) (string, error)
	Decode(token string) (map[string]any, error)
}

// PasswordHasher provides one-way password hashing and OTP generation.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. A malformed stored hash
	// yields false, never an error.
	Verify(password, hash string) bool
	GenerateOTP() (string, error)
}
