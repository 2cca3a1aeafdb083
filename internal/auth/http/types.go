package http

// Request and response bodies for the v1 API. Kept in one place so the
// swagger definitions and the handlers cannot drift apart.

type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

type OTPRequestBody struct {
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email,omitempty"`
}

type OTPVerifyBody struct {
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
	DisplayName string `json:"display_name,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
}

type UserResponse struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phone_number"`
	DisplayName string `json:"display_name"`
	CountryCode string `json:"country_code,omitempty"`
	Email       string `json:"email,omitempty"`
	IsVerified  bool   `json:"is_verified"`
}

type LoginResponse struct {
	Token     string        `json:"token"`
	TokenType string        `json:"token_type"` // always "Bearer"
	ExpiresAt string        `json:"expires_at,omitempty"`
	User      *UserResponse `json:"user,omitempty"`
}

type AdminLoginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type PasswordResetBody struct {
	Username    string `json:"username"`
	Code        string `json:"code"` // TOTP code or backup code
	NewPassword string `json:"new_password"`
}

type TOTPEnrollResponse struct {
	Secret  string `json:"secret"`
	QRCode  string `json:"qr_code"`
	Issuer  string `json:"issuer"`
	Account string `json:"account"`
}

type TOTPCodeBody struct {
	Code string `json:"code"`
}

type BackupCodesResponse struct {
	BackupCodes []string `json:"backup_codes"`
	Warning     string   `json:"warning"`
}

type SessionResponse struct {
	SubjectID   string `json:"subject_id"`
	SubjectType string `json:"subject_type"`
	ExpiresAt   string `json:"expires_at"`
}

type HealthChecks struct {
	Database string `json:"database,omitempty"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
