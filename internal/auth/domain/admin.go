package domain

import "time"

// Admin is a back-office account. The TOTP credential is 1:1 with the admin
// row: MFAPendingSecret holds a freshly generated secret awaiting its first
// valid code, MFASecret is the confirmed secret in use. Keeping them separate
// means generating a new secret never invalidates a credential that is still
// enabled.
type Admin struct {
	ID               string
	Username         string
	PasswordHash     string     // argon2id PHC encoded
	MFASecret        *string    // confirmed TOTP secret (nullable, base32 encoded)
	MFAPendingSecret *string    // generated but unconfirmed secret (nullable)
	MFAEnabled       *time.Time // timestamp when TOTP was confirmed (nullable)
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// MFAIsEnabled reports whether the admin has a confirmed TOTP credential.
func (a Admin) MFAIsEnabled() bool {
	return a.MFAEnabled != nil && a.MFASecret != nil && *a.MFASecret != ""
}

// MFAEnrollResponse is returned when an admin starts TOTP enrollment.
type MFAEnrollResponse struct {
	Secret  string // Base32 encoded secret for TOTP
	QRCode  string // otpauth:// URL for QR code generation
	Issuer  string // Issuer name (e.g., service name)
	Account string // Account name (the admin username)
}
