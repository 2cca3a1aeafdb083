package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// OTPDigits is the length of a one-time login code.
const OTPDigits = 6

// BackupCodeLength is the length of a single-use backup code.
const BackupCodeLength = 8

// backupCodeCharset deliberately omits easily-confused characters (0/O, 1/I/L).
const backupCodeCharset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateOTP draws a uniform random 6-digit code over [100000, 999999].
// The lower bound keeps every code at exactly six digits.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// GenerateBackupCode produces an 8-character single-use backup code.
func GenerateBackupCode() (string, error) {
	code := make([]byte, BackupCodeLength)
	max := big.NewInt(int64(len(backupCodeCharset)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate backup code: %w", err)
		}
		code[i] = backupCodeCharset[n.Int64()]
	}
	return string(code), nil
}
