package domain

import "time"

// OneTimeCode is a pending OTP for a phone number. At most one unconsumed,
// unexpired code exists per phone number: requesting a new code deletes any
// prior rows for that number in the same transaction as the insert.
type OneTimeCode struct {
	ID          string
	PhoneNumber string
	Code        string // 6 ASCII digits
	ExpiresAt   time.Time
	Used        bool
	CreatedAt   time.Time
}
