package domain

import "time"

// User is a public fractOwn user identified by phone number. Users are
// created lazily on their first successful OTP verification.
type User struct {
	ID          string
	PhoneNumber string
	DisplayName string
	CountryCode string
	Email       string // optional, captured during OTP request
	IsVerified  bool
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
