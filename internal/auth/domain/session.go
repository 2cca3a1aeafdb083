package domain

import "time"

// Subject types a session can be bound to.
const (
	SubjectUser  = "user"
	SubjectAdmin = "admin"
)

// Session models a stored session record. Only the SHA-256 fingerprint of the
// opaque token is persisted; the token itself is returned to the caller once
// at issuance and is never re-derivable from storage.
type Session struct {
	ID          string
	TokenHash   string // deterministic fingerprint (base64url SHA-256)
	SubjectID   string
	SubjectType string // SubjectUser or SubjectAdmin
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// SessionSubject is what a successful session validation resolves to.
type SessionSubject struct {
	SubjectID   string
	SubjectType string
	ExpiresAt   time.Time
}
