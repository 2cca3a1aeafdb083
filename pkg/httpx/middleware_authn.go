package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/slogx"
)

// Subject is the resolved identity behind a session token.
type Subject struct {
	ID   string
	Type string // "user" or "admin"
}

// SessionValidator resolves an opaque session token to a subject. Any failure
// (missing, expired, revoked, inactive subject) must be reported with a single
// uniform error so callers cannot tell which case occurred.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (Subject, error)
}

// AuthnMiddleware authenticates requests carrying a bearer session token and
// injects the resolved subject into the request context.
func AuthnMiddleware(v SessionValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			subject, err := v.Validate(ctx, raw)
			if err != nil {
				writeBearerError(w, "session validation failed")
				log.Warn("session validate failed", "err", err)
				return
			}

			// Inject into context for downstream handlers.
			ctx = context.WithValue(ctx, CtxKeySubjectID, subject.ID)
			ctx = context.WithValue(ctx, CtxKeySubjectType, subject.Type)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSubjectType rejects requests whose session subject is not of the
// given type (e.g. admin-only endpoints).
func RequireSubjectType(subjectType string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, st := SubjectFromCtx(r.Context()); st != subjectType {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
