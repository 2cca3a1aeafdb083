// Package notify delivers one-time codes to users via an SMS/email provider.
//
// Gateways never propagate delivery failure to the auth flow: a provider
// outage must not block OTP issuance, because the stored code can always be
// re-requested. Failures are recorded locally (log) instead.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Gateway sends a one-time code to a destination (phone number or email).
// Implementations report whether the provider accepted the message, but the
// auth flow treats any outcome as success; the return value exists for
// logging and metrics.
type Gateway interface {
	SendCode(ctx context.Context, destination, code string) bool
}

// LogGateway writes codes to the log instead of a provider. Used in
// development where no SMS vendor is configured.
type LogGateway struct {
	Logger *slog.Logger
}

func (g *LogGateway) SendCode(ctx context.Context, destination, code string) bool {
	g.Logger.Info("otp delivery (dev mode, not sent)",
		"destination", destination,
		"code", code,
	)
	return true
}

// CaptureGateway records sent messages for assertion in tests.
type CaptureGateway struct {
	mu   sync.Mutex
	sent []CapturedMessage
}

type CapturedMessage struct {
	Destination string
	Code        string
}

func (g *CaptureGateway) SendCode(ctx context.Context, destination, code string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, CapturedMessage{Destination: destination, Code: code})
	return true
}

// Sent returns a copy of all captured messages.
func (g *CaptureGateway) Sent() []CapturedMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]CapturedMessage, len(g.sent))
	copy(out, g.sent)
	return out
}

// Last returns the most recently captured message, if any.
func (g *CaptureGateway) Last() (CapturedMessage, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.sent) == 0 {
		return CapturedMessage{}, false
	}
	return g.sent[len(g.sent)-1], true
}
