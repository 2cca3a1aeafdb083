package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SMSConfig configures the SMS provider gateway.
type SMSConfig struct {
	APIURL   string // provider send endpoint
	APIKey   string // optional apikey header auth
	UserID   string // userid/password auth, provider-dependent
	Password string
	SenderID string        // registered sender id shown to recipients
	Timeout  time.Duration // bound on the outbound call (default 10s)
}

// SMSGateway delivers codes through a generic SMS portal REST API
// (form-encoded POST). The HTTP client carries a hard timeout so a slow
// provider cannot stall OTP issuance.
type SMSGateway struct {
	cfg    SMSConfig
	logger *slog.Logger
	client *http.Client
}

func NewSMSGateway(cfg SMSConfig, logger *slog.Logger) *SMSGateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SMSGateway{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// SendCode posts the code to the provider. On any failure it logs the attempt
// and reports false; it never returns an error to the auth flow.
func (g *SMSGateway) SendCode(ctx context.Context, destination, code string) bool {
	form := url.Values{}
	form.Set("userid", g.cfg.UserID)
	form.Set("password", g.cfg.Password)
	form.Set("senderid", g.cfg.SenderID)
	form.Set("msgType", "text")
	form.Set("msg", fmt.Sprintf("Your fractOwn verification code is %s. It expires in 5 minutes.", code))
	form.Set("mobile", destination)
	form.Set("output", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.APIURL, strings.NewReader(form.Encode()))
	if err != nil {
		g.logger.Error("sms gateway: failed to build request", "destination", destination, "err", err)
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if g.cfg.APIKey != "" {
		req.Header.Set("apikey", g.cfg.APIKey)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error("sms gateway: provider call failed",
			"destination", destination,
			"duration_ms", time.Since(start).Milliseconds(),
			"err", err,
		)
		return false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		g.logger.Error("sms gateway: provider rejected message",
			"destination", destination,
			"status", resp.StatusCode,
			"response", string(body),
		)
		return false
	}

	g.logger.Info("sms gateway: code delivered",
		"destination", destination,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return true
}
