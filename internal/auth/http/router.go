package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/domain"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/service"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/store"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/httpx"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/slogx"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	OTPService     *service.OTPService
	MFAService     *service.MFAService
	AdminService   *service.AdminService
	SessionService *service.SessionService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOTP()
	r.registerSessions()
	r.registerMFA()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			fractOwn Authentication Service API
//	@version		0.1.0
//	@description	Phone-number OTP login for investors and password+TOTP login for
//	@description	back-office admins. Session tokens are opaque bearer tokens; the
//	@description	server stores only their fingerprints.
//
//	@contact.name				fractOwn Team
//	@contact.url				https://github.com/SatyaTirumalasetty/fractOwn-sub001
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Opaque session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// sessionValidator adapts SessionService to the middleware interface.
type sessionValidator struct {
	svc *service.SessionService
}

func (v sessionValidator) Validate(ctx context.Context, token string) (httpx.Subject, error) {
	subject, err := v.svc.Validate(ctx, token)
	if err != nil {
		return httpx.Subject{}, err
	}
	return httpx.Subject{ID: subject.SubjectID, Type: subject.SubjectType}, nil
}

func (r *Router) validator() httpx.SessionValidator {
	return sessionValidator{svc: r.SessionService}
}

func (r *Router) registerOTP() {
	h := &OTPHandler{OTPService: r.OTPService}

	// POST /otp/request - strict limit by IP; every call costs an SMS
	r.Mux.Handle("POST /v1/otp/request",
		httpx.Chain(http.HandlerFunc(h.HandleRequest),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /otp/verify - strict limit by IP to slow code guessing
	r.Mux.Handle("POST /v1/otp/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSessions() {
	h := &SessionHandler{SessionService: r.SessionService}

	// GET /session - lenient limit; clients poll this on page loads
	r.Mux.Handle("GET /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.AuthnMiddleware(r.validator()),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)

	// POST /logout - authenticated, moderate limit
	r.Mux.Handle("POST /v1/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.AuthnMiddleware(r.validator()),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerMFA() {
	h := &MFAHandler{MFAService: r.MFAService}

	adminOnly := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.validator()),
			httpx.RequireSubjectType(domain.SubjectAdmin),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/mfa/totp/enroll", adminOnly(h.HandleEnroll))
	r.Mux.Handle("POST /v1/mfa/totp/verify", adminOnly(h.HandleVerify))
	r.Mux.Handle("DELETE /v1/mfa/totp", adminOnly(h.HandleDisable))
	r.Mux.Handle("POST /v1/mfa/backup-codes", adminOnly(h.HandleRegenerateBackupCodes))
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{AdminService: r.AdminService}

	// POST /admin/login - strict limit by IP (credential guessing)
	r.Mux.Handle("POST /v1/admin/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /admin/password/reset - unauthenticated but code-gated, strict limit
	r.Mux.Handle("POST /v1/admin/password/reset",
		httpx.Chain(http.HandlerFunc(h.HandleResetPassword),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
