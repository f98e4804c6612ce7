package main

import (
	"context"
	"net/http"
	"net/http/pprof"

	"github.com/charmbracelet/log"

	"github.com/vertox/portal/internal/auth"
	billing "github.com/vertox/portal/internal/billing/interfaces"
	"github.com/vertox/portal/internal/content"
	"github.com/vertox/portal/internal/history"
	"github.com/vertox/portal/internal/logging"
	"github.com/vertox/portal/internal/plans"
	"github.com/vertox/portal/internal/settings"
	"github.com/vertox/portal/internal/support"
	"github.com/vertox/portal/internal/translation"
	"github.com/vertox/portal/internal/updates"
	"github.com/vertox/portal/internal/user"
	"github.com/vertox/portal/internal/web"
)

// HealthChecker reports the state of a backing service.
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth         *auth.Handler
	AuthService  auth.Service
	Google       *auth.GoogleOAuth
	User         *user.Handler
	Plans        *plans.Handler
	Billing      *billing.PaymentMethodHandler
	History      *history.Handler
	Updates      *updates.Handler
	Translation  *translation.Handler
	Settings     *settings.Handler
	Support      *support.Handler
	Content      *content.Handler
	Shell        *web.Shell
	Translations *web.Translations
	Avatars      http.Handler
	Limiter      *auth.IPRateLimiter
	DB           HealthChecker
}

type Server struct {
	router *http.ServeMux
	h      Handlers
	logger *log.Logger
}

func NewServer(h Handlers, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{h: h, router: http.NewServeMux(), logger: logger}
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	web.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.h.DB == nil {
		web.RespondError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}
	stats := s.h.DB.Health(r.Context())
	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	web.RespondJSON(w, status, stats)
}

// Handler returns the router wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return logging.RequestLogger(s.logger)(s.router)
}

func (s *Server) RegisterRoutes() {
	h := s.h
	protect := h.AuthService.JWTAccessTokenMiddleware()
	limit := h.Limiter.Middleware

	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("POST /api/auth/signup", limit(http.HandlerFunc(h.Auth.HandleSignUp)))
	publicRoutes.Handle("POST /api/auth/signin", limit(http.HandlerFunc(h.Auth.HandleSignIn)))
	publicRoutes.HandleFunc("POST /api/auth/signout", h.Auth.HandleSignOut)
	publicRoutes.Handle("POST /api/auth/2fa/verify", limit(http.HandlerFunc(h.Auth.HandleVerifyTwoFactor)))
	publicRoutes.Handle("POST /api/auth/password/forgot", limit(http.HandlerFunc(h.Auth.RequestPasswordResetHandler)))
	publicRoutes.Handle("POST /api/auth/password/reset", limit(http.HandlerFunc(h.Auth.ResetPasswordHandler)))
	publicRoutes.HandleFunc("GET /api/auth/google", h.Google.HandleLogin)
	publicRoutes.HandleFunc("GET /api/auth/google/callback", h.Google.HandleCallback)

	publicRoutes.HandleFunc("GET /api/plans/catalog", h.Plans.GetCatalog)
	publicRoutes.HandleFunc("POST /api/plans/quote", h.Plans.PostQuote)
	publicRoutes.HandleFunc("POST /api/plans/proposal", h.Plans.PostProposal)
	publicRoutes.Handle("POST /api/plans/contact-sales", limit(http.HandlerFunc(h.Plans.PostContactSales)))
	publicRoutes.Handle("POST /api/plans/checkout", limit(http.HandlerFunc(h.Plans.PostCheckout)))

	publicRoutes.HandleFunc("GET /api/content/help", h.Content.GetHelp)
	publicRoutes.HandleFunc("GET /api/content/cases", h.Content.GetCases)
	publicRoutes.HandleFunc("GET /api/content/testimonials", h.Content.GetTestimonials)
	publicRoutes.HandleFunc("GET /api/content/partners", h.Content.GetPartners)

	publicRoutes.HandleFunc("GET /api/updates", h.Updates.GetReleases)
	publicRoutes.HandleFunc("GET /api/updates/check", h.Updates.CheckForUpdate)
	publicRoutes.HandleFunc("GET /api/translation/options", h.Translation.GetOptions)
	publicRoutes.HandleFunc("GET /api/i18n", h.Translations.HandleLanguages)
	publicRoutes.HandleFunc("GET /api/i18n/{lang}", h.Translations.HandleI18n)

	publicRoutes.HandleFunc("GET /api/ready", s.handleReady)
	publicRoutes.HandleFunc("GET /api/health", s.handleHealth)
	publicRoutes.HandleFunc("/api/", web.NotFoundAPI)

	// Protected routes (using JWT Access Token Middleware)
	protectedRoutes := http.NewServeMux()
	protectedRoutes.Handle("GET /api/protected/session", protect(http.HandlerFunc(h.Auth.HandleSession)))

	protectedRoutes.Handle("GET /api/protected/profile", protect(http.HandlerFunc(h.User.HandleGetProfile)))
	protectedRoutes.Handle("PUT /api/protected/profile", protect(http.HandlerFunc(h.User.HandleUpdateProfile)))
	protectedRoutes.Handle("POST /api/protected/profile/avatar", protect(http.HandlerFunc(h.User.HandleUploadAvatar)))
	protectedRoutes.Handle("POST /api/protected/change-password", protect(http.HandlerFunc(h.User.HandleChangePassword)))

	protectedRoutes.Handle("POST /api/protected/2fa/register", protect(http.HandlerFunc(h.Auth.HandleRegisterTwoFactor)))
	protectedRoutes.Handle("POST /api/protected/2fa/verify-registration", protect(http.HandlerFunc(h.Auth.HandleVerifyTwoFactorCode)))
	protectedRoutes.Handle("DELETE /api/protected/2fa/disable", protect(http.HandlerFunc(h.Auth.HandleDisableTwoFactor)))

	protectedRoutes.Handle("GET /api/protected/billing/payment-methods", protect(http.HandlerFunc(h.Billing.GetPaymentMethods)))
	protectedRoutes.Handle("POST /api/protected/billing/payment-methods", protect(http.HandlerFunc(h.Billing.AddPaymentMethod)))
	protectedRoutes.Handle("DELETE /api/protected/billing/payment-methods/{id}", protect(http.HandlerFunc(h.Billing.RemovePaymentMethod)))
	protectedRoutes.Handle("PUT /api/protected/billing/payment-methods/{id}/default", protect(http.HandlerFunc(h.Billing.SetDefaultPaymentMethod)))

	protectedRoutes.Handle("GET /api/protected/history", protect(http.HandlerFunc(h.History.GetSessions)))
	protectedRoutes.Handle("GET /api/protected/history/recent", protect(http.HandlerFunc(h.History.GetRecentSessions)))
	protectedRoutes.Handle("GET /api/protected/history/stats", protect(http.HandlerFunc(h.History.GetStats)))
	protectedRoutes.Handle("DELETE /api/protected/history/{id}", protect(http.HandlerFunc(h.History.DeleteSession)))
	protectedRoutes.Handle("DELETE /api/protected/history", protect(http.HandlerFunc(h.History.ClearSessions)))

	protectedRoutes.Handle("GET /api/protected/translation/session", protect(http.HandlerFunc(h.Translation.GetState)))
	protectedRoutes.Handle("PUT /api/protected/translation/session", protect(http.HandlerFunc(h.Translation.UpdateState)))
	protectedRoutes.Handle("POST /api/protected/translation/session/start", protect(http.HandlerFunc(h.Translation.Start)))
	protectedRoutes.Handle("POST /api/protected/translation/session/stop", protect(http.HandlerFunc(h.Translation.Stop)))
	protectedRoutes.Handle("GET /api/protected/devices", protect(http.HandlerFunc(h.Translation.GetDevices)))
	protectedRoutes.Handle("POST /api/protected/devices/{kind}/{id}/pair", protect(http.HandlerFunc(h.Translation.PairDevice)))

	protectedRoutes.Handle("GET /api/protected/settings", protect(http.HandlerFunc(h.Settings.GetSettings)))
	protectedRoutes.Handle("PUT /api/protected/settings", protect(http.HandlerFunc(h.Settings.UpdateSettings)))
	protectedRoutes.Handle("POST /api/protected/settings/reset", protect(http.HandlerFunc(h.Settings.ResetSettings)))

	protectedRoutes.Handle("GET /api/protected/support", protect(http.HandlerFunc(h.Support.GetRequests)))
	protectedRoutes.Handle("POST /api/protected/support", limit(protect(http.HandlerFunc(h.Support.PostRequest))))
	protectedRoutes.HandleFunc("/api/protected/", web.NotFoundAPI)

	// Refresh token routes
	refreshTokenRoutes := http.NewServeMux()
	refreshTokenRoutes.Handle("PUT /api/refresh/token", h.AuthService.JWTRefreshTokenMiddleware()(http.HandlerFunc(h.Auth.RefreshAccessToken)))
	refreshTokenRoutes.HandleFunc("/api/refresh/", web.NotFoundAPI)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/api/refresh/", refreshTokenRoutes)
	if h.Avatars != nil {
		mainRouter.Handle("GET /storage/avatars/", http.StripPrefix("/storage/avatars", h.Avatars))
	}
	mainRouter.Handle("/", h.Shell)

	s.router = mainRouter
}

// pprofMux serves the profiling endpoints on their own listener.
func pprofMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}
