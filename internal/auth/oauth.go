package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/vertox/portal/internal/config"
)

const (
	oauthStateCookie   = "oauth_state"
	googleUserInfoURL  = "https://openidconnect.googleapis.com/v1/userinfo"
	googleNotConfigMsg = "Google sign-in is not configured yet. Please use email/password."
)

type googleUserInfo struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// GoogleOAuth runs the authorization-code flow and signs the user in through the auth service.
type GoogleOAuth struct {
	config        *oauth2.Config
	userInfoURL   string
	authService   Service
	redirectTo    string
	secureCookies bool
	logger        *log.Logger
}

// NewGoogleOAuth returns a handler pair that answers 503 when no client is configured.
func NewGoogleOAuth(cfg config.GoogleConfig, authService Service, redirectTo string, secureCookies bool, logger *log.Logger) *GoogleOAuth {
	if logger == nil {
		logger = log.Default()
	}
	g := &GoogleOAuth{
		userInfoURL:   googleUserInfoURL,
		authService:   authService,
		redirectTo:    redirectTo,
		secureCookies: secureCookies,
		logger:        logger.With("component", "oauth"),
	}
	if cfg.Enabled() {
		g.config = &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}
	return g
}

// WithEndpoint points the flow at another provider, used by tests.
func (g *GoogleOAuth) WithEndpoint(endpoint oauth2.Endpoint, userInfoURL string) *GoogleOAuth {
	if g.config != nil {
		g.config.Endpoint = endpoint
	}
	g.userInfoURL = userInfoURL
	return g
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (g *GoogleOAuth) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if g.config == nil {
		respondError(w, http.StatusServiceUnavailable, googleNotConfigMsg)
		return
	}

	state, err := randomState()
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalError.Error())
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/auth/google",
		MaxAge:   int((10 * time.Minute) / time.Second),
		HttpOnly: true,
		Secure:   g.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, g.config.AuthCodeURL(state), http.StatusFound)
}

func (g *GoogleOAuth) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if g.config == nil {
		respondError(w, http.StatusServiceUnavailable, googleNotConfigMsg)
		return
	}

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		respondError(w, http.StatusBadRequest, "Invalid state parameter")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/api/auth/google", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		g.logger.Warn("google authorization failed", "error", r.URL.Query().Get("error"))
		respondError(w, http.StatusBadRequest, "Authorization failed")
		return
	}

	info, err := g.exchange(r.Context(), code)
	if err != nil {
		g.logger.Error("google exchange", "err", err)
		respondError(w, http.StatusBadGateway, "Authentication failed")
		return
	}

	_, tokens, err := g.authService.SignInWithGoogle(r.Context(), info.Subject, info.Email, info.Name)
	if err != nil {
		g.logger.Error("google sign in", "err", err)
		respondError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}

	target := g.redirectTo
	if tokens.TwoFactorRequired {
		target += "/auth?session_token=" + tokens.SessionToken
	} else {
		setRefreshCookie(w, tokens.RefreshToken, g.secureCookies)
		target += "/"
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (g *GoogleOAuth) exchange(ctx context.Context, code string) (*googleUserInfo, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	res, err := g.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned %d", res.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("could not decode userinfo: %w", err)
	}
	if info.Subject == "" || info.Email == "" {
		return nil, fmt.Errorf("userinfo is missing subject or email")
	}
	return &info, nil
}
