package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vertox/portal/internal/user"
)

type Handler struct {
	authService   Service
	secureCookies bool
	logger        *log.Logger
}

func NewHandler(authService Service, secureCookies bool, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		authService:   authService,
		secureCookies: secureCookies,
		logger:        logger.With("component", "auth"),
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("JSON encoding error", "err", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, errs ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}
	if len(errs) > 0 && len(errs[0]) > 0 {
		payload["errors"] = errs[0]
	}
	respondJSON(w, status, payload)
}

func setRefreshCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/api/refresh/token",
		MaxAge:   int(defaultJWTRefreshDuration / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api/refresh/token",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// respondSignedIn writes either the access token or the pending two-factor challenge.
func (h *Handler) respondSignedIn(w http.ResponseWriter, status int, message string, u *user.User, tokens *Tokens) {
	if tokens.TwoFactorRequired {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "success",
			"message": "Two-factor authentication required",
			"data": map[string]interface{}{
				"two_factor_required": true,
				"session_token":       tokens.SessionToken,
			},
		})
		return
	}

	setRefreshCookie(w, tokens.RefreshToken, h.secureCookies)
	respondJSON(w, status, map[string]interface{}{
		"status":  "success",
		"message": message,
		"data": map[string]string{
			"user_id":      u.ID,
			"email":        u.Email,
			"access_token": tokens.AccessToken,
		},
	})
}

func (h *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req user.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, tokens, err := h.authService.SignUp(r.Context(), req)
	if err != nil {
		if user.RespondPasswordPolicy(w, err) {
			return
		}
		switch {
		case errors.Is(err, user.ErrInvalidEmail),
			errors.Is(err, user.ErrPasswordsDoNotMatch),
			errors.Is(err, user.ErrFullNameRequired):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, user.ErrEmailAlreadyExists):
			respondError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("sign up", "err", err)
			respondError(w, http.StatusInternalServerError, "Authentication failed")
		}
		return
	}

	h.respondSignedIn(w, http.StatusCreated, "Account created successfully!", u, tokens)
}

func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, tokens, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrPasswordRequired):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "Authentication failed")
		}
		return
	}

	h.respondSignedIn(w, http.StatusOK, "Welcome back!", u, tokens)
}

func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	clearRefreshCookie(w, h.secureCookies)
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Signed out successfully",
	})
}

func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := user.IDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	session, err := h.authService.Session(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			respondError(w, http.StatusUnauthorized, user.ErrUserNotFound.Error())
			return
		}
		h.logger.Error("session", "user_id", userID, "err", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   session,
	})
}

func (h *Handler) HandleRegisterTwoFactor(w http.ResponseWriter, r *http.Request) {
	userID, ok := user.IDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	otpURI, err := h.authService.RegisterTwoFactor(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUser2FAAlreadyEnabled) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Could not register two-factor authentication")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Two-factor authentication initiated. Please verify to enable.",
		"data": map[string]string{
			"otp_uri": otpURI,
		},
	})
}

func (h *Handler) HandleVerifyTwoFactorCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, ok := user.IDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	err := h.authService.VerifyTwoFactorCode(r.Context(), userID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalid2FACode):
			respondError(w, http.StatusUnauthorized, "Invalid 2fa code")
		case errors.Is(err, ErrUser2FAAlreadyEnabled):
			respondError(w, http.StatusConflict, "Two-factor authentication is already enabled")
		case errors.Is(err, ErrTwoFactorNotRegistered):
			respondError(w, http.StatusBadRequest, "Two-factor authentication has not been registered")
		default:
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Two-factor authentication enabled",
	})
}

func (h *Handler) HandleVerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionToken string `json:"session_token"`
		Code         string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionToken == "" || req.Code == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, tokens, err := h.authService.VerifyTwoFactor(r.Context(), req.SessionToken, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSessionToken),
			errors.Is(err, ErrExpiredSessionToken),
			errors.Is(err, ErrInvalid2FACode):
			respondError(w, http.StatusUnauthorized, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "Could not verify two-factor authentication")
		}
		return
	}

	h.respondSignedIn(w, http.StatusOK, "Welcome back!", u, tokens)
}

func (h *Handler) HandleDisableTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, ok := user.IDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	err := h.authService.DisableTwoFactorAuth(r.Context(), userID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrUser2FANotEnabled):
			respondError(w, http.StatusBadRequest, "Two-factor authentication is not enabled")
		case errors.Is(err, ErrInvalid2FACode):
			respondError(w, http.StatusUnauthorized, "Invalid 2FA code")
		default:
			respondError(w, http.StatusInternalServerError, "Could not disable two-factor authentication")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Two-factor authentication disabled successfully",
	})
}

func (h *Handler) RefreshAccessToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := user.IDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, user.ErrUserNotFound.Error())
		return
	}

	tokens, err := h.authService.RefreshAccessToken(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalError.Error())
		return
	}

	setRefreshCookie(w, tokens.RefreshToken, h.secureCookies)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]string{
			"access_token": tokens.AccessToken,
		},
	})
}

func (h *Handler) RequestPasswordResetHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, user.ErrInvalidEmail.Error())
		return
	}

	err := h.authService.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, ErrTooManyEmailCodeRequests) {
			respondError(w, http.StatusTooManyRequests, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to send reset link")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Password reset code sent! Check your email.",
	})
}

func (h *Handler) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Code == "" {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	err := h.authService.ResetPassword(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrResetPasswordTooShort), errors.Is(err, user.ErrPasswordsDoNotMatch):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrInvalidVerificationCode), errors.Is(err, ErrVerificationCodeExpired):
			respondError(w, http.StatusUnauthorized, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "Failed to update password")
		}
		return
	}

	clearRefreshCookie(w, h.secureCookies)
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Password updated successfully!",
	})
}
