package controllers

import (
	"net/http"
	"strings"

	"github.com/baxoq/baxoq-store-backend/api/middleware"
	"github.com/baxoq/baxoq-store-backend/api/responses"
	"github.com/baxoq/baxoq-store-backend/api/validators"
	"github.com/baxoq/baxoq-store-backend/internal/auth"
	"github.com/baxoq/baxoq-store-backend/pkg/config"
	pkgerrors "github.com/baxoq/baxoq-store-backend/pkg/errors"
	"github.com/baxoq/baxoq-store-backend/pkg/logger"
)

// RefreshCookieName is the HTTP-only cookie carrying "accessID:token".
const RefreshCookieName = "baxoq_refresh"

const refreshCookiePath = "/api/v1/auth"

func AuthRegister(svc auth.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setRefreshCookie(w, cfg, result.Credentials)
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"accessToken": result.Credentials.AccessToken,
			"user":        result.User,
		})
	}
}

func AuthLogin(svc auth.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setRefreshCookie(w, cfg, result.Credentials)
		responses.WriteSuccess(w, map[string]any{
			"accessToken": result.Credentials.AccessToken,
			"user":        result.User,
		})
	}
}

func AuthRefresh(svc auth.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		accessID, token, err := refreshCookieValues(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Refresh(r.Context(), accessID, token)
		if err != nil {
			clearRefreshCookie(w, cfg)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setRefreshCookie(w, cfg, result.Credentials)
		responses.WriteSuccess(w, map[string]any{
			"accessToken": result.Credentials.AccessToken,
			"user":        result.User,
		})
	}
}

func AuthLogout(svc auth.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		accessID := middleware.AccessIDFromContext(r.Context())
		if accessID == "" {
			// Fall back to the cookie so logout works with an expired token.
			if id, _, err := refreshCookieValues(r); err == nil {
				accessID = id
			}
		}

		if err := svc.Logout(r.Context(), accessID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clearRefreshCookie(w, cfg)
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

func setRefreshCookie(w http.ResponseWriter, cfg *config.Config, creds auth.Credentials) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    creds.AccessID + ":" + creds.RefreshToken,
		Path:     refreshCookiePath,
		MaxAge:   int(cfg.JWT.RefreshTokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   cfg.App.IsProd(),
		SameSite: http.SameSiteStrictMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter, cfg *config.Config) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.App.IsProd(),
		SameSite: http.SameSiteStrictMode,
	})
}

func refreshCookieValues(r *http.Request) (accessID, token string, err error) {
	cookie, cerr := r.Cookie(RefreshCookieName)
	if cerr != nil {
		return "", "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing refresh cookie")
	}
	accessID, token, ok := strings.Cut(cookie.Value, ":")
	if !ok || accessID == "" || token == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeUnauthorized, "malformed refresh cookie")
	}
	return accessID, token, nil
}
