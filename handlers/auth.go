// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mthijssen/livevote/auth"
	"github.com/mthijssen/livevote/cliparse"
	"github.com/mthijssen/livevote/middleware"
	"github.com/mthijssen/livevote/oidc"
	"github.com/mthijssen/livevote/store"

	"github.com/mthijssen/livevote/models"
)

type AuthHandler struct {
	store *store.Store
	oidc  *oidc.Client
	cfg   cliparse.Config
}

func NewAuthHandler(st *store.Store, oidcClient *oidc.Client, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{store: st, oidc: oidcClient, cfg: cfg}
}

// Login handles GET /auth/login - redirects the browser to the identity
// provider's authorization endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	redirect := r.URL.Query().Get("redirect")
	if redirect == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "redirect is required")
		return
	}
	http.Redirect(w, r, h.oidc.AuthorizeURL(redirect), http.StatusTemporaryRedirect)
}

// Token handles POST /auth/token - exchanges an authorization code for an
// API bearer token, creating the user on first login.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req models.AuthorizationCode
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Code == "" || req.Redirect == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "code and redirect are required")
		return
	}

	providerToken, err := h.oidc.Token(r.Context(), req.Code, req.Redirect)
	if err != nil {
		slog.Warn("token exchange failed", "error", err)
		middleware.ErrorResponse(w, http.StatusForbidden, "Fetching token: "+err.Error())
		return
	}

	info, err := h.oidc.User(r.Context(), providerToken.AccessToken)
	if err != nil {
		slog.Warn("userinfo fetch failed", "error", err)
		middleware.ErrorResponse(w, http.StatusForbidden, "Fetching profile: "+err.Error())
		return
	}

	subject, err := strconv.ParseInt(info.Subject, 10, 64)
	if err != nil {
		slog.Warn("provider returned non-numeric subject", "subject", info.Subject)
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid subject identifier")
		return
	}

	user, err := h.store.UserBySubject(r.Context(), subject)
	if errors.Is(err, store.ErrNotFound) {
		var image *string
		if info.Picture != "" {
			image = &info.Picture
		}
		user, err = h.store.CreateUser(r.Context(), subject, info.GivenName, info.FamilyName, image)
	}
	if err != nil {
		slog.Error("failed to load user", "error", err, "subject", subject)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	lifetime := time.Duration(h.cfg.TokenExpireMinutes) * time.Minute
	accessToken, err := auth.CreateAccessToken(user, h.cfg.APISecret, lifetime)
	if err != nil {
		slog.Error("failed to mint access token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create token")
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "name", user.Name())

	middleware.JSONResponse(w, http.StatusOK, models.Token{
		AccessToken: accessToken,
		User:        user,
	})
}

// Me handles GET /auth/me - returns the identity behind the bearer token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.CurrentUser(r, h.cfg.APISecret)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
		return
	}
	middleware.JSONResponse(w, http.StatusOK, user)
}
