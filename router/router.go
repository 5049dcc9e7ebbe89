// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"log/slog"
	"net/http"

	"github.com/mthijssen/livevote/auth"
	"github.com/mthijssen/livevote/cliparse"
	"github.com/mthijssen/livevote/handlers"
	"github.com/mthijssen/livevote/middleware"
	"github.com/mthijssen/livevote/models"
	"github.com/mthijssen/livevote/oidc"
	"github.com/mthijssen/livevote/realtime"
	"github.com/mthijssen/livevote/store"
)

func NewRouter(st *store.Store, oidcClient *oidc.Client, cfg cliparse.Config, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(st, oidcClient, cfg)
	stateHandler := handlers.NewStateHandler(st, cfg)

	// Realtime channel: the registry's credential verifier is the same
	// token check the HTTP endpoints use.
	verify := func(credential string) (models.User, error) {
		return auth.UserFromToken(credential, cfg.APISecret)
	}
	manager := realtime.NewManager(verify, logger)
	dispatcher := realtime.NewDispatcher(st, logger)
	session := realtime.NewSessionHandler(manager, dispatcher, logger)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Login flow
	mux.HandleFunc("GET /auth/login", middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("POST /auth/token", middleware.WithLogging(authHandler.Token))
	mux.HandleFunc("GET /auth/me", middleware.WithLogging(authHandler.Me))

	// State snapshot
	mux.HandleFunc("GET /state", middleware.WithLogging(stateHandler.GetState))

	// Realtime channel
	mux.Handle("GET /ws", session)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("livevote API v1"))
	})

	return mux
}
