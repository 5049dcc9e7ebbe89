// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/mthijssen/livevote/cliparse"
	"github.com/mthijssen/livevote/middleware"
	"github.com/mthijssen/livevote/models"
	"github.com/mthijssen/livevote/store"
)

type StateHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewStateHandler(st *store.Store, cfg cliparse.Config) *StateHandler {
	return &StateHandler{store: st, cfg: cfg}
}

// GetState handles GET /state - the full application snapshot (polls and
// discussions) a client loads before joining the realtime channel.
func (h *StateHandler) GetState(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.CurrentUser(r, h.cfg.APISecret); err != nil {
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
		return
	}

	polls, err := h.store.AllPolls(r.Context())
	if err != nil {
		slog.Error("failed to load polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	qas, err := h.store.AllDiscussions(r.Context())
	if err != nil {
		slog.Error("failed to load discussions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.State{
		Polls: polls,
		QAs:   qas,
	})
}
