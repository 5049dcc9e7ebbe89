// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"context"

	"github.com/mthijssen/livevote/models"
)

// Store is the data access consumed by the command handlers. The store
// package provides the production implementation; tests substitute fakes.
type Store interface {
	CreatePoll(ctx context.Context, title, description string, hidden bool, options []string) (models.Poll, error)
	DeletePoll(ctx context.Context, pollID int64) error
	SetPollHidden(ctx context.Context, pollID int64, hidden bool) error
	TogglePollVote(ctx context.Context, userID, pollID, optionID int64) (int64, error)

	CreateDiscussion(ctx context.Context, user models.User, text string) (models.Discussion, error)
	ToggleQuestionVote(ctx context.Context, userID, questionID int64) (int64, error)
	CreateComment(ctx context.Context, user models.User, questionID int64, text string) (models.Comment, error)
	DeleteQuestion(ctx context.Context, questionID int64) error
}
