// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mthijssen/livevote/models"
)

// ErrUnknownCommand is a protocol error; the session closes on it.
var ErrUnknownCommand = fmt.Errorf("unknown command")

// handler runs one command against the store. It returns either a result
// package or an error package; it never panics and never returns a Go error,
// so a failing store operation cannot take the session down.
type handler func(ctx context.Context, store Store, user models.User, args json.RawMessage) Message

type command struct {
	role   string
	handle handler
}

// commands maps each command name to its required role and handler.
// "ping" is reserved and answered by the session loop directly.
var commands = map[string]command{
	"new_poll":    {models.RoleAdmin, newPoll},
	"delete_poll": {models.RoleAdmin, deletePoll},
	"poll_hide":   {models.RoleAdmin, pollHide},
	"poll_show":   {models.RoleAdmin, pollShow},
	"poll_vote":   {models.RoleUser, pollVote},
	"new_qa":      {models.RoleUser, newQA},
	"qa_vote":     {models.RoleUser, qaVote},
	"qa_comment":  {models.RoleUser, qaComment},
	"qa_delete":   {models.RoleAdmin, qaDelete},
}

// Dispatcher routes inbound commands to role-gated handlers.
type Dispatcher struct {
	store  Store
	logger *slog.Logger
}

func NewDispatcher(store Store, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{store: store, logger: logger.With("component", "dispatch")}
}

// Dispatch runs the named command for the calling user. The returned
// broadcast flag tells the session whether the event goes to everyone or to
// the caller only: Forbidden replies and handler error packages stay with
// the caller. An unknown command name returns ErrUnknownCommand.
func (d *Dispatcher) Dispatch(ctx context.Context, user models.User, name string, args json.RawMessage) (Message, bool, error) {
	cmd, ok := commands[name]
	if !ok {
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}

	if cmd.role == models.RoleAdmin && !user.IsAdmin() {
		d.logger.Warn("forbidden command", "command", name, "user_id", user.ID)
		return ErrorMessage("Forbidden"), false, nil
	}

	pkg := cmd.handle(ctx, d.store, user, args)
	if IsError(pkg) {
		d.logger.Warn("command failed", "command", name, "user_id", user.ID, "error", pkg["error"])
		return pkg, false, nil
	}

	d.logger.Info("command handled", "command", name, "user_id", user.ID)
	return Response(name, pkg), true, nil
}

// typeMismatch is the error package for arguments of the wrong shape.
func typeMismatch() Message {
	return ErrorMessage("type mismatch")
}

// decodeArgs strictly decodes the command-specific argument fields. The
// required fields of each argument struct are pointers so that both a wrong
// type and an absent field surface as a mismatch.
func decodeArgs(raw json.RawMessage, v any) bool {
	return json.Unmarshal(raw, v) == nil
}

// Poll commands

func newPoll(ctx context.Context, store Store, _ models.User, raw json.RawMessage) Message {
	var args struct {
		Title       *string   `json:"title"`
		Description string    `json:"description"`
		Hidden      bool      `json:"hidden"`
		Options     *[]string `json:"options"`
	}
	if !decodeArgs(raw, &args) || args.Title == nil || args.Options == nil {
		return typeMismatch()
	}

	poll, err := store.CreatePoll(ctx, *args.Title, args.Description, args.Hidden, *args.Options)
	if err != nil {
		return ErrorMessage(err.Error())
	}
	return Message{
		"id":          poll.ID,
		"title":       poll.Title,
		"description": poll.Description,
		"hidden":      poll.Hidden,
		"options":     poll.Options,
	}
}

func deletePoll(ctx context.Context, store Store, _ models.User, raw json.RawMessage) Message {
	var args struct {
		Poll *int64 `json:"poll"`
	}
	if !decodeArgs(raw, &args) || args.Poll == nil {
		return typeMismatch()
	}

	if err := store.DeletePoll(ctx, *args.Poll); err != nil {
		return ErrorMessage(err.Error())
	}
	return Message{"poll": *args.Poll}
}

func pollHide(ctx context.Context, store Store, user models.User, raw json.RawMessage) Message {
	return setPollHidden(ctx, store, raw, true)
}

func pollShow(ctx context.Context, store Store, user models.User, raw json.RawMessage) Message {
	return setPollHidden(ctx, store, raw, false)
}

func setPollHidden(ctx context.Context, store Store, raw json.RawMessage, hidden bool) Message {
	var args struct {
		Poll *int64 `json:"poll"`
	}
	if !decodeArgs(raw, &args) || args.Poll == nil {
		return typeMismatch()
	}

	if err := store.SetPollHidden(ctx, *args.Poll, hidden); err != nil {
		return ErrorMessage(err.Error())
	}
	return Message{"poll": *args.Poll}
}

func pollVote(ctx context.Context, store Store, user models.User, raw json.RawMessage) Message {
	var args struct {
		Poll   *int64 `json:"poll"`
		Option *int64 `json:"option"`
	}
	if !decodeArgs(raw, &args) || args.Poll == nil || args.Option == nil {
		return typeMismatch()
	}

	count, err := store.TogglePollVote(ctx, user.ID, *args.Poll, *args.Option)
	if err != nil {
		return ErrorMessage(err.Error())
	}
	return Message{"poll": *args.Poll, "option": *args.Option, "count": count}
}

// Q&A commands

func newQA(ctx context.Context, store Store, user models.User, raw json.RawMessage) Message {
	var args struct {
		Text *string `json:"text"`
	}
	if !decodeArgs(raw, &args) || args.Text == nil {
		return typeMismatch()
	}

	discussion, err := store.CreateDiscussion(ctx, user, *args.Text)
	if err != nil {
		return ErrorMessage(err.Error())
	}
	return Message{
		"id":   discussion.ID,
		"text": discussion.Text,
		"user": discussion.User,
	}
}

func qaVote(ctx context.Context, store Store, user models.User, raw json.RawMessage) Message {
	var args struct {
		QA *int64 `json:"qa"`
	}
	if !decodeArgs(raw, &args) || args.QA == nil {
		return typeMismatch()
	}

	count, err := store.ToggleQuestionVote(ctx, user.ID, *args.QA)
	if err != nil {
		return ErrorMessage(err.Error())
	}
	return Message{"qa": *args.QA, "count": count}
}

func qaComment(ctx context.Context, store Store, user models.User, raw json.RawMessage) Message {
	var args struct {
		QA   *int64  `json:"qa"`
		Text *string `json:"text"`
	}
	if !decodeArgs(raw, &args) || args.QA == nil || args.Text == nil {
		return typeMismatch()
	}

	comment, err := store.CreateComment(ctx, user, *args.QA, *args.Text)
	if err != nil {
		return ErrorMessage(err.Error())
	}
	return Message{
		"id":   comment.ID,
		"qa":   *args.QA,
		"text": comment.Text,
		"user": comment.User,
	}
}

func qaDelete(ctx context.Context, store Store, _ models.User, raw json.RawMessage) Message {
	var args struct {
		QA *int64 `json:"qa"`
	}
	if !decodeArgs(raw, &args) || args.QA == nil {
		return typeMismatch()
	}

	if err := store.DeleteQuestion(ctx, *args.QA); err != nil {
		return ErrorMessage(err.Error())
	}
	return Message{"qa": *args.QA}
}
