// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/mthijssen/livevote/models"
)

// fakeStore records calls and returns canned results.
type fakeStore struct {
	failWith error

	createdPolls   []string
	deletedPolls   []int64
	hiddenPolls    map[int64]bool
	votedOptions   []int64
	createdQAs     []string
	votedQuestions []int64
	comments       []string
	deletedQAs     []int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{hiddenPolls: make(map[int64]bool)}
}

func (f *fakeStore) CreatePoll(ctx context.Context, title, description string, hidden bool, options []string) (models.Poll, error) {
	if f.failWith != nil {
		return models.Poll{}, f.failWith
	}
	f.createdPolls = append(f.createdPolls, title)
	pairs := make([]models.OptionPair, len(options))
	for i, text := range options {
		pairs[i] = models.OptionPair{Text: text, ID: int64(i + 1)}
	}
	return models.Poll{
		ID: 10, Title: title, Description: description, Hidden: hidden,
		Options: pairs, Votes: map[int64]int64{},
	}, nil
}

func (f *fakeStore) DeletePoll(ctx context.Context, pollID int64) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.deletedPolls = append(f.deletedPolls, pollID)
	return nil
}

func (f *fakeStore) SetPollHidden(ctx context.Context, pollID int64, hidden bool) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.hiddenPolls[pollID] = hidden
	return nil
}

func (f *fakeStore) TogglePollVote(ctx context.Context, userID, pollID, optionID int64) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.votedOptions = append(f.votedOptions, optionID)
	return 1, nil
}

func (f *fakeStore) CreateDiscussion(ctx context.Context, user models.User, text string) (models.Discussion, error) {
	if f.failWith != nil {
		return models.Discussion{}, f.failWith
	}
	f.createdQAs = append(f.createdQAs, text)
	return models.Discussion{ID: 20, Text: text, User: user.Name()}, nil
}

func (f *fakeStore) ToggleQuestionVote(ctx context.Context, userID, questionID int64) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.votedQuestions = append(f.votedQuestions, questionID)
	return 3, nil
}

func (f *fakeStore) CreateComment(ctx context.Context, user models.User, questionID int64, text string) (models.Comment, error) {
	if f.failWith != nil {
		return models.Comment{}, f.failWith
	}
	f.comments = append(f.comments, text)
	return models.Comment{ID: 30, Text: text, User: user.Name()}, nil
}

func (f *fakeStore) DeleteQuestion(ctx context.Context, questionID int64) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.deletedQAs = append(f.deletedQAs, questionID)
	return nil
}

var (
	testAdmin    = models.User{ID: 1, FirstName: "Ada", LastName: "Lovelace", Role: models.RoleAdmin}
	testAttendee = models.User{ID: 2, FirstName: "Alan", LastName: "Turing", Role: models.RoleUser}
)

func testDispatcher(store Store) *Dispatcher {
	return NewDispatcher(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func dispatch(t *testing.T, d *Dispatcher, user models.User, payload string) (Message, bool) {
	t.Helper()
	name, err := DecodeCommand([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeCommand() error = %v", err)
	}
	msg, broadcast, err := d.Dispatch(context.Background(), user, name, json.RawMessage(payload))
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	return msg, broadcast
}

func TestDispatchUnknownCommand(t *testing.T) {
	d := testDispatcher(newFakeStore())
	_, _, err := d.Dispatch(context.Background(), testAttendee, "make_coffee", nil)
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Dispatch() error = %v, want ErrUnknownCommand", err)
	}
}

func TestDispatchRoleGate(t *testing.T) {
	adminOnly := []string{
		`{"msg": "new_poll", "title": "t", "options": []}`,
		`{"msg": "delete_poll", "poll": 1}`,
		`{"msg": "poll_hide", "poll": 1}`,
		`{"msg": "poll_show", "poll": 1}`,
		`{"msg": "qa_delete", "qa": 1}`,
	}

	for _, payload := range adminOnly {
		store := newFakeStore()
		d := testDispatcher(store)

		msg, broadcast := dispatch(t, d, testAttendee, payload)
		if !IsError(msg) || msg["error"] != "Forbidden" {
			t.Errorf("payload %s as attendee: got %v, want Forbidden", payload, msg)
		}
		if broadcast {
			t.Errorf("payload %s: Forbidden reply must not broadcast", payload)
		}
		// The store was never touched
		if len(store.createdPolls)+len(store.deletedPolls)+len(store.hiddenPolls)+len(store.deletedQAs) != 0 {
			t.Errorf("payload %s: store was called despite Forbidden", payload)
		}
	}
}

func TestDispatchAdminRunsUserCommands(t *testing.T) {
	d := testDispatcher(newFakeStore())

	msg, broadcast := dispatch(t, d, testAdmin, `{"msg": "poll_vote", "poll": 1, "option": 2}`)
	if IsError(msg) {
		t.Fatalf("admin poll_vote failed: %v", msg)
	}
	if !broadcast {
		t.Error("poll_vote result must broadcast")
	}
}

func TestDispatchTypeMismatch(t *testing.T) {
	tests := []struct {
		name    string
		user    models.User
		payload string
	}{
		{"new_poll missing title", testAdmin, `{"msg": "new_poll", "options": ["a"]}`},
		{"new_poll missing options", testAdmin, `{"msg": "new_poll", "title": "t"}`},
		{"new_poll title wrong type", testAdmin, `{"msg": "new_poll", "title": 7, "options": ["a"]}`},
		{"new_poll options wrong type", testAdmin, `{"msg": "new_poll", "title": "t", "options": "a"}`},
		{"delete_poll missing poll", testAdmin, `{"msg": "delete_poll"}`},
		{"poll_vote string poll", testAttendee, `{"msg": "poll_vote", "poll": "1", "option": 2}`},
		{"poll_vote missing option", testAttendee, `{"msg": "poll_vote", "poll": 1}`},
		{"new_qa missing text", testAttendee, `{"msg": "new_qa"}`},
		{"qa_vote missing qa", testAttendee, `{"msg": "qa_vote"}`},
		{"qa_comment missing text", testAttendee, `{"msg": "qa_comment", "qa": 1}`},
		{"qa_delete wrong type", testAdmin, `{"msg": "qa_delete", "qa": "one"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDispatcher(newFakeStore())
			msg, broadcast := dispatch(t, d, tt.user, tt.payload)
			if !IsError(msg) || msg["error"] != "type mismatch" {
				t.Errorf("got %v, want type mismatch error", msg)
			}
			if broadcast {
				t.Error("error package must not broadcast")
			}
		})
	}
}

func TestDispatchNewPoll(t *testing.T) {
	store := newFakeStore()
	d := testDispatcher(store)

	msg, broadcast := dispatch(t, d, testAdmin,
		`{"msg": "new_poll", "title": "Lunch?", "description": "pick one", "options": ["Pizza", "Salad"]}`)

	if !broadcast {
		t.Error("new_poll result must broadcast")
	}
	if msg["msg"] != "new_poll" {
		t.Errorf(`msg = %v, want "new_poll"`, msg["msg"])
	}
	if msg["id"] != int64(10) || msg["title"] != "Lunch?" || msg["hidden"] != false {
		t.Errorf("new_poll package = %v", msg)
	}

	// Options serialize as [text, id] pairs on the wire
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var wire struct {
		Options [][2]any `json:"options"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal options: %v", err)
	}
	if len(wire.Options) != 2 || wire.Options[0][0] != "Pizza" || wire.Options[0][1] != float64(1) {
		t.Errorf("wire options = %v", wire.Options)
	}
}

func TestDispatchPollVote(t *testing.T) {
	store := newFakeStore()
	d := testDispatcher(store)

	msg, broadcast := dispatch(t, d, testAttendee, `{"msg": "poll_vote", "poll": 5, "option": 9}`)

	if !broadcast {
		t.Error("poll_vote result must broadcast")
	}
	if msg["msg"] != "poll_vote" || msg["poll"] != int64(5) || msg["option"] != int64(9) || msg["count"] != int64(1) {
		t.Errorf("poll_vote package = %v", msg)
	}
	if len(store.votedOptions) != 1 || store.votedOptions[0] != 9 {
		t.Errorf("store votes = %v", store.votedOptions)
	}
}

func TestDispatchHideShow(t *testing.T) {
	store := newFakeStore()
	d := testDispatcher(store)

	msg, _ := dispatch(t, d, testAdmin, `{"msg": "poll_hide", "poll": 4}`)
	if msg["msg"] != "poll_hide" || msg["poll"] != int64(4) {
		t.Errorf("poll_hide package = %v", msg)
	}
	if !store.hiddenPolls[4] {
		t.Error("poll 4 not hidden")
	}

	msg, _ = dispatch(t, d, testAdmin, `{"msg": "poll_show", "poll": 4}`)
	if msg["msg"] != "poll_show" || msg["poll"] != int64(4) {
		t.Errorf("poll_show package = %v", msg)
	}
	if store.hiddenPolls[4] {
		t.Error("poll 4 still hidden")
	}
}

func TestDispatchQACommands(t *testing.T) {
	store := newFakeStore()
	d := testDispatcher(store)

	msg, broadcast := dispatch(t, d, testAttendee, `{"msg": "new_qa", "text": "Why?"}`)
	if !broadcast || msg["msg"] != "new_qa" || msg["id"] != int64(20) || msg["user"] != "Alan Turing" {
		t.Errorf("new_qa package = %v, broadcast = %v", msg, broadcast)
	}

	msg, _ = dispatch(t, d, testAttendee, `{"msg": "qa_vote", "qa": 20}`)
	if msg["msg"] != "qa_vote" || msg["qa"] != int64(20) || msg["count"] != int64(3) {
		t.Errorf("qa_vote package = %v", msg)
	}

	msg, _ = dispatch(t, d, testAttendee, `{"msg": "qa_comment", "qa": 20, "text": "Because."}`)
	if msg["msg"] != "qa_comment" || msg["qa"] != int64(20) || msg["text"] != "Because." || msg["user"] != "Alan Turing" {
		t.Errorf("qa_comment package = %v", msg)
	}

	msg, _ = dispatch(t, d, testAdmin, `{"msg": "qa_delete", "qa": 20}`)
	if msg["msg"] != "qa_delete" || msg["qa"] != int64(20) {
		t.Errorf("qa_delete package = %v", msg)
	}
	if len(store.deletedQAs) != 1 {
		t.Errorf("deleted QAs = %v", store.deletedQAs)
	}
}

func TestDispatchStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.failWith = errors.New("database on fire")
	d := testDispatcher(store)

	msg, broadcast := dispatch(t, d, testAttendee, `{"msg": "poll_vote", "poll": 1, "option": 2}`)
	if !IsError(msg) || msg["error"] != "database on fire" {
		t.Errorf("got %v, want error package with store message", msg)
	}
	if broadcast {
		t.Error("store failure must not broadcast")
	}
}
