// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mthijssen/livevote/models"
	"github.com/mthijssen/livevote/store"
	"github.com/mthijssen/livevote/testutil"
)

func TestGetState(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	st := store.New(conn)
	ctx := context.Background()
	cfg := testutil.GetTestConfig()

	user := testutil.CreateTestUser(t, conn, 1, "Ada", "Lovelace", models.RoleUser)
	pollID, optionIDs := testutil.CreateTestPoll(t, conn, "Lunch?", "Pizza", "Salad")
	if _, err := st.TogglePollVote(ctx, user.ID, pollID, optionIDs[0]); err != nil {
		t.Fatalf("TogglePollVote() error = %v", err)
	}
	questionID := testutil.CreateTestQuestion(t, conn, user.ID, "Why?")
	if _, err := st.CreateComment(ctx, user, questionID, "Because."); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}

	h := NewStateHandler(st, cfg)
	token := testutil.MintTestToken(t, cfg, user)

	req := testutil.MakeRequest("GET", "/state", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	w := httptest.NewRecorder()
	h.GetState(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var state models.State
	testutil.AssertJSON(t, w, &state)

	if len(state.Polls) != 1 {
		t.Fatalf("state has %d polls, want 1", len(state.Polls))
	}
	poll := state.Polls[0]
	if poll.Title != "Lunch?" || len(poll.Options) != 2 {
		t.Errorf("poll = %+v", poll)
	}
	if poll.Votes[optionIDs[0]] != 1 {
		t.Errorf("votes = %v, want 1 on option %d", poll.Votes, optionIDs[0])
	}

	if len(state.QAs) != 1 {
		t.Fatalf("state has %d discussions, want 1", len(state.QAs))
	}
	qa := state.QAs[0]
	if qa.Text != "Why?" || qa.User != "Ada Lovelace" {
		t.Errorf("discussion = %+v", qa)
	}
	if len(qa.Comments) != 1 || qa.Comments[0].Text != "Because." {
		t.Errorf("comments = %+v", qa.Comments)
	}
}

func TestGetStateEmpty(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	st := store.New(conn)
	cfg := testutil.GetTestConfig()

	user := testutil.CreateTestUser(t, conn, 1, "Ada", "Lovelace", models.RoleUser)
	h := NewStateHandler(st, cfg)
	token := testutil.MintTestToken(t, cfg, user)

	req := testutil.MakeRequest("GET", "/state", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	w := httptest.NewRecorder()
	h.GetState(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var state models.State
	testutil.AssertJSON(t, w, &state)
	if len(state.Polls) != 0 || len(state.QAs) != 0 {
		t.Errorf("state = %+v, want empty", state)
	}
}

func TestGetStateRequiresToken(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	h := NewStateHandler(store.New(conn), testutil.GetTestConfig())

	req := testutil.MakeRequest("GET", "/state", nil, nil)
	w := httptest.NewRecorder()
	h.GetState(w, req)

	testutil.AssertStatus(t, w, http.StatusForbidden)
}
