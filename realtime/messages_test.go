// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"errors"
	"testing"

	"github.com/mthijssen/livevote/models"
)

func TestConnectedMessage(t *testing.T) {
	client := newClient(nil, models.User{ID: 1, FirstName: "Ada", LastName: "Lovelace", Role: models.RoleUser})

	msg := Connected(client)
	if msg["msg"] != "connected" {
		t.Errorf(`msg = %v, want "connected"`, msg["msg"])
	}
	if msg["id"] != client.ID {
		t.Errorf("id = %v, want %q", msg["id"], client.ID)
	}
	if msg["name"] != "Ada Lovelace" {
		t.Errorf(`name = %v, want "Ada Lovelace"`, msg["name"])
	}
}

func TestResponseTagsPackage(t *testing.T) {
	pkg := Message{"poll": int64(3), "count": int64(2)}

	msg := Response("poll_vote", pkg)
	if msg["msg"] != "poll_vote" {
		t.Errorf(`msg = %v, want "poll_vote"`, msg["msg"])
	}
	if msg["poll"] != int64(3) || msg["count"] != int64(2) {
		t.Errorf("package fields lost: %v", msg)
	}
	// The input package must not be mutated
	if _, ok := pkg["msg"]; ok {
		t.Error("Response() mutated its input package")
	}
}

func TestResponseKindWins(t *testing.T) {
	// A "msg" key smuggled inside the package never overrides the kind
	msg := Response("new_qa", Message{"msg": "error", "id": int64(1)})
	if msg["msg"] != "new_qa" {
		t.Errorf(`msg = %v, want "new_qa"`, msg["msg"])
	}
}

func TestIsError(t *testing.T) {
	if !IsError(ErrorMessage("boom")) {
		t.Error("IsError(ErrorMessage) = false")
	}
	if IsError(Pong()) {
		t.Error("IsError(Pong) = true")
	}
	if IsError(Message{"msg": "poll_vote"}) {
		t.Error("IsError(result package) = true")
	}
}

func TestDecodeCommand(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    string
		wantErr error
	}{
		{"simple command", `{"msg": "ping"}`, "ping", nil},
		{"command with args", `{"msg": "poll_vote", "poll": 1, "option": 2}`, "poll_vote", nil},
		{"not json", `{nope`, "", ErrMalformedPayload},
		{"missing msg", `{"poll": 1}`, "", ErrMissingCommand},
		{"empty msg", `{"msg": ""}`, "", ErrMissingCommand},
		{"null msg", `{"msg": null}`, "", ErrMissingCommand},
		{"non-string msg", `{"msg": 7}`, "", ErrMalformedPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCommand([]byte(tt.data))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeCommand() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeCommand() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeCommand() = %q, want %q", got, tt.want)
			}
		})
	}
}
