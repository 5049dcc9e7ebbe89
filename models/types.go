// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"fmt"
)

// User role constants
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an authenticated participant. The ID is the subject identifier
// assigned by the external identity provider.
type User struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Role      string  `json:"role"`
	Image     *string `json:"image,omitempty"`
}

// Name returns the display name shown to other participants.
func (u User) Name() string {
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Auth types

type Token struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// AuthorizationCode is the result of a login using the OpenID Connect
// authorization code flow.
type AuthorizationCode struct {
	Code     string `json:"code"`
	Redirect string `json:"redirect"`
}

// Poll types

// OptionPair is a poll option serialized as the two-element array
// ["text", id] that clients expect.
type OptionPair struct {
	Text string
	ID   int64
}

func (o OptionPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{o.Text, o.ID})
}

func (o *OptionPair) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("option pair: %w", err)
	}
	if err := json.Unmarshal(pair[0], &o.Text); err != nil {
		return fmt.Errorf("option pair text: %w", err)
	}
	if err := json.Unmarshal(pair[1], &o.ID); err != nil {
		return fmt.Errorf("option pair id: %w", err)
	}
	return nil
}

type Poll struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Hidden      bool            `json:"hidden"`
	Options     []OptionPair    `json:"options"`
	Votes       map[int64]int64 `json:"votes"`
}

// Q&A types

// Comment is a response on a discussion thread.
type Comment struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	User string `json:"user"`
}

// Discussion is a Q&A entry with its vote count and comments.
type Discussion struct {
	ID       int64     `json:"id"`
	Text     string    `json:"text"`
	Votes    int64     `json:"votes"`
	User     string    `json:"user"`
	Comments []Comment `json:"comments"`
}

// State is the full application snapshot served over HTTP.
type State struct {
	Polls []Poll       `json:"polls"`
	QAs   []Discussion `json:"qas"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
