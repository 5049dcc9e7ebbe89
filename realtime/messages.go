// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message is the envelope exchanged over the realtime channel. Every
// envelope carries a "msg" field naming the command or event kind.
type Message map[string]any

var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrMissingCommand   = errors.New("payload has no msg field")
)

// Connected is the event announcing a newly registered client.
func Connected(client *Client) Message {
	return Message{
		"msg":  "connected",
		"id":   client.ID,
		"name": client.Name(),
	}
}

// Disconnected is the event announcing a client's departure.
func Disconnected(client *Client) Message {
	return Message{"msg": "disconnected", "id": client.ID}
}

// ErrorMessage wraps human-readable error text in an error envelope.
func ErrorMessage(text string) Message {
	return Message{"msg": "error", "error": text}
}

// Pong answers a ping. Sent to the caller only, never broadcast.
func Pong() Message {
	return Message{"msg": "pong"}
}

// Response wraps a command's result package in an envelope tagged with the
// command name. A "msg" key inside the package never overrides the kind.
func Response(kind string, pkg Message) Message {
	msg := make(Message, len(pkg)+1)
	for k, v := range pkg {
		msg[k] = v
	}
	msg["msg"] = kind
	return msg
}

// IsError reports whether a package is an error envelope.
func IsError(msg Message) bool {
	return msg["msg"] == "error"
}

// DecodeCommand extracts the command name from an inbound payload.
// A payload that does not parse, or that lacks a string "msg" field,
// is a protocol error.
func DecodeCommand(data []byte) (string, error) {
	var envelope struct {
		Msg *string `json:"msg"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return "", fmt.Errorf("%w: %s", ErrMalformedPayload, err)
	}
	if envelope.Msg == nil || *envelope.Msg == "" {
		return "", ErrMissingCommand
	}
	return *envelope.Msg, nil
}
