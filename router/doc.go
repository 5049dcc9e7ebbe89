// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines all routes using Go 1.22+ method routing.

	GET  /health       liveness check
	GET  /auth/login   redirect to the identity provider
	POST /auth/token   authorization-code exchange
	GET  /auth/me      current user
	GET  /state        polls + discussions snapshot
	GET  /ws           realtime websocket channel

NewRouter also wires the realtime subsystem: the registry, the command
dispatcher, and the session handler, with bearer-token verification shared
with the HTTP endpoints.
*/
package router
