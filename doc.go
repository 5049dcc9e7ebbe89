// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the livevote server.

Livevote is a live-polling and Q&A service for events: participants log in
through an external identity provider, then join a websocket channel to
create polls, vote, and discuss, with every change broadcast to all
connected clients.

# Starting the Server

The server reads environment variables (optionally from a .env file) or CLI
flags:

	API_SECRET=... go run .

Or with flags:

	go run . -p 8421 -d livevote.db -t sqlite -api-secret ...

# Configuration

Required settings:

  - API_SECRET (-api-secret): secret for signing bearer tokens

Optional settings:

  - PORT (-p): server port (default: 8421)
  - DATABASE_URL (-d): sqlite path or postgres connection string
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - TOKEN_EXPIRE_MINUTES (-token-expire): bearer token lifetime
  - OIDC_BASE_URL / OIDC_CLIENT_ID / OIDC_CLIENT_SECRET: identity provider

# Architecture

The server uses a handler-based architecture with dependency injection:

  - realtime: websocket registry, command dispatch, session loop (the core)
  - handlers: HTTP request handlers (login flow, state snapshot)
  - router: route definitions using Go 1.22+ routing
  - middleware: logging, JSON helpers, CORS, bearer auth
  - models: domain and wire types
  - auth: bearer token minting and verification
  - oidc: identity provider client
  - store: data access for users, polls, discussions
  - db: schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
