// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP plumbing shared by all handlers.

  - WithLogging: request start/completion logging via slog
  - JSONResponse / ErrorResponse: JSON response writers
  - ParseJSONBody: request body decoding
  - CurrentUser: bearer-token authentication for HTTP endpoints
  - CORS: cross-origin headers and preflight handling

CurrentUser expects "Authorization: Bearer <token>" and delegates token
verification to the auth package. The realtime endpoint does not use it;
websocket clients authenticate inside the connection handshake instead.
*/
package middleware
