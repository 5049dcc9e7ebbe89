// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the stateless HTTP endpoints.

  - AuthHandler: login redirect, authorization-code exchange, /auth/me
  - StateHandler: the /state snapshot clients load before connecting to the
    realtime channel

All live interaction (polls, votes, Q&A) happens over the websocket endpoint
in the realtime package; these handlers only mint credentials and serve
read-only snapshots.
*/
package handlers
