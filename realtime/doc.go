// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package realtime implements the websocket connection and broadcast subsystem.

Every connection runs an independent session (SessionHandler): handshake,
credential verification, registration, then one command at a time. A slow
command blocks its own connection's next read, never other connections.

# Handshake

	client -> server   anything parseable ("ready")
	server -> client   {"msg": "auth"}
	client -> server   {"bearer": "<credential>"}
	server -> client   {"msg": "error", "error": "<reason>"} + close on failure

On success all previously registered clients receive
{"msg": "connected", "id": "<uuid>", "name": "<First Last>"} and the new
client joins the registry.

# Registry

Manager owns the authoritative id -> client map. Insert, remove, and
iterate-for-broadcast share one mutex: a client is never broadcast to after
removal and never skipped by a broadcast racing its insertion. Per-client
writes are additionally serialized by a mutex on each Client, since
broadcasts from other sessions and the session's own replies target the same
transport.

# Commands

The dispatcher holds a static name -> (required role, handler) table.
Handlers decode strict per-command argument structs ("type mismatch" on
wrong shapes), call the Store, and return result or error packages; they
never panic and never kill the session. Results are broadcast wrapped as
{"msg": "<command>", ...package}; Forbidden replies and error packages go to
the caller only. "ping" is reserved and answered by the session loop with
{"msg": "pong"}.

# Failure handling

Transport disconnects are normal: silent cleanup plus a "disconnected"
broadcast if the client was registered. Malformed payloads and unknown
commands are reported to the offending client, then the session closes the
same way. Handler failures leave the session alive.
*/
package realtime
