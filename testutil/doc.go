// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package testutil provides helpers for tests: per-test sqlite databases with
the full schema, fixture creation (users, polls, questions), bearer token
minting, and HTTP request/response assertion helpers.

Tests run entirely against sqlite files in t.TempDir(), so no external
services are needed.
*/
package testutil
