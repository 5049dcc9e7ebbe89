// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment variables.

CLI flags take precedence over environment variables:

	livevote -p 8421 -d livevote.db -t sqlite

Required settings:

  - API_SECRET (-api-secret): secret for signing bearer tokens

Optional settings:

  - PORT (-p): server port (default: 8421)
  - DATABASE_URL (-d): sqlite path or postgres connection string
    (default: livevote.db)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - TOKEN_EXPIRE_MINUTES (-token-expire): bearer token lifetime
    (default: 720)
  - OIDC_BASE_URL, OIDC_CLIENT_ID, OIDC_CLIENT_SECRET: external identity
    provider; only the login flow needs these

Maintenance:

	livevote -promote 12345

promotes the given user to admin and exits without starting the server.
*/
package cliparse
