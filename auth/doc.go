// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth mints and verifies API bearer tokens.

Tokens are HS256-signed JWTs carrying the user's identity claims
(id, first_name, last_name, role, image) plus standard iat/exp:

	token, err := auth.CreateAccessToken(user, secret, 12*time.Hour)
	user, err := auth.UserFromToken(token, secret)

UserFromToken is a pure function of the token and the secret; it performs no
I/O and is safe to call from any number of goroutines. It fails with
ErrInvalidToken (bad signature, expired) or ErrMissingClaims (a structurally
valid token minted without identity claims or an expiry).

The identity provider login flow that mints these tokens lives in the
handlers and oidc packages; this package knows nothing about HTTP.
*/
package auth
