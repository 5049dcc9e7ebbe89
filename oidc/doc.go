// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package oidc is the client for the external OpenID Connect identity provider.

It covers exactly what the login flow needs:

  - AuthorizeURL: where to send the browser
  - Token: authorization-code exchange
  - User: profile retrieval with the provider access token

The base URL is configurable so tests can point the client at a stub server.
*/
package oidc
