// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain and wire types shared across the API.

# Domain Types

  - User: authenticated participant (id, name, role, optional image)
  - Poll: poll metadata with its options and per-option vote counts
  - OptionPair: a poll option, serialized as a ["text", id] array
  - Discussion: a Q&A entry with votes and comments
  - Comment: a response on a discussion thread
  - State: full snapshot (polls + discussions) served over HTTP

# Auth Types

  - Token: minted access token plus the user it identifies
  - AuthorizationCode: OpenID Connect authorization-code exchange input

# Constants

Roles:

	RoleUser  = "user"
	RoleAdmin = "admin"

Role changes take effect on the next login; a running realtime session keeps
the role it authenticated with.
*/
package models
