// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store provides data access for users, polls, and discussions.

All operations go through a Store wrapping *sql.DB, take a context, and
return plain structs or wrapped errors. Lookups of missing rows return
ErrNotFound.

# Vote Toggling

TogglePollVote and ToggleQuestionVote implement the toggle semantics used by
the realtime commands: if the (user, target) vote row exists it is deleted,
otherwise it is inserted, and the resulting count is returned. The check and
the mutation run in one transaction, and the UNIQUE constraints in the schema
back the one-vote-per-user rule.

# Cascades

DeletePoll and DeleteQuestion rely on ON DELETE CASCADE to remove dependent
options, votes, and comments. SQLite needs foreign keys switched on per
connection (PRAGMA foreign_keys = ON); main and testutil both do this.
*/
package store
