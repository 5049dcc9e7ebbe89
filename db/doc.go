// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: participants, keyed by the identity provider's subject id
  - polls: poll metadata (title, description, hidden flag)
  - poll_options: options per poll
  - poll_votes: one row per (user, option) vote
  - questions: Q&A entries
  - question_votes: one row per (user, question) vote
  - question_comments: responses on a question

# Relationships

	polls 1──* poll_options
	polls 1──* poll_votes
	questions 1──* question_votes
	questions 1──* question_comments

Deleting a poll or question cascades to its options, votes, and comments.
The UNIQUE constraints on poll_votes(user_id, option_id) and
question_votes(user_id, question_id) are what make vote toggling a pure
insert-or-delete.
*/
package db
