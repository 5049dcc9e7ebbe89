// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Users. The id is the subject identifier from the identity provider,
-- not a locally generated value.
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY,
    created TIMESTAMP NOT NULL,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
    active TIMESTAMP,
    image TEXT
);

-- Polls
CREATE TABLE IF NOT EXISTS polls (
    id INTEGER PRIMARY KEY,
    created TIMESTAMP NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    hidden BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS poll_options (
    id INTEGER PRIMARY KEY,
    poll_id INTEGER NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    text TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_poll_options_poll_id ON poll_options(poll_id);

-- One vote per user per poll option; voting again removes the vote.
CREATE TABLE IF NOT EXISTS poll_votes (
    id INTEGER PRIMARY KEY,
    poll_id INTEGER NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    option_id INTEGER NOT NULL REFERENCES poll_options(id) ON DELETE CASCADE,
    user_id INTEGER NOT NULL REFERENCES users(id),
    UNIQUE (user_id, option_id)
);

CREATE INDEX IF NOT EXISTS idx_poll_votes_option_id ON poll_votes(poll_id, option_id);

-- Q&A
CREATE TABLE IF NOT EXISTS questions (
    id INTEGER PRIMARY KEY,
    created TIMESTAMP NOT NULL,
    text TEXT NOT NULL,
    user_id INTEGER NOT NULL REFERENCES users(id)
);

-- One vote per user per question; voting again removes the vote.
CREATE TABLE IF NOT EXISTS question_votes (
    id INTEGER PRIMARY KEY,
    question_id INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
    user_id INTEGER NOT NULL REFERENCES users(id),
    UNIQUE (user_id, question_id)
);

CREATE INDEX IF NOT EXISTS idx_question_votes_question_id ON question_votes(question_id);

CREATE TABLE IF NOT EXISTS question_comments (
    id INTEGER PRIMARY KEY,
    created TIMESTAMP NOT NULL,
    text TEXT NOT NULL,
    question_id INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
    user_id INTEGER NOT NULL REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_question_comments_question_id ON question_comments(question_id);
`
