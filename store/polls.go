// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mthijssen/livevote/models"
)

// AllPolls returns all polls with their options and per-option vote counts,
// newest first.
func (s *Store) AllPolls(ctx context.Context) ([]models.Poll, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, hidden FROM polls ORDER BY created DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	var polls []models.Poll
	for rows.Next() {
		var p models.Poll
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Hidden); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range polls {
		options, err := s.pollOptions(ctx, polls[i].ID)
		if err != nil {
			return nil, err
		}
		polls[i].Options = options

		votes, err := s.pollVoteCounts(ctx, polls[i].ID)
		if err != nil {
			return nil, err
		}
		polls[i].Votes = votes
	}

	return polls, nil
}

func (s *Store) pollOptions(ctx context.Context, pollID int64) ([]models.OptionPair, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text FROM poll_options WHERE poll_id = $1 ORDER BY id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query poll options: %w", err)
	}
	defer rows.Close()

	var options []models.OptionPair
	for rows.Next() {
		var o models.OptionPair
		if err := rows.Scan(&o.ID, &o.Text); err != nil {
			return nil, fmt.Errorf("failed to scan poll option: %w", err)
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

func (s *Store) pollVoteCounts(ctx context.Context, pollID int64) (map[int64]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT option_id, COUNT(*) FROM poll_votes WHERE poll_id = $1 GROUP BY option_id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query poll votes: %w", err)
	}
	defer rows.Close()

	votes := make(map[int64]int64)
	for rows.Next() {
		var option, count int64
		if err := rows.Scan(&option, &count); err != nil {
			return nil, fmt.Errorf("failed to scan poll vote count: %w", err)
		}
		votes[option] = count
	}
	return votes, rows.Err()
}

// CreatePoll inserts a poll and its options, returning the poll with its
// generated option ids.
func (s *Store) CreatePoll(ctx context.Context, title, description string, hidden bool, options []string) (models.Poll, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var pollID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO polls (created, title, description, hidden)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, time.Now().UTC(), title, description, hidden).Scan(&pollID)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to insert poll: %w", err)
	}

	poll := models.Poll{
		ID:          pollID,
		Title:       title,
		Description: description,
		Hidden:      hidden,
		Votes:       map[int64]int64{},
	}
	for _, text := range options {
		var optionID int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO poll_options (poll_id, text) VALUES ($1, $2) RETURNING id
		`, pollID, text).Scan(&optionID)
		if err != nil {
			return models.Poll{}, fmt.Errorf("failed to insert poll option: %w", err)
		}
		poll.Options = append(poll.Options, models.OptionPair{Text: text, ID: optionID})
	}

	if err := tx.Commit(); err != nil {
		return models.Poll{}, fmt.Errorf("failed to commit poll: %w", err)
	}
	return poll, nil
}

// DeletePoll removes a poll; its options and votes cascade.
func (s *Store) DeletePoll(ctx context.Context, pollID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, pollID)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPollHidden toggles a poll's visibility flag.
func (s *Store) SetPollHidden(ctx context.Context, pollID int64, hidden bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE polls SET hidden = $1 WHERE id = $2`, hidden, pollID)
	if err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// TogglePollVote adds the user's vote for the option, or removes it if the
// same vote already exists. Returns the resulting vote count for the option.
func (s *Store) TogglePollVote(ctx context.Context, userID, pollID, optionID int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var voteID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM poll_votes WHERE user_id = $1 AND option_id = $2
	`, userID, optionID).Scan(&voteID)
	switch {
	case err == sql.ErrNoRows:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_votes (poll_id, option_id, user_id) VALUES ($1, $2, $3)
		`, pollID, optionID, userID)
		if err != nil {
			return 0, fmt.Errorf("failed to insert poll vote: %w", err)
		}
	case err != nil:
		return 0, fmt.Errorf("failed to query poll vote: %w", err)
	default:
		if _, err := tx.ExecContext(ctx, `DELETE FROM poll_votes WHERE id = $1`, voteID); err != nil {
			return 0, fmt.Errorf("failed to delete poll vote: %w", err)
		}
	}

	var count int64
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM poll_votes WHERE poll_id = $1 AND option_id = $2
	`, pollID, optionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count poll votes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit poll vote: %w", err)
	}
	return count, nil
}
