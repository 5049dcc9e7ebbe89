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

// AllDiscussions returns all Q&A entries with author names, vote counts,
// and comments, newest first.
func (s *Store) AllDiscussions(ctx context.Context) ([]models.Discussion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT q.id, q.text, u.first_name || ' ' || u.last_name,
		       (SELECT COUNT(*) FROM question_votes v WHERE v.question_id = q.id)
		FROM questions q
		JOIN users u ON u.id = q.user_id
		ORDER BY q.created DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query discussions: %w", err)
	}
	defer rows.Close()

	var discussions []models.Discussion
	for rows.Next() {
		var d models.Discussion
		if err := rows.Scan(&d.ID, &d.Text, &d.User, &d.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan discussion: %w", err)
		}
		discussions = append(discussions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range discussions {
		comments, err := s.questionComments(ctx, discussions[i].ID)
		if err != nil {
			return nil, err
		}
		discussions[i].Comments = comments
	}

	return discussions, nil
}

func (s *Store) questionComments(ctx context.Context, questionID int64) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.text, u.first_name || ' ' || u.last_name
		FROM question_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.question_id = $1
		ORDER BY c.created DESC
	`, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.User); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CreateDiscussion inserts a Q&A entry authored by the user.
func (s *Store) CreateDiscussion(ctx context.Context, user models.User, text string) (models.Discussion, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO questions (created, text, user_id) VALUES ($1, $2, $3) RETURNING id
	`, time.Now().UTC(), text, user.ID).Scan(&id)
	if err != nil {
		return models.Discussion{}, fmt.Errorf("failed to insert discussion: %w", err)
	}

	return models.Discussion{
		ID:   id,
		Text: text,
		User: user.Name(),
	}, nil
}

// ToggleQuestionVote adds the user's vote on a question, or removes it if
// already present. A user holds at most one vote per question. Returns the
// resulting vote count.
func (s *Store) ToggleQuestionVote(ctx context.Context, userID, questionID int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var voteID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM question_votes WHERE user_id = $1 AND question_id = $2
	`, userID, questionID).Scan(&voteID)
	switch {
	case err == sql.ErrNoRows:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO question_votes (question_id, user_id) VALUES ($1, $2)
		`, questionID, userID)
		if err != nil {
			return 0, fmt.Errorf("failed to insert question vote: %w", err)
		}
	case err != nil:
		return 0, fmt.Errorf("failed to query question vote: %w", err)
	default:
		if _, err := tx.ExecContext(ctx, `DELETE FROM question_votes WHERE id = $1`, voteID); err != nil {
			return 0, fmt.Errorf("failed to delete question vote: %w", err)
		}
	}

	var count int64
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM question_votes WHERE question_id = $1
	`, questionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count question votes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit question vote: %w", err)
	}
	return count, nil
}

// CreateComment appends a comment to a question.
func (s *Store) CreateComment(ctx context.Context, user models.User, questionID int64, text string) (models.Comment, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO question_comments (created, text, question_id, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, time.Now().UTC(), text, questionID, user.ID).Scan(&id)
	if err != nil {
		return models.Comment{}, fmt.Errorf("failed to insert comment: %w", err)
	}

	return models.Comment{
		ID:   id,
		Text: text,
		User: user.Name(),
	}, nil
}

// DeleteQuestion removes a question; its comments and votes cascade.
func (s *Store) DeleteQuestion(ctx context.Context, questionID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, questionID)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
