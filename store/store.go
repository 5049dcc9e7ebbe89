// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mthijssen/livevote/models"
)

// ErrNotFound is returned by lookups for rows that do not exist.
var ErrNotFound = errors.New("not found")

// Store provides all database operations on users, polls, and discussions.
// Methods are safe for concurrent use; database/sql handles pooling.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Users

// UserBySubject retrieves a user by the identity provider's subject id.
func (s *Store) UserBySubject(ctx context.Context, subject int64) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, role, image FROM users WHERE id = $1
	`, subject).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Role, &u.Image)
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// CreateUser inserts a user with the "user" role.
func (s *Store) CreateUser(ctx context.Context, subject int64, firstName, lastName string, image *string) (models.User, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, created, first_name, last_name, role, image)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, subject, time.Now().UTC(), firstName, lastName, models.RoleUser, image)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return models.User{
		ID:        subject,
		FirstName: firstName,
		LastName:  lastName,
		Role:      models.RoleUser,
		Image:     image,
	}, nil
}

// Promote changes a user's role from user to admin.
// The new role applies from the user's next login.
func (s *Store) Promote(ctx context.Context, uid int64) (models.User, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET role = $1 WHERE id = $2`, models.RoleAdmin, uid)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to promote user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.User{}, ErrNotFound
	}
	return s.UserBySubject(ctx, uid)
}

// ListUsers returns all users, oldest first.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, role, image FROM users ORDER BY created
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Role, &u.Image); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
