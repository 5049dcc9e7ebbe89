// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mthijssen/livevote/auth"
	"github.com/mthijssen/livevote/cliparse"
	"github.com/mthijssen/livevote/db"
	"github.com/mthijssen/livevote/models"
)

// SetupTestDB creates a fresh sqlite database with the full schema.
// Each test gets its own database file in a temp directory.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "livevote_test.db")
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// One connection so the pragma holds for every statement
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:               8421,
		DatabaseType:       "sqlite",
		APISecret:          "test-api-secret",
		TokenExpireMinutes: 60,
	}
}

// CreateTestUser inserts a user with the given role and returns it
func CreateTestUser(t *testing.T, conn *sql.DB, id int64, firstName, lastName, role string) models.User {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO users (id, created, first_name, last_name, role)
		VALUES ($1, $2, $3, $4, $5)
	`, id, time.Now().UTC(), firstName, lastName, role)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return models.User{ID: id, FirstName: firstName, LastName: lastName, Role: role}
}

// CreateTestPoll inserts a poll with the given option texts and returns the
// poll ID and the generated option IDs, in order.
func CreateTestPoll(t *testing.T, conn *sql.DB, title string, options ...string) (int64, []int64) {
	t.Helper()

	var pollID int64
	err := conn.QueryRow(`
		INSERT INTO polls (created, title, description, hidden)
		VALUES ($1, $2, '', FALSE)
		RETURNING id
	`, time.Now().UTC(), title).Scan(&pollID)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	var optionIDs []int64
	for _, text := range options {
		var optionID int64
		err := conn.QueryRow(`
			INSERT INTO poll_options (poll_id, text) VALUES ($1, $2) RETURNING id
		`, pollID, text).Scan(&optionID)
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
		optionIDs = append(optionIDs, optionID)
	}

	return pollID, optionIDs
}

// CreateTestQuestion inserts a Q&A entry authored by the user and returns its ID
func CreateTestQuestion(t *testing.T, conn *sql.DB, userID int64, text string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO questions (created, text, user_id) VALUES ($1, $2, $3) RETURNING id
	`, time.Now().UTC(), text, userID).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	return id
}

// MintTestToken creates a valid bearer token for the user
func MintTestToken(t *testing.T, cfg cliparse.Config, user models.User) string {
	t.Helper()

	token, err := auth.CreateAccessToken(user, cfg.APISecret, time.Duration(cfg.TokenExpireMinutes)*time.Minute)
	if err != nil {
		t.Fatalf("Failed to mint test token: %v", err)
	}
	return token
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
