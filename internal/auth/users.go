// Package auth provides user registration, password login and JWT
// session tokens for the dashboard.
package auth

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/imobly/imobly/internal/apperr"
)

// User represents a registered dashboard user. The password hash never
// leaves this package.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

var emailPattern = regexp.MustCompile(`^[\w.+-]+@[\w-]+(\.[\w-]+)+$`)

// UserStore manages users in SQLite.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a user store.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Register creates a user. Username and email are normalized to lower
// case, so uniqueness is case-insensitive. The stored password is a
// bcrypt hash, never the plaintext.
func (s *UserStore) Register(username, email, password, confirm string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" || password == "" || confirm == "" {
		return nil, apperr.Validation("all fields are required")
	}
	if strings.ContainsAny(username, " \t") {
		return nil, apperr.Validation("username must not contain spaces")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperr.Validation("invalid email address")
	}
	if password != confirm {
		return nil, apperr.Validation("passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Storage(err, "hashing password")
	}

	result, err := s.db.Exec(
		"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
		username, email, string(hash),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			if s.usernameExists(username) {
				return nil, apperr.Conflict("username %s is already registered", username)
			}
			return nil, apperr.Conflict("email %s is already registered", email)
		}
		return nil, apperr.Storage(err, "inserting user")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, apperr.Storage(err, "getting user id")
	}

	return s.GetByID(id)
}

// Login verifies the password for a username and returns the user.
func (s *UserStore) Login(username, password string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return nil, apperr.Validation("username and password are required")
	}

	var u User
	var hash string
	err := s.db.QueryRow(
		"SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?",
		username,
	).Scan(&u.ID, &u.Username, &u.Email, &hash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user %s not found", username)
	}
	if err != nil {
		return nil, apperr.Storage(err, "querying user")
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, apperr.Validation("incorrect password")
	}

	return &u, nil
}

// GetByID returns a user by id.
func (s *UserStore) GetByID(id int64) (*User, error) {
	var u User
	err := s.db.QueryRow(
		"SELECT id, username, email, created_at FROM users WHERE id = ?", id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user %d not found", id)
	}
	if err != nil {
		return nil, apperr.Storage(err, "querying user %d", id)
	}
	return &u, nil
}

func (s *UserStore) usernameExists(username string) bool {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", username).Scan(&count); err != nil {
		return false
	}
	return count > 0
}
