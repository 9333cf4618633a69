// Package auth signs users in through an external identity provider
// (Firebase email/password, or Google, GitHub and Apple over OAuth2) and
// keeps the resulting session in a file next to the config.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EnvToken overrides the stored session with a raw ID token.
const EnvToken = "TODO_ID_TOKEN"

var ErrNotLoggedIn = errors.New("not logged in")

type Session struct {
	Provider     string     `json:"provider"` // password | google | github | apple | env
	UserID       string     `json:"user_id"`
	Email        string     `json:"email,omitempty"`
	DisplayName  string     `json:"display_name,omitempty"`
	PhotoURL     string     `json:"photo_url,omitempty"`
	IDToken      string     `json:"id_token,omitempty"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	Source       string     `json:"source"`     // "env" | "file"
	CreatedAt    time.Time  `json:"created_at"` // when we saved to file
	ExpiresAt    *time.Time `json:"expires_at"` // optional (JWT or provider-supplied)
}

// Expired reports whether the session has a known expiry before now.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

// Name is what the screens greet the user with.
func (s *Session) Name() string {
	switch {
	case s.DisplayName != "":
		return s.DisplayName
	case s.Email != "":
		return s.Email
	}
	return s.UserID
}

// Store persists one Session as JSON with owner-only permissions.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load returns the current session. The env override wins over the file.
// It returns (nil, nil) when nobody is signed in.
func (s *Store) Load() (*Session, error) {
	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
		return sessionFromToken(stripBearer(env)), nil
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	sess.IDToken = stripBearer(sess.IDToken)
	sess.Source = "file"
	return &sess, nil
}

// Save writes sess, creating the directory with 0700 and the file with 0600.
func (s *Store) Save(sess Session) error {
	if sess.UserID == "" && sess.IDToken == "" {
		return fmt.Errorf("empty session")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	sess.Source = "file"
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}
	b, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Delete removes the stored session. Deleting nothing is not an error.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func sessionFromToken(token string) *Session {
	sess := &Session{Provider: "env", IDToken: token, Source: "env"}
	if c, err := ParseClaims(token); err == nil {
		c.apply(sess)
	}
	return sess
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
