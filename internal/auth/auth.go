// Package auth stores and resolves the session that identifies the current user.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Makepad-fr/tada/internal/model"
)

const credFileName = "credentials.json"

// ErrNotLoggedIn is returned by Require when no session exists.
var ErrNotLoggedIn = errors.New("not logged in: set TADA_USER_ID/TADA_TOKEN or run `todo auth login`")

// Session identifies the user whose todos are shown. Token is optional;
// the public students API only needs the user id.
type Session struct {
	UserID    int        `json:"user_id"`
	Token     string     `json:"token,omitempty"`
	Source    string     `json:"source"`               // "env" | "file"
	CreatedAt time.Time  `json:"created_at"`           // when we saved to file
	ExpiresAt *time.Time `json:"expires_at,omitempty"` // from the JWT exp claim
}

// User returns the session owner, or nil for a nil session.
func (s *Session) User() *model.User {
	if s == nil || s.UserID <= 0 {
		return nil
	}
	return &model.User{ID: s.UserID}
}

// Expired reports whether the token has an exp claim in the past.
func (s *Session) Expired(now time.Time) bool {
	return s != nil && s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

func credsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".tada"), nil
}

func credFilePath() (string, error) {
	dir, err := credsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credFileName), nil
}

// Load resolves the session from the environment first, then from
// ~/.tada/credentials.json. It returns (nil, nil) when neither exists.
func Load() (*Session, error) {
	// 1) env override
	token := stripBearer(strings.TrimSpace(os.Getenv("TADA_TOKEN")))
	uid := strings.TrimSpace(os.Getenv("TADA_USER_ID"))
	if token != "" || uid != "" {
		s := Session{Token: token, Source: "env"}
		if token != "" {
			if c, err := Inspect(token); err == nil {
				s.UserID = c.UserID
				if c.ExpiresAt != nil {
					exp := c.ExpiresAt.Time
					s.ExpiresAt = &exp
				}
			}
		}
		if uid != "" {
			n, err := strconv.Atoi(uid)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("TADA_USER_ID: not a positive number: %q", uid)
			}
			s.UserID = n
		}
		if s.UserID <= 0 {
			return nil, errors.New("TADA_TOKEN carries no userId claim; set TADA_USER_ID")
		}
		return &s, nil
	}

	// 2) file
	p, err := credFilePath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil // not logged in
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	s.Token = stripBearer(s.Token)
	s.Source = "file"
	return &s, nil
}

// Require is Load, but a missing session is ErrNotLoggedIn.
func Require() (*Session, error) {
	s, err := Load()
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNotLoggedIn
	}
	return s, nil
}

// FromCredential builds a session from what the user pasted at login:
// either a bare numeric user id or a JWT carrying a userId claim.
func FromCredential(cred string) (Session, error) {
	cred = stripBearer(strings.TrimSpace(cred))
	if cred == "" {
		return Session{}, errors.New("empty credential")
	}
	if n, err := strconv.Atoi(cred); err == nil {
		if n <= 0 {
			return Session{}, fmt.Errorf("user id must be positive, got %d", n)
		}
		return Session{UserID: n}, nil
	}
	c, err := Inspect(cred)
	if err != nil {
		return Session{}, fmt.Errorf("not a user id or JWT: %w", err)
	}
	if c.UserID <= 0 {
		return Session{}, errors.New("token has no userId claim")
	}
	s := Session{UserID: c.UserID, Token: cred}
	if c.ExpiresAt != nil {
		exp := c.ExpiresAt.Time
		s.ExpiresAt = &exp
	}
	return s, nil
}

// Save writes s to ~/.tada/credentials.json with owner-only permissions.
func Save(s Session) error {
	if s.UserID <= 0 {
		return errors.New("session has no user id")
	}
	dir, err := credsDir()
	if err != nil {
		return err
	}
	// ensure ~/.tada exists with 0700
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	s.Source = "file"
	s.CreatedAt = time.Now()
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	p, _ := credFilePath()
	// write with 0600 (owner-only)
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Delete removes the credentials file. A missing file is not an error.
func Delete() error {
	p, err := credFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
