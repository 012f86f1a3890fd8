// Package session manages the persisted credential store used by the CLI.
// It replaces the ambient local-storage token reads of the web client with an
// explicit store that is injected into the API client as a token source.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BenjaminR-PM/nexopeak-cli/internal/types"
)

// ErrNotLoggedIn is returned when no credentials have been saved.
var ErrNotLoggedIn = errors.New("not logged in: run `nexopeak login` first")

// ErrTokenExpired is returned when the stored access token is past its
// expiry claim. The user must log in again.
var ErrTokenExpired = errors.New("stored access token has expired: run `nexopeak login` again")

// envTokenFile overrides the default credentials location.
const envTokenFile = "NEXOPEAK_TOKEN_FILE"

// Store persists credentials to a file and serves the bearer token to the
// API client. It is safe for concurrent use.
type Store struct {
	path string

	mu    sync.Mutex
	creds *types.Credentials
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath resolves the credentials file location: NEXOPEAK_TOKEN_FILE if
// set, otherwise ~/.config/nexopeak/credentials.json.
func DefaultPath() (string, error) {
	if p := os.Getenv(envTokenFile); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "nexopeak", "credentials.json"), nil
}

// Save writes credentials to disk with owner-only permissions.
func (s *Store) Save(creds types.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if creds.SavedAt.IsZero() {
		creds.SavedAt = time.Now().UTC()
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(&creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	s.creds = &creds
	return nil
}

// Load reads credentials from disk, caching them for subsequent Token calls.
func (s *Store) Load() (*types.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() (*types.Credentials, error) {
	if s.creds != nil {
		return s.creds, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds types.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", s.path, err)
	}
	if creds.AccessToken == "" {
		return nil, ErrNotLoggedIn
	}

	s.creds = &creds
	return s.creds, nil
}

// Token returns the stored bearer token. It implements api.TokenSource.
// Tokens with an expiry claim in the past are rejected before any network
// call is made.
func (s *Store) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.loadLocked()
	if err != nil {
		return "", err
	}

	if exp, err := TokenExpiry(creds.AccessToken); err == nil && !exp.IsZero() && time.Now().After(exp) {
		return "", ErrTokenExpired
	}

	return creds.AccessToken, nil
}

// Clear removes the stored credentials. The API client calls this through
// its OnUnauthorized hook when the backend rejects the token, the CLI analog
// of clearing local storage and redirecting to login.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials file: %w", err)
	}
	return nil
}

// TokenExpiry extracts the expiry claim from a JWT without verifying its
// signature. Verification is the backend's job; the client only uses the
// claim to fail fast on obviously stale tokens. Opaque (non-JWT) tokens
// return an error and are passed through as-is by callers.
func TokenExpiry(token string) (time.Time, error) {
	parser := jwt.NewParser()
	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse token: %w", err)
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}
