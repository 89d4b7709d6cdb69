package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// Sentinel errors
var (
	// ErrTokenNotFound is returned when no session token is stored.
	ErrTokenNotFound = errors.New("session token not found")

	// ErrEmptyToken is returned when trying to save an empty token.
	ErrEmptyToken = errors.New("session token is empty")
)

const stateFile = "session.json"

// State is the on-disk session slot. It holds the bearer token only; the
// user profile is always re-fetched from the backend.
type State struct {
	Version   int       `json:"version"`
	Token     string    `json:"token,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists the session token on the local filesystem.
type Store struct {
	baseDir string
}

// NewStore creates a new token store.
// If baseDir is empty, uses ~/.dewaunited/
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".dewaunited")
	}

	// Create directory with 0700 permissions
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	store := &Store{baseDir: baseDir}

	// Initialize state if it doesn't exist
	if err := store.ensureState(); err != nil {
		return nil, err
	}

	log.Debug().Str("baseDir", baseDir).Msg("token store initialized")

	return store, nil
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string {
	return s.baseDir
}

// Load returns the stored token, or ErrTokenNotFound.
func (s *Store) Load() (string, error) {
	st, err := s.loadState()
	if err != nil {
		return "", err
	}

	if st.Token == "" {
		return "", ErrTokenNotFound
	}

	return st.Token, nil
}

// Save persists token, replacing any previous one.
func (s *Store) Save(token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	st, err := s.loadState()
	if err != nil {
		return err
	}

	st.Token = token
	st.UpdatedAt = time.Now().UTC()

	if err := s.saveState(st); err != nil {
		return err
	}

	log.Debug().Msg("session token saved")

	return nil
}

// Clear removes the stored token. Clearing an empty slot is not an error.
func (s *Store) Clear() error {
	st, err := s.loadState()
	if err != nil {
		return err
	}

	if st.Token == "" {
		return nil
	}

	st.Token = ""
	st.UpdatedAt = time.Now().UTC()

	if err := s.saveState(st); err != nil {
		return err
	}

	log.Debug().Msg("session token cleared")

	return nil
}

// ensureState creates an empty state file if it doesn't exist.
func (s *Store) ensureState() error {
	statePath := filepath.Join(s.baseDir, stateFile)

	if _, err := os.Stat(statePath); err == nil {
		return nil
	}

	return s.saveState(&State{Version: 1, UpdatedAt: time.Now().UTC()})
}

// loadState reads the state file.
func (s *Store) loadState() (*State, error) {
	statePath := filepath.Join(s.baseDir, stateFile)

	data, err := os.ReadFile(statePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}

	return &st, nil
}

// saveState writes the state file atomically.
func (s *Store) saveState(st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// Write to temp file first
	statePath := filepath.Join(s.baseDir, stateFile)
	tempPath := statePath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, statePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save state: %w", err)
	}

	return nil
}
