// Package profile persists the per-user name and preferences record.
// The record is a small JSON file loaded once at startup and written
// back after every mutation.
package profile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// DefaultFileName is the profile file name inside the data directory.
const DefaultFileName = "noah_data.json"

// Profile is the persisted user record.
type Profile struct {
	Name        string         `json:"name"`
	Preferences map[string]any `json:"preferences"`
	// ConversationHistory is carried for compatibility with older
	// profile files; the router does not read it.
	ConversationHistory []json.RawMessage `json:"conversation_history"`
}

// Store loads and saves the profile file.
type Store struct {
	path        string
	defaultName string
	logger      *slog.Logger
}

// NewStore creates a Store for the given file path. defaultName is
// used when no profile file exists yet.
func NewStore(path, defaultName string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, defaultName: defaultName, logger: logger}
}

// Load reads the profile from disk. A missing or unreadable file
// yields a fresh default profile rather than an error; the first
// Save will create the file.
func (s *Store) Load() *Profile {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("profile read failed, using defaults", "path", s.path, "error", err)
		}
		return s.defaultProfile()
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Warn("profile parse failed, using defaults", "path", s.path, "error", err)
		return s.defaultProfile()
	}
	if p.Name == "" {
		p.Name = s.defaultName
	}
	if p.Preferences == nil {
		p.Preferences = map[string]any{}
	}

	s.logger.Info("profile loaded", "name", p.Name, "path", s.path)
	return &p
}

// Save writes the profile to disk, creating parent directories as
// needed. The write goes through a temp file and rename so a crash
// mid-write cannot truncate the existing profile.
func (s *Store) Save(p *Profile) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create profile dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace profile: %w", err)
	}

	s.logger.Debug("profile saved", "path", s.path)
	return nil
}

func (s *Store) defaultProfile() *Profile {
	return &Profile{
		Name:        s.defaultName,
		Preferences: map[string]any{},
	}
}
