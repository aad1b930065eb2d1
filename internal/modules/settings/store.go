package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Store persists settings as JSON. A missing or unreadable file yields the
// defaults so the application always starts.
type Store struct {
	path string
	mu   sync.RWMutex
	log  zerolog.Logger
}

// NewStore creates a new settings store
func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{
		path: path,
		log:  log.With().Str("component", "settings_store").Logger(),
	}
}

// Load reads settings from disk, falling back to defaults
func (s *Store) Load() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Error().Err(err).Str("path", s.path).Msg("Error reading settings, using defaults")
		}
		return Default()
	}

	loaded := Default()
	if err := json.Unmarshal(data, &loaded); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("Invalid settings file, using defaults")
		return Default()
	}

	if err := loaded.Validate(); err != nil {
		s.log.Error().Err(err).Msg("Settings failed validation, using defaults")
		return Default()
	}

	return loaded
}

// Save writes settings to disk
func (s *Store) Save(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	s.log.Info().Str("path", s.path).Msg("Settings saved")
	return nil
}
