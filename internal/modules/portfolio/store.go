package portfolio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Store persists the portfolio as a JSON document on disk.
// A missing file is an empty portfolio, not an error.
type Store struct {
	path string
	mu   sync.RWMutex
	log  zerolog.Logger
}

// NewStore creates a new portfolio store
func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{
		path: path,
		log:  log.With().Str("component", "portfolio_store").Logger(),
	}
}

// Load reads all positions from disk
func (s *Store) Load() ([]Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadLocked()
}

// Save writes all positions to disk
func (s *Store) Save(positions []Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveLocked(positions)
}

// Replace atomically applies fn to the stored positions and persists the result.
// Used by the service so read-modify-write cycles don't race.
func (s *Store) Replace(fn func(positions []Position) ([]Position, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	positions, err := s.loadLocked()
	if err != nil {
		return err
	}

	updated, err := fn(positions)
	if err != nil {
		return err
	}

	return s.saveLocked(updated)
}

func (s *Store) loadLocked() ([]Position, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug().Str("path", s.path).Msg("Portfolio file does not exist, starting empty")
			return []Position{}, nil
		}
		return nil, fmt.Errorf("failed to read portfolio file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio file: %w", err)
	}

	if doc.Positions == nil {
		doc.Positions = []Position{}
	}

	return doc.Positions, nil
}

func (s *Store) saveLocked(positions []Position) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create portfolio directory: %w", err)
	}

	data, err := json.MarshalIndent(document{Positions: positions}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode portfolio: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write portfolio file: %w", err)
	}

	s.log.Info().Str("path", s.path).Int("positions", len(positions)).Msg("Portfolio saved")

	return nil
}
