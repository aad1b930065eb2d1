package portfolio

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Service implements portfolio CRUD on top of the store.
// Tickers are unique within the portfolio; the service enforces it.
type Service struct {
	store *Store
	log   zerolog.Logger
}

// NewService creates a new portfolio service
func NewService(store *Store, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		log:   log.With().Str("service", "portfolio").Logger(),
	}
}

// List returns all positions
func (s *Service) List() ([]Position, error) {
	return s.store.Load()
}

// Get returns the position for a ticker, or nil when not held
func (s *Service) Get(ticker string) (*Position, error) {
	positions, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	for _, pos := range positions {
		if pos.Ticker == ticker {
			p := pos
			return &p, nil
		}
	}

	return nil, nil
}

// Add appends a new position
func (s *Service) Add(pos Position) error {
	if err := pos.Validate(); err != nil {
		return err
	}

	err := s.store.Replace(func(positions []Position) ([]Position, error) {
		for _, existing := range positions {
			if existing.Ticker == pos.Ticker {
				return nil, fmt.Errorf("ticker %s already exists in portfolio", pos.Ticker)
			}
		}
		return append(positions, pos), nil
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("ticker", pos.Ticker).Msg("Added position")
	return nil
}

// Update replaces the position identified by ticker
func (s *Service) Update(ticker string, updated Position) error {
	if err := updated.Validate(); err != nil {
		return err
	}

	err := s.store.Replace(func(positions []Position) ([]Position, error) {
		idx := -1
		for i, existing := range positions {
			if existing.Ticker == ticker {
				idx = i
				continue
			}
			if existing.Ticker == updated.Ticker {
				return nil, fmt.Errorf("ticker %s already exists in portfolio", updated.Ticker)
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("ticker %s not found in portfolio", ticker)
		}

		positions[idx] = updated
		return positions, nil
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("ticker", ticker).Msg("Updated position")
	return nil
}

// Remove deletes the position identified by ticker
func (s *Service) Remove(ticker string) error {
	err := s.store.Replace(func(positions []Position) ([]Position, error) {
		for i, existing := range positions {
			if existing.Ticker == ticker {
				return append(positions[:i], positions[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("ticker %s not found in portfolio", ticker)
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("ticker", ticker).Msg("Removed position")
	return nil
}

// SetManualPrice sets the manual price override for a ticker.
// The stored position is replaced with a new value.
func (s *Service) SetManualPrice(ticker string, price float64) error {
	if price <= 0 {
		return fmt.Errorf("manual price must be positive, got %f", price)
	}

	err := s.store.Replace(func(positions []Position) ([]Position, error) {
		for i, existing := range positions {
			if existing.Ticker == ticker {
				positions[i] = existing.WithManualPrice(price)
				return positions, nil
			}
		}
		return nil, fmt.Errorf("ticker %s not found in portfolio", ticker)
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("ticker", ticker).Float64("price", price).Msg("Set manual price")
	return nil
}

// ClearManualPrice removes the manual price override for a ticker
func (s *Service) ClearManualPrice(ticker string) error {
	err := s.store.Replace(func(positions []Position) ([]Position, error) {
		for i, existing := range positions {
			if existing.Ticker == ticker {
				positions[i] = existing.WithoutManualPrice()
				return positions, nil
			}
		}
		return nil, fmt.Errorf("ticker %s not found in portfolio", ticker)
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("ticker", ticker).Msg("Cleared manual price")
	return nil
}

// Import replaces the whole portfolio with positions read from CSV.
// Duplicate tickers in the file are rejected.
func (s *Service) Import(positions []Position) error {
	seen := make(map[string]bool, len(positions))
	for _, pos := range positions {
		if seen[pos.Ticker] {
			return fmt.Errorf("duplicate ticker %s in import", pos.Ticker)
		}
		seen[pos.Ticker] = true
	}

	if err := s.store.Save(positions); err != nil {
		return err
	}

	s.log.Info().Int("positions", len(positions)).Msg("Imported portfolio")
	return nil
}
