package marketdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// PriceCache persists last-known prices so valuations keep working offline.
// Read errors degrade to an empty cache instead of failing the caller.
type PriceCache struct {
	path string
	mu   sync.RWMutex
	log  zerolog.Logger
}

// NewPriceCache creates a new price cache
func NewPriceCache(path string, log zerolog.Logger) *PriceCache {
	return &PriceCache{
		path: path,
		log:  log.With().Str("component", "price_cache").Logger(),
	}
}

// Load reads all cached prices
func (c *PriceCache) Load() map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.loadLocked()
}

// Get returns the cached price for a ticker, or nil when unknown
func (c *PriceCache) Get(ticker string) *float64 {
	prices := c.Load()
	if price, ok := prices[ticker]; ok {
		return &price
	}
	return nil
}

// Save replaces the whole cache
func (c *PriceCache) Save(prices map[string]float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.saveLocked(prices)
}

// Update stores a single price
func (c *PriceCache) Update(ticker string, price float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prices := c.loadLocked()
	prices[ticker] = price
	return c.saveLocked(prices)
}

func (c *PriceCache) loadLocked() map[string]float64 {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.log.Error().Err(err).Str("path", c.path).Msg("Error reading price cache")
		}
		return map[string]float64{}
	}

	var doc cacheDocument
	if err := json.Unmarshal(data, &doc); err == nil && doc.Prices != nil {
		return doc.Prices
	}

	// Legacy format: a flat {ticker: price} object
	var flat map[string]float64
	if err := json.Unmarshal(data, &flat); err == nil && flat != nil {
		return flat
	}

	c.log.Error().Str("path", c.path).Msg("Invalid JSON in price cache, ignoring")
	return map[string]float64{}
}

func (c *PriceCache) saveLocked(prices map[string]float64) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(cacheDocument{Prices: prices}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode price cache: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write price cache: %w", err)
	}

	c.log.Debug().Int("tickers", len(prices)).Msg("Price cache saved")
	return nil
}
