package marketdata

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/avarre/pea-tracker/internal/clients/yahoo"
)

// Service fetches prices with cache fallback and maintains local history
type Service struct {
	client  *yahoo.Client
	cache   *PriceCache
	history *HistoryDB
	log     zerolog.Logger
}

// NewService creates a new market data service
func NewService(client *yahoo.Client, cache *PriceCache, history *HistoryDB, log zerolog.Logger) *Service {
	return &Service{
		client:  client,
		cache:   cache,
		history: history,
		log:     log.With().Str("service", "marketdata").Logger(),
	}
}

// FetchPrice fetches the current price for a ticker, falling back to the
// cached value when the fetch fails. Successful fetches update the cache.
// Returns nil when no price is available from either source.
func (s *Service) FetchPrice(ticker string) *float64 {
	price, err := s.client.GetCurrentPrice(ticker, 3)
	if err == nil && price != nil {
		if cacheErr := s.cache.Update(ticker, *price); cacheErr != nil {
			s.log.Error().Err(cacheErr).Str("ticker", ticker).Msg("Failed to update price cache")
		}
		s.log.Info().Str("ticker", ticker).Float64("price", *price).Msg("Fetched price")
		return price
	}

	s.log.Error().Err(err).Str("ticker", ticker).Msg("Error fetching price")

	if cached := s.cache.Get(ticker); cached != nil {
		s.log.Info().Str("ticker", ticker).Float64("price", *cached).Msg("Using cached price")
		return cached
	}

	return nil
}

// FetchPrices fetches current prices for a set of tickers.
// Tickers with no price from either source are absent from the result,
// never zero.
func (s *Service) FetchPrices(tickers []string) map[string]float64 {
	prices := make(map[string]float64, len(tickers))
	for _, ticker := range tickers {
		if price := s.FetchPrice(ticker); price != nil {
			prices[ticker] = *price
		} else {
			s.log.Warn().Str("ticker", ticker).Msg("Price not available, skipping")
		}
	}
	return prices
}

// CachedPrices returns the last-known prices without hitting the network
func (s *Service) CachedPrices() map[string]float64 {
	return s.cache.Load()
}

// RefreshHistory fetches daily history from Yahoo and persists it locally
func (s *Service) RefreshHistory(ticker string, rangeParam string) error {
	bars, err := s.client.GetDailyHistory(ticker, rangeParam)
	if err != nil {
		return fmt.Errorf("failed to fetch history for %s: %w", ticker, err)
	}

	prices := make([]DailyPrice, 0, len(bars))
	for _, bar := range bars {
		prices = append(prices, DailyPrice{
			Date:   bar.Date,
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: bar.Volume,
		})
	}

	if err := s.history.SaveDailyPrices(ticker, prices); err != nil {
		return err
	}

	s.log.Info().Str("ticker", ticker).Int("bars", len(prices)).Msg("Refreshed history")
	return nil
}

// GetHistory returns locally stored daily prices for a ticker, ascending.
// days <= 0 returns everything.
func (s *Service) GetHistory(ticker string, days int) ([]DailyPrice, error) {
	return s.history.GetDailyPrices(ticker, days)
}

// GetHistories returns stored daily prices for several tickers.
// Tickers with no local history are present with an empty series so callers
// can decide how to treat them.
func (s *Service) GetHistories(tickers []string, days int) (map[string][]DailyPrice, error) {
	result := make(map[string][]DailyPrice, len(tickers))
	for _, ticker := range tickers {
		prices, err := s.history.GetDailyPrices(ticker, days)
		if err != nil {
			return nil, err
		}
		result[ticker] = prices
	}
	return result, nil
}
