package marketdata

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avarre/pea-tracker/internal/clients/yahoo"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := yahoo.NewClient(zerolog.Nop())
	client.SetBaseURL(server.URL)

	dir := t.TempDir()
	cache := NewPriceCache(filepath.Join(dir, "prices.json"), zerolog.Nop())
	history := NewHistoryDB(filepath.Join(dir, "history"), zerolog.Nop())

	return NewService(client, cache, history, zerolog.Nop())
}

func TestFetchPriceUpdatesCache(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quoteResponse":{"result":[{"regularMarketPrice":29.35}]}}`)
	})

	price := svc.FetchPrice("EWLD.PA")
	require.NotNil(t, price)
	assert.Equal(t, 29.35, *price)

	cached := svc.CachedPrices()
	assert.Equal(t, 29.35, cached["EWLD.PA"])
}

func TestFetchPriceFallsBackToCache(t *testing.T) {
	fail := false
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"quoteResponse":{"result":[{"regularMarketPrice":29.35}]}}`)
	})

	require.NotNil(t, svc.FetchPrice("EWLD.PA"))

	fail = true
	price := svc.FetchPrice("EWLD.PA")
	require.NotNil(t, price)
	assert.Equal(t, 29.35, *price)
}

func TestFetchPriceNoSourceAvailable(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	assert.Nil(t, svc.FetchPrice("EWLD.PA"))
}

func TestFetchPricesSkipsMissingTickers(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbols") == "EWLD.PA" {
			fmt.Fprint(w, `{"quoteResponse":{"result":[{"regularMarketPrice":29.35}]}}`)
			return
		}
		fmt.Fprint(w, `{"quoteResponse":{"result":[]}}`)
	})

	prices := svc.FetchPrices([]string{"EWLD.PA", "UNKNOWN.PA"})
	// The missing ticker is absent, never present with a zero price
	require.Len(t, prices, 1)
	assert.Equal(t, 29.35, prices["EWLD.PA"])
	assert.NotContains(t, prices, "UNKNOWN.PA")
}

func TestRefreshAndGetHistory(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{
			"timestamp":[1767571200, 1767657600],
			"indicators":{"quote":[{
				"open":[29.0, 29.4],
				"high":[29.5, 29.9],
				"low":[28.8, 29.1],
				"close":[29.35, 29.60],
				"volume":[1000, 1200]
			}]}
		}]}}`)
	})

	require.NoError(t, svc.RefreshHistory("EWLD.PA", "5d"))

	prices, err := svc.GetHistory("EWLD.PA", 0)
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, "2026-01-05", prices[0].Date)
	assert.Equal(t, 29.35, prices[0].Close)

	t.Run("limit keeps the most recent ascending", func(t *testing.T) {
		prices, err := svc.GetHistory("EWLD.PA", 1)
		require.NoError(t, err)
		require.Len(t, prices, 1)
		assert.Equal(t, "2026-01-06", prices[0].Date)
	})

	t.Run("refresh upserts without duplicating dates", func(t *testing.T) {
		require.NoError(t, svc.RefreshHistory("EWLD.PA", "5d"))
		prices, err := svc.GetHistory("EWLD.PA", 0)
		require.NoError(t, err)
		assert.Len(t, prices, 2)
	})
}

func TestGetHistoryMissingTicker(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})

	prices, err := svc.GetHistory("NEVER.PA", 0)
	require.NoError(t, err)
	assert.NotNil(t, prices)
	assert.Empty(t, prices)
}
