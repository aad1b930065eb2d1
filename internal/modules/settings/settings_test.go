package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avarre/pea-tracker/pkg/logger"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	path := filepath.Join(t.TempDir(), "config.json")
	return NewStore(path, log), path
}

func TestDefaultSettings(t *testing.T) {
	defaults := Default()

	assert.Equal(t, "EUR", defaults.DefaultCurrency)
	assert.Equal(t, "yahoo", defaults.DataSource)
	require.Len(t, defaults.ETFs, 5)

	// Default ETF weights describe a full allocation
	sum := 0.0
	for _, etf := range defaults.ETFs {
		assert.NotEmpty(t, etf.Ticker)
		sum += etf.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	assert.NoError(t, defaults.Validate())
}

func TestSettingsValidate(t *testing.T) {
	t.Run("refresh interval must be at least a minute", func(t *testing.T) {
		s := Default()
		s.AutoRefreshIntervalMinutes = 0
		assert.Error(t, s.Validate())
	})

	t.Run("negative ETF weight rejected", func(t *testing.T) {
		s := Default()
		s.ETFs[0].Weight = -0.1
		assert.Error(t, s.Validate())
	})
}

func TestStoreLoadMissingFileReturnsDefaults(t *testing.T) {
	store, _ := newTestStore(t)

	loaded := store.Load()
	assert.Equal(t, Default(), loaded)
}

func TestStoreSaveAndLoad(t *testing.T) {
	store, _ := newTestStore(t)

	settings := Default()
	settings.AutoRefreshEnabled = true
	settings.AutoRefreshIntervalMinutes = 10
	require.NoError(t, store.Save(settings))

	loaded := store.Load()
	assert.True(t, loaded.AutoRefreshEnabled)
	assert.Equal(t, 10, loaded.AutoRefreshIntervalMinutes)
}

func TestStoreSaveRejectsInvalidSettings(t *testing.T) {
	store, _ := newTestStore(t)

	settings := Default()
	settings.AutoRefreshIntervalMinutes = -5
	assert.Error(t, store.Save(settings))
}

func TestStoreCorruptedFileReturnsDefaults(t *testing.T) {
	store, path := newTestStore(t)

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	loaded := store.Load()
	assert.Equal(t, Default(), loaded)
}
