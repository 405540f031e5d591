package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-note/internal/settings"
)

func documentStores(t *testing.T) map[string]func(maxHistory int) Documents {
	return map[string]func(int) Documents{
		"memory": func(n int) Documents { return NewMemoryStore(n, 0) },
		"sqlite": func(n int) Documents {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "blocks.db"), n)
			require.NoError(t, err)
			return s
		},
	}
}

func TestDocumentsSaveAndLatest(t *testing.T) {
	ctx := context.Background()
	for name, open := range documentStores(t) {
		t.Run(name, func(t *testing.T) {
			s := open(0)
			defer s.Close()

			_, err := s.Latest(ctx, "b1")
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = s.History(ctx, "b1")
			assert.ErrorIs(t, err, ErrNotFound)

			base := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
			require.NoError(t, s.Save(ctx, Block{ID: "b1", Kind: KindWeather, Content: "one", CreatedAt: base}))
			require.NoError(t, s.Save(ctx, Block{ID: "b1", Kind: KindTemplate, Content: "two", CreatedAt: base.Add(time.Minute)}))
			require.NoError(t, s.Save(ctx, Block{ID: "b2", Kind: KindLocation, Content: "other"}))

			latest, err := s.Latest(ctx, "b1")
			require.NoError(t, err)
			assert.Equal(t, "two", latest.Content)
			assert.Equal(t, KindTemplate, latest.Kind)
			assert.True(t, latest.CreatedAt.Equal(base.Add(time.Minute)))

			history, err := s.History(ctx, "b1")
			require.NoError(t, err)
			require.Len(t, history, 2)
			assert.Equal(t, "one", history[0].Content)
			assert.Equal(t, "two", history[1].Content)

			other, err := s.Latest(ctx, "b2")
			require.NoError(t, err)
			assert.False(t, other.CreatedAt.IsZero())
		})
	}
}

func TestDocumentsRetentionByCount(t *testing.T) {
	ctx := context.Background()
	for name, open := range documentStores(t) {
		t.Run(name, func(t *testing.T) {
			s := open(2)
			defer s.Close()

			for _, c := range []string{"a", "b", "c"} {
				require.NoError(t, s.Save(ctx, Block{ID: "b", Content: c}))
			}
			history, err := s.History(ctx, "b")
			require.NoError(t, err)
			require.Len(t, history, 2)
			assert.Equal(t, "b", history[0].Content)
			assert.Equal(t, "c", history[1].Content)
		})
	}
}

func TestDocumentsClosed(t *testing.T) {
	ctx := context.Background()
	for name, open := range documentStores(t) {
		t.Run(name, func(t *testing.T) {
			s := open(0)
			require.NoError(t, s.Close())
			assert.ErrorIs(t, s.Save(ctx, Block{ID: "x"}), ErrStoreClosed)
			_, err := s.Latest(ctx, "x")
			assert.ErrorIs(t, err, ErrStoreClosed)
		})
	}
}

func TestMemoryStoreRetentionByAge(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0, time.Hour)

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, s.Save(ctx, Block{ID: "b", Content: "old", CreatedAt: old}))
	require.NoError(t, s.Save(ctx, Block{ID: "b", Content: "new"}))

	history, err := s.History(ctx, "b")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "new", history[0].Content)

	// the newest version survives even when it is already stale
	require.NoError(t, s.Save(ctx, Block{ID: "c", Content: "stale", CreatedAt: old}))
	latest, err := s.Latest(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "stale", latest.Content)
}

func TestMemoryStoreHistoryIsACopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0, 0)
	require.NoError(t, s.Save(ctx, Block{ID: "b", Content: "a"}))

	history, err := s.History(ctx, "b")
	require.NoError(t, err)
	history[0].Content = "mutated"

	latest, err := s.Latest(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "a", latest.Content)
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewMemoryStore(0, 0).Save(ctx, Block{ID: "b"}), context.Canceled)
}

func TestSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "settings.yaml")
	f := NewSettingsFile(path)

	s, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, settings.Default(), s)

	s.WeatherProvider = "openmeteo"
	s, err = s.AddCity(settings.FavoriteCity{Name: "长沙", Lat: 28.2, Lon: 112.9})
	require.NoError(t, err)
	require.NoError(t, f.Save(s))

	loaded, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, s, loaded)

	s.WeatherProvider = "bogus"
	assert.Error(t, f.Save(s))
	loaded, err = f.Load()
	require.NoError(t, err)
	assert.Equal(t, "openmeteo", loaded.WeatherProvider)
}

func TestSettingsFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weatherApiKey: abc\n"), 0o600))

	s, err := NewSettingsFile(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", s.WeatherAPIKey)
	assert.Equal(t, "openweather", s.WeatherProvider)
	assert.Equal(t, settings.LocationIP, s.LocationProvider)
}

func TestSettingsFileRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("favoriteCities: [\n"), 0o600))

	_, err := NewSettingsFile(path).Load()
	assert.Error(t, err)
}
