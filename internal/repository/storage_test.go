package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/KretovDmitry/shortlinks/internal/config"
	"github.com/KretovDmitry/shortlinks/internal/errs"
	"github.com/KretovDmitry/shortlinks/internal/logger"
	"github.com/KretovDmitry/shortlinks/internal/repository/filestore"
	"github.com/KretovDmitry/shortlinks/internal/repository/memstore"
	"github.com/KretovDmitry/shortlinks/internal/repository/sqlitestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLinkStorage(t *testing.T) {
	l, _ := logger.NewForTest()

	t.Run("nil config", func(t *testing.T) {
		_, err := NewLinkStorage(context.Background(), nil, l)
		assert.ErrorIs(t, err, errs.ErrNilDependency)
	})

	t.Run("nil logger", func(t *testing.T) {
		_, err := NewLinkStorage(context.Background(), config.NewForTest(), nil)
		assert.ErrorIs(t, err, errs.ErrNilDependency)
	})

	t.Run("in memory", func(t *testing.T) {
		store, err := NewLinkStorage(context.Background(), config.NewForTest(), l)
		require.NoError(t, err)
		assert.IsType(t, &memstore.LinkRepository{}, store)
	})

	t.Run("file", func(t *testing.T) {
		cfg := config.NewForTest()
		cfg.FileStoragePath = filepath.Join(t.TempDir(), "links.json")

		store, err := NewLinkStorage(context.Background(), cfg, l)
		require.NoError(t, err)
		assert.IsType(t, &filestore.LinkRepository{}, store)
	})

	t.Run("sqlite wins over file", func(t *testing.T) {
		cfg := config.NewForTest()
		cfg.FileStoragePath = filepath.Join(t.TempDir(), "links.json")
		cfg.SQLitePath = filepath.Join(t.TempDir(), "links.db")

		store, err := NewLinkStorage(context.Background(), cfg, l)
		require.NoError(t, err)
		require.IsType(t, &sqlitestore.LinkRepository{}, store)
		assert.NoError(t, store.(*sqlitestore.LinkRepository).Close())
	})
}
