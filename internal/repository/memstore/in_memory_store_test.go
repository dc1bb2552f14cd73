package memstore

import (
	"context"
	"testing"

	"github.com/KretovDmitry/shortlinks/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkRepository_Empty(t *testing.T) {
	repo := NewLinkRepository()

	links, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, links)
	assert.Empty(t, links)
}

func TestLinkRepository_RoundTrip(t *testing.T) {
	repo := NewLinkRepository()
	ctx := context.Background()
	want := models.Links{"a": "u1", "b": "u2"}

	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLinkRepository_Isolation(t *testing.T) {
	repo := NewLinkRepository()
	ctx := context.Background()

	saved := models.Links{"a": "u1"}
	require.NoError(t, repo.Save(ctx, saved))
	saved["b"] = "u2"

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	loaded["c"] = "u3"

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Links{"a": "u1"}, got)
}

func TestLinkRepository_SaveNil(t *testing.T) {
	repo := NewLinkRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, models.Links{"a": "u1"}))
	require.NoError(t, repo.Save(ctx, nil))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, repo.Ping(ctx))
}
