package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/KretovDmitry/shortlinks/internal/errs"
	"github.com/KretovDmitry/shortlinks/internal/logger"
	"github.com/KretovDmitry/shortlinks/internal/models"
	"github.com/KretovDmitry/shortlinks/internal/repository/memstore"
	"github.com/KretovDmitry/shortlinks/internal/repository/mocks"
	"github.com/KretovDmitry/shortlinks/internal/shorturl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errIntentionallyNotWorkingMethod = errors.New("intentionally not working method")

func newTestService(t *testing.T, opts Options) *LinkService {
	t.Helper()
	l, _ := logger.NewForTest()
	s, err := New(memstore.NewLinkRepository(), l, opts)
	require.NoError(t, err, "new service")
	return s
}

func TestNew(t *testing.T) {
	l, _ := logger.NewForTest()

	_, err := New(nil, l, Options{})
	assert.ErrorIs(t, err, errs.ErrNilDependency)

	_, err = New(memstore.NewLinkRepository(), nil, Options{})
	assert.ErrorIs(t, err, errs.ErrNilDependency)
}

func TestShortenThenResolve(t *testing.T) {
	s := newTestService(t, Options{})
	ctx := context.Background()

	code, err := s.Shorten(ctx, "https://example.com", "ex1")
	require.NoError(t, err)
	assert.Equal(t, "ex1", code)

	url, err := s.Resolve(ctx, "ex1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", url)
}

func TestShorten_Overwrite(t *testing.T) {
	l, entries := logger.NewForTest()
	s, err := New(memstore.NewLinkRepository(), l, Options{})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Shorten(ctx, "https://first.example", "dup")
	require.NoError(t, err)
	_, err = s.Shorten(ctx, "https://second.example", "dup")
	require.NoError(t, err)

	url, err := s.Resolve(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, "https://second.example", url)
	assert.Equal(t, 1, entries.FilterMessageSnippet("overwriting").Len())

	links, err := s.Links(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Links{"dup": "https://second.example"}, links)
}

func TestShorten_Unvalidated(t *testing.T) {
	s := newTestService(t, Options{})
	ctx := context.Background()

	code, err := s.Shorten(ctx, "not a url", "")
	require.NoError(t, err)
	assert.Equal(t, "", code, "empty code is stored as is")

	links, err := s.Links(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Links{"": "not a url"}, links)
}

func TestShorten_GenerateCodes(t *testing.T) {
	s := newTestService(t, Options{GenerateCodes: true})
	ctx := context.Background()

	code, err := s.Shorten(ctx, "https://go.dev/", "")
	require.NoError(t, err)
	assert.Equal(t, shorturl.Generate("https://go.dev/"), code)

	code, err = s.Shorten(ctx, "https://go.dev/", "custom")
	require.NoError(t, err)
	assert.Equal(t, "custom", code, "given codes are kept")
}

func TestShorten_ValidateURLs(t *testing.T) {
	s := newTestService(t, Options{ValidateURLs: true})
	ctx := context.Background()

	_, err := s.Shorten(ctx, "https://test...com", "bad")
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)

	_, err = s.Shorten(ctx, "https://example.com", "good")
	assert.NoError(t, err)
}

func TestResolve_NotFound(t *testing.T) {
	s := newTestService(t, Options{})
	ctx := context.Background()

	_, err := s.Resolve(ctx, "doesnotexist")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = s.Shorten(ctx, "", "empty")
	require.NoError(t, err)

	_, err = s.Resolve(ctx, "empty")
	assert.ErrorIs(t, err, errs.ErrNotFound, "empty target is a miss")
}

func TestLinks_NeverNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLinkStorage(ctrl)
	store.EXPECT().Load(gomock.Any()).Return(nil, nil)

	l, _ := logger.NewForTest()
	s, err := New(store, l, Options{})
	require.NoError(t, err)

	links, err := s.Links(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, links)
}

func TestStorageErrors(t *testing.T) {
	ctx := context.Background()
	l, _ := logger.NewForTest()

	t.Run("load fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockLinkStorage(ctrl)
		store.EXPECT().Load(gomock.Any()).Return(nil, errIntentionallyNotWorkingMethod).Times(3)

		s, err := New(store, l, Options{})
		require.NoError(t, err)

		_, err = s.Shorten(ctx, "u", "c")
		assert.ErrorIs(t, err, errIntentionallyNotWorkingMethod)

		_, err = s.Resolve(ctx, "c")
		assert.ErrorIs(t, err, errIntentionallyNotWorkingMethod)

		_, err = s.Links(ctx)
		assert.ErrorIs(t, err, errIntentionallyNotWorkingMethod)
	})

	t.Run("save fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockLinkStorage(ctrl)
		gomock.InOrder(
			store.EXPECT().Load(gomock.Any()).Return(models.Links{"a": "u1"}, nil),
			store.EXPECT().
				Save(gomock.Any(), models.Links{"a": "u1", "b": "u2"}).
				Return(errIntentionallyNotWorkingMethod),
		)

		s, err := New(store, l, Options{})
		require.NoError(t, err)

		_, err = s.Shorten(ctx, "u2", "b")
		assert.ErrorIs(t, err, errIntentionallyNotWorkingMethod)
	})

	t.Run("ping", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockLinkStorage(ctrl)
		store.EXPECT().Ping(gomock.Any()).Return(errs.ErrDBNotConnected)

		s, err := New(store, l, Options{})
		require.NoError(t, err)

		assert.ErrorIs(t, s.Ping(ctx), errs.ErrDBNotConnected)
	})
}

func TestShorten_ConcurrentCreatesKeepEveryLink(t *testing.T) {
	s := newTestService(t, Options{})
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Shorten(ctx, fmt.Sprintf("https://example.com/%d", i), fmt.Sprintf("c%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	links, err := s.Links(ctx)
	require.NoError(t, err)
	assert.Len(t, links, n)
}
