package compositions

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestCacheServesListWithoutReload(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo, newMiniredisCache(t), slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := service.Create(context.Background(), CreateCompositionRequest{Title: "Work", ComposerID: 1})
	require.NoError(t, err)
	repo.listCalls = 0

	req := ListCompositionsRequest{Limit: 50}
	_, total, err := service.List(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, repo.listCalls)

	// Second read comes from the cache.
	_, _, err = service.List(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
}

func TestCacheInvalidatedByMutation(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo, newMiniredisCache(t), slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := service.Create(context.Background(), CreateCompositionRequest{Title: "Work", ComposerID: 1})
	require.NoError(t, err)

	req := ListCompositionsRequest{Limit: 50}
	_, total, err := service.List(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, err = service.Create(context.Background(), CreateCompositionRequest{Title: "Second Work", ComposerID: 1})
	require.NoError(t, err)

	_, total, err = service.List(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestCacheNilClientDegradesToLoader(t *testing.T) {
	var cache *Cache

	key, err := cache.BuildKey(context.Background(), "compositions", "list", "x")
	require.NoError(t, err)
	assert.Equal(t, "compositions:list:x", key)

	var out int
	err = cache.FetchJSON(context.Background(), key, &out, func(ctx context.Context) (any, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, out)

	assert.NoError(t, cache.Bump(context.Background()))
}
