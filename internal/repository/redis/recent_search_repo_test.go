package redis

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisClient(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestRecentSearchRepo_Redis(t *testing.T) {
	ctx := context.Background()
	client, mr := newRedisClient(t)
	repo := NewRecentSearchRepository(client, 5)

	for _, q := range []string{"a", "b", "c", "d", "e", "f"} {
		_, err := repo.Push(ctx, "u1", q)
		require.NoError(t, err)
	}

	list, err := repo.Push(ctx, "u1", " c ")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "f", "e", "d", "b"}, list)

	stored, err := mr.List(recentSearchPrefix + "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "f", "e", "d", "b"}, stored)

	list, err = repo.Push(ctx, "u1", "   ")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "f", "e", "d", "b"}, list)

	list, err = repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "f", "e", "d", "b"}, list)

	other, err := repo.List(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, repo.Clear(ctx, "u1"))
	assert.False(t, mr.Exists(recentSearchPrefix+"u1"))
	list, err = repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecentSearchRepo_RedisDown(t *testing.T) {
	client, mr := newRedisClient(t)
	repo := NewRecentSearchRepository(client, 5)
	mr.Close()

	_, err := repo.Push(context.Background(), "u1", "guitar")
	assert.Error(t, err)
}

func TestRecentSearchRepo_InMemory(t *testing.T) {
	ctx := context.Background()
	repo := NewRecentSearchRepository(nil, 3)

	for _, q := range []string{"guitar", "salsa", "go"} {
		_, err := repo.Push(ctx, "u1", q)
		require.NoError(t, err)
	}

	list, err := repo.Push(ctx, "u1", "  guitar ")
	require.NoError(t, err)
	assert.Equal(t, []string{"guitar", "go", "salsa"}, list)

	list, err = repo.Push(ctx, "u1", "chess")
	require.NoError(t, err)
	assert.Equal(t, []string{"chess", "guitar", "go"}, list)

	list, err = repo.Push(ctx, "u1", "   ")
	require.NoError(t, err)
	assert.Len(t, list, 3)

	other, err := repo.List(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, repo.Clear(ctx, "u1"))
	list, err = repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecentSearchRepo_DefaultMax(t *testing.T) {
	ctx := context.Background()
	repo := NewRecentSearchRepository(nil, 0)

	var list []string
	for i := 0; i < 10; i++ {
		var err error
		list, err = repo.Push(ctx, "u1", fmt.Sprintf("q%d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"q9", "q8", "q7", "q6", "q5"}, list)
}
