package redis

import (
	"context"
	"strings"
	"sync"

	"skillmates-backend/internal/domain"
	"skillmates-backend/pkg/relevance"

	goredis "github.com/redis/go-redis/v9"
)

const recentSearchPrefix = "recent:search:"

type recentSearchRepo struct {
	client *goredis.Client
	limit  int

	mu    sync.Mutex
	local map[string][]string
}

// NewRecentSearchRepository stores each user's recent queries as a Redis list.
// With a nil client the lists are kept in process memory.
func NewRecentSearchRepository(client *goredis.Client, limit int) domain.RecentSearchRepository {
	if limit <= 0 {
		limit = relevance.DefaultRecentMax
	}
	return &recentSearchRepo{
		client: client,
		limit:  limit,
		local:  make(map[string][]string),
	}
}

func (r *recentSearchRepo) Push(ctx context.Context, userID, query string) ([]string, error) {
	query = strings.TrimSpace(query)

	if r.client == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		list := relevance.PushRecent(r.local[userID], query, r.limit)
		r.local[userID] = list
		return append([]string{}, list...), nil
	}

	if query == "" {
		return r.List(ctx, userID)
	}

	key := recentSearchPrefix + userID
	var lrange *goredis.StringSliceCmd
	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.LRem(ctx, key, 0, query)
		pipe.LPush(ctx, key, query)
		pipe.LTrim(ctx, key, 0, int64(r.limit-1))
		lrange = pipe.LRange(ctx, key, 0, -1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lrange.Val(), nil
}

func (r *recentSearchRepo) List(ctx context.Context, userID string) ([]string, error) {
	if r.client == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		return append([]string{}, r.local[userID]...), nil
	}

	list, err := r.client.LRange(ctx, recentSearchPrefix+userID, 0, int64(r.limit-1)).Result()
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *recentSearchRepo) Clear(ctx context.Context, userID string) error {
	if r.client == nil {
		r.mu.Lock()
		delete(r.local, userID)
		r.mu.Unlock()
		return nil
	}
	return r.client.Del(ctx, recentSearchPrefix+userID).Err()
}
