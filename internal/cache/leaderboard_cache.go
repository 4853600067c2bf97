package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"iqfieldbot/internal/model"
)

// LeaderboardCache handles Redis ZSET operations for per-field
// leaderboards keyed on user total score.
type LeaderboardCache interface {
	UpdateScore(ctx context.Context, field model.Field, userID string, score int) error
	GetTop(ctx context.Context, field model.Field, limit int) ([]LeaderboardEntry, error)
	GetRank(ctx context.Context, field model.Field, userID string) (int64, error)
}

// LeaderboardEntry represents a single leaderboard entry
type LeaderboardEntry struct {
	UserID string `json:"user_id"`
	Score  int    `json:"score"`
	Rank   int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
}

func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

func (c *leaderboardCache) key(field model.Field) string {
	return fmt.Sprintf("leaderboard:%s", field)
}

func (c *leaderboardCache) UpdateScore(ctx context.Context, field model.Field, userID string, score int) error {
	return c.client.ZAdd(ctx, c.key(field), redis.Z{
		Score:  float64(score),
		Member: userID,
	}).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, field model.Field, limit int) ([]LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(field), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = LeaderboardEntry{
			UserID: z.Member.(string),
			Score:  int(z.Score),
			Rank:   i + 1,
		}
	}
	return entries, nil
}

func (c *leaderboardCache) GetRank(ctx context.Context, field model.Field, userID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, c.key(field), userID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}
	return rank + 1, nil
}
