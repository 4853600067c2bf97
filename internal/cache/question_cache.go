package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"iqfieldbot/internal/model"
)

// QuestionCache handles Redis storage for AI-generated questions so a
// submitted answer can still be graded after a restart or on another
// instance. Template questions regenerate in-process and are not stored.
type QuestionCache interface {
	Set(ctx context.Context, question *model.Question) error
	Get(ctx context.Context, id string) (*model.Question, error)
	Delete(ctx context.Context, id string) error
}

type questionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewQuestionCache(client *redis.Client) QuestionCache {
	return &questionCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *questionCache) key(id string) string {
	return fmt.Sprintf("question:%s", id)
}

func (c *questionCache) Set(ctx context.Context, question *model.Question) error {
	data, err := json.Marshal(question)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(question.ID), data, c.ttl).Err()
}

func (c *questionCache) Get(ctx context.Context, id string) (*model.Question, error) {
	data, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var question model.Question
	if err := json.Unmarshal([]byte(data), &question); err != nil {
		return nil, err
	}
	return &question, nil
}

func (c *questionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
