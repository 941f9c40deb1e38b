package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of go-redis used by the queue, kept narrow
// for testing.
type RedisClient interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LPop(ctx context.Context, key string) *redis.StringCmd
	LLen(ctx context.Context, key string) *redis.IntCmd
	Close() error
}

// RedisQueue is a Redis-list-backed task buffer, for runs where the
// discovered ids should survive a process restart between stages.
type RedisQueue struct {
	client RedisClient
	key    string
}

func NewRedisQueue(client RedisClient, key string) *RedisQueue {
	if key == "" {
		key = "queue:products"
	}

	return &RedisQueue{
		client: client,
		key:    key,
	}
}

func (q *RedisQueue) Push(ctx context.Context, task *Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	if err := q.client.RPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to push task: %w", err)
	}

	return nil
}

func (q *RedisQueue) Pop(ctx context.Context) (*Task, error) {
	payload, err := q.client.LPop(ctx, q.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrQueueEmpty
		}
		return nil, fmt.Errorf("failed to pop task: %w", err)
	}

	var task Task
	if err := json.Unmarshal(payload, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}

	return &task, nil
}

func (q *RedisQueue) Size(ctx context.Context) (int, error) {
	size, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue size: %w", err)
	}

	return int(size), nil
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}
