package queue

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedisClient backs the queue with an in-process list of payloads.
type fakeRedisClient struct {
	lists  map[string][][]byte
	closed bool
}

func newFakeRedisClient() *fakeRedisClient {
	return &fakeRedisClient{lists: make(map[string][][]byte)}
}

func (f *fakeRedisClient) RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	for _, v := range values {
		f.lists[key] = append(f.lists[key], v.([]byte))
	}
	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeRedisClient) LPop(ctx context.Context, key string) *redis.StringCmd {
	list := f.lists[key]
	if len(list) == 0 {
		return redis.NewStringResult("", redis.Nil)
	}
	f.lists[key] = list[1:]
	return redis.NewStringResult(string(list[0]), nil)
}

func (f *fakeRedisClient) LLen(ctx context.Context, key string) *redis.IntCmd {
	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeRedisClient) Close() error {
	f.closed = true
	return nil
}

func TestRedisQueueRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedisClient()
	q := NewRedisQueue(client, "queue:test")

	require.NoError(t, q.Push(ctx, NewTask("100", "커버낫")))
	require.NoError(t, q.Push(ctx, NewTask("200", "")))

	size, err := q.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	task, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "100", task.ProductID)
	assert.Equal(t, "커버낫", task.Brand)

	task, err = q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "200", task.ProductID)

	_, err = q.Pop(ctx)
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestRedisQueueCloseClosesClient(t *testing.T) {
	client := newFakeRedisClient()
	q := NewRedisQueue(client, "")

	require.NoError(t, q.Close())
	assert.True(t, client.closed)
}
