package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrQueueEmpty  = errors.New("queue is empty")
	ErrQueueClosed = errors.New("queue is closed")
)

// Task is one product waiting for detail collection, tagged with the
// brand job that discovered it.
type Task struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Brand     string    `json:"brand,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewTask(productID, brand string) *Task {
	return &Task{
		ID:        uuid.NewString(),
		ProductID: productID,
		Brand:     brand,
		CreatedAt: time.Now(),
	}
}

// Queue buffers discovered product tasks between the discovery and
// collection stages of a run.
type Queue interface {
	Push(ctx context.Context, task *Task) error
	Pop(ctx context.Context) (*Task, error)
	Size(ctx context.Context) (int, error)
	Close() error
}

// InMemoryQueue is a FIFO task buffer for single-process runs.
type InMemoryQueue struct {
	tasks  []*Task
	mu     sync.Mutex
	closed bool
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		tasks: make([]*Task, 0),
	}
}

func (q *InMemoryQueue) Push(_ context.Context, task *Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	q.tasks = append(q.tasks, task)
	return nil
}

func (q *InMemoryQueue) Pop(_ context.Context) (*Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		if q.closed {
			return nil, ErrQueueClosed
		}
		return nil, ErrQueueEmpty
	}

	task := q.tasks[0]
	q.tasks = q.tasks[1:]

	return task, nil
}

func (q *InMemoryQueue) Size(_ context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks), nil
}

func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	return nil
}
