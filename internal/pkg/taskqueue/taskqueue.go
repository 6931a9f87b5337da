package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/musebox/core/internal/pkg/redis"
	"go.uber.org/zap"
)

const (
	taskKeyPrefix  = "musebox:task:"
	dedupKeyPrefix = "musebox:task:dedup:"
	taskTTL        = 24 * time.Hour
)

// Task statuses.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Task is an asynchronous background job tracked in Redis.
type Task struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Status    string          `json:"status"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Handler processes a task and returns its result payload.
type Handler func(ctx context.Context, task *Task) (interface{}, error)

// Queue runs tasks in background goroutines with Redis-backed status tracking.
type Queue struct {
	rdb      *redis.Client
	log      *zap.Logger
	handlers map[string]Handler
	mu       sync.RWMutex
	cancels  map[string]context.CancelFunc
}

// New creates a task queue.
func New(rdb *redis.Client, log *zap.Logger) *Queue {
	return &Queue{
		rdb:      rdb,
		log:      log.Named("taskqueue"),
		handlers: make(map[string]Handler),
		cancels:  make(map[string]context.CancelFunc),
	}
}

// Register binds a handler to a task kind.
func (q *Queue) Register(kind string, h Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[kind] = h
}

// Enqueue creates a task and starts executing it in the background.
// If dedupKey is non-empty and a task with the same key is still pending
// or running, the existing task is returned instead of creating a new one.
func (q *Queue) Enqueue(ctx context.Context, kind string, payload interface{}, dedupKey string) (*Task, error) {
	q.mu.RLock()
	handler, ok := q.handlers[kind]
	q.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no handler registered for task kind %q", kind)
	}

	if dedupKey != "" {
		existingID, err := q.rdb.Get(ctx, dedupKeyPrefix+dedupKey)
		if err == nil && existingID != "" {
			if existing, err := q.GetByID(ctx, existingID); err == nil && existing != nil {
				if existing.Status == StatusPending || existing.Status == StatusRunning {
					return existing, nil
				}
			}
		}
	}

	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal task payload: %w", err)
		}
		raw = b
	}

	now := time.Now()
	task := &Task{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    StatusPending,
		Payload:   raw,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := q.save(ctx, task); err != nil {
		return nil, err
	}
	if dedupKey != "" {
		if err := q.rdb.Set(ctx, dedupKeyPrefix+dedupKey, task.ID, taskTTL); err != nil {
			q.log.Warn("failed to set dedup key", zap.String("key", dedupKey), zap.Error(err))
		}
	}

	runCtx, cancel := context.WithCancel(context.Background())
	q.mu.Lock()
	q.cancels[task.ID] = cancel
	q.mu.Unlock()

	go q.run(runCtx, task, handler)

	return task, nil
}

func (q *Queue) run(ctx context.Context, task *Task, handler Handler) {
	defer func() {
		q.mu.Lock()
		delete(q.cancels, task.ID)
		q.mu.Unlock()
	}()

	q.updateStatus(task, StatusRunning, nil, "")
	q.log.Info("task started", zap.String("id", task.ID), zap.String("kind", task.Kind))

	result, err := handler(ctx, task)
	if err != nil {
		if ctx.Err() != nil {
			q.updateStatus(task, StatusCancelled, nil, err.Error())
			q.log.Info("task cancelled", zap.String("id", task.ID))
			return
		}
		q.updateStatus(task, StatusFailed, nil, err.Error())
		q.log.Error("task failed", zap.String("id", task.ID), zap.String("kind", task.Kind), zap.Error(err))
		return
	}

	var resultRaw json.RawMessage
	if result != nil {
		if b, merr := json.Marshal(result); merr == nil {
			resultRaw = b
		}
	}
	q.updateStatus(task, StatusCompleted, resultRaw, "")
	q.log.Info("task completed", zap.String("id", task.ID), zap.String("kind", task.Kind))
}

func (q *Queue) updateStatus(task *Task, status string, result json.RawMessage, errMsg string) {
	task.Status = status
	task.Result = result
	task.Error = errMsg
	task.UpdatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := q.save(ctx, task); err != nil {
		q.log.Warn("failed to persist task status", zap.String("id", task.ID), zap.Error(err))
	}
}

func (q *Queue) save(ctx context.Context, task *Task) error {
	b, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}
	return q.rdb.Set(ctx, taskKeyPrefix+task.ID, string(b), taskTTL)
}

// GetByID returns a task by ID, or nil when not found.
func (q *Queue) GetByID(ctx context.Context, id string) (*Task, error) {
	val, err := q.rdb.Get(ctx, taskKeyPrefix+id)
	if err != nil {
		return nil, err
	}
	if val == "" {
		return nil, nil
	}
	var task Task
	if err := json.Unmarshal([]byte(val), &task); err != nil {
		return nil, fmt.Errorf("unmarshal task %s: %w", id, err)
	}
	return &task, nil
}

// List returns all tracked tasks, newest first.
func (q *Queue) List(ctx context.Context) ([]*Task, error) {
	keys, err := q.rdb.Raw().Keys(ctx, taskKeyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}

	tasks := make([]*Task, 0, len(keys))
	for _, key := range keys {
		if len(key) > len(dedupKeyPrefix) && key[:len(dedupKeyPrefix)] == dedupKeyPrefix {
			continue
		}
		val, err := q.rdb.Get(ctx, key)
		if err != nil || val == "" {
			continue
		}
		var task Task
		if err := json.Unmarshal([]byte(val), &task); err != nil {
			continue
		}
		tasks = append(tasks, &task)
	}

	for i := 0; i < len(tasks); i++ {
		for j := i + 1; j < len(tasks); j++ {
			if tasks[j].CreatedAt.After(tasks[i].CreatedAt) {
				tasks[i], tasks[j] = tasks[j], tasks[i]
			}
		}
	}
	return tasks, nil
}

// Cancel stops a running task. Returns false if the task is not running.
func (q *Queue) Cancel(id string) bool {
	q.mu.Lock()
	cancel, ok := q.cancels[id]
	q.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// DeleteByID removes a finished task record.
func (q *Queue) DeleteByID(ctx context.Context, id string) error {
	return q.rdb.Del(ctx, taskKeyPrefix+id)
}
