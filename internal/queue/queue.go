package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/support-service/internal/domain"
)

// WorkAction identifies the follow-up work a consumer should perform.
type WorkAction string

const (
	ActionNewTicket WorkAction = "new_ticket"
	ActionCheckSLA  WorkAction = "check_sla"
)

// WorkItem is the opaque JSON message exchanged through the task queue.
type WorkItem struct {
	Action   WorkAction            `json:"action"`
	TicketID string                `json:"ticketId"`
	Priority domain.TicketPriority `json:"priority,omitempty"`
	Category domain.TicketCategory `json:"category,omitempty"`
}

// ErrMalformedItem marks payloads that can never be processed and must
// be dead-lettered rather than redelivered.
var ErrMalformedItem = errors.New("malformed work item")

// DecodeWorkItem parses a raw queue payload.
func DecodeWorkItem(raw []byte) (*WorkItem, error) {
	var item WorkItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, errors.Join(ErrMalformedItem, err)
	}
	if item.TicketID == "" {
		return nil, ErrMalformedItem
	}
	switch item.Action {
	case ActionNewTicket, ActionCheckSLA:
		return &item, nil
	default:
		return nil, ErrMalformedItem
	}
}

// TaskQueue delivers work items with at-least-once semantics.
type TaskQueue interface {
	Enqueue(ctx context.Context, item WorkItem) error
	// Dequeue blocks up to timeout and returns the raw payload, or nil
	// when the queue stayed empty.
	Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error)
	// Requeue puts a raw payload back for redelivery.
	Requeue(ctx context.Context, raw []byte) error
	// DeadLetter parks an unprocessable payload.
	DeadLetter(ctx context.Context, raw []byte) error
}

// RedisQueue implements TaskQueue over a Redis list.
type RedisQueue struct {
	client        *redis.Client
	key           string
	deadLetterKey string
}

// NewRedisQueue constructs the queue.
func NewRedisQueue(client *redis.Client, key, deadLetterKey string) *RedisQueue {
	return &RedisQueue{client: client, key: key, deadLetterKey: deadLetterKey}
}

func (q *RedisQueue) Enqueue(ctx context.Context, item WorkItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, payload).Err()
}

func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error) {
	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	// BRPOP returns [key, value].
	if len(res) != 2 {
		return nil, nil
	}
	return []byte(res[1]), nil
}

func (q *RedisQueue) Requeue(ctx context.Context, raw []byte) error {
	return q.client.RPush(ctx, q.key, raw).Err()
}

func (q *RedisQueue) DeadLetter(ctx context.Context, raw []byte) error {
	return q.client.LPush(ctx, q.deadLetterKey, raw).Err()
}
