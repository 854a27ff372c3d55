package worker

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/support-service/internal/config"
	"github.com/spec-kit/support-service/internal/queue"
	"github.com/spec-kit/support-service/internal/service"
	apperrors "github.com/spec-kit/support-service/pkg/util"
)

// Consumer drains the task queue and dispatches work items. Handlers
// are idempotent, so redelivered items are safe to reprocess.
type Consumer struct {
	tasks      queue.TaskQueue
	assignment *service.AssignmentService
	sla        *service.SLAMonitor
	cfg        config.QueueConfig
	logger     *zap.Logger
}

// NewConsumer constructs the consumer.
func NewConsumer(tasks queue.TaskQueue, assignment *service.AssignmentService, sla *service.SLAMonitor, cfg config.QueueConfig, logger *zap.Logger) *Consumer {
	return &Consumer{
		tasks:      tasks,
		assignment: assignment,
		sla:        sla,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run blocks, polling the queue until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	c.logger.Info("queue consumer started")
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("queue consumer stopped")
			return
		default:
		}

		raw, err := c.tasks.Dequeue(ctx, c.cfg.PollTimeout())
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			c.logger.Warn("dequeue failed", zap.Error(err))
			continue
		}
		if raw == nil {
			continue
		}

		itemCtx, cancel := context.WithTimeout(ctx, c.cfg.ItemTimeout())
		c.ProcessRaw(itemCtx, raw)
		cancel()
	}
}

// ProcessRaw decodes and dispatches one payload. Unprocessable payloads
// go to the dead-letter list; transient handler failures are re-queued
// for redelivery.
func (c *Consumer) ProcessRaw(ctx context.Context, raw []byte) {
	item, err := queue.DecodeWorkItem(raw)
	if err != nil {
		c.logger.Warn("dead-lettering malformed work item", zap.ByteString("payload", raw), zap.Error(err))
		c.deadLetter(ctx, raw)
		return
	}

	if err := c.dispatch(ctx, item); err != nil {
		if unrecoverable(err) {
			c.logger.Warn("dead-lettering unprocessable work item",
				zap.String("action", string(item.Action)),
				zap.String("ticket_id", item.TicketID),
				zap.Error(err))
			c.deadLetter(ctx, raw)
			return
		}
		c.logger.Warn("work item failed, re-queueing",
			zap.String("action", string(item.Action)),
			zap.String("ticket_id", item.TicketID),
			zap.Error(err))
		if reqErr := c.tasks.Requeue(ctx, raw); reqErr != nil {
			c.logger.Error("requeue failed, item lost", zap.Error(reqErr))
		}
		return
	}
}

func (c *Consumer) dispatch(ctx context.Context, item *queue.WorkItem) error {
	switch item.Action {
	case queue.ActionNewTicket:
		return c.assignment.ProcessNewTicket(ctx, item.TicketID, item.Category)
	case queue.ActionCheckSLA:
		_, err := c.sla.CheckTicket(ctx, item.TicketID)
		return err
	default:
		return errors.Join(queue.ErrMalformedItem, errors.New("unknown action"))
	}
}

func (c *Consumer) deadLetter(ctx context.Context, raw []byte) {
	if err := c.tasks.DeadLetter(ctx, raw); err != nil {
		c.logger.Error("dead-letter failed, item lost", zap.Error(err))
	}
}

// unrecoverable reports whether redelivery can never succeed: malformed
// shapes, validation failures, and references to tickets that do not
// exist.
func unrecoverable(err error) bool {
	if errors.Is(err, queue.ErrMalformedItem) {
		return true
	}
	de := apperrors.ToDomainError(err)
	return de.Code == "VALIDATION_FAILED" || de.Code == "NOT_FOUND"
}
