package relay

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"fuelraffle/internal/infra/db"
	"fuelraffle/internal/usecase/shared"

	"github.com/hibiken/asynq"
)

// EventTaskType names the asynq task for a dispatched outbox event.
// Consumers register per event type, e.g. "event:CouponActivated".
func EventTaskType(eventType string) string {
	return "event:" + eventType
}

type OutboxSource interface {
	ListUndispatched(ctx context.Context, dbtx db.DBTX, limit int) ([]shared.OutboxRecord, error)
	MarkDispatched(ctx context.Context, dbtx db.DBTX, id int64) error
}

type Publisher interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Sweeper drains the transactional outbox. Each tick claims a batch of
// undispatched events under row locks, publishes them, and marks them
// dispatched in the same transaction. A publish failure rolls the claim
// back, so the event is retried on the next tick; consumers must
// therefore tolerate at-least-once delivery.
type Sweeper struct {
	uow       shared.UnitOfWork
	outbox    OutboxSource
	publisher Publisher
	interval  time.Duration
	batchSize int
	done      chan struct{}
}

func NewSweeper(uow shared.UnitOfWork, outbox OutboxSource, publisher Publisher, interval time.Duration, batchSize int) *Sweeper {
	return &Sweeper{
		uow:       uow,
		outbox:    outbox,
		publisher: publisher,
		interval:  interval,
		batchSize: batchSize,
		done:      make(chan struct{}),
	}
}

func (s *Sweeper) Run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.SweepOnce(ctx); err != nil {
				slog.Error("outbox sweep failed", "error", err)
			} else if n > 0 {
				slog.Info("outbox events dispatched", "count", n)
			}
		}
	}
}

// Wait blocks until the run loop has exited.
func (s *Sweeper) Wait() {
	<-s.done
}

// SweepOnce dispatches at most one batch and reports how many events went out.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	var dispatched int
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		records, err := s.outbox.ListUndispatched(ctx, tx.DB(), s.batchSize)
		if err != nil {
			return err
		}
		for _, rec := range records {
			task := asynq.NewTask(EventTaskType(rec.EventType), rec.Payload,
				asynq.TaskID(taskID(rec)),
				asynq.MaxRetry(5),
			)
			if _, err := s.publisher.EnqueueContext(ctx, task); err != nil {
				// Already-enqueued means a prior sweep published but failed
				// before commit; marking dispatched closes the gap.
				if !errors.Is(err, asynq.ErrTaskIDConflict) {
					return err
				}
			}
			if err := s.outbox.MarkDispatched(ctx, tx.DB(), rec.ID); err != nil {
				return err
			}
			dispatched++
		}
		return nil
	})
	return dispatched, err
}

func taskID(rec shared.OutboxRecord) string {
	return rec.EventType + ":" + rec.AggregateID.String() + ":" + strconv.FormatInt(rec.ID, 10)
}
