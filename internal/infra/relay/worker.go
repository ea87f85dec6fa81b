package relay

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"fuelraffle/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// NewServeMux registers every task this service consumes: the raffle close
// job and the domain events it publishes to itself through the outbox.
func NewServeMux(raffleCommands commands.RaffleCommands, couponCommands commands.CouponCommands) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(commands.TaskTypeRaffleClose, handleRaffleClose(raffleCommands))
	mux.HandleFunc(EventTaskType(commands.EventCouponActivated), handleCouponActivated(couponCommands))
	mux.HandleFunc(EventTaskType(commands.EventPointEarned), handlePointEarned)
	return mux
}

func handleRaffleClose(raffleCommands commands.RaffleCommands) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload commands.ClosePayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			// Malformed payloads never succeed on retry.
			return errors.Join(err, asynq.SkipRetry)
		}

		if err := raffleCommands.ExecuteClose(ctx, payload.JobID, payload.Period); err != nil {
			if errors.Is(err, commands.ErrAlreadyClosed) || errors.Is(err, commands.ErrNoEntries) {
				slog.Warn("raffle close not retryable", "period", payload.Period, "error", err)
				return errors.Join(err, asynq.SkipRetry)
			}
			return err
		}
		return nil
	}
}

func handleCouponActivated(couponCommands commands.CouponCommands) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var event struct {
			CouponID string `json:"couponId"`
		}
		if err := json.Unmarshal(task.Payload(), &event); err != nil {
			return errors.Join(err, asynq.SkipRetry)
		}
		couponID, err := uuid.Parse(event.CouponID)
		if err != nil {
			return errors.Join(err, asynq.SkipRetry)
		}

		if err := couponCommands.Complete(ctx, couponID); err != nil {
			// A coupon already completed by an earlier delivery is done.
			if errors.Is(err, commands.ErrInvalidState) {
				return nil
			}
			return err
		}
		return nil
	}
}

// handlePointEarned acknowledges redemption events; accrual itself lives in
// the point ledger service, which consumes the same queue.
func handlePointEarned(ctx context.Context, task *asynq.Task) error {
	slog.Info("redemption point event dispatched", "payload_size", len(task.Payload()))
	return nil
}
