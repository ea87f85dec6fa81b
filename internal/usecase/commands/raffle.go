package commands

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"log/slog"
	"math/big"
	"time"

	"fuelraffle/internal/domain/raffle"
	"fuelraffle/internal/infra"
	"fuelraffle/internal/infra/kv"
	"fuelraffle/internal/infra/ledger"
	"fuelraffle/internal/pkg/clock"
	"fuelraffle/internal/pkg/errs"
	"fuelraffle/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

var (
	ErrRaffleNotFound  = errs.New("raffle not found")
	ErrAlreadyClosed   = errs.New("raffle already closed")
	ErrNoEntries       = errs.New("no entries for period")
	ErrSeedUnavailable = errs.New("external seed unavailable")
	ErrLedgerFailed    = errs.New("point ledger unavailable")
	ErrJobNotFound     = errs.New("job not found")
)

// TaskTypeRaffleClose is the asynq task behind POST close's 202. The
// payload carries the job id so the worker can publish progress.
const TaskTypeRaffleClose = "raffle:close"

const defaultPrize = "FUEL_VOUCHER_50000"

type SeedSource interface {
	Fetch(ctx context.Context) (string, error)
}

type EntrySource interface {
	ListEntries(ctx context.Context, period string) ([]ledger.Entry, error)
}

type JobStore interface {
	Put(ctx context.Context, status kv.JobStatus) error
	Get(ctx context.Context, jobID uuid.UUID) (kv.JobStatus, error)
}

type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type SeedConfig struct {
	Retries     int
	BackoffBase time.Duration
	Timeout     time.Duration
}

type CloseJob struct {
	JobID  uuid.UUID `json:"jobId"`
	Period string    `json:"period"`
}

// ClosePayload is the asynq task body for TaskTypeRaffleClose.
type ClosePayload struct {
	JobID  uuid.UUID `json:"jobId"`
	Period string    `json:"period"`
}

type DrawResult struct {
	RaffleID       uuid.UUID `json:"raffleId"`
	WinnerUserID   uuid.UUID `json:"winnerUserId"`
	WinningPointID uuid.UUID `json:"winningPointId"`
	ExternalSeed   string    `json:"externalSeed"`
	MerkleRoot     string    `json:"merkleRoot"`
}

type RaffleCommands interface {
	RequestClose(ctx context.Context, period string) (*CloseJob, error)
	// ExecuteClose is the asynq worker side of RequestClose.
	ExecuteClose(ctx context.Context, jobID uuid.UUID, period string) error
	Draw(ctx context.Context, raffleID uuid.UUID) (*DrawResult, error)
	JobStatus(ctx context.Context, jobID uuid.UUID) (kv.JobStatus, error)
}

type raffleUseCaseImpl struct {
	uow      shared.UnitOfWork
	entries  EntrySource
	seeds    SeedSource
	jobs     JobStore
	enqueuer TaskEnqueuer
	seedCfg  SeedConfig
	clock    clock.Clock
}

func NewRaffleUseCase(
	uow shared.UnitOfWork,
	entries EntrySource,
	seeds SeedSource,
	jobs JobStore,
	enqueuer TaskEnqueuer,
	seedCfg SeedConfig,
	clk clock.Clock,
) RaffleCommands {
	return &raffleUseCaseImpl{
		uow:      uow,
		entries:  entries,
		seeds:    seeds,
		jobs:     jobs,
		enqueuer: enqueuer,
		seedCfg:  seedCfg,
		clock:    clk,
	}
}

// RequestClose rejects a period that already has a raffle, records a
// pending job, and hands the heavy work to the worker. Closing runs
// asynchronously because an end-of-period entry list can run to millions
// of rows.
func (u *raffleUseCaseImpl) RequestClose(ctx context.Context, period string) (*CloseJob, error) {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Raffles().FindByPeriod(ctx, tx.DB(), period)
		if err == nil {
			return ErrAlreadyClosed
		}
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	job := CloseJob{JobID: uuid.New(), Period: period}
	if err := u.jobs.Put(ctx, kv.JobStatus{
		JobID:  job.JobID,
		Period: period,
		State:  kv.JobPending,
	}); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(ClosePayload(job))
	if err != nil {
		return nil, errs.Wrap(err, "failed to encode close payload")
	}
	task := asynq.NewTask(TaskTypeRaffleClose, payload, asynq.TaskID("close:"+period), asynq.MaxRetry(3))
	if _, err := u.enqueuer.EnqueueContext(ctx, task); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil, ErrAlreadyClosed
		}
		return nil, errs.Wrap(err, "failed to enqueue close task")
	}
	return &job, nil
}

// ExecuteClose fetches the period's qualifying entries, commits their
// merkle root, and persists the position-ordered entry list in one
// transaction. The committed order is exactly the ledger's returned order.
func (u *raffleUseCaseImpl) ExecuteClose(ctx context.Context, jobID uuid.UUID, period string) error {
	if err := u.executeClose(ctx, jobID, period); err != nil {
		if statusErr := u.jobs.Put(ctx, kv.JobStatus{
			JobID:  jobID,
			Period: period,
			State:  kv.JobFailed,
			Error:  err.Error(),
		}); statusErr != nil {
			slog.Warn("failed to record close job failure", "jobId", jobID, "error", statusErr)
		}
		return err
	}
	return nil
}

func (u *raffleUseCaseImpl) executeClose(ctx context.Context, jobID uuid.UUID, period string) error {
	ledgerEntries, err := u.entries.ListEntries(ctx, period)
	if err != nil {
		return errs.Mark(err, ErrLedgerFailed)
	}
	if len(ledgerEntries) == 0 {
		return ErrNoEntries
	}

	domainEntries := make([]raffle.Entry, len(ledgerEntries))
	for i, e := range ledgerEntries {
		domainEntries[i] = raffle.Entry{
			PointID:  e.PointID,
			UserID:   e.UserID,
			Position: int32(i),
		}
	}

	r, err := raffle.Close(period, domainEntries)
	if err != nil {
		return err
	}
	for i := range domainEntries {
		domainEntries[i].RaffleID = r.ID()
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Raffles().Create(ctx, tx.DB(), r); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrAlreadyClosed
			}
			return err
		}
		return tx.Raffles().InsertEntries(ctx, tx.DB(), r.ID(), domainEntries)
	})
	if err != nil {
		return err
	}

	raffleID := r.ID()
	if err := u.jobs.Put(ctx, kv.JobStatus{
		JobID:    jobID,
		Period:   period,
		State:    kv.JobSucceeded,
		RaffleID: &raffleID,
	}); err != nil {
		slog.Warn("failed to record close job success", "jobId", jobID, "error", err)
	}
	return nil
}

// Draw reveals the external seed against the root committed at close time.
// The seed is fetched before the row lock is taken so a slow beacon never
// holds a lock; the locked re-read inside the transaction repeats the
// state check, so a concurrent draw still loses cleanly.
func (u *raffleUseCaseImpl) Draw(ctx context.Context, raffleID uuid.UUID) (*DrawResult, error) {
	// Short precheck transaction so a raffle in the wrong state fails
	// before any beacon traffic happens. The lock is released immediately.
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		r, err := tx.Raffles().FindByIDForUpdate(ctx, tx.DB(), raffleID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrRaffleNotFound
			}
			return err
		}
		if r.Status() != raffle.StatusClosed {
			return ErrInvalidState
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	seed, err := u.fetchSeed(ctx)
	if err != nil {
		return nil, err
	}

	var result *DrawResult
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		r, err := tx.Raffles().FindByIDForUpdate(ctx, tx.DB(), raffleID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrRaffleNotFound
			}
			return err
		}

		entries, err := tx.Raffles().ListEntries(ctx, tx.DB(), raffleID)
		if err != nil {
			return err
		}

		winner, err := r.Draw(seed, entries, u.clock.Now())
		if err != nil {
			switch {
			case errors.Is(err, raffle.ErrInvalidState):
				return ErrInvalidState
			case errors.Is(err, raffle.ErrNoEntries):
				return ErrNoEntries
			case errors.Is(err, raffle.ErrInvalidSeed):
				return errs.Mark(err, ErrSeedUnavailable)
			default:
				return err
			}
		}

		if err := tx.Raffles().SaveDrawn(ctx, tx.DB(), r); err != nil {
			return err
		}
		if err := tx.Raffles().InsertWinner(ctx, tx.DB(), raffle.Winner{
			RaffleID:       raffleID,
			UserID:         winner.UserID,
			WinningPointID: winner.PointID,
			Prize:          defaultPrize,
		}); err != nil {
			return err
		}

		result = &DrawResult{
			RaffleID:       raffleID,
			WinnerUserID:   winner.UserID,
			WinningPointID: winner.PointID,
			ExternalSeed:   seed,
			MerkleRoot:     r.MerkleRoot(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (u *raffleUseCaseImpl) JobStatus(ctx context.Context, jobID uuid.UUID) (kv.JobStatus, error) {
	status, err := u.jobs.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, kv.ErrJobNotFound) {
			return kv.JobStatus{}, ErrJobNotFound
		}
		return kv.JobStatus{}, err
	}
	return status, nil
}

// fetchSeed retries the randomness source with exponential backoff under a
// single overall deadline. Exhaustion surfaces ErrSeedUnavailable and
// nothing else changes.
func (u *raffleUseCaseImpl) fetchSeed(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, u.seedCfg.Timeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt < u.seedCfg.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", errs.Mark(ctx.Err(), ErrSeedUnavailable)
			case <-time.After(seedBackoff(u.seedCfg.BackoffBase, attempt)):
			}
		}
		seed, err := u.seeds.Fetch(ctx)
		if err == nil {
			return seed, nil
		}
		lastErr = err
		slog.Warn("seed fetch attempt failed", "attempt", attempt+1, "error", err)
	}
	return "", errs.Mark(lastErr, ErrSeedUnavailable)
}

// seedBackoff grows base * 2^(attempt-1) with up to 50% random jitter.
func seedBackoff(base time.Duration, attempt int) time.Duration {
	backoff := base * time.Duration(1<<(attempt-1))
	jitterMax := int64(backoff / 2)
	if jitterMax > 0 {
		if n, err := rand.Int(rand.Reader, big.NewInt(jitterMax)); err == nil {
			backoff += time.Duration(n.Int64())
		}
	}
	return backoff
}
