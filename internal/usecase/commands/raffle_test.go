//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"fuelraffle/internal/domain/raffle"
	"fuelraffle/internal/infra"
	"fuelraffle/internal/infra/kv"
	"fuelraffle/internal/infra/ledger"
	"fuelraffle/internal/pkg/clock"
	"fuelraffle/internal/usecase/commands"
	"fuelraffle/internal/usecase/shared"
	commandsmock "fuelraffle/tests/mock/commands"
	sharedmock "fuelraffle/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const testSeed = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

type RaffleUseCaseTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockUow      *sharedmock.MockUnitOfWork
	mockTx       *sharedmock.MockTx
	mockRaffles  *sharedmock.MockRaffleRepository
	mockEntries  *commandsmock.MockEntrySource
	mockSeeds    *commandsmock.MockSeedSource
	mockJobs     *commandsmock.MockJobStore
	mockEnqueuer *commandsmock.MockTaskEnqueuer
	clk          *clock.MockClock
	uc           commands.RaffleCommands
}

func (s *RaffleUseCaseTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUow = sharedmock.NewMockUnitOfWork(s.mockCtrl)
	s.mockTx = sharedmock.NewMockTx(s.mockCtrl)
	s.mockRaffles = sharedmock.NewMockRaffleRepository(s.mockCtrl)
	s.mockEntries = commandsmock.NewMockEntrySource(s.mockCtrl)
	s.mockSeeds = commandsmock.NewMockSeedSource(s.mockCtrl)
	s.mockJobs = commandsmock.NewMockJobStore(s.mockCtrl)
	s.mockEnqueuer = commandsmock.NewMockTaskEnqueuer(s.mockCtrl)

	s.mockTx.EXPECT().Raffles().Return(s.mockRaffles).AnyTimes()
	s.mockTx.EXPECT().DB().Return(nil).AnyTimes()
	s.mockUow.EXPECT().Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, s.mockTx)
		}).AnyTimes()

	s.clk = clock.NewMockClock(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	s.uc = commands.NewRaffleUseCase(
		s.mockUow,
		s.mockEntries,
		s.mockSeeds,
		s.mockJobs,
		s.mockEnqueuer,
		commands.SeedConfig{Retries: 3, BackoffBase: time.Millisecond, Timeout: time.Second},
		s.clk,
	)
}

func (s *RaffleUseCaseTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestRaffleUseCaseSuite(t *testing.T) {
	suite.Run(t, new(RaffleUseCaseTestSuite))
}

func notFoundErr() error {
	return infra.WrapRepoErr("no rows", nil, infra.KindNotFound)
}

func (s *RaffleUseCaseTestSuite) ledgerEntries(n int) []ledger.Entry {
	entries := make([]ledger.Entry, n)
	for i := range entries {
		entries[i] = ledger.Entry{PointID: uuid.New(), UserID: uuid.New()}
	}
	return entries
}

// ================================================================================
// RequestClose
// ================================================================================

func (s *RaffleUseCaseTestSuite) TestRequestClose() {
	const period = "2026-03"

	s.Run("success: records a pending job and enqueues the close task", func() {
		s.mockRaffles.EXPECT().FindByPeriod(gomock.Any(), gomock.Any(), period).
			Return(nil, notFoundErr()).Times(1)
		s.mockJobs.EXPECT().Put(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, status kv.JobStatus) error {
				s.Equal(period, status.Period)
				s.Equal(kv.JobPending, status.State)
				return nil
			}).Times(1)
		s.mockEnqueuer.EXPECT().EnqueueContext(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
				s.Equal(commands.TaskTypeRaffleClose, task.Type())
				return &asynq.TaskInfo{}, nil
			}).Times(1)

		job, err := s.uc.RequestClose(context.Background(), period)
		s.Require().NoError(err)
		s.Equal(period, job.Period)
		s.NotEqual(uuid.Nil, job.JobID)
	})

	s.Run("error: a raffle already exists for the period", func() {
		existing, err := raffle.Close(period, []raffle.Entry{{PointID: uuid.New(), UserID: uuid.New()}})
		s.Require().NoError(err)

		s.mockRaffles.EXPECT().FindByPeriod(gomock.Any(), gomock.Any(), period).
			Return(existing, nil).Times(1)

		_, err = s.uc.RequestClose(context.Background(), period)
		s.ErrorIs(err, commands.ErrAlreadyClosed)
	})

	s.Run("error: duplicate task id means a close is already in flight", func() {
		s.mockRaffles.EXPECT().FindByPeriod(gomock.Any(), gomock.Any(), period).
			Return(nil, notFoundErr()).Times(1)
		s.mockJobs.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil).Times(1)
		s.mockEnqueuer.EXPECT().EnqueueContext(gomock.Any(), gomock.Any()).
			Return(nil, asynq.ErrTaskIDConflict).Times(1)

		_, err := s.uc.RequestClose(context.Background(), period)
		s.ErrorIs(err, commands.ErrAlreadyClosed)
	})
}

// ================================================================================
// ExecuteClose
// ================================================================================

func (s *RaffleUseCaseTestSuite) TestExecuteClose() {
	const period = "2026-03"
	jobID := uuid.New()

	s.Run("success: commits root and entries in ledger order", func() {
		ledgerList := s.ledgerEntries(3)
		s.mockEntries.EXPECT().ListEntries(gomock.Any(), period).
			Return(ledgerList, nil).Times(1)

		var raffleID uuid.UUID
		s.mockRaffles.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, r *raffle.Raffle) error {
				raffleID = r.ID()
				s.Equal(raffle.StatusClosed, r.Status())
				s.Len(r.MerkleRoot(), 64)
				return nil
			}).Times(1)
		s.mockRaffles.EXPECT().InsertEntries(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, id uuid.UUID, entries []raffle.Entry) error {
				s.Equal(raffleID, id)
				s.Require().Len(entries, 3)
				for i, e := range entries {
					s.Equal(int32(i), e.Position)
					s.Equal(ledgerList[i].PointID, e.PointID)
					s.Equal(raffleID, e.RaffleID)
				}
				return nil
			}).Times(1)
		s.mockJobs.EXPECT().Put(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, status kv.JobStatus) error {
				s.Equal(kv.JobSucceeded, status.State)
				s.Require().NotNil(status.RaffleID)
				s.Equal(raffleID, *status.RaffleID)
				return nil
			}).Times(1)

		s.NoError(s.uc.ExecuteClose(context.Background(), jobID, period))
	})

	s.Run("error: empty period records a failed job", func() {
		s.mockEntries.EXPECT().ListEntries(gomock.Any(), period).
			Return(nil, nil).Times(1)
		s.mockJobs.EXPECT().Put(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, status kv.JobStatus) error {
				s.Equal(kv.JobFailed, status.State)
				s.NotEmpty(status.Error)
				return nil
			}).Times(1)

		err := s.uc.ExecuteClose(context.Background(), jobID, period)
		s.ErrorIs(err, commands.ErrNoEntries)
	})

	s.Run("error: concurrent close loses on the unique period key", func() {
		s.mockEntries.EXPECT().ListEntries(gomock.Any(), period).
			Return(s.ledgerEntries(1), nil).Times(1)
		s.mockRaffles.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(infra.WrapRepoErr("duplicate period", nil, infra.KindDuplicateKey)).Times(1)
		s.mockJobs.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		err := s.uc.ExecuteClose(context.Background(), jobID, period)
		s.ErrorIs(err, commands.ErrAlreadyClosed)
	})

	s.Run("error: ledger outage is marked as such", func() {
		s.mockEntries.EXPECT().ListEntries(gomock.Any(), period).
			Return(nil, errTestDown).Times(1)
		s.mockJobs.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		err := s.uc.ExecuteClose(context.Background(), jobID, period)
		s.ErrorIs(err, commands.ErrLedgerFailed)
	})
}

// ================================================================================
// Draw
// ================================================================================

func (s *RaffleUseCaseTestSuite) closedRaffleWithEntries(n int) (*raffle.Raffle, []raffle.Entry) {
	entries := make([]raffle.Entry, n)
	for i := range entries {
		entries[i] = raffle.Entry{PointID: uuid.New(), UserID: uuid.New(), Position: int32(i)}
	}
	r, err := raffle.Close("2026-03", entries)
	s.Require().NoError(err)
	for i := range entries {
		entries[i].RaffleID = r.ID()
	}
	return r, entries
}

func (s *RaffleUseCaseTestSuite) TestDraw() {
	s.Run("success: reveals the seed and persists the winner", func() {
		r, entries := s.closedRaffleWithEntries(5)

		s.mockRaffles.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), r.ID()).
			Return(r, nil).Times(2)
		s.mockSeeds.EXPECT().Fetch(gomock.Any()).Return(testSeed, nil).Times(1)
		s.mockRaffles.EXPECT().ListEntries(gomock.Any(), gomock.Any(), r.ID()).
			Return(entries, nil).Times(1)

		s.mockRaffles.EXPECT().SaveDrawn(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, drawn *raffle.Raffle) error {
				s.Equal(raffle.StatusDrawn, drawn.Status())
				s.Require().NotNil(drawn.ExternalSeed())
				s.Equal(testSeed, *drawn.ExternalSeed())
				return nil
			}).Times(1)

		var winner raffle.Winner
		s.mockRaffles.EXPECT().InsertWinner(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, w raffle.Winner) error {
				winner = w
				return nil
			}).Times(1)

		result, err := s.uc.Draw(context.Background(), r.ID())
		s.Require().NoError(err)
		s.Equal(r.ID(), result.RaffleID)
		s.Equal(testSeed, result.ExternalSeed)
		s.Equal(r.MerkleRoot(), result.MerkleRoot)
		s.Equal(winner.WinningPointID, result.WinningPointID)

		// The winner must replay deterministically from the public inputs.
		idx := raffle.WinnerIndex(result.MerkleRoot, testSeed, len(entries))
		s.Equal(entries[idx].PointID, result.WinningPointID)
		s.Equal(entries[idx].UserID, result.WinnerUserID)
	})

	s.Run("error: unknown raffle", func() {
		id := uuid.New()
		s.mockRaffles.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), id).
			Return(nil, notFoundErr()).Times(1)

		_, err := s.uc.Draw(context.Background(), id)
		s.ErrorIs(err, commands.ErrRaffleNotFound)
	})

	s.Run("error: already drawn raffle fails before touching the beacon", func() {
		r, entries := s.closedRaffleWithEntries(2)
		_, err := r.Draw(testSeed, entries, s.clk.Now())
		s.Require().NoError(err)

		s.mockRaffles.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), r.ID()).
			Return(r, nil).Times(1)

		_, err = s.uc.Draw(context.Background(), r.ID())
		s.ErrorIs(err, commands.ErrInvalidState)
	})

	s.Run("error: beacon exhaustion leaves the raffle closed", func() {
		r, _ := s.closedRaffleWithEntries(2)

		s.mockRaffles.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), r.ID()).
			Return(r, nil).Times(1)
		s.mockSeeds.EXPECT().Fetch(gomock.Any()).Return("", errTestDown).Times(3)

		_, err := s.uc.Draw(context.Background(), r.ID())
		s.ErrorIs(err, commands.ErrSeedUnavailable)
		s.Equal(raffle.StatusClosed, r.Status())
	})
}

// ================================================================================
// JobStatus
// ================================================================================

func (s *RaffleUseCaseTestSuite) TestJobStatus() {
	jobID := uuid.New()

	s.Run("success", func() {
		s.mockJobs.EXPECT().Get(gomock.Any(), jobID).
			Return(kv.JobStatus{JobID: jobID, State: kv.JobPending}, nil).Times(1)

		status, err := s.uc.JobStatus(context.Background(), jobID)
		s.Require().NoError(err)
		s.Equal(kv.JobPending, status.State)
	})

	s.Run("error: unknown job", func() {
		s.mockJobs.EXPECT().Get(gomock.Any(), jobID).
			Return(kv.JobStatus{}, kv.ErrJobNotFound).Times(1)

		_, err := s.uc.JobStatus(context.Background(), jobID)
		s.ErrorIs(err, commands.ErrJobNotFound)
	})
}
