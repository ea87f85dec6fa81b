//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"fuelraffle/internal/domain/raffle"
	"fuelraffle/internal/handler/api"
	resdto "fuelraffle/internal/handler/dto/response"
	"fuelraffle/internal/handler/middleware"
	"fuelraffle/internal/infra/kv"
	"fuelraffle/internal/pkg/merkle"
	"fuelraffle/internal/usecase/commands"
	"fuelraffle/internal/usecase/queries"
	"fuelraffle/tests/common/builder"
	"fuelraffle/tests/common/httptest"
	commandsmock "fuelraffle/tests/mock/commands"
	queriesmock "fuelraffle/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RaffleHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockRaffleCommands
	mockQueries  *queriesmock.MockRaffleQueries
	handler      *api.RaffleHandler
}

func (s *RaffleHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockRaffleCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockRaffleQueries(s.mockCtrl)
	s.handler = api.NewRaffleHandler(s.mockCommands, s.mockQueries)

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", uuid.New())
		c.Set("user_role", middleware.RoleEmployee)
		c.Next()
	}

	s.router.GET("/raffles/:id/verify", s.handler.Verify)
	s.router.GET("/raffles/:id/entries", s.handler.Entries)
	s.router.POST("/raffles/:id/close", authMiddleware, s.handler.Close)
	s.router.GET("/raffles/jobs/:id", authMiddleware, s.handler.JobStatus)
	s.router.POST("/raffles/:id/draw", authMiddleware, s.handler.Draw)
}

func (s *RaffleHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestRaffleHandlerSuite(t *testing.T) {
	suite.Run(t, new(RaffleHandlerTestSuite))
}

// ================================================================================
// TestClose
// ================================================================================

func (s *RaffleHandlerTestSuite) TestClose() {
	b := builder.NewRaffleBuilder()
	url := "/raffles/" + b.Period + "/close"

	s.Run("success: returns 202 Accepted with a polling URL", func() {
		job := b.BuildCloseJob()
		s.mockCommands.EXPECT().RequestClose(gomock.Any(), b.Period).
			Return(job, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var body resdto.CloseAcceptedResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusAccepted, &body)
		s.Equal(job.JobID, body.JobID)
		s.Equal("/api/raffles/jobs/"+job.JobID.String(), body.StatusURL)
	})

	s.Run("error: 409 Conflict when the period is already closed", func() {
		s.mockCommands.EXPECT().RequestClose(gomock.Any(), b.Period).
			Return(nil, commands.ErrAlreadyClosed).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already closed")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}

// ================================================================================
// TestJobStatus
// ================================================================================

func (s *RaffleHandlerTestSuite) TestJobStatus() {
	jobID := uuid.New()
	raffleID := uuid.New()
	url := "/raffles/jobs/" + jobID.String()

	s.Run("success: returns 200 with the job state", func() {
		s.mockCommands.EXPECT().JobStatus(gomock.Any(), jobID).
			Return(kv.JobStatus{
				JobID:    jobID,
				Period:   "2026-03",
				State:    kv.JobSucceeded,
				RaffleID: &raffleID,
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var body resdto.JobStatusResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(jobID, body.JobID)
		s.Equal(string(kv.JobSucceeded), body.State)
		s.Require().NotNil(body.RaffleID)
		s.Equal(raffleID, *body.RaffleID)
	})

	s.Run("error: 404 Not Found for unknown job", func() {
		s.mockCommands.EXPECT().JobStatus(gomock.Any(), jobID).
			Return(kv.JobStatus{}, commands.ErrJobNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Job not found")
	})

	s.Run("error: 400 Bad Request for malformed job ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/raffles/jobs/not-a-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid job ID")
	})
}

// ================================================================================
// TestDraw
// ================================================================================

func (s *RaffleHandlerTestSuite) TestDraw() {
	b := builder.NewRaffleBuilder()
	url := "/raffles/" + b.RaffleID.String() + "/draw"

	s.Run("success: returns 200 with seed, root and winner", func() {
		result := b.BuildDrawResult()
		s.mockCommands.EXPECT().Draw(gomock.Any(), b.RaffleID).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var body resdto.DrawResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(result.RaffleID, body.RaffleID)
		s.Equal(result.ExternalSeed, body.ExternalSeed)
		s.Equal(result.MerkleRoot, body.MerkleRoot)
		s.Equal(result.WinnerUserID, body.WinnerUserID)
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "raffle not found",
				commandsError:  commands.ErrRaffleNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Raffle not found",
			},
			{
				name:           "already drawn",
				commandsError:  commands.ErrInvalidState,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "not in a drawable state",
			},
			{
				name:           "seed beacon down",
				commandsError:  commands.ErrSeedUnavailable,
				expectedStatus: http.StatusServiceUnavailable,
				expectedMsg:    "randomness source unavailable",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Draw(gomock.Any(), b.RaffleID).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestVerify
// ================================================================================

func (s *RaffleHandlerTestSuite) TestVerify() {
	b := builder.NewRaffleBuilder()
	url := "/raffles/" + b.RaffleID.String() + "/verify"

	s.Run("success: public endpoint returns the audit projection", func() {
		view := b.BuildVerificationView()
		s.mockQueries.EXPECT().Verify(gomock.Any(), b.RaffleID).
			Return(view, nil).Times(1)

		// No Authorization header: verification is public.
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var body queries.VerificationView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.Valid)
		s.Equal(view.MerkleRoot, body.MerkleRoot)
		s.Equal(view.ExternalSeed, body.ExternalSeed)
	})

	s.Run("error: 409 Conflict before the draw", func() {
		s.mockQueries.EXPECT().Verify(gomock.Any(), b.RaffleID).
			Return(nil, queries.ErrNotDrawn).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "has not been drawn")
	})

	s.Run("error: 404 Not Found covers a missing winner row too", func() {
		for _, qerr := range []error{queries.ErrRaffleNotFound, queries.ErrWinnerNotFound} {
			s.mockQueries.EXPECT().Verify(gomock.Any(), b.RaffleID).
				Return(nil, qerr).Times(1)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Raffle not found")
		}
	})
}

// ================================================================================
// TestEntries
// ================================================================================

func (s *RaffleHandlerTestSuite) TestEntries() {
	b := builder.NewRaffleBuilder()
	url := "/raffles/" + b.RaffleID.String() + "/entries"

	s.Run("success: the public list rebuilds the committed root", func() {
		entries := b.BuildEntries()
		leaves := make([]string, len(entries))
		for i, e := range entries {
			leaves[i] = raffle.EntryLeaf(e)
		}
		root, err := merkle.Root(leaves)
		s.Require().NoError(err)
		view := b.With(func(rb *builder.RaffleBuilder) { rb.MerkleRoot = root }).BuildView()

		entryViews := make([]queries.RaffleEntryView, len(entries))
		for i, e := range entries {
			entryViews[i] = queries.RaffleEntryView{
				PointID:  e.PointID,
				UserID:   e.UserID,
				Position: e.Position,
			}
		}

		s.mockQueries.EXPECT().GetByID(gomock.Any(), b.RaffleID).
			Return(view, nil).Times(1)
		s.mockQueries.EXPECT().ListEntries(gomock.Any(), b.RaffleID).
			Return(entryViews, nil).Times(1)

		// No Authorization header: the audit trail is public.
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var body resdto.RaffleEntriesResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(root, body.MerkleRoot)
		s.Require().Len(body.Entries, len(entries))

		// An auditor needs nothing but the body to recompute the root.
		rebuilt := make([]string, len(body.Entries))
		for i, e := range body.Entries {
			s.Equal(int32(i), e.Position)
			rebuilt[i] = raffle.EntryLeaf(raffle.Entry{PointID: e.PointID, UserID: e.UserID})
		}
		recomputed, err := merkle.Root(rebuilt)
		s.Require().NoError(err)
		s.Equal(body.MerkleRoot, recomputed)
	})

	s.Run("error: 404 Not Found for an unknown raffle", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), b.RaffleID).
			Return(nil, queries.ErrRaffleNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Raffle not found")
	})

	s.Run("error: 400 Bad Request for a malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/raffles/not-a-uuid/entries", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid raffle ID")
	})
}
