//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"fuelraffle/internal/handler/api"
	reqdto "fuelraffle/internal/handler/dto/request"
	resdto "fuelraffle/internal/handler/dto/response"
	"fuelraffle/internal/handler/middleware"
	"fuelraffle/internal/usecase/commands"
	"fuelraffle/tests/common/httptest"
	"fuelraffle/tests/common/testutil"
	commandsmock "fuelraffle/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RedemptionHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockRedemptionCommands
	handler      *api.RedemptionHandler
	userID       uuid.UUID
}

func (s *RedemptionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockRedemptionCommands(s.mockCtrl)
	s.handler = api.NewRedemptionHandler(s.mockCommands)
	s.userID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.userID)
		c.Set("user_role", middleware.RoleUser)
		c.Next()
	}

	s.router.POST("/redeem", authMiddleware, s.handler.Redeem)
}

func (s *RedemptionHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestRedemptionHandlerSuite(t *testing.T) {
	suite.Run(t, new(RedemptionHandlerTestSuite))
}

func (s *RedemptionHandlerTestSuite) TestRedeem() {
	url := "/redeem"
	reqBody := reqdto.RedeemRequest{Payload: "Y2xhaW1z.c2lnbmF0dXJl"}

	s.Run("success: returns 200 with the recorded point", func() {
		result := &commands.RedemptionResult{
			PointID:     uuid.New(),
			StationID:   "ST-001",
			DispenserID: "D-07",
		}
		s.mockCommands.EXPECT().Redeem(gomock.Any(), reqBody.Payload, s.userID).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.RedeemResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(result.PointID, body.PointID)
		s.Equal(result.StationID, body.StationID)
		s.Equal(result.DispenserID, body.DispenserID)
	})

	s.Run("error: format, signature and payload failures share one answer", func() {
		for _, gateErr := range []error{
			commands.ErrInvalidFormat,
			commands.ErrInvalidSignature,
			commands.ErrInvalidPayload,
		} {
			s.mockCommands.EXPECT().Redeem(gomock.Any(), reqBody.Payload, s.userID).
				Return(nil, gateErr).Times(1)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid redemption payload")
		}
	})

	s.Run("error: maps the remaining gates to distinct statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "rate limited",
				commandsError:  commands.ErrRateLimited,
				expectedStatus: http.StatusTooManyRequests,
				expectedMsg:    "Too many redemption attempts",
			},
			{
				name:           "nonce replay",
				commandsError:  commands.ErrReplay,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "already processed",
			},
			{
				name:           "payload expired",
				commandsError:  commands.ErrPayloadExpired,
				expectedStatus: http.StatusGone,
				expectedMsg:    "expired",
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
				s.mockCommands.EXPECT().Redeem(gomock.Any(), reqBody.Payload, s.userID).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})

	s.Run("error: 400 Bad Request when payload missing", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("payload", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}
