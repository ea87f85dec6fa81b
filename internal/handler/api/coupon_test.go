//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"fuelraffle/internal/handler/api"
	resdto "fuelraffle/internal/handler/dto/response"
	"fuelraffle/internal/handler/middleware"
	"fuelraffle/internal/usecase/commands"
	"fuelraffle/internal/usecase/queries"
	"fuelraffle/tests/common/builder"
	"fuelraffle/tests/common/httptest"
	"fuelraffle/tests/common/testutil"
	commandsmock "fuelraffle/tests/mock/commands"
	queriesmock "fuelraffle/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CouponHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCouponCommands
	mockQueries  *queriesmock.MockCouponQueries
	handler      *api.CouponHandler
	userID       uuid.UUID
}

func (s *CouponHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCouponCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockCouponQueries(s.mockCtrl)
	s.handler = api.NewCouponHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.userID)
		c.Set("user_role", middleware.RoleEmployee)
		c.Next()
	}

	s.router.POST("/coupons", authMiddleware, s.handler.Generate)
	s.router.POST("/coupons/scan", authMiddleware, s.handler.Scan)
	s.router.POST("/coupons/:id/activation", authMiddleware, s.handler.Activate)
	s.router.GET("/coupons/:id", authMiddleware, s.handler.Get)
}

func (s *CouponHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCouponHandlerSuite(t *testing.T) {
	suite.Run(t, new(CouponHandlerTestSuite))
}

// ================================================================================
// TestGenerate
// ================================================================================

func (s *CouponHandlerTestSuite) TestGenerate() {
	url := "/coupons"

	b := builder.NewCouponBuilder()
	reqBody := b.BuildGenerateRequestDTO()
	expectedResult := b.BuildGenerateResult()

	s.Run("success: returns 201 Created with the signed token", func() {
		s.mockCommands.EXPECT().Generate(gomock.Any(), reqBody.StationID, s.userID, reqBody.Amount).
			Return(expectedResult, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.GenerateCouponResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(expectedResult.CouponID, body.CouponID)
		s.Equal(expectedResult.Token, body.Token)
		s.Equal(expectedResult.QRCode, body.QRCode)
		s.Equal(expectedResult.BaseTickets, body.BaseTickets)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing station_id", mutate: testutil.Field("station_id", nil)},
			{name: "missing amount", mutate: testutil.Field("amount", nil)},
			{name: "zero amount", mutate: testutil.Field("amount", 0)},
			{name: "negative amount", mutate: testutil.Field("amount", -1000)},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 400 Bad Request when the amount yields no tickets", func() {
		s.mockCommands.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrInvalidCoupon).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid purchase amount")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 500 on unexpected failure", func() {
		s.mockCommands.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

// ================================================================================
// TestScan
// ================================================================================

func (s *CouponHandlerTestSuite) TestScan() {
	url := "/coupons/scan"

	b := builder.NewCouponBuilder()
	reqBody := b.BuildScanRequestDTO("signed.coupon.token")

	s.Run("success: returns 200 with the SCANNED snapshot", func() {
		scanned, err := b.BuildDomain()
		s.Require().NoError(err)
		s.Require().NoError(scanned.Scan(s.userID, b.CreatedAt))

		s.mockCommands.EXPECT().Scan(gomock.Any(), reqBody.Token, s.userID).
			Return(scanned, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.CouponStateResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("SCANNED", body.Status)
		s.Require().NotNil(body.ScannedBy)
		s.Equal(s.userID, *body.ScannedBy)
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "invalid token",
				commandsError:  commands.ErrInvalidCoupon,
				expectedStatus: http.StatusUnauthorized,
				expectedMsg:    "Invalid or expired coupon token",
			},
			{
				name:           "coupon not found",
				commandsError:  commands.ErrCouponNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Coupon not found",
			},
			{
				name:           "already used",
				commandsError:  commands.ErrAlreadyUsed,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Coupon already used",
			},
			{
				name:           "expired",
				commandsError:  commands.ErrExpired,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Coupon expired",
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
				s.mockCommands.EXPECT().Scan(gomock.Any(), reqBody.Token, s.userID).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})

	s.Run("error: 400 Bad Request when token missing", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("token", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})
}

// ================================================================================
// TestActivate
// ================================================================================

func (s *CouponHandlerTestSuite) TestActivate() {
	b := builder.NewCouponBuilder()
	url := "/coupons/" + b.CouponID.String() + "/activation"

	s.Run("success: returns 200 with the ACTIVATED snapshot", func() {
		activated, err := b.BuildDomain()
		s.Require().NoError(err)
		s.Require().NoError(activated.Scan(s.userID, b.CreatedAt))
		s.Require().NoError(activated.Activate(s.userID, b.CreatedAt))

		s.mockCommands.EXPECT().Activate(gomock.Any(), activated.ID(), s.userID).
			Return(activated, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost,
			"/coupons/"+activated.ID().String()+"/activation", nil, "bearer-token")

		var body resdto.CouponStateResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("ACTIVATED", body.Status)
		s.NotNil(body.ActivatedAt)
	})

	s.Run("error: 400 Bad Request for malformed ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/coupons/not-a-uuid/activation", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid coupon ID")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "coupon not found",
				commandsError:  commands.ErrCouponNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Coupon not found",
			},
			{
				name:           "scanned by someone else",
				commandsError:  commands.ErrForbidden,
				expectedStatus: http.StatusForbidden,
				expectedMsg:    "Coupon belongs to another user",
			},
			{
				name:           "not in a scannable state",
				commandsError:  commands.ErrInvalidState,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Coupon is not activatable",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Activate(gomock.Any(), b.CouponID, s.userID).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *CouponHandlerTestSuite) TestGet() {
	b := builder.NewCouponBuilder()
	view := b.BuildView()
	url := "/coupons/" + b.CouponID.String()

	s.Run("success: returns 200 with the coupon view", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), b.CouponID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var body queries.CouponView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.ID, body.ID)
		s.Equal(view.Status, body.Status)
	})

	s.Run("error: 404 Not Found", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), b.CouponID).
			Return(nil, queries.ErrCouponNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Coupon not found")
	})
}
