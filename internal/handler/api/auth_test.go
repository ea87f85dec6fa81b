//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"fuelraffle/internal/handler/api"
	reqdto "fuelraffle/internal/handler/dto/request"
	resdto "fuelraffle/internal/handler/dto/response"
	"fuelraffle/internal/usecase/commands"
	"fuelraffle/tests/common/httptest"
	"fuelraffle/tests/common/testutil"
	commandsmock "fuelraffle/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockAuthCommands
	handler      *api.AuthHandler
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockAuthCommands(s.mockCtrl)
	s.handler = api.NewAuthHandler(s.mockCommands)

	s.router.POST("/auth/otp/request", s.handler.RequestOTP)
	s.router.POST("/auth/otp/verify", s.handler.VerifyOTP)
	s.router.POST("/auth/refresh", s.handler.Refresh)
	s.router.POST("/auth/logout", s.handler.Logout)
}

func (s *AuthHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

// ================================================================================
// TestRequestOTP
// ================================================================================

func (s *AuthHandlerTestSuite) TestRequestOTP() {
	url := "/auth/otp/request"
	reqBody := reqdto.OTPRequest{Phone: "+821012345678"}

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().RequestOTP(gomock.Any(), reqBody.Phone).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing phone", mutate: testutil.Field("phone", nil)},
			{name: "not E.164", mutate: testutil.Field("phone", "01012345678")},
			{name: "empty phone", mutate: testutil.Field("phone", "")},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 500 when delivery fails", func() {
		s.mockCommands.EXPECT().RequestOTP(gomock.Any(), reqBody.Phone).
			Return(commands.ErrOTPDelivery).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

// ================================================================================
// TestVerifyOTP
// ================================================================================

func (s *AuthHandlerTestSuite) TestVerifyOTP() {
	url := "/auth/otp/verify"
	reqBody := reqdto.OTPVerifyRequest{Phone: "+821012345678", Code: "123456"}
	pair := &commands.TokenPair{AccessToken: "access.jwt", RefreshToken: "refresh.jwt"}

	s.Run("success: returns 200 with a token pair", func() {
		s.mockCommands.EXPECT().VerifyOTP(gomock.Any(), reqBody.Phone, reqBody.Code).
			Return(pair, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body resdto.TokenPairResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(pair.AccessToken, body.AccessToken)
		s.Equal(pair.RefreshToken, body.RefreshToken)
	})

	s.Run("error: 401 Unauthorized for any credential failure", func() {
		s.mockCommands.EXPECT().VerifyOTP(gomock.Any(), reqBody.Phone, reqBody.Code).
			Return(nil, commands.ErrInvalidCredential).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid phone or code")
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "code too short", mutate: testutil.Field("code", "12345")},
			{name: "code not numeric", mutate: testutil.Field("code", "12345a")},
			{name: "missing code", mutate: testutil.Field("code", nil)},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})
}

// ================================================================================
// TestRefresh
// ================================================================================

func (s *AuthHandlerTestSuite) TestRefresh() {
	url := "/auth/refresh"
	reqBody := reqdto.RefreshRequest{RefreshToken: "refresh.jwt"}

	s.Run("success: returns 200 with a rotated pair", func() {
		pair := &commands.TokenPair{AccessToken: "new.access", RefreshToken: "new.refresh"}
		s.mockCommands.EXPECT().Rotate(gomock.Any(), reqBody.RefreshToken).
			Return(pair, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body resdto.TokenPairResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("new.access", body.AccessToken)
		s.Equal("new.refresh", body.RefreshToken)
	})

	s.Run("error: 401 Unauthorized when the token was already rotated", func() {
		s.mockCommands.EXPECT().Rotate(gomock.Any(), reqBody.RefreshToken).
			Return(nil, commands.ErrInvalidCredential).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired token")
	})
}

// ================================================================================
// TestLogout
// ================================================================================

func (s *AuthHandlerTestSuite) TestLogout() {
	url := "/auth/logout"
	reqBody := reqdto.LogoutRequest{RefreshToken: "refresh.jwt"}

	s.Run("success: returns 204 and passes both tokens along", func() {
		s.mockCommands.EXPECT().Logout(gomock.Any(), "access.jwt", reqBody.RefreshToken).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "access.jwt")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("success: missing bearer still revokes the refresh token", func() {
		s.mockCommands.EXPECT().Logout(gomock.Any(), "", reqBody.RefreshToken).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 500 when revocation fails", func() {
		s.mockCommands.EXPECT().Logout(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("redis down")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
