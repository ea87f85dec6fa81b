package api

import (
	"errors"
	"net/http"
	"strings"

	reqdto "fuelraffle/internal/handler/dto/request"
	resdto "fuelraffle/internal/handler/dto/response"
	"fuelraffle/internal/handler/httperr"
	"fuelraffle/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authCommands commands.AuthCommands
}

func NewAuthHandler(authCommands commands.AuthCommands) *AuthHandler {
	return &AuthHandler{
		authCommands: authCommands,
	}
}

// @Summary Request OTP
// @Description Send a one-time login code to the given phone number
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.OTPRequest true "OTP request"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Router /auth/otp/request [post]
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req reqdto.OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.authCommands.RequestOTP(c.Request.Context(), req.Phone); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Verify OTP
// @Description Exchange a valid phone/code pair for an access and refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.OTPVerifyRequest true "OTP verification"
// @Success 200 {object} resdto.TokenPairResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /auth/otp/verify [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req reqdto.OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	pair, err := h.authCommands.VerifyOTP(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		if errors.Is(err, commands.ErrInvalidCredential) {
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid phone or code", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// @Summary Rotate credentials
// @Description Exchange a refresh token for a new token pair; the old token is revoked
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RefreshRequest true "Refresh request"
// @Success 200 {object} resdto.TokenPairResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req reqdto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	pair, err := h.authCommands.Rotate(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, commands.ErrInvalidCredential) {
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// @Summary Logout
// @Description Revoke the current access token and the supplied refresh token
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req reqdto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	accessToken := ""
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		accessToken = strings.TrimSpace(authHeader[len("Bearer "):])
	}

	if err := h.authCommands.Logout(c.Request.Context(), accessToken, req.RefreshToken); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
