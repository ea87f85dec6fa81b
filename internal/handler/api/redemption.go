package api

import (
	"errors"
	"net/http"

	reqdto "fuelraffle/internal/handler/dto/request"
	resdto "fuelraffle/internal/handler/dto/response"
	"fuelraffle/internal/handler/httperr"
	"fuelraffle/internal/handler/middleware"
	"fuelraffle/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type RedemptionHandler struct {
	redemptionCommands commands.RedemptionCommands
}

func NewRedemptionHandler(redemptionCommands commands.RedemptionCommands) *RedemptionHandler {
	return &RedemptionHandler{
		redemptionCommands: redemptionCommands,
	}
}

// @Summary Redeem dispenser QR
// @Description Validate a signed dispenser payload and record the earned point
// @Tags redemption
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.RedeemRequest true "Redemption request"
// @Success 200 {object} resdto.RedeemResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /redeem [post]
func (h *RedemptionHandler) Redeem(c *gin.Context) {
	var req reqdto.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoIdentity, "User not authenticated", nil)
		return
	}

	result, err := h.redemptionCommands.Redeem(c.Request.Context(), req.Payload, userID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrRateLimited):
			httperr.AbortWithError(c, http.StatusTooManyRequests, err, "Too many redemption attempts", nil)
		case errors.Is(err, commands.ErrInvalidFormat),
			errors.Is(err, commands.ErrInvalidSignature),
			errors.Is(err, commands.ErrInvalidPayload):
			// One message for all three; the caller learns nothing about
			// which check failed.
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid redemption payload", nil)
		case errors.Is(err, commands.ErrReplay):
			httperr.AbortWithError(c, http.StatusConflict, err, "Redemption already processed", nil)
		case errors.Is(err, commands.ErrPayloadExpired):
			httperr.AbortWithError(c, http.StatusGone, err, "Redemption payload expired", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.RedeemResponse{
		PointID:     result.PointID,
		StationID:   result.StationID,
		DispenserID: result.DispenserID,
	})
}
