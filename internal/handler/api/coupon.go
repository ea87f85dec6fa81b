package api

import (
	"errors"
	"net/http"

	reqdto "fuelraffle/internal/handler/dto/request"
	resdto "fuelraffle/internal/handler/dto/response"
	"fuelraffle/internal/handler/httperr"
	"fuelraffle/internal/handler/middleware"
	"fuelraffle/internal/usecase/commands"
	"fuelraffle/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// errNoIdentity covers handlers reached without RequireAuth having set the
// user context, which is a routing mistake rather than a client error.
var errNoIdentity = errors.New("no authenticated user in context")

type CouponHandler struct {
	couponCommands commands.CouponCommands
	couponQueries  queries.CouponQueries
}

func NewCouponHandler(couponCommands commands.CouponCommands, couponQueries queries.CouponQueries) *CouponHandler {
	return &CouponHandler{
		couponCommands: couponCommands,
		couponQueries:  couponQueries,
	}
}

// @Summary Generate coupon
// @Description Issue a signed single-use coupon for a fuel purchase
// @Tags coupons
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.GenerateCouponRequest true "Coupon request"
// @Success 201 {object} resdto.GenerateCouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /coupons [post]
func (h *CouponHandler) Generate(c *gin.Context) {
	var req reqdto.GenerateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	employeeID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoIdentity, "User not authenticated", nil)
		return
	}

	result, err := h.couponCommands.Generate(c.Request.Context(), req.StationID, employeeID, req.Amount)
	if err != nil {
		if errors.Is(err, commands.ErrInvalidCoupon) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid purchase amount", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusCreated, resdto.GenerateCouponResponse{
		CouponID:    result.CouponID,
		Token:       result.Token,
		QRCode:      result.QRCode,
		BaseTickets: result.BaseTickets,
		ExpiresAt:   result.ExpiresAt,
	})
}

// @Summary Scan coupon
// @Description Claim a coupon token for the authenticated user
// @Tags coupons
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.ScanCouponRequest true "Scan request"
// @Success 200 {object} resdto.CouponStateResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /coupons/scan [post]
func (h *CouponHandler) Scan(c *gin.Context) {
	var req reqdto.ScanCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoIdentity, "User not authenticated", nil)
		return
	}

	scanned, err := h.couponCommands.Scan(c.Request.Context(), req.Token, userID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidCoupon):
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired coupon token", nil)
		case errors.Is(err, commands.ErrCouponNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon not found", nil)
		case errors.Is(err, commands.ErrAlreadyUsed):
			httperr.AbortWithError(c, http.StatusConflict, err, "Coupon already used", nil)
		case errors.Is(err, commands.ErrExpired):
			httperr.AbortWithError(c, http.StatusConflict, err, "Coupon expired", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.NewCouponStateResponse(scanned))
}

// @Summary Activate coupon
// @Description Confirm a scanned coupon; only the scanning user may activate
// @Tags coupons
// @Security BearerAuth
// @Produce json
// @Param id path string true "Coupon ID"
// @Success 200 {object} resdto.CouponStateResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /coupons/{id}/activation [post]
func (h *CouponHandler) Activate(c *gin.Context) {
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid coupon ID", nil)
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoIdentity, "User not authenticated", nil)
		return
	}

	activated, err := h.couponCommands.Activate(c.Request.Context(), couponID, userID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrCouponNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon not found", nil)
		case errors.Is(err, commands.ErrForbidden):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Coupon belongs to another user", nil)
		case errors.Is(err, commands.ErrInvalidState):
			httperr.AbortWithError(c, http.StatusConflict, err, "Coupon is not activatable in its current state", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.NewCouponStateResponse(activated))
}

// @Summary Get coupon
// @Description Read a coupon's current state
// @Tags coupons
// @Security BearerAuth
// @Produce json
// @Param id path string true "Coupon ID"
// @Success 200 {object} queries.CouponView
// @Failure 404 {object} httperr.Response
// @Router /coupons/{id} [get]
func (h *CouponHandler) Get(c *gin.Context) {
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid coupon ID", nil)
		return
	}

	view, err := h.couponQueries.GetByID(c.Request.Context(), couponID)
	if err != nil {
		if errors.Is(err, queries.ErrCouponNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, view)
}
