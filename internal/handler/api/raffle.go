package api

import (
	"errors"
	"net/http"

	resdto "fuelraffle/internal/handler/dto/response"
	"fuelraffle/internal/handler/httperr"
	"fuelraffle/internal/usecase/commands"
	"fuelraffle/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RaffleHandler struct {
	raffleCommands commands.RaffleCommands
	raffleQueries  queries.RaffleQueries
}

func NewRaffleHandler(raffleCommands commands.RaffleCommands, raffleQueries queries.RaffleQueries) *RaffleHandler {
	return &RaffleHandler{
		raffleCommands: raffleCommands,
		raffleQueries:  raffleQueries,
	}
}

// @Summary Close raffle period
// @Description Commit the period's entries asynchronously; poll the returned status URL
// @Tags raffles
// @Security BearerAuth
// @Produce json
// @Param id path string true "Raffle period (YYYY-MM-DD)"
// @Success 202 {object} resdto.CloseAcceptedResponse
// @Failure 409 {object} httperr.Response
// @Router /raffles/{id}/close [post]
func (h *RaffleHandler) Close(c *gin.Context) {
	// The :id segment carries the period string here; gin requires one
	// wildcard name across the raffle group.
	period := c.Param("id")

	job, err := h.raffleCommands.RequestClose(c.Request.Context(), period)
	if err != nil {
		if errors.Is(err, commands.ErrAlreadyClosed) {
			httperr.AbortWithError(c, http.StatusConflict, err, "Raffle period already closed", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusAccepted, resdto.CloseAcceptedResponse{
		JobID:     job.JobID,
		StatusURL: "/api/raffles/jobs/" + job.JobID.String(),
	})
}

// @Summary Close job status
// @Description Poll the state of an asynchronous raffle close
// @Tags raffles
// @Security BearerAuth
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} resdto.JobStatusResponse
// @Failure 404 {object} httperr.Response
// @Router /raffles/jobs/{id} [get]
func (h *RaffleHandler) JobStatus(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid job ID", nil)
		return
	}

	status, err := h.raffleCommands.JobStatus(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, commands.ErrJobNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Job not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.JobStatusResponse{
		JobID:    status.JobID,
		Period:   status.Period,
		State:    string(status.State),
		RaffleID: status.RaffleID,
		Error:    status.Error,
	})
}

// @Summary Draw winner
// @Description Reveal the external seed and select the winner for a closed raffle
// @Tags raffles
// @Security BearerAuth
// @Produce json
// @Param id path string true "Raffle ID"
// @Success 200 {object} resdto.DrawResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /raffles/{id}/draw [post]
func (h *RaffleHandler) Draw(c *gin.Context) {
	raffleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid raffle ID", nil)
		return
	}

	result, err := h.raffleCommands.Draw(c.Request.Context(), raffleID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrRaffleNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Raffle not found", nil)
		case errors.Is(err, commands.ErrInvalidState):
			httperr.AbortWithError(c, http.StatusConflict, err, "Raffle is not in a drawable state", nil)
		case errors.Is(err, commands.ErrSeedUnavailable):
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "External randomness source unavailable, try again later", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.DrawResponse{
		RaffleID:       result.RaffleID,
		WinnerUserID:   result.WinnerUserID,
		WinningPointID: result.WinningPointID,
		ExternalSeed:   result.ExternalSeed,
		MerkleRoot:     result.MerkleRoot,
	})
}

// @Summary List committed raffle entries
// @Description Committed entry list in position order; rebuild the merkle root from these leaves
// @Tags raffles
// @Produce json
// @Param id path string true "Raffle ID"
// @Success 200 {object} resdto.RaffleEntriesResponse
// @Failure 404 {object} httperr.Response
// @Router /raffles/{id}/entries [get]
func (h *RaffleHandler) Entries(c *gin.Context) {
	raffleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid raffle ID", nil)
		return
	}

	view, err := h.raffleQueries.GetByID(c.Request.Context(), raffleID)
	if err != nil {
		if errors.Is(err, queries.ErrRaffleNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Raffle not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	entries, err := h.raffleQueries.ListEntries(c.Request.Context(), raffleID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	items := make([]resdto.RaffleEntryItem, len(entries))
	for i, e := range entries {
		items[i] = resdto.RaffleEntryItem{
			PointID:  e.PointID,
			UserID:   e.UserID,
			Position: e.Position,
		}
	}

	c.JSON(http.StatusOK, resdto.RaffleEntriesResponse{
		RaffleID:   view.ID,
		MerkleRoot: view.MerkleRoot,
		Entries:    items,
	})
}

// @Summary Verify draw
// @Description Recompute the winner from the committed root, seed and entry order
// @Tags raffles
// @Produce json
// @Param id path string true "Raffle ID"
// @Success 200 {object} queries.VerificationView
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /raffles/{id}/verify [get]
func (h *RaffleHandler) Verify(c *gin.Context) {
	raffleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid raffle ID", nil)
		return
	}

	view, err := h.raffleQueries.Verify(c.Request.Context(), raffleID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrRaffleNotFound), errors.Is(err, queries.ErrWinnerNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Raffle not found", nil)
		case errors.Is(err, queries.ErrNotDrawn):
			httperr.AbortWithError(c, http.StatusConflict, err, "Raffle has not been drawn", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, view)
}
