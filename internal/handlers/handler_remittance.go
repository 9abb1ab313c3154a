package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	portssvc "github.com/SscSPs/treasury_backoffice/internal/core/ports/services"
	"github.com/SscSPs/treasury_backoffice/internal/dto"
	"github.com/SscSPs/treasury_backoffice/internal/middleware"
	"github.com/gin-gonic/gin"
)

// remittanceHandler handles HTTP requests related to remittance slips.
type remittanceHandler struct {
	remittanceService portssvc.RemittanceSvcFacade
}

// registerRemittanceRoutes registers routes related to remittance slips.
func registerRemittanceRoutes(rg *gin.RouterGroup, remittanceService portssvc.RemittanceSvcFacade) {
	h := &remittanceHandler{remittanceService: remittanceService}

	slips := rg.Group("/remittances")
	{
		slips.GET("", h.listRemittances)
		slips.POST("", h.createRemittance)
		slips.GET("/:id", h.getRemittance)
		slips.PUT("/:id", h.updateRemittance)
		slips.POST("/:id/validate", h.validateRemittance)
		slips.POST("/:id/deposit", h.depositRemittance)
		slips.POST("/:id/clear", h.clearRemittance)
		slips.POST("/:id/not-paid", h.declareNotPaid)
		slips.POST("/:id/cancel", h.cancelRemittance)
	}
}

// listRemittances godoc
// @Summary List remittance slips
// @Description Lists slips, most recent deposit date first, optionally filtered by status.
// @Tags remittances
// @Produce json
// @Param status query string false "Status filter (draft, submitted, deposited, cleared, not_paid, cancelled)"
// @Param limit query int false "Page size (default 50, max 200)"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.SuccessResponse{data=[]dto.RemittanceResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /remittances [get]
func (h *remittanceHandler) listRemittances(c *gin.Context) {
	actor, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var params dto.ListRemittancesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	slips, err := h.remittanceService.ListRemittances(c.Request.Context(), params, actor)
	if err != nil {
		respondError(c, err, "Failed to list remittance slips")
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ToRemittanceResponses(slips)))
}

// getRemittance godoc
// @Summary Get a remittance slip
// @Description Returns a slip with its member cheques and the actions its status allows.
// @Tags remittances
// @Produce json
// @Param id path string true "Slip ID"
// @Success 200 {object} dto.RemittanceResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /remittances/{id} [get]
func (h *remittanceHandler) getRemittance(c *gin.Context) {
	actor, ok := principalOrAbort(c)
	if !ok {
		return
	}

	slip, err := h.remittanceService.GetRemittance(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err, "Failed to retrieve remittance slip")
		return
	}
	c.JSON(http.StatusOK, dto.ToRemittanceResponse(*slip))
}

// createRemittance godoc
// @Summary Create a remittance slip
// @Description Creates a draft slip from available cheques.
// @Tags remittances
// @Accept json
// @Produce json
// @Param slip body dto.CreateRemittanceRequest true "Slip header and cheque selection"
// @Success 201 {object} dto.RemittanceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "A cheque is already on another slip"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /remittances [post]
func (h *remittanceHandler) createRemittance(c *gin.Context) {
	actor, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req dto.CreateRemittanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	slip, err := h.remittanceService.CreateRemittance(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err, "Failed to create remittance slip")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Remittance slip created",
		slog.String("slip_id", slip.SlipID),
		slog.String("slip_number", slip.SlipNumber))
	c.JSON(http.StatusCreated, dto.ToRemittanceResponse(*slip))
}

// updateRemittance godoc
// @Summary Update a remittance slip
// @Description Edits a draft or submitted slip. The cheque selection can only change on a draft.
// @Tags remittances
// @Accept json
// @Produce json
// @Param id path string true "Slip ID"
// @Param slip body dto.UpdateRemittanceRequest true "Fields to change"
// @Success 200 {object} dto.RemittanceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /remittances/{id} [put]
func (h *remittanceHandler) updateRemittance(c *gin.Context) {
	actor, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req dto.UpdateRemittanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	slip, err := h.remittanceService.UpdateRemittance(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		respondError(c, err, "Failed to update remittance slip")
		return
	}
	c.JSON(http.StatusOK, dto.ToRemittanceResponse(*slip))
}

// validateRemittance godoc
// @Summary Validate a slip
// @Description Moves a draft slip to submitted.
// @Tags remittances
// @Produce json
// @Param id path string true "Slip ID"
// @Success 200 {object} dto.SuccessResponse{data=dto.RemittanceResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed from the current status"
// @Security BearerAuth
// @Router /remittances/{id}/validate [post]
func (h *remittanceHandler) validateRemittance(c *gin.Context) {
	actor, ok := principalOrAbort(c)
	if !ok {
		return
	}
	slip, err := h.remittanceService.ValidateRemittance(c.Request.Context(), c.Param("id"), actor)
	respondTransition(c, slip, err, "Slip validated")
}

// depositRemittance godoc
// @Summary Deposit a slip
// @Description Records the bank deposit of a submitted slip. A receipt number is generated when omitted.
// @Tags remittances
// @Accept json
// @Produce json
// @Param id path string true "Slip ID"
// @Param deposit body dto.DepositRequest false "Bank receipt number"
// @Success 200 {object} dto.SuccessResponse{data=dto.RemittanceResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /remittances/{id}/deposit [post]
func (h *remittanceHandler) depositRemittance(c *gin.Context) {
	actor, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req dto.DepositRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	slip, err := h.remittanceService.DepositRemittance(c.Request.Context(), c.Param("id"), req.ReceiptNumber, actor)
	respondTransition(c, slip, err, "Slip deposited")
}

// clearRemittance godoc
// @Summary Clear a slip
// @Description Records the encashment of a deposited slip. The date defaults to today.
// @Tags remittances
// @Accept json
// @Produce json
// @Param id path string true "Slip ID"
// @Param clear body dto.ClearRequest false "Encashment date"
// @Success 200 {object} dto.SuccessResponse{data=dto.RemittanceResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /remittances/{id}/clear [post]
func (h *remittanceHandler) clearRemittance(c *gin.Context) {
	actor, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req dto.ClearRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	slip, err := h.remittanceService.ClearRemittance(c.Request.Context(), c.Param("id"), req.EncashmentDate, actor)
	respondTransition(c, slip, err, "Slip cleared")
}

// declareNotPaid godoc
// @Summary Declare a slip not paid
// @Description Records that the bank rejected a deposited slip.
// @Tags remittances
// @Accept json
// @Produce json
// @Param id path string true "Slip ID"
// @Param reason body dto.ReasonRequest true "Reason"
// @Success 200 {object} dto.SuccessResponse{data=dto.RemittanceResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /remittances/{id}/not-paid [post]
func (h *remittanceHandler) declareNotPaid(c *gin.Context) {
	actor, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req dto.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	slip, err := h.remittanceService.DeclareRemittanceNotPaid(c.Request.Context(), c.Param("id"), req.Reason, actor)
	respondTransition(c, slip, err, "Slip declared not paid")
}

// cancelRemittance godoc
// @Summary Cancel a slip
// @Description Cancels a draft, submitted or deposited slip.
// @Tags remittances
// @Accept json
// @Produce json
// @Param id path string true "Slip ID"
// @Param reason body dto.ReasonRequest true "Reason"
// @Success 200 {object} dto.SuccessResponse{data=dto.RemittanceResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /remittances/{id}/cancel [post]
func (h *remittanceHandler) cancelRemittance(c *gin.Context) {
	actor, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req dto.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	slip, err := h.remittanceService.CancelRemittance(c.Request.Context(), c.Param("id"), req.Reason, actor)
	respondTransition(c, slip, err, "Slip cancelled")
}

// respondTransition answers a lifecycle call with the full updated slip.
func respondTransition(c *gin.Context, slip *domain.RemittanceSlip, err error, message string) {
	if err != nil {
		respondError(c, err, "Failed to update slip status")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info(message,
		slog.String("slip_id", slip.SlipID),
		slog.String("status", string(slip.Status)))
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Success: true,
		Message: message,
		Data:    dto.ToRemittanceResponse(*slip),
	})
}

// bindOptionalJSON binds the body when there is one. An empty body leaves
// req at its zero value.
func bindOptionalJSON(c *gin.Context, req any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}
