package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/treasury_backoffice/internal/core/ports/services"
	"github.com/SscSPs/treasury_backoffice/internal/dto"
	"github.com/SscSPs/treasury_backoffice/internal/middleware"
	"github.com/gin-gonic/gin"
)

// chequeHandler serves the reference data needed to prepare a slip.
type chequeHandler struct {
	chequeService portssvc.ChequeSvcFacade
}

func registerChequeRoutes(rg *gin.RouterGroup, chequeService portssvc.ChequeSvcFacade) {
	h := &chequeHandler{chequeService: chequeService}

	rg.GET("/cheques/available", h.listAvailable)
	rg.GET("/treasury-accounts", h.listAccounts)
}

// listAvailable godoc
// @Summary List available cheques
// @Description Lists collected cheque sheets not yet assigned to a remittance slip.
// @Tags cheques
// @Produce json
// @Success 200 {object} dto.DataResponse{data=[]dto.ChequeSheetResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /cheques/available [get]
func (h *chequeHandler) listAvailable(c *gin.Context) {
	actor, ok := principalOrAbort(c)
	if !ok {
		return
	}

	cheques, err := h.chequeService.ListAvailableCheques(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to list available cheques")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Debug("Listed available cheques", slog.Int("count", len(cheques)))
	c.JSON(http.StatusOK, dto.DataResponse{Data: dto.ToChequeSheetResponses(cheques)})
}

// listAccounts godoc
// @Summary List treasury accounts
// @Description Lists the bank accounts a slip can be deposited to.
// @Tags cheques
// @Produce json
// @Success 200 {array} dto.TreasuryAccountResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /treasury-accounts [get]
func (h *chequeHandler) listAccounts(c *gin.Context) {
	actor, ok := principalOrAbort(c)
	if !ok {
		return
	}

	accounts, err := h.chequeService.ListTreasuryAccounts(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to list treasury accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToTreasuryAccountResponses(accounts))
}
