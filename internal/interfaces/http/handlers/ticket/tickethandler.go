// Package ticket exposes ticket listings, history, and close operations to
// the admin dashboard.
package ticket

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	escalation "helpdesk/internal/application/escalation/usecases"
	"helpdesk/internal/application/ticket/usecases"
	domainTicket "helpdesk/internal/domain/ticket"
	apperrors "helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

type TicketHandler struct {
	listActiveUC usecases.ListActiveTicketsExecutor
	listClosedUC usecases.ListClosedTicketsExecutor
	historyUC    usecases.GetTicketHistoryExecutor
	closeUC      escalation.CloseTicketExecutor
	logger       logger.Interface
}

func NewTicketHandler(
	listActiveUC usecases.ListActiveTicketsExecutor,
	listClosedUC usecases.ListClosedTicketsExecutor,
	historyUC usecases.GetTicketHistoryExecutor,
	closeUC escalation.CloseTicketExecutor,
	logger logger.Interface,
) *TicketHandler {
	return &TicketHandler{
		listActiveUC: listActiveUC,
		listClosedUC: listClosedUC,
		historyUC:    historyUC,
		closeUC:      closeUC,
		logger:       logger,
	}
}

// ListActive handles GET /tickets/active
func (h *TicketHandler) ListActive(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.listActiveUC.Execute(c.Request.Context(), usecases.ListActiveTicketsQuery{
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toListItems(result.Tickets))
}

// ListClosed handles GET /tickets/closed
func (h *TicketHandler) ListClosed(c *gin.Context) {
	userID, _ := strconv.ParseInt(c.Query("user_id"), 10, 64)

	result, err := h.listClosedUC.Execute(c.Request.Context(), usecases.ListClosedTicketsQuery{
		UserID: userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toListItems(result.Tickets))
}

// GetHistory handles GET /tickets/:id/history
func (h *TicketHandler) GetHistory(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.historyUC.Execute(c.Request.Context(), usecases.GetTicketHistoryQuery{
		TicketID: ticketID,
		IsAdmin:  true,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, mapTicketError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toHistoryResponse(result))
}

// Close handles POST /tickets/:id/close
func (h *TicketHandler) Close(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.closeUC.Execute(c.Request.Context(), escalation.CloseTicketCommand{
		TicketID: ticketID,
		ByAdmin:  true,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, mapTicketError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", CloseTicketResponse{
		TicketID:      ticketID,
		Status:        result.Status.String(),
		AlreadyClosed: result.AlreadyClosed,
	})
}

func parseTicketID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("invalid ticket ID")
	}
	return uint(id), nil
}

func mapTicketError(err error) error {
	switch {
	case errors.Is(err, domainTicket.ErrTicketNotFound):
		return apperrors.NewNotFoundError("ticket not found")
	case errors.Is(err, domainTicket.ErrNotTicketOwner):
		return apperrors.NewForbiddenError("ticket belongs to another user")
	default:
		return err
	}
}
