// Package user exposes the known-contacts listing to the admin dashboard.
package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/application/user/usecases"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

type UserListItemResponse struct {
	TelegramID int64  `json:"telegram_id"`
	Username   string `json:"username,omitempty"`
	FullName   string `json:"full_name,omitempty"`
	IsAdmin    bool   `json:"is_admin"`
}

type UserHandler struct {
	listUsersUC usecases.ListUsersExecutor
	logger      logger.Interface
}

func NewUserHandler(listUsersUC usecases.ListUsersExecutor, logger logger.Interface) *UserHandler {
	return &UserHandler{listUsersUC: listUsersUC, logger: logger}
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	result, err := h.listUsersUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]UserListItemResponse, 0, len(result.Users))
	for _, u := range result.Users {
		items = append(items, UserListItemResponse{
			TelegramID: u.TelegramID,
			Username:   u.Username,
			FullName:   u.FullName,
			IsAdmin:    u.IsAdmin,
		})
	}

	utils.SuccessResponse(c, http.StatusOK, "", items)
}
