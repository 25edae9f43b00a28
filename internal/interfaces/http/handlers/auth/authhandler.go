// Package auth exposes the admin dashboard login endpoint.
package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	infraAuth "helpdesk/internal/infrastructure/auth"
	"helpdesk/internal/shared/config"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

type AuthHandler struct {
	jwtService *infraAuth.JWTService
	hasher     *infraAuth.BcryptPasswordHasher
	authCfg    config.AuthConfig
	logger     logger.Interface
}

func NewAuthHandler(
	jwtService *infraAuth.JWTService,
	hasher *infraAuth.BcryptPasswordHasher,
	authCfg config.AuthConfig,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		jwtService: jwtService,
		hasher:     hasher,
		authCfg:    authCfg,
		logger:     logger,
	}
}

// Login handles POST /auth/login. Both wrong username and wrong password
// return the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if req.Username != h.authCfg.AdminUsername ||
		h.hasher.Verify(req.Password, h.authCfg.AdminPasswordHash) != nil {
		h.logger.Warnw("failed login attempt", "username", req.Username, "client_ip", c.ClientIP())
		utils.ErrorResponse(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, expiresIn, err := h.jwtService.Generate(req.Username)
	if err != nil {
		h.logger.Errorw("failed to issue token", "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to issue token")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", LoginResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}
