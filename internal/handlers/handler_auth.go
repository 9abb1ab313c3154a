package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/treasury_backoffice/internal/apperrors"
	portssvc "github.com/SscSPs/treasury_backoffice/internal/core/ports/services"
	"github.com/SscSPs/treasury_backoffice/internal/dto"
	"github.com/SscSPs/treasury_backoffice/internal/middleware"
	"github.com/SscSPs/treasury_backoffice/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// authHandler handles authentication related requests.
type authHandler struct {
	authService portssvc.AuthSvcFacade
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, authService portssvc.AuthSvcFacade) error {
	h := &authHandler{authService: authService}

	limit, err := limiterMiddleware(cfg.LoginRateLimit)
	if err != nil {
		return err
	}

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", limit, h.login)
		auth.GET("/me", middleware.AuthMiddleware(cfg.JWTSecret), h.me)
	}
	return nil
}

// login godoc
// @Summary Operator login
// @Description Authenticates an operator and returns a JWT access token with the operator's roles.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.SuccessResponse{data=dto.LoginResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			logger.Warn("Login failed", slog.String("username", req.Username))
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid username or password"})
			return
		}
		respondError(c, err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      dto.ToUserResponse(res.User),
	}))
}

// me godoc
// @Summary Current principal
// @Description Returns the principal carried by the bearer token.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *authHandler) me(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.UserResponse{ID: p.ID, Name: p.Name, Roles: p.Roles})
}
