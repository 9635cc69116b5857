package handlers

import (
	"net/http"

	"kosmart/internal/common"
	"kosmart/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authService services.AuthServiceInterface
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthServiceInterface) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
	}
}

// Signup handles POST /auth/signup
func (h *AuthHandlers) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.SignupRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	resp, err := h.authService.Signup(ctx, &req)
	if err != nil {
		return respondDomainError(c, err, "User")
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	resp, err := h.authService.Login(ctx, &req)
	if err != nil {
		return respondDomainError(c, err, "User")
	}
	return c.JSON(http.StatusOK, resp)
}

// Me handles GET /auth/me, returning the authenticated user
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.authService.GetUser(ctx, userID)
	if err != nil {
		return respondDomainError(c, err, "User")
	}
	return c.JSON(http.StatusOK, user)
}
