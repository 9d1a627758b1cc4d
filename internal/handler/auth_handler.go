package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "focustrack/internal/errors"
	"focustrack/internal/service"
)

// AuthHandler serves register and login. Both take the same credentials and
// answer with a token; the CLI's login command is the main caller.
type AuthHandler struct {
	auth *service.AuthService
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authenticate func(ctx context.Context, email, password string) (*service.AuthResult, *apperrors.APIError)

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(c *gin.Context) {
	h.exchange(c, h.auth.Register, http.StatusCreated)
}

func (h *AuthHandler) Login(c *gin.Context) {
	h.exchange(c, h.auth.Login, http.StatusOK)
}

func (h *AuthHandler) exchange(c *gin.Context, fn authenticate, status int) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	result, apiErr := fn(c.Request.Context(), req.Email, req.Password)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(status, result)
}

// Me reports the account the bearer token belongs to.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, apiErr := h.auth.Me(c.Request.Context(), userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
