package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"circles/internal/pkg/response"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register регистрирует нового пользователя.
// @Summary		Register user
// @Description	Creates a new account and returns the user together with access/refresh tokens.
// @Tags		Auth
// @Accept		json
// @Produce		json
// @Param		body	body	RegisterRequest	true	"payload"
// @Success		201	{object}		map[string]interface{}
// @Failure		400	{object}		map[string]interface{}
// @Failure		409	{object}		map[string]interface{}
// @Router		/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", fmt.Sprintf("%s is already exists", req.Email))
			return
		}
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register user")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user":    result.User,
		"tokens":  result.Tokens,
		"message": "User registration has been made successfully",
	})
}

// Login авторизует пользователя и выдаёт пару токенов.
// @Summary		Login
// @Description	Authenticates by email and password, returns access/refresh tokens.
// @Tags		Auth
// @Accept		json
// @Produce		json
// @Param		body	body	LoginRequest	true	"payload"
// @Success		200	{object}		map[string]interface{}
// @Failure		400	{object}		map[string]interface{}
// @Router		/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	pair, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			// Same rejection for unknown email and wrong password.
			response.Error(c, http.StatusBadRequest, "INVALID_LOGIN", "Invalid data for login")
			return
		}
		response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tokens": pair})
}

// Refresh обновляет пару токенов по refresh токену.
// @Summary		Refresh tokens
// @Description	Rotates the refresh token and returns a new access/refresh pair.
// @Tags		Auth
// @Accept		json
// @Produce		json
// @Param		body	body	RefreshRequest	true	"payload"
// @Success		200	{object}		map[string]interface{}
// @Failure		401	{object}		map[string]interface{}
// @Router		/auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			response.Error(c, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "The refresh token is invalid")
			return
		}
		response.Error(c, http.StatusInternalServerError, "REFRESH_FAILED", "Failed to refresh session")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tokens": pair})
}

// Logout завершает сессию пользователя.
// @Summary		Logout
// @Description	Revokes the caller's refresh token.
// @Tags		Auth
// @Security	BearerAuth
// @Success		204	"No Content"
// @Router		/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	if err := h.service.Logout(c.Request.Context(), userID); err != nil {
		response.Error(c, http.StatusInternalServerError, "LOGOUT_FAILED", "Failed to logout")
		return
	}

	c.Status(http.StatusNoContent)
}
