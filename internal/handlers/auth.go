package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/project-calendar/api/internal/auth"
	"github.com/project-calendar/api/internal/constants"
	"github.com/project-calendar/api/internal/dto"
	apierrors "github.com/project-calendar/api/internal/errors"
	"github.com/project-calendar/api/internal/middleware"
	"github.com/project-calendar/api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	tokens      *auth.TokenService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, userService *services.UserService, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		tokens:      tokens,
	}
}

// Register creates a new user with their weekly work schedule and returns a
// bearer token.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email        string                     `json:"email" binding:"required"`
		Password     string                     `json:"password" binding:"required"`
		DisplayName  string                     `json:"display_name" binding:"required"`
		Name         string                     `json:"name"`
		Surname      string                     `json:"surname"`
		Phone        string                     `json:"phone"`
		Telegram     string                     `json:"telegram"`
		Locale       string                     `json:"locale"`
		WorkSchedule []services.WorkWindowInput `json:"work_schedule" binding:"required"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, windows, err := h.authService.Register(services.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		DisplayName:  req.DisplayName,
		Name:         req.Name,
		Surname:      req.Surname,
		Phone:        req.Phone,
		Telegram:     req.Telegram,
		Locale:       req.Locale,
		WorkSchedule: req.WorkSchedule,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		Success:      true,
		Token:        token,
		User:         dto.ToUserDTO(*user),
		WorkSchedule: dto.ToWorkWindowDTOs(windows),
	})
}

// Login authenticates a user and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token: token,
		User:  dto.ToUserDTO(*user),
	})
}

// GetCurrentUser returns the authenticated user's profile and schedule.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	windows, err := h.userService.GetWorkSchedule(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"display_name":  user.DisplayName,
		"name":          user.Name,
		"surname":       user.Surname,
		"created_at":    user.CreatedAt,
		"updated_at":    user.UpdatedAt,
		"work_schedule": dto.ToWorkWindowDTOs(windows),
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrDisplayNameRequired),
		errors.Is(err, services.ErrScheduleEmpty),
		errors.Is(err, services.ErrInvalidWeekday),
		errors.Is(err, services.ErrInvalidTimeFormat),
		errors.Is(err, services.ErrWindowNotOrdered),
		errors.Is(err, services.ErrWindowsOverlap):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword),
		errors.Is(err, services.ErrFailedToCreateUser):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
