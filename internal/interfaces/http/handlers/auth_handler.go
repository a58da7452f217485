package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"donation-platform.backend/internal/domain/entities"
	domainerrors "donation-platform.backend/internal/domain/errors"
	"donation-platform.backend/internal/interfaces/http/middleware"
	"donation-platform.backend/internal/interfaces/http/response"
	"donation-platform.backend/internal/usecases"
)

type authService interface {
	Register(ctx context.Context, input *entities.CreateUserInput) (*entities.AuthResponse, error)
	Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	MyDonations(ctx context.Context, user *entities.User) ([]*entities.Donation, error)
}

// AuthHandler handles the /api/users endpoints
type AuthHandler struct {
	authUsecase authService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase *usecases.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

// Register handles user registration
// POST /api/users/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.CreateUserInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	authResponse, err := h.authUsecase.Register(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, authResponse)
}

// Login handles user login
// POST /api/users/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	authResponse, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, authResponse)
}

// Me returns the authenticated user
// GET /api/users/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Invalid token"))
		return
	}
	response.Success(c, http.StatusOK, user)
}

// MyDonations lists donations made with the user's email
// GET /api/users/me/donations
func (h *AuthHandler) MyDonations(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Invalid token"))
		return
	}

	donations, err := h.authUsecase.MyDonations(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, donations)
}
