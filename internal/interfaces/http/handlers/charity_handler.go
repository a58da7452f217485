package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"donation-platform.backend/internal/domain/entities"
	domainerrors "donation-platform.backend/internal/domain/errors"
	"donation-platform.backend/internal/interfaces/http/response"
	"donation-platform.backend/internal/usecases"
)

type charityService interface {
	ListVerified(ctx context.Context) ([]*entities.Charity, error)
	GetCharity(ctx context.Context, id uuid.UUID) (*entities.Charity, error)
	CreateCharity(ctx context.Context, input *entities.CreateCharityInput) (*entities.Charity, error)
	RequestCharity(ctx context.Context, input *entities.CharityRequestInput) (*entities.Charity, error)
}

// CharityHandler handles the /api/charities endpoints
type CharityHandler struct {
	charityUsecase charityService
}

// NewCharityHandler creates a new charity handler
func NewCharityHandler(charityUsecase *usecases.CharityUsecase) *CharityHandler {
	return &CharityHandler{charityUsecase: charityUsecase}
}

// ListCharities returns verified charities
// GET /api/charities
func (h *CharityHandler) ListCharities(c *gin.Context) {
	charities, err := h.charityUsecase.ListVerified(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, charities)
}

// GetCharity returns a charity of any status
// GET /api/charities/:id
func (h *CharityHandler) GetCharity(c *gin.Context) {
	id, err := uuidParam(c, "id", "Invalid charity id")
	if err != nil {
		response.Error(c, err)
		return
	}

	charity, err := h.charityUsecase.GetCharity(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, charity)
}

// CreateCharity is the admin create
// POST /api/charities
func (h *CharityHandler) CreateCharity(c *gin.Context) {
	var input entities.CreateCharityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	charity, err := h.charityUsecase.CreateCharity(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, charity)
}

// RequestCharity records a public charity submission for review
// POST /api/charities/request
func (h *CharityHandler) RequestCharity(c *gin.Context) {
	var input entities.CharityRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid request body"))
		return
	}

	charity, err := h.charityUsecase.RequestCharity(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "Charity submission received successfully",
		"charity": charity,
		"status":  "pending_review",
	})
}
