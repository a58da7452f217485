package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"donation-platform.backend/internal/domain/entities"
	domainerrors "donation-platform.backend/internal/domain/errors"
	"donation-platform.backend/internal/interfaces/http/response"
	"donation-platform.backend/internal/usecases"
)

type donationService interface {
	CreateDonation(ctx context.Context, input *entities.CreateDonationInput) (*entities.CreateDonationResult, error)
	ListDonations(ctx context.Context, filter entities.DonationFilter) ([]*entities.Donation, error)
	GetDonation(ctx context.Context, id uuid.UUID) (*entities.Donation, error)
	GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entities.Donation, error)
}

// DonationHandler handles the /api/donations endpoints
type DonationHandler struct {
	donationUsecase donationService
}

// NewDonationHandler creates a new donation handler
func NewDonationHandler(donationUsecase *usecases.DonationUsecase) *DonationHandler {
	return &DonationHandler{donationUsecase: donationUsecase}
}

// CreateDonation records a donation
// POST /api/donations
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	var input entities.CreateDonationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid request body"))
		return
	}

	result, err := h.donationUsecase.CreateDonation(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// ListDonations lists donations, newest first
// GET /api/donations?charityId=&donorEmail=&startDate=&endDate=
func (h *DonationHandler) ListDonations(c *gin.Context) {
	filter, err := donationFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	donations, err := h.donationUsecase.ListDonations(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, donations)
}

// GetDonation returns one donation with its charity
// GET /api/donations/:id
func (h *DonationHandler) GetDonation(c *gin.Context) {
	id, err := uuidParam(c, "id", "Invalid donation id")
	if err != nil {
		response.Error(c, err)
		return
	}

	donation, err := h.donationUsecase.GetDonation(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, donation)
}

// GetReceipt looks a donation up by receipt number
// GET /api/donations/receipt/:receiptNumber
func (h *DonationHandler) GetReceipt(c *gin.Context) {
	donation, err := h.donationUsecase.GetByReceiptNumber(c.Request.Context(), c.Param("receiptNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, donation)
}

// donationFilterFromQuery accepts donorEmail and the dotted donor.email form
func donationFilterFromQuery(c *gin.Context) (entities.DonationFilter, error) {
	var filter entities.DonationFilter

	if raw := strings.TrimSpace(c.Query("charityId")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, domainerrors.BadRequest("Invalid charity id")
		}
		filter.CharityID = &id
	}

	filter.DonorEmail = c.Query("donorEmail")
	if filter.DonorEmail == "" {
		filter.DonorEmail = c.Query("donor.email")
	}

	if raw := c.Query("startDate"); raw != "" {
		t, ok := parseDate(raw)
		if !ok {
			return filter, domainerrors.BadRequest("Invalid startDate")
		}
		filter.StartDate = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, ok := parseDate(raw)
		if !ok {
			return filter, domainerrors.BadRequest("Invalid endDate")
		}
		filter.EndDate = &t
	}
	return filter, nil
}
