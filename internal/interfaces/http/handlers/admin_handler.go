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

type adminService interface {
	Summary(ctx context.Context) (*entities.Summary, error)
	ListUsers(ctx context.Context) ([]*entities.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListDonations(ctx context.Context) ([]*entities.Donation, error)
	SearchCharities(ctx context.Context, query, status string, page, limit int) (*entities.CharityPage, error)
	VerifyCharity(ctx context.Context, id uuid.UUID, status entities.VerificationStatus) (*entities.Charity, error)
	Reconcile(ctx context.Context) (int, error)
}

// AdminHandler handles the /api/admin endpoints. Every route sits behind
// AuthMiddleware and RequireAdmin.
type AdminHandler struct {
	adminUsecase adminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminUsecase *usecases.AdminUsecase) *AdminHandler {
	return &AdminHandler{adminUsecase: adminUsecase}
}

// Summary returns dashboard counts
// GET /api/admin/summary
func (h *AdminHandler) Summary(c *gin.Context) {
	summary, err := h.adminUsecase.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// ListUsers returns every user
// GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminUsecase.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, users)
}

// DeleteUser removes a user
// DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := uuidParam(c, "id", "Invalid user id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.adminUsecase.DeleteUser(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"success": true})
}

// ListDonations returns every donation
// GET /api/admin/donations
func (h *AdminHandler) ListDonations(c *gin.Context) {
	donations, err := h.adminUsecase.ListDonations(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, donations)
}

// ListCharities pages through charities of any status
// GET /api/admin/charities?q=&status=&page=&limit=
func (h *AdminHandler) ListCharities(c *gin.Context) {
	page, err := h.adminUsecase.SearchCharities(
		c.Request.Context(),
		c.Query("q"),
		c.Query("status"),
		queryInt(c, "page"),
		queryInt(c, "limit"),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// VerifyCharity sets a charity's verification status
// PUT /api/admin/charities/:id/verify
func (h *AdminHandler) VerifyCharity(c *gin.Context) {
	id, err := uuidParam(c, "id", "Invalid charity id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var input struct {
		Status entities.VerificationStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid status"))
		return
	}

	charity, err := h.adminUsecase.VerifyCharity(c.Request.Context(), id, input.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, charity)
}

// Reconcile recomputes charity aggregates now
// POST /api/admin/reconcile
func (h *AdminHandler) Reconcile(c *gin.Context) {
	corrected, err := h.adminUsecase.Reconcile(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"corrected": corrected})
}
