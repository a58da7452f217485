package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"donation-platform.backend/internal/domain/entities"
	domainerrors "donation-platform.backend/internal/domain/errors"
	"donation-platform.backend/internal/domain/repositories"
	"donation-platform.backend/pkg/logger"
	"donation-platform.backend/pkg/utils"
)

// AggregateReconciler recomputes charity aggregates on demand
type AggregateReconciler interface {
	Reconcile(ctx context.Context) (int, error)
}

// AdminUsecase backs the admin dashboard
type AdminUsecase struct {
	userRepo     repositories.UserRepository
	charityRepo  repositories.CharityRepository
	donationRepo repositories.DonationRepository
	reconciler   AggregateReconciler
}

// NewAdminUsecase creates a new admin usecase
func NewAdminUsecase(
	userRepo repositories.UserRepository,
	charityRepo repositories.CharityRepository,
	donationRepo repositories.DonationRepository,
	reconciler AggregateReconciler,
) *AdminUsecase {
	return &AdminUsecase{
		userRepo:     userRepo,
		charityRepo:  charityRepo,
		donationRepo: donationRepo,
		reconciler:   reconciler,
	}
}

// Summary counts users, charities and donations and totals every donation
func (u *AdminUsecase) Summary(ctx context.Context) (*entities.Summary, error) {
	users, err := u.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	charities, err := u.charityRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	donations, err := u.donationRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	total, err := u.donationRepo.SumAmount(ctx)
	if err != nil {
		return nil, err
	}
	return &entities.Summary{
		UsersCount:     users,
		CharitiesCount: charities,
		DonationsCount: donations,
		TotalDonated:   total,
	}, nil
}

func (u *AdminUsecase) ListUsers(ctx context.Context) ([]*entities.User, error) {
	return u.userRepo.List(ctx)
}

// DeleteUser removes the user. Deleting an unknown id is not an error, and
// nothing prevents removing the last admin.
func (u *AdminUsecase) DeleteUser(ctx context.Context, id uuid.UUID) error {
	err := u.userRepo.Delete(ctx, id)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return err
	}
	logger.Info(ctx, "User deleted", zap.String("deleted_user_id", id.String()))
	return nil
}

func (u *AdminUsecase) ListDonations(ctx context.Context) ([]*entities.Donation, error) {
	return u.donationRepo.List(ctx, entities.DonationFilter{})
}

// SearchCharities pages through charities. An unknown status filter is
// ignored; page and limit are clamped.
func (u *AdminUsecase) SearchCharities(ctx context.Context, query, status string, page, limit int) (*entities.CharityPage, error) {
	p := utils.GetBoundedPaginationParams(page, limit, DefaultCharityPageSize, MaxCharityPageSize)
	filter := entities.CharitySearchFilter{
		Query: query,
		Page:  p.Page,
		Limit: p.Limit,
	}
	if s := entities.VerificationStatus(status); s.Valid() {
		filter.Status = s
	}

	items, total, err := u.charityRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &entities.CharityPage{Data: items, Total: total, Page: p.Page, Limit: p.Limit}, nil
}

// VerifyCharity moves a charity to status
func (u *AdminUsecase) VerifyCharity(ctx context.Context, id uuid.UUID, status entities.VerificationStatus) (*entities.Charity, error) {
	if !status.Valid() {
		return nil, domainerrors.BadRequest("Invalid status")
	}
	charity, err := u.charityRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound(msgCharityNotFound)
		}
		return nil, err
	}
	logger.Info(ctx, "Charity status updated",
		zap.String("charity_id", id.String()),
		zap.String("status", string(status)),
	)
	return charity, nil
}

// Reconcile runs an aggregate reconciliation pass now
func (u *AdminUsecase) Reconcile(ctx context.Context) (int, error) {
	if u.reconciler == nil {
		return 0, errors.New("reconciliation is not configured")
	}
	return u.reconciler.Reconcile(ctx)
}
