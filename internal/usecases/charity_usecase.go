package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"donation-platform.backend/internal/domain/entities"
	domainerrors "donation-platform.backend/internal/domain/errors"
	"donation-platform.backend/internal/domain/repositories"
	"donation-platform.backend/pkg/utils"
)

const (
	msgCharityExists   = "A charity with this name already exists"
	msgMissingFields   = "Missing required fields"
	msgShortDesc       = "Description must be at least 50 characters"
	msgCharityNotFound = "Charity not found"
)

// CharityUsecase handles the public catalogue and charity submissions
type CharityUsecase struct {
	charityRepo repositories.CharityRepository
}

// NewCharityUsecase creates a new charity usecase
func NewCharityUsecase(charityRepo repositories.CharityRepository) *CharityUsecase {
	return &CharityUsecase{charityRepo: charityRepo}
}

// ListVerified returns the charities shown to donors
func (u *CharityUsecase) ListVerified(ctx context.Context) ([]*entities.Charity, error) {
	return u.charityRepo.ListVerified(ctx)
}

// GetCharity returns any charity by id, whatever its status
func (u *CharityUsecase) GetCharity(ctx context.Context, id uuid.UUID) (*entities.Charity, error) {
	charity, err := u.charityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound(msgCharityNotFound)
		}
		return nil, err
	}
	return charity, nil
}

// CreateCharity is the admin create. Status defaults to pending.
func (u *CharityUsecase) CreateCharity(ctx context.Context, input *entities.CreateCharityInput) (*entities.Charity, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.BadRequest("Charity name is required")
	}
	if input.Category != "" && !input.Category.Valid() {
		return nil, domainerrors.BadRequest("Invalid category")
	}
	status := input.VerificationStatus
	if status == "" {
		status = entities.VerificationPending
	}
	if !status.Valid() {
		return nil, domainerrors.BadRequest("Invalid status")
	}

	charity := &entities.Charity{
		ID:                 utils.GenerateUUIDv7(),
		Name:               name,
		Description:        input.Description,
		Category:           input.Category,
		Website:            optionalString(input.Website),
		Logo:               optionalString(input.Logo),
		VerificationStatus: status,
		TotalDonations:     decimal.Zero,
	}
	if err := u.create(ctx, charity); err != nil {
		return nil, err
	}
	return charity, nil
}

// RequestCharity records a public submission as a pending charity.
func (u *CharityUsecase) RequestCharity(ctx context.Context, input *entities.CharityRequestInput) (*entities.Charity, error) {
	name := strings.TrimSpace(input.CharityName)
	contactEmail := normalizeEmail(input.ContactEmail)
	contactName := strings.TrimSpace(input.ContactName)
	if name == "" || input.Description == "" || input.Category == "" || contactEmail == "" || contactName == "" {
		return nil, domainerrors.BadRequest(msgMissingFields)
	}
	if len([]rune(input.Description)) < entities.MinRequestDescriptionLength {
		return nil, domainerrors.BadRequest(msgShortDesc)
	}
	category := entities.CharityCategory(input.Category)
	if !category.Valid() {
		return nil, domainerrors.BadRequest("Invalid category")
	}

	_, err := u.charityRepo.GetByName(ctx, name)
	if err == nil {
		return nil, domainerrors.BadRequest(msgCharityExists)
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	charity := &entities.Charity{
		ID:                 utils.GenerateUUIDv7(),
		Name:               name,
		Description:        input.Description,
		Category:           category,
		Website:            optionalString(input.Website),
		VerificationStatus: entities.VerificationPending,
		TotalDonations:     decimal.Zero,
		SubmittedBy: &entities.CharitySubmitter{
			Name:        contactName,
			Email:       contactEmail,
			Reason:      input.Reason,
			SubmittedAt: timeNow(),
		},
	}
	if err := u.create(ctx, charity); err != nil {
		return nil, err
	}
	return charity, nil
}

// create maps a unique-name violation that slipped past the lookup onto the
// same 400 the lookup produces.
func (u *CharityUsecase) create(ctx context.Context, charity *entities.Charity) error {
	if err := u.charityRepo.Create(ctx, charity); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return domainerrors.BadRequest(msgCharityExists)
		}
		return err
	}
	return nil
}

func optionalString(s string) null.String {
	s = strings.TrimSpace(s)
	return null.NewString(s, s != "")
}
