package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"donation-platform.backend/internal/domain/entities"
	domainerrors "donation-platform.backend/internal/domain/errors"
	"donation-platform.backend/internal/domain/repositories"
	"donation-platform.backend/internal/infrastructure/payment"
	"donation-platform.backend/pkg/logger"
	"donation-platform.backend/pkg/metrics"
	"donation-platform.backend/pkg/utils"
)

var (
	timeNow          = time.Now
	newReceiptSuffix = func() (string, error) {
		return gonanoid.Generate(receiptSuffixAlphabet, receiptSuffixLength)
	}
)

// ReceiptDispatcher queues a receipt email for a completed donation
type ReceiptDispatcher interface {
	Dispatch(ctx context.Context, donation *entities.Donation, charityName string) bool
}

// DonationOptions carries the payment policy from config
type DonationOptions struct {
	Currency       string
	AllowSimulated bool
}

// DonationUsecase records donations and keeps charity aggregates in step
type DonationUsecase struct {
	donationRepo repositories.DonationRepository
	charityRepo  repositories.CharityRepository
	uow          repositories.UnitOfWork
	gateway      payment.Gateway
	receipts     ReceiptDispatcher
	opts         DonationOptions
}

// NewDonationUsecase creates a new donation usecase. receipts may be nil.
func NewDonationUsecase(
	donationRepo repositories.DonationRepository,
	charityRepo repositories.CharityRepository,
	uow repositories.UnitOfWork,
	gateway payment.Gateway,
	receipts ReceiptDispatcher,
	opts DonationOptions,
) *DonationUsecase {
	if gateway == nil {
		gateway = payment.Disabled{}
	}
	if opts.Currency == "" {
		opts.Currency = entities.DefaultCurrency
	}
	return &DonationUsecase{
		donationRepo: donationRepo,
		charityRepo:  charityRepo,
		uow:          uow,
		gateway:      gateway,
		receipts:     receipts,
		opts:         opts,
	}
}

// CreateDonation charges (or simulates) the payment, stores the donation as
// completed and bumps the charity aggregates in the same transaction.
func (u *DonationUsecase) CreateDonation(ctx context.Context, input *entities.CreateDonationInput) (*entities.CreateDonationResult, error) {
	if input.Amount.LessThan(entities.MinDonationAmount) {
		return nil, domainerrors.BadRequest("Amount must be at least 1")
	}
	if input.Amount.GreaterThan(entities.MaxDonationAmount) {
		return nil, domainerrors.BadRequest("Amount must not exceed " + entities.MaxDonationAmount.StringFixed(entities.AmountPlaces))
	}
	if !input.Amount.Equal(input.Amount.Truncate(entities.AmountPlaces)) {
		return nil, domainerrors.BadRequest("Amount must have at most 2 decimal places")
	}
	if !input.PaymentMethod.Valid() {
		return nil, domainerrors.BadRequest("Invalid payment method")
	}

	donor := entities.Donor{
		Name:      strings.TrimSpace(input.Donor.Name),
		Email:     normalizeEmail(input.Donor.Email),
		Anonymous: input.Donor.Anonymous,
	}

	charity, charityID, err := u.resolveCharity(ctx, input.CharityID)
	if err != nil {
		return nil, err
	}
	charityName := entities.PlaceholderCharityName
	if charity != nil {
		charityName = charity.Name
	}

	paymentID, err := u.charge(ctx, input, donor, charityID, charityName)
	if err != nil {
		return nil, err
	}

	receiptNumber, err := u.receiptNumber()
	if err != nil {
		return nil, err
	}

	donation := &entities.Donation{
		ID:            utils.GenerateUUIDv7(),
		Donor:         donor,
		CharityID:     charityID,
		Amount:        input.Amount,
		Currency:      u.opts.Currency,
		PaymentMethod: input.PaymentMethod,
		PaymentID:     paymentID,
		Status:        entities.DonationCompleted,
		ReceiptNumber: receiptNumber,
		Message:       optionalString(input.Message),
		CreatedAt:     timeNow(),
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.donationRepo.Create(txCtx, donation); err != nil {
			return err
		}
		if charity == nil {
			return nil
		}
		return u.charityRepo.IncrementAggregates(txCtx, charity.ID, donation.Amount)
	})
	if err != nil {
		return nil, err
	}

	if charity != nil {
		charity.TotalDonations = charity.TotalDonations.Add(donation.Amount)
		charity.DonationCount++
		donation.Charity = charity
	}

	metrics.ObserveDonation(string(donation.PaymentMethod), donation.Amount)
	logger.Info(ctx, "Donation recorded",
		zap.String("donation_id", donation.ID.String()),
		zap.String("charity_id", charityID.String()),
		zap.String("receipt_number", donation.ReceiptNumber),
	)

	if u.receipts != nil && donor.Email != "" && !donor.Anonymous {
		u.receipts.Dispatch(ctx, donation, charityName)
	}

	return &entities.CreateDonationResult{
		Success:       true,
		Donation:      donation,
		ReceiptNumber: donation.ReceiptNumber,
	}, nil
}

// resolveCharity returns the stored charity (nil if a well-formed id has no
// record) and the id the donation will reference. A missing or malformed id
// falls back to any verified charity, then to the placeholder.
func (u *DonationUsecase) resolveCharity(ctx context.Context, rawID string) (*entities.Charity, uuid.UUID, error) {
	if id, ok := parseID(rawID); ok {
		charity, err := u.charityRepo.GetByID(ctx, id)
		if err == nil {
			return charity, id, nil
		}
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, id, nil
		}
		return nil, uuid.Nil, err
	}

	charity, err := u.charityRepo.FindAnyVerified(ctx)
	if err == nil {
		return charity, charity.ID, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, uuid.Nil, err
	}

	charity, err = u.placeholderCharity(ctx)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return charity, charity.ID, nil
}

func (u *DonationUsecase) placeholderCharity(ctx context.Context) (*entities.Charity, error) {
	existing, err := u.charityRepo.GetByName(ctx, entities.PlaceholderCharityName)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	placeholder := &entities.Charity{
		ID:                 utils.GenerateUUIDv7(),
		Name:               entities.PlaceholderCharityName,
		Description:        "Placeholder",
		VerificationStatus: entities.VerificationPending,
	}
	if err := u.charityRepo.Create(ctx, placeholder); err != nil {
		// lost a race with a concurrent donation creating the same placeholder
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return u.charityRepo.GetByName(ctx, entities.PlaceholderCharityName)
		}
		return nil, err
	}
	logger.Warn(ctx, "Created placeholder charity", zap.String("charity_id", placeholder.ID.String()))
	return placeholder, nil
}

// charge returns the payment id to store. Only stripe donations carry one.
func (u *DonationUsecase) charge(ctx context.Context, input *entities.CreateDonationInput, donor entities.Donor, charityID uuid.UUID, charityName string) (null.String, error) {
	if input.PaymentMethod != entities.PaymentMethodStripe {
		return null.String{}, nil
	}

	if input.PaymentToken != "" && u.gateway.Enabled() {
		id, err := u.gateway.Charge(ctx, payment.ChargeRequest{
			Amount:      input.Amount,
			Currency:    u.opts.Currency,
			Token:       input.PaymentToken,
			Description: "Donation to " + charityName,
			CharityID:   charityID.String(),
			DonorEmail:  donor.Email,
		})
		if err != nil {
			logger.Warn(ctx, "Payment failed", zap.Error(err))
			return null.String{}, domainerrors.PaymentRequired(err.Error(), err)
		}
		return null.StringFrom(id), nil
	}

	if !u.opts.AllowSimulated {
		if u.gateway.Enabled() {
			return null.String{}, domainerrors.PaymentRequired("Payment token is required", payment.ErrGatewayDisabled)
		}
		return null.String{}, domainerrors.PaymentRequired("Payment processing is unavailable", payment.ErrGatewayDisabled)
	}
	return null.StringFrom(fmt.Sprintf("%s-%d", SimulatedPaymentPrefix, timeNow().UnixMilli())), nil
}

func (u *DonationUsecase) receiptNumber() (string, error) {
	suffix, err := newReceiptSuffix()
	if err != nil {
		return "", fmt.Errorf("generate receipt number: %w", err)
	}
	return fmt.Sprintf("%s-%d-%s", ReceiptPrefix, timeNow().UnixMilli(), suffix), nil
}

// ListDonations returns donations matching filter, newest first
func (u *DonationUsecase) ListDonations(ctx context.Context, filter entities.DonationFilter) ([]*entities.Donation, error) {
	filter.DonorEmail = normalizeEmail(filter.DonorEmail)
	return u.donationRepo.List(ctx, filter)
}

// GetDonation returns one donation with its charity
func (u *DonationUsecase) GetDonation(ctx context.Context, id uuid.UUID) (*entities.Donation, error) {
	donation, err := u.donationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("Donation not found")
		}
		return nil, err
	}
	return donation, nil
}

// GetByReceiptNumber backs the receipt page
func (u *DonationUsecase) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entities.Donation, error) {
	donation, err := u.donationRepo.GetByReceiptNumber(ctx, strings.TrimSpace(receiptNumber))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("Donation not found")
		}
		return nil, err
	}
	return donation, nil
}
