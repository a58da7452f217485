package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"donation-platform.backend/internal/domain/entities"
)

// DonationRepository defines donation data operations. Reads populate
// Donation.Charity when the referenced charity exists.
type DonationRepository interface {
	Create(ctx context.Context, donation *entities.Donation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Donation, error)
	GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entities.Donation, error)
	List(ctx context.Context, filter entities.DonationFilter) ([]*entities.Donation, error)
	MarkReceiptSent(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	SumAmount(ctx context.Context) (decimal.Decimal, error)
	AggregateByCharity(ctx context.Context) ([]entities.CharityAggregate, error)
	DeleteAll(ctx context.Context) error
}
