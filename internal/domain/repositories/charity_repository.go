package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"donation-platform.backend/internal/domain/entities"
)

// CharityRepository defines charity data operations
type CharityRepository interface {
	Create(ctx context.Context, charity *entities.Charity) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Charity, error)
	GetByName(ctx context.Context, name string) (*entities.Charity, error)
	FindAnyVerified(ctx context.Context) (*entities.Charity, error)
	ListVerified(ctx context.Context) ([]*entities.Charity, error)
	ListAll(ctx context.Context) ([]*entities.Charity, error)
	Search(ctx context.Context, filter entities.CharitySearchFilter) ([]*entities.Charity, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.VerificationStatus) (*entities.Charity, error)
	IncrementAggregates(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	SetAggregates(ctx context.Context, id uuid.UUID, total decimal.Decimal, count int64) error
	RecomputeAggregates(ctx context.Context, id uuid.UUID) (before, after entities.CharityAggregate, err error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}
