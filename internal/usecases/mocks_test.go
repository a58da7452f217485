package usecases_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"donation-platform.backend/internal/domain/entities"
	"donation-platform.backend/internal/infrastructure/payment"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error {
	args := m.Called(ctx, id, isAdmin)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Mock CharityRepository
type MockCharityRepository struct {
	mock.Mock
}

func (m *MockCharityRepository) Create(ctx context.Context, charity *entities.Charity) error {
	args := m.Called(ctx, charity)
	return args.Error(0)
}

func (m *MockCharityRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Charity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Charity), args.Error(1)
}

func (m *MockCharityRepository) GetByName(ctx context.Context, name string) (*entities.Charity, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Charity), args.Error(1)
}

func (m *MockCharityRepository) FindAnyVerified(ctx context.Context) (*entities.Charity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Charity), args.Error(1)
}

func (m *MockCharityRepository) ListVerified(ctx context.Context) ([]*entities.Charity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Charity), args.Error(1)
}

func (m *MockCharityRepository) ListAll(ctx context.Context) ([]*entities.Charity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Charity), args.Error(1)
}

func (m *MockCharityRepository) Search(ctx context.Context, filter entities.CharitySearchFilter) ([]*entities.Charity, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Charity), args.Get(1).(int64), args.Error(2)
}

func (m *MockCharityRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.VerificationStatus) (*entities.Charity, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Charity), args.Error(1)
}

func (m *MockCharityRepository) IncrementAggregates(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockCharityRepository) SetAggregates(ctx context.Context, id uuid.UUID, total decimal.Decimal, count int64) error {
	args := m.Called(ctx, id, total, count)
	return args.Error(0)
}

func (m *MockCharityRepository) RecomputeAggregates(ctx context.Context, id uuid.UUID) (entities.CharityAggregate, entities.CharityAggregate, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.CharityAggregate), args.Get(1).(entities.CharityAggregate), args.Error(2)
}

func (m *MockCharityRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCharityRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Mock DonationRepository
type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) Create(ctx context.Context, donation *entities.Donation) error {
	args := m.Called(ctx, donation)
	return args.Error(0)
}

func (m *MockDonationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Donation), args.Error(1)
}

func (m *MockDonationRepository) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entities.Donation, error) {
	args := m.Called(ctx, receiptNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Donation), args.Error(1)
}

func (m *MockDonationRepository) List(ctx context.Context, filter entities.DonationFilter) ([]*entities.Donation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Donation), args.Error(1)
}

func (m *MockDonationRepository) MarkReceiptSent(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDonationRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDonationRepository) SumAmount(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockDonationRepository) AggregateByCharity(ctx context.Context) ([]entities.CharityAggregate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.CharityAggregate), args.Error(1)
}

func (m *MockDonationRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Mock payment gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockGateway) Charge(ctx context.Context, req payment.ChargeRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// Mock receipt dispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, donation *entities.Donation, charityName string) bool {
	args := m.Called(ctx, donation, charityName)
	return args.Bool(0)
}

// Mock reconciler
type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) Reconcile(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
