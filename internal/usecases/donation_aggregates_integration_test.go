package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"donation-platform.backend/internal/domain/entities"
	"donation-platform.backend/internal/infrastructure/jobs"
	"donation-platform.backend/internal/infrastructure/models"
	"donation-platform.backend/internal/infrastructure/repositories"
	"donation-platform.backend/internal/usecases"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection serializes writers, sqlite has no row locks
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.All()...))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// failingCharityRepo fails the aggregate bump after the donation row is written.
type failingCharityRepo struct {
	*repositories.CharityRepository
}

func (r failingCharityRepo) IncrementAggregates(context.Context, uuid.UUID, decimal.Decimal) error {
	return errors.New("aggregate update failed")
}

// lateDonationSource runs afterRead once the aggregate snapshot has been taken.
type lateDonationSource struct {
	*repositories.DonationRepository
	afterRead func()
}

func (s lateDonationSource) AggregateByCharity(ctx context.Context) ([]entities.CharityAggregate, error) {
	aggs, err := s.DonationRepository.AggregateByCharity(ctx)
	if s.afterRead != nil {
		s.afterRead()
	}
	return aggs, err
}

func seedCharity(t *testing.T, repo *repositories.CharityRepository, name string) *entities.Charity {
	t.Helper()
	c := &entities.Charity{
		ID:                 uuid.New(),
		Name:               name,
		Description:        "seeded",
		Category:           entities.CategoryHealth,
		VerificationStatus: entities.VerificationVerified,
		TotalDonations:     decimal.Zero,
	}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func TestDonationAggregates_MatchStoredDonations(t *testing.T) {
	db := newSQLiteDB(t)
	charities := repositories.NewCharityRepository(db)
	donations := repositories.NewDonationRepository(db)
	uc := usecases.NewDonationUsecase(donations, charities, repositories.NewUnitOfWork(db), nil, nil, simulatedOpts())
	charity := seedCharity(t, charities, "Clean Rivers")

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := donationInput(charity.ID.String())
			in.Amount = decimal.NewFromInt(int64(i + 1))
			_, err := uc.CreateDonation(context.Background(), in)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := charities.GetByID(context.Background(), charity.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), stored.DonationCount)
	assert.True(t, stored.TotalDonations.Equal(decimal.NewFromInt(55)), "total=%s", stored.TotalDonations)

	aggs, err := donations.AggregateByCharity(context.Background())
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.True(t, aggs[0].Total.Equal(stored.TotalDonations))
	assert.Equal(t, stored.DonationCount, aggs[0].Count)
}

func TestDonationAggregates_RollbackOnFailure(t *testing.T) {
	db := newSQLiteDB(t)
	charities := repositories.NewCharityRepository(db)
	donations := repositories.NewDonationRepository(db)
	charity := seedCharity(t, charities, "Clean Rivers")

	uc := usecases.NewDonationUsecase(donations, failingCharityRepo{charities}, repositories.NewUnitOfWork(db), nil, nil, simulatedOpts())
	_, err := uc.CreateDonation(context.Background(), donationInput(charity.ID.String()))
	require.Error(t, err)

	count, err := donations.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	stored, err := charities.GetByID(context.Background(), charity.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.DonationCount)
	assert.True(t, stored.TotalDonations.IsZero())
}

func TestDonationAggregates_ReconcileRepairsDrift(t *testing.T) {
	db := newSQLiteDB(t)
	charities := repositories.NewCharityRepository(db)
	donations := repositories.NewDonationRepository(db)
	uc := usecases.NewDonationUsecase(donations, charities, repositories.NewUnitOfWork(db), nil, nil, simulatedOpts())
	charity := seedCharity(t, charities, "Clean Rivers")
	idle := seedCharity(t, charities, "Quiet Fund")

	for i := 0; i < 3; i++ {
		_, err := uc.CreateDonation(context.Background(), donationInput(charity.ID.String()))
		require.NoError(t, err)
	}
	require.NoError(t, charities.SetAggregates(context.Background(), charity.ID, decimal.NewFromInt(1), 1))
	require.NoError(t, charities.SetAggregates(context.Background(), idle.ID, decimal.NewFromInt(9), 2))

	job := jobs.NewAggregateReconcileJob(charities, donations, time.Hour)
	admin := usecases.NewAdminUsecase(repositories.NewUserRepository(db), charities, donations, job)
	corrected, err := admin.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, corrected)

	stored, err := charities.GetByID(context.Background(), charity.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalDonations.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, int64(3), stored.DonationCount)

	stored, err = charities.GetByID(context.Background(), idle.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalDonations.IsZero())
	assert.Zero(t, stored.DonationCount)

	corrected, err = admin.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Zero(t, corrected)
}

func TestDonationAggregates_ReconcileKeepsDonationCommittedAfterSnapshot(t *testing.T) {
	db := newSQLiteDB(t)
	charities := repositories.NewCharityRepository(db)
	donations := repositories.NewDonationRepository(db)
	uc := usecases.NewDonationUsecase(donations, charities, repositories.NewUnitOfWork(db), nil, nil, simulatedOpts())
	charity := seedCharity(t, charities, "Clean Rivers")

	_, err := uc.CreateDonation(context.Background(), donationInput(charity.ID.String()))
	require.NoError(t, err)
	require.NoError(t, charities.SetAggregates(context.Background(), charity.ID, decimal.NewFromInt(1), 1))

	source := lateDonationSource{
		DonationRepository: donations,
		afterRead: func() {
			_, err := uc.CreateDonation(context.Background(), donationInput(charity.ID.String()))
			require.NoError(t, err)
		},
	}
	corrected, err := jobs.NewAggregateReconcileJob(charities, source, time.Hour).Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, corrected)

	stored, err := charities.GetByID(context.Background(), charity.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalDonations.Equal(decimal.NewFromInt(50)), "total=%s", stored.TotalDonations)
	assert.Equal(t, int64(2), stored.DonationCount)

	aggs, err := donations.AggregateByCharity(context.Background())
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.True(t, aggs[0].Total.Equal(stored.TotalDonations))
	assert.Equal(t, stored.DonationCount, aggs[0].Count)
}
