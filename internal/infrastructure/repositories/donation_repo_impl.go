package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"donation-platform.backend/internal/domain/entities"
	domainerrors "donation-platform.backend/internal/domain/errors"
	"donation-platform.backend/internal/infrastructure/models"
)

// DonationRepository implements donation data operations
type DonationRepository struct {
	db        *gorm.DB
	charities *CharityRepository
}

// NewDonationRepository creates a new donation repository
func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{db: db, charities: NewCharityRepository(db)}
}

func (r *DonationRepository) Create(ctx context.Context, donation *entities.Donation) error {
	m := r.toModel(donation)
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return translateError(err)
	}
	donation.CreatedAt = m.CreatedAt
	return nil
}

func (r *DonationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Donation, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *DonationRepository) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entities.Donation, error) {
	return r.first(ctx, "receipt_number = ?", receiptNumber)
}

// List returns donations matching filter, newest first
func (r *DonationRepository) List(ctx context.Context, filter entities.DonationFilter) ([]*entities.Donation, error) {
	query := GetDB(ctx, r.db).Model(&models.Donation{})
	if filter.CharityID != nil {
		query = query.Where("charity_id = ?", *filter.CharityID)
	}
	if filter.DonorEmail != "" {
		query = query.Where("donor_email = ?", filter.DonorEmail)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}

	var ms []models.Donation
	if err := query.Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.Donation, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	if err := r.populateCharities(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *DonationRepository) MarkReceiptSent(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Model(&models.Donation{}).Where("id = ?", id).Update("receipt_sent", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *DonationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.Donation{}).Count(&count).Error
	return count, err
}

// SumAmount totals every stored donation amount
func (r *DonationRepository) SumAmount(ctx context.Context) (decimal.Decimal, error) {
	var res struct {
		Total decimal.Decimal
	}
	if err := GetDB(ctx, r.db).Model(&models.Donation{}).Select("COALESCE(SUM(amount), 0) AS total").Scan(&res).Error; err != nil {
		return decimal.Zero, err
	}
	return res.Total, nil
}

// AggregateByCharity recomputes total and count of completed donations per charity
func (r *DonationRepository) AggregateByCharity(ctx context.Context) ([]entities.CharityAggregate, error) {
	var rows []struct {
		CharityID uuid.UUID
		Total     decimal.Decimal
		Count     int64
	}
	err := GetDB(ctx, r.db).Model(&models.Donation{}).
		Select("charity_id, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("status = ?", entities.DonationCompleted).
		Group("charity_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]entities.CharityAggregate, 0, len(rows))
	for _, row := range rows {
		out = append(out, entities.CharityAggregate{CharityID: row.CharityID, Total: row.Total, Count: row.Count})
	}
	return out, nil
}

// DeleteAll empties the donation table. Used by the seeder.
func (r *DonationRepository) DeleteAll(ctx context.Context) error {
	return GetDB(ctx, r.db).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Donation{}).Error
}

func (r *DonationRepository) first(ctx context.Context, cond string, arg interface{}) (*entities.Donation, error) {
	var m models.Donation
	if err := GetDB(ctx, r.db).Where(cond, arg).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	d := r.toEntity(&m)
	if err := r.populateCharities(ctx, []*entities.Donation{d}); err != nil {
		return nil, err
	}
	return d, nil
}

// populateCharities attaches the referenced charity to each donation. Donations
// pointing at a charity that is not stored keep a nil Charity.
func (r *DonationRepository) populateCharities(ctx context.Context, items []*entities.Donation) error {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, d := range items {
		if _, ok := seen[d.CharityID]; ok {
			continue
		}
		seen[d.CharityID] = struct{}{}
		ids = append(ids, d.CharityID)
	}

	var ms []models.Charity
	if err := GetDB(ctx, r.db).Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*entities.Charity, len(ms))
	for i := range ms {
		byID[ms[i].ID] = r.charities.toEntity(&ms[i])
	}
	for _, d := range items {
		d.Charity = byID[d.CharityID]
	}
	return nil
}

func (r *DonationRepository) toModel(d *entities.Donation) *models.Donation {
	currency := d.Currency
	if currency == "" {
		currency = entities.DefaultCurrency
	}
	status := d.Status
	if status == "" {
		status = entities.DonationPending
	}
	return &models.Donation{
		ID: d.ID,
		Donor: models.Donor{
			Name:      d.Donor.Name,
			Email:     d.Donor.Email,
			Anonymous: d.Donor.Anonymous,
		},
		CharityID:     d.CharityID,
		Amount:        d.Amount,
		Currency:      currency,
		PaymentMethod: string(d.PaymentMethod),
		PaymentID:     d.PaymentID.Ptr(),
		Status:        string(status),
		ReceiptSent:   d.ReceiptSent,
		ReceiptNumber: d.ReceiptNumber,
		Message:       d.Message.Ptr(),
		CreatedAt:     d.CreatedAt,
	}
}

func (r *DonationRepository) toEntity(m *models.Donation) *entities.Donation {
	return &entities.Donation{
		ID: m.ID,
		Donor: entities.Donor{
			Name:      m.Donor.Name,
			Email:     m.Donor.Email,
			Anonymous: m.Donor.Anonymous,
		},
		CharityID:     m.CharityID,
		Amount:        m.Amount,
		Currency:      m.Currency,
		PaymentMethod: entities.PaymentMethod(m.PaymentMethod),
		PaymentID:     null.StringFromPtr(m.PaymentID),
		Status:        entities.DonationStatus(m.Status),
		ReceiptSent:   m.ReceiptSent,
		ReceiptNumber: m.ReceiptNumber,
		Message:       null.StringFromPtr(m.Message),
		CreatedAt:     m.CreatedAt,
	}
}
