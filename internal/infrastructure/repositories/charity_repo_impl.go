package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"donation-platform.backend/internal/domain/entities"
	domainerrors "donation-platform.backend/internal/domain/errors"
	"donation-platform.backend/internal/infrastructure/models"
	"donation-platform.backend/pkg/utils"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CharityRepository implements charity data operations
type CharityRepository struct {
	db *gorm.DB
}

// NewCharityRepository creates a new charity repository
func NewCharityRepository(db *gorm.DB) *CharityRepository {
	return &CharityRepository{db: db}
}

// Create inserts a charity. A taken name yields ErrAlreadyExists.
func (r *CharityRepository) Create(ctx context.Context, charity *entities.Charity) error {
	m := r.toModel(charity)
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return translateError(err)
	}
	charity.CreatedAt = m.CreatedAt
	charity.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *CharityRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Charity, error) {
	var m models.Charity
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return r.toEntity(&m), nil
}

func (r *CharityRepository) GetByName(ctx context.Context, name string) (*entities.Charity, error) {
	var m models.Charity
	if err := GetDB(ctx, r.db).Where("name = ?", name).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return r.toEntity(&m), nil
}

// FindAnyVerified returns the oldest verified charity
func (r *CharityRepository) FindAnyVerified(ctx context.Context) (*entities.Charity, error) {
	var m models.Charity
	err := GetDB(ctx, r.db).
		Where("verification_status = ?", entities.VerificationVerified).
		Order("created_at ASC").
		First(&m).Error
	if err != nil {
		return nil, translateError(err)
	}
	return r.toEntity(&m), nil
}

// ListVerified returns the public catalogue
func (r *CharityRepository) ListVerified(ctx context.Context) ([]*entities.Charity, error) {
	var ms []models.Charity
	err := GetDB(ctx, r.db).
		Where("verification_status = ?", entities.VerificationVerified).
		Order("name ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toEntities(ms), nil
}

func (r *CharityRepository) ListAll(ctx context.Context) ([]*entities.Charity, error) {
	var ms []models.Charity
	if err := GetDB(ctx, r.db).Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.toEntities(ms), nil
}

// Search matches Query case-insensitively against name, description and the
// submitter's name and email. Page and Limit must already be bounded.
func (r *CharityRepository) Search(ctx context.Context, filter entities.CharitySearchFilter) ([]*entities.Charity, int64, error) {
	query := GetDB(ctx, r.db).Model(&models.Charity{})

	if q := strings.TrimSpace(filter.Query); q != "" {
		term := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
		query = query.Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(submitted_by_name) LIKE ? ESCAPE '\' OR LOWER(submitted_by_email) LIKE ? ESCAPE '\'`,
			term, term, term, term,
		)
	}
	if filter.Status != "" {
		query = query.Where("verification_status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Charity
	offset := utils.PaginationParams{Page: filter.Page, Limit: filter.Limit}.CalculateOffset()
	if err := query.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return r.toEntities(ms), total, nil
}

// UpdateStatus sets the verification status and returns the updated record
func (r *CharityRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.VerificationStatus) (*entities.Charity, error) {
	result := GetDB(ctx, r.db).Model(&models.Charity{}).Where("id = ?", id).Updates(map[string]interface{}{
		"verification_status": string(status),
		"updated_at":          time.Now(),
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// IncrementAggregates adds one completed donation of amount to the charity's
// running totals in a single statement.
func (r *CharityRepository) IncrementAggregates(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	result := GetDB(ctx, r.db).Model(&models.Charity{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total_donations": gorm.Expr("total_donations + ?", amount),
		"donation_count":  gorm.Expr("donation_count + ?", 1),
		"updated_at":      time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SetAggregates overwrites the running totals
func (r *CharityRepository) SetAggregates(ctx context.Context, id uuid.UUID, total decimal.Decimal, count int64) error {
	result := GetDB(ctx, r.db).Model(&models.Charity{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total_donations": total,
		"donation_count":  count,
		"updated_at":      time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// RecomputeAggregates locks the charity row, recomputes its totals from its
// completed donations and stores them. The read runs after the lock is held, so
// a donation committed while waiting is included and one committed afterwards
// adds its increment on top. It returns the stored values before and after.
func (r *CharityRepository) RecomputeAggregates(ctx context.Context, id uuid.UUID) (before, after entities.CharityAggregate, err error) {
	err = GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var m models.Charity
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&m).Error; err != nil {
			return translateError(err)
		}
		before = entities.CharityAggregate{CharityID: id, Total: m.TotalDonations, Count: m.DonationCount}

		var agg struct {
			Total decimal.Decimal
			Count int64
		}
		if err := tx.Model(&models.Donation{}).
			Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
			Where("charity_id = ? AND status = ?", id, entities.DonationCompleted).
			Scan(&agg).Error; err != nil {
			return err
		}
		after = entities.CharityAggregate{CharityID: id, Total: agg.Total, Count: agg.Count}
		if before.Total.Equal(after.Total) && before.Count == after.Count {
			return nil
		}

		return tx.Model(&models.Charity{}).Where("id = ?", id).Updates(map[string]interface{}{
			"total_donations": after.Total,
			"donation_count":  after.Count,
			"updated_at":      time.Now(),
		}).Error
	})
	return before, after, err
}

func (r *CharityRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.Charity{}).Count(&count).Error
	return count, err
}

// DeleteAll empties the charity table. Used by the seeder.
func (r *CharityRepository) DeleteAll(ctx context.Context) error {
	return GetDB(ctx, r.db).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Charity{}).Error
}

func (r *CharityRepository) toModel(c *entities.Charity) *models.Charity {
	m := &models.Charity{
		ID:                 c.ID,
		Name:               c.Name,
		Description:        c.Description,
		Website:            c.Website.Ptr(),
		Logo:               c.Logo.Ptr(),
		VerificationStatus: string(c.VerificationStatus),
		TotalDonations:     c.TotalDonations,
		DonationCount:      c.DonationCount,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
	if m.VerificationStatus == "" {
		m.VerificationStatus = string(entities.VerificationPending)
	}
	if c.Category != "" {
		category := string(c.Category)
		m.Category = &category
	}
	if s := c.SubmittedBy; s != nil {
		m.SubmittedByName = &s.Name
		m.SubmittedByEmail = &s.Email
		if s.Reason != "" {
			m.SubmissionReason = &s.Reason
		}
		submittedAt := s.SubmittedAt
		m.SubmittedAt = &submittedAt
	}
	return m
}

func (r *CharityRepository) toEntity(m *models.Charity) *entities.Charity {
	c := &entities.Charity{
		ID:                 m.ID,
		Name:               m.Name,
		Description:        m.Description,
		Website:            null.StringFromPtr(m.Website),
		Logo:               null.StringFromPtr(m.Logo),
		VerificationStatus: entities.VerificationStatus(m.VerificationStatus),
		TotalDonations:     m.TotalDonations,
		DonationCount:      m.DonationCount,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	if m.Category != nil {
		c.Category = entities.CharityCategory(*m.Category)
	}
	if m.SubmittedByEmail != nil {
		s := &entities.CharitySubmitter{Email: *m.SubmittedByEmail}
		if m.SubmittedByName != nil {
			s.Name = *m.SubmittedByName
		}
		if m.SubmissionReason != nil {
			s.Reason = *m.SubmissionReason
		}
		if m.SubmittedAt != nil {
			s.SubmittedAt = *m.SubmittedAt
		}
		c.SubmittedBy = s
	}
	return c
}

func (r *CharityRepository) toEntities(ms []models.Charity) []*entities.Charity {
	items := make([]*entities.Charity, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items
}
