package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"donation-platform.backend/internal/domain/entities"
	domainerrors "donation-platform.backend/internal/domain/errors"
	"donation-platform.backend/internal/infrastructure/models"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. A taken email yields ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := &models.User{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		IsAdmin:      user.IsAdmin,
		CreatedAt:    user.CreatedAt,
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return translateError(err)
	}
	user.CreatedAt = m.CreatedAt
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return r.toEntity(&m), nil
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return r.toEntity(&m), nil
}

// List returns every user, newest first
func (r *UserRepository) List(ctx context.Context) ([]*entities.User, error) {
	var ms []models.User
	if err := GetDB(ctx, r.db).Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}

	users := make([]*entities.User, 0, len(ms))
	for i := range ms {
		users = append(users, r.toEntity(&ms[i]))
	}
	return users, nil
}

// Delete removes a user permanently
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SetAdmin grants or revokes the admin flag
func (r *UserRepository) SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error {
	result := GetDB(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Update("is_admin", isAdmin)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *UserRepository) toEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		IsAdmin:      m.IsAdmin,
		CreatedAt:    m.CreatedAt,
	}
}
