package repositories

import (
	"context"

	"github.com/google/uuid"

	"donation-platform.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	List(ctx context.Context) ([]*entities.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error
	Count(ctx context.Context) (int64, error)
}
