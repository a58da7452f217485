package usecases

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"donation-platform.backend/internal/domain/entities"
	domainerrors "donation-platform.backend/internal/domain/errors"
	"donation-platform.backend/internal/domain/repositories"
	"donation-platform.backend/pkg/crypto"
	"donation-platform.backend/pkg/jwt"
	"donation-platform.backend/pkg/utils"
)

var errInvalidCredentials = domainerrors.NewAppError(
	http.StatusUnauthorized,
	domainerrors.CodeInvalidCredentials,
	"Invalid credentials",
	domainerrors.ErrInvalidCredentials,
)

// AuthUsecase handles registration, login and the caller's own records
type AuthUsecase struct {
	userRepo     repositories.UserRepository
	donationRepo repositories.DonationRepository
	jwtService   *jwt.JWTService
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	donationRepo repositories.DonationRepository,
	jwtService *jwt.JWTService,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:     userRepo,
		donationRepo: donationRepo,
		jwtService:   jwtService,
	}
}

// Register creates a user account and signs it in
func (u *AuthUsecase) Register(ctx context.Context, input *entities.CreateUserInput) (*entities.AuthResponse, error) {
	email := normalizeEmail(input.Email)

	_, err := u.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, domainerrors.BadRequest("User already exists")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:           utils.GenerateUUIDv7(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.BadRequest("User already exists")
		}
		return nil, err
	}

	return u.issue(user)
}

// Login authenticates a user. Unknown email and wrong password are
// indistinguishable to the caller.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, errInvalidCredentials
	}

	return u.issue(user)
}

// GetUserByID returns the user for an authenticated id
func (u *AuthUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

// MyDonations lists donations whose donor email matches the user's email.
// Users and donations share no other link.
func (u *AuthUsecase) MyDonations(ctx context.Context, user *entities.User) ([]*entities.Donation, error) {
	return u.donationRepo.List(ctx, entities.DonationFilter{DonorEmail: normalizeEmail(user.Email)})
}

func (u *AuthUsecase) issue(user *entities.User) (*entities.AuthResponse, error) {
	token, err := u.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &entities.AuthResponse{Token: token, User: user}, nil
}
