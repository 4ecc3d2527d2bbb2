package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/thanhthanh221/identity-gateway/pkg/helpers"
	"github.com/thanhthanh221/identity-gateway/pkg/models"
	services "github.com/thanhthanh221/identity-gateway/pkg/service"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserRepository is a local identity directory on PostgreSQL.
// Emails are stored lower-cased and are unique.
type UserRepository struct {
	repo Repository
}

func NewUserRepository(repo Repository) *UserRepository {
	return &UserRepository{repo: repo}
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]models.UserRecord, error) {
	var entities []UserEntity
	if err := r.repo.GetAll(ctx, &entities, "created_at ASC"); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	records := make([]models.UserRecord, 0, len(entities))
	for i := range entities {
		records = append(records, toUserRecord(&entities[i]))
	}
	return records, nil
}

func (r *UserRepository) GetUser(ctx context.Context, id string) (*models.UserRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, services.ErrUserNotFound
	}
	return r.getOne(ctx, "id", id)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.UserRecord, error) {
	return r.getOne(ctx, "email", normalizeEmail(email))
}

func (r *UserRepository) getOne(ctx context.Context, field, value string) (*models.UserRecord, error) {
	var entity UserEntity
	if err := r.repo.GetOneByField(ctx, &entity, field, value); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, services.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by %s: %w", field, err)
	}
	record := toUserRecord(&entity)
	return &record, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, email, password string) (*models.UserRecord, error) {
	hash, err := helpers.HashPass(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	entity := &UserEntity{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		CustomClaims: datatypes.JSONMap{},
	}
	if err := r.repo.Create(ctx, entity); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, services.ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	record := toUserRecord(entity)
	return &record, nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return services.ErrUserNotFound
	}
	deleted, err := r.repo.DeleteWhere(ctx, &UserEntity{}, "id = ?", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if deleted == 0 {
		return services.ErrUserNotFound
	}
	return nil
}

// SetCustomClaims replaces the whole claim set, as the hosted provider does
func (r *UserRepository) SetCustomClaims(ctx context.Context, id string, claims map[string]any) error {
	if _, err := uuid.Parse(id); err != nil {
		return services.ErrUserNotFound
	}
	var entity UserEntity
	if err := r.repo.GetOneByID(ctx, &entity, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return services.ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	entity.CustomClaims = datatypes.JSONMap(claims)
	if err := r.repo.Save(ctx, &entity); err != nil {
		return fmt.Errorf("save claims: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserRecord(entity *UserEntity) models.UserRecord {
	record := models.UserRecord{
		ID:            entity.ID,
		Email:         entity.Email,
		EmailVerified: entity.EmailVerified,
		CreatedAt:     entity.CreatedAt,
		CustomClaims:  map[string]any(entity.CustomClaims),
	}
	if entity.LastSignInAt != nil {
		record.LastSignInAt = *entity.LastSignInAt
	}
	record.IsPrivileged = models.IsAdminClaim(record.CustomClaims)
	return record
}
