package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/thanhthanh221/identity-gateway/pkg/common"
	"github.com/thanhthanh221/identity-gateway/pkg/models"
)

// minPasswordLength matches the identity platform's own minimum
const minPasswordLength = 6

// IdentityProvider is the external user directory
type IdentityProvider interface {
	ListUsers(ctx context.Context) ([]models.UserRecord, error)
	GetUser(ctx context.Context, id string) (*models.UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*models.UserRecord, error)
	CreateUser(ctx context.Context, email, password string) (*models.UserRecord, error)
	DeleteUser(ctx context.Context, id string) error
	SetCustomClaims(ctx context.Context, id string, claims map[string]any) error
}

// UserService runs the admin user operations against an IdentityProvider
type UserService struct {
	provider IdentityProvider
	events   EventPublisher
	logger   *logrus.Logger
}

func NewUserService(provider IdentityProvider, events EventPublisher, logger *logrus.Logger) *UserService {
	if events == nil {
		events = NoopPublisher{}
	}
	return &UserService{provider: provider, events: events, logger: logger}
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	records, err := s.provider.ListUsers(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to list users")
		return nil, common.Internal("failed to list users", err)
	}
	return summaries(records), nil
}

// SearchUsers lists every user and keeps those whose id or email contains query, ignoring case.
// An empty query matches everyone.
func (s *UserService) SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error) {
	records, err := s.provider.ListUsers(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to list users for search")
		return nil, common.Internal("failed to search users", err)
	}
	return summaries(FilterUsers(records, query)), nil
}

// FilterUsers keeps records whose id or email contains query case-insensitively
func FilterUsers(records []models.UserRecord, query string) []models.UserRecord {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return records
	}
	matches := make([]models.UserRecord, 0, len(records))
	for _, record := range records {
		if strings.Contains(strings.ToLower(record.ID), needle) ||
			strings.Contains(strings.ToLower(record.Email), needle) {
			matches = append(matches, record)
		}
	}
	return matches
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.UserDetail, error) {
	record, err := s.provider.GetUser(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, "id", id)
	}
	detail := record.Detail()
	return &detail, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.UserDetail, error) {
	if strings.TrimSpace(email) == "" {
		return nil, common.BadRequest("email query parameter is required",
			common.ErrorDetail{Field: "email", Message: common.TWithContext(ctx, common.MsgValidationRequired)},
		).Keyed(common.MsgUserEmailRequired)
	}
	record, err := s.provider.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, s.lookupError(err, "email", email)
	}
	detail := record.Detail()
	return &detail, nil
}

func (s *UserService) CreateUser(ctx context.Context, actorID string, req models.CreateUserRequest) (*models.CreatedUser, error) {
	v := common.NewValidator(ctx)
	result := v.ValidateMultiple(
		v.Required("email", req.Email),
		v.Email("email", req.Email),
		v.MinLength("password", req.Password, minPasswordLength),
	)
	if !result.IsValid {
		return nil, common.BadRequest("invalid create user request", result.Errors...).Keyed(common.MsgErrorValidation)
	}

	record, err := s.provider.CreateUser(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, common.Conflict("email already exists", err).Keyed(common.MsgUserEmailExists)
		}
		s.logger.WithError(err).WithField("email", req.Email).Error("failed to create user")
		return nil, common.Internal("failed to create user", err)
	}

	publishEvent(ctx, s.events, s.logger, models.EventUserCreated, record.ID, actorID, map[string]any{"email": record.Email})
	return &models.CreatedUser{ID: record.ID, Email: record.Email}, nil
}

func (s *UserService) DeleteUser(ctx context.Context, actorID, id string) error {
	if err := s.provider.DeleteUser(ctx, id); err != nil {
		return s.lookupError(err, "id", id)
	}
	publishEvent(ctx, s.events, s.logger, models.EventUserDeleted, id, actorID, nil)
	return nil
}

// SetAdmin grants or revokes the admin claim. Other custom claims on the account are kept.
func (s *UserService) SetAdmin(ctx context.Context, actorID, id string, admin bool) (*models.ClaimsUpdated, error) {
	record, err := s.provider.GetUser(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, "id", id)
	}

	claims := make(map[string]any, len(record.CustomClaims)+1)
	for k, v := range record.CustomClaims {
		claims[k] = v
	}
	claims["admin"] = admin

	if err := s.provider.SetCustomClaims(ctx, id, claims); err != nil {
		return nil, s.lookupError(err, "id", id)
	}

	publishEvent(ctx, s.events, s.logger, models.EventUserClaimsUpdated, id, actorID, map[string]any{"admin": admin})
	return &models.ClaimsUpdated{ID: id, IsPrivileged: admin}, nil
}

func (s *UserService) lookupError(err error, field, value string) error {
	if errors.Is(err, ErrUserNotFound) {
		return common.NotFound("user not found", err).Keyed(common.MsgUserNotFound)
	}
	s.logger.WithError(err).WithField(field, value).Error("identity provider call failed")
	return common.Internal("identity provider call failed", err)
}

func summaries(records []models.UserRecord) []models.UserSummary {
	out := make([]models.UserSummary, 0, len(records))
	for _, record := range records {
		out = append(out, record.Summary())
	}
	return out
}
