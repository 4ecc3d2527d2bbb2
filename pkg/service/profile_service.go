package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/thanhthanh221/identity-gateway/pkg/common"
	"github.com/thanhthanh221/identity-gateway/pkg/models"
)

const maxAge = 150

// ProfileStore persists one profile document per subject id
type ProfileStore interface {
	// GetProfile returns ErrProfileNotFound when no document exists
	GetProfile(ctx context.Context, subjectID string) (*models.Profile, error)
	// MergeProfile writes only the supplied fields, creating the document if needed
	MergeProfile(ctx context.Context, subjectID string, update models.ProfileUpdate) error
}

type ProfileService struct {
	store  ProfileStore
	events EventPublisher
	logger *logrus.Logger
}

func NewProfileService(store ProfileStore, events EventPublisher, logger *logrus.Logger) *ProfileService {
	if events == nil {
		events = NoopPublisher{}
	}
	return &ProfileService{store: store, events: events, logger: logger}
}

func (s *ProfileService) GetProfile(ctx context.Context, subjectID string) (*models.Profile, error) {
	profile, err := s.store.GetProfile(ctx, subjectID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, common.NotFound("profile not found", err).Keyed(common.MsgProfileNotFound)
		}
		s.logger.WithError(err).WithField("subject_id", subjectID).Error("failed to read profile")
		return nil, common.Internal("failed to read profile", err)
	}
	return profile, nil
}

// UpdateProfile validates and merges update, then returns the stored document
func (s *ProfileService) UpdateProfile(ctx context.Context, subjectID string, update models.ProfileUpdate) (*models.Profile, error) {
	if err := ValidateProfileUpdate(ctx, update); err != nil {
		return nil, err
	}

	if err := s.store.MergeProfile(ctx, subjectID, update); err != nil {
		s.logger.WithError(err).WithField("subject_id", subjectID).Error("failed to write profile")
		return nil, common.Internal("failed to write profile", err)
	}

	publishEvent(ctx, s.events, s.logger, models.EventProfileUpdated, subjectID, subjectID, update.Fields())

	profile, err := s.store.GetProfile(ctx, subjectID)
	if err != nil {
		s.logger.WithError(err).WithField("subject_id", subjectID).Error("failed to read profile after write")
		return nil, common.Internal("failed to read profile", err)
	}
	return profile, nil
}

// ValidateProfileUpdate checks the supplied fields of a partial profile
func ValidateProfileUpdate(ctx context.Context, update models.ProfileUpdate) error {
	if update.IsEmpty() {
		return common.BadRequest("at least one profile field is required").Keyed(common.MsgProfileEmptyUpdate)
	}

	v := common.NewValidator(ctx)
	var rules []*common.ErrorDetail
	if update.Gender != nil {
		rules = append(rules, v.Required("gender", strings.TrimSpace(*update.Gender)))
	}
	if update.Height != nil {
		rules = append(rules, v.Positive("height", *update.Height))
	}
	if update.Weight != nil {
		rules = append(rules, v.Positive("weight", *update.Weight))
	}
	if update.Age != nil {
		rules = append(rules, v.Range("age", *update.Age, 0, maxAge))
	}

	result := v.ValidateMultiple(rules...)
	if !result.IsValid {
		return common.BadRequest("invalid profile", result.Errors...).Keyed(common.MsgErrorValidation)
	}
	return nil
}
