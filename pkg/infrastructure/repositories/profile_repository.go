package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/thanhthanh221/identity-gateway/pkg/models"
	services "github.com/thanhthanh221/identity-gateway/pkg/service"
	"gorm.io/gorm/clause"
)

// ProfileRepository stores profiles in the profiles table
type ProfileRepository struct {
	repo Repository
}

func NewProfileRepository(repo Repository) *ProfileRepository {
	return &ProfileRepository{repo: repo}
}

func (r *ProfileRepository) GetProfile(ctx context.Context, subjectID string) (*models.Profile, error) {
	var entity ProfileEntity
	if err := r.repo.GetOneByField(ctx, &entity, "subject_id", subjectID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, services.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return toProfile(&entity), nil
}

// MergeProfile inserts the row or updates only the supplied columns
func (r *ProfileRepository) MergeProfile(ctx context.Context, subjectID string, update models.ProfileUpdate) error {
	entity, columns := profileUpsert(subjectID, update)
	if len(columns) == 0 {
		return nil
	}

	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "subject_id"}},
		DoUpdates: clause.AssignmentColumns(append(columns, "updated_at")),
	}
	if err := r.repo.Upsert(ctx, entity, onConflict); err != nil {
		return fmt.Errorf("merge profile: %w", err)
	}
	return nil
}

func profileUpsert(subjectID string, update models.ProfileUpdate) (*ProfileEntity, []string) {
	entity := &ProfileEntity{SubjectID: subjectID}
	var columns []string
	if update.Gender != nil {
		entity.Gender = update.Gender
		columns = append(columns, "gender")
	}
	if update.Height != nil {
		entity.Height = update.Height
		columns = append(columns, "height")
	}
	if update.Weight != nil {
		entity.Weight = update.Weight
		columns = append(columns, "weight")
	}
	if update.Age != nil {
		entity.Age = update.Age
		columns = append(columns, "age")
	}
	return entity, columns
}

func toProfile(entity *ProfileEntity) *models.Profile {
	profile := &models.Profile{}
	if entity.Gender != nil {
		profile.Gender = *entity.Gender
	}
	if entity.Height != nil {
		profile.Height = *entity.Height
	}
	if entity.Weight != nil {
		profile.Weight = *entity.Weight
	}
	if entity.Age != nil {
		profile.Age = *entity.Age
	}
	return profile
}
