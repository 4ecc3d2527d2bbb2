package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/thanhthanh221/identity-gateway/pkg/models"
	services "github.com/thanhthanh221/identity-gateway/pkg/service"
)

const profileKeyPrefix = "profile:"

// ProfileStore keeps each profile in a hash; HSET writes only the supplied fields
type ProfileStore struct {
	client RedisClient
}

func NewProfileStore(client RedisClient) *ProfileStore {
	return &ProfileStore{client: client}
}

func (s *ProfileStore) GetProfile(ctx context.Context, subjectID string) (*models.Profile, error) {
	fields, err := s.client.HGetAll(ctx, profileKeyPrefix+subjectID)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", subjectID, err)
	}
	if len(fields) == 0 {
		return nil, services.ErrProfileNotFound
	}
	return decodeProfile(fields)
}

func (s *ProfileStore) MergeProfile(ctx context.Context, subjectID string, update models.ProfileUpdate) error {
	values := update.Fields()
	if len(values) == 0 {
		return nil
	}
	if err := s.client.HSet(ctx, profileKeyPrefix+subjectID, values); err != nil {
		return fmt.Errorf("write profile %s: %w", subjectID, err)
	}
	return nil
}

func decodeProfile(fields map[string]string) (*models.Profile, error) {
	profile := &models.Profile{Gender: fields["gender"]}
	var err error
	if v, ok := fields["height"]; ok {
		if profile.Height, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("decode height: %w", err)
		}
	}
	if v, ok := fields["weight"]; ok {
		if profile.Weight, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("decode weight: %w", err)
		}
	}
	if v, ok := fields["age"]; ok {
		if profile.Age, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("decode age: %w", err)
		}
	}
	return profile, nil
}
