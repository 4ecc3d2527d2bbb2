package memory

import (
	"context"
	"sync"

	"github.com/thanhthanh221/identity-gateway/pkg/models"
	services "github.com/thanhthanh221/identity-gateway/pkg/service"
)

// ProfileStore keeps profiles in process memory. Data is lost on restart.
type ProfileStore struct {
	mu   sync.RWMutex
	docs map[string]models.Profile
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{docs: make(map[string]models.Profile)}
}

func (s *ProfileStore) GetProfile(ctx context.Context, subjectID string) (*models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[subjectID]
	if !ok {
		return nil, services.ErrProfileNotFound
	}
	return &doc, nil
}

func (s *ProfileStore) MergeProfile(ctx context.Context, subjectID string, update models.ProfileUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.docs[subjectID]
	update.Apply(&doc)
	s.docs[subjectID] = doc
	return nil
}
