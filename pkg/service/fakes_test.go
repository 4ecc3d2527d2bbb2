package services

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/thanhthanh221/identity-gateway/pkg/models"
)

type fakeVerifier struct {
	calls  int
	verify func(ctx context.Context, token string) (map[string]any, error)
}

func (f *fakeVerifier) VerifyIDToken(ctx context.Context, token string) (map[string]any, error) {
	f.calls++
	return f.verify(ctx, token)
}

type fakeProvider struct {
	listUsers       func(ctx context.Context) ([]models.UserRecord, error)
	getUser         func(ctx context.Context, id string) (*models.UserRecord, error)
	getUserByEmail  func(ctx context.Context, email string) (*models.UserRecord, error)
	createUser      func(ctx context.Context, email, password string) (*models.UserRecord, error)
	deleteUser      func(ctx context.Context, id string) error
	setCustomClaims func(ctx context.Context, id string, claims map[string]any) error
}

func (f *fakeProvider) ListUsers(ctx context.Context) ([]models.UserRecord, error) {
	return f.listUsers(ctx)
}

func (f *fakeProvider) GetUser(ctx context.Context, id string) (*models.UserRecord, error) {
	return f.getUser(ctx, id)
}

func (f *fakeProvider) GetUserByEmail(ctx context.Context, email string) (*models.UserRecord, error) {
	return f.getUserByEmail(ctx, email)
}

func (f *fakeProvider) CreateUser(ctx context.Context, email, password string) (*models.UserRecord, error) {
	return f.createUser(ctx, email, password)
}

func (f *fakeProvider) DeleteUser(ctx context.Context, id string) error {
	return f.deleteUser(ctx, id)
}

func (f *fakeProvider) SetCustomClaims(ctx context.Context, id string, claims map[string]any) error {
	return f.setCustomClaims(ctx, id, claims)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.UserEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event models.UserEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type mapProfileStore struct {
	docs     map[string]models.Profile
	mergeErr error
}

func (s *mapProfileStore) GetProfile(_ context.Context, subjectID string) (*models.Profile, error) {
	doc, ok := s.docs[subjectID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &doc, nil
}

func (s *mapProfileStore) MergeProfile(_ context.Context, subjectID string, update models.ProfileUpdate) error {
	if s.mergeErr != nil {
		return s.mergeErr
	}
	doc := s.docs[subjectID]
	update.Apply(&doc)
	s.docs[subjectID] = doc
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func ptr[T any](v T) *T { return &v }
