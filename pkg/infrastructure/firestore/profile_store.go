package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/thanhthanh221/identity-gateway/pkg/models"
	services "github.com/thanhthanh221/identity-gateway/pkg/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultCollection holds one document per subject id
const DefaultCollection = "users"

// documents is the document-level access the store needs from a collection
type documents interface {
	get(ctx context.Context, id string) (map[string]any, error)
	merge(ctx context.Context, id string, fields map[string]any) error
}

type collectionRef struct {
	ref *firestore.CollectionRef
}

func (c collectionRef) get(ctx context.Context, id string) (map[string]any, error) {
	snap, err := c.ref.Doc(id).Get(ctx)
	if err != nil {
		return nil, classifyGetError(err)
	}
	return snap.Data(), nil
}

// classifyGetError turns the NotFound status of a missing document into ErrProfileNotFound
func classifyGetError(err error) error {
	if status.Code(err) == codes.NotFound {
		return services.ErrProfileNotFound
	}
	return err
}

func (c collectionRef) merge(ctx context.Context, id string, fields map[string]any) error {
	_, err := c.ref.Doc(id).Set(ctx, fields, firestore.MergeAll)
	return err
}

// ProfileStore reads and merge-writes profile documents in Cloud Firestore
type ProfileStore struct {
	docs documents
}

func NewProfileStore(client *firestore.Client, collection string) *ProfileStore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &ProfileStore{docs: collectionRef{ref: client.Collection(collection)}}
}

func (s *ProfileStore) GetProfile(ctx context.Context, subjectID string) (*models.Profile, error) {
	data, err := s.docs.get(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("get profile document: %w", err)
	}
	return decodeProfile(data), nil
}

// MergeProfile writes the supplied fields with MergeAll so other fields of the document survive
func (s *ProfileStore) MergeProfile(ctx context.Context, subjectID string, update models.ProfileUpdate) error {
	fields := update.Fields()
	if len(fields) == 0 {
		return nil
	}
	if err := s.docs.merge(ctx, subjectID, fields); err != nil {
		return fmt.Errorf("merge profile document: %w", err)
	}
	return nil
}

// decodeProfile reads the known fields; Firestore returns integers as int64 and doubles as float64
func decodeProfile(data map[string]any) *models.Profile {
	profile := &models.Profile{}
	if gender, ok := data["gender"].(string); ok {
		profile.Gender = gender
	}
	profile.Height = toFloat(data["height"])
	profile.Weight = toFloat(data["weight"])
	profile.Age = int(toFloat(data["age"]))
	return profile
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}
