package firestore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thanhthanh221/identity-gateway/pkg/models"
	services "github.com/thanhthanh221/identity-gateway/pkg/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeDocuments struct {
	docs map[string]map[string]any
	err  error
}

func (f *fakeDocuments) get(_ context.Context, id string) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	doc, ok := f.docs[id]
	if !ok {
		return nil, services.ErrProfileNotFound
	}
	return doc, nil
}

func (f *fakeDocuments) merge(_ context.Context, id string, fields map[string]any) error {
	if f.err != nil {
		return f.err
	}
	doc, ok := f.docs[id]
	if !ok {
		doc = map[string]any{}
		f.docs[id] = doc
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

func TestFirestoreProfileStoreMerge(t *testing.T) {
	docs := &fakeDocuments{docs: map[string]map[string]any{
		"u1": {"gender": "female", "height": int64(160), "nickname": "kept"},
	}}
	store := &ProfileStore{docs: docs}
	ctx := context.Background()

	weight, age := 52.5, 27
	require.NoError(t, store.MergeProfile(ctx, "u1", models.ProfileUpdate{Weight: &weight, Age: &age}))

	profile, err := store.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, &models.Profile{Gender: "female", Height: 160, Weight: 52.5, Age: 27}, profile)
	assert.Equal(t, "kept", docs.docs["u1"]["nickname"])
}

func TestFirestoreProfileStoreMissing(t *testing.T) {
	store := &ProfileStore{docs: &fakeDocuments{docs: map[string]map[string]any{}}}

	_, err := store.GetProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, services.ErrProfileNotFound)
}

func TestFirestoreProfileStoreBackendError(t *testing.T) {
	store := &ProfileStore{docs: &fakeDocuments{err: errors.New("deadline exceeded")}}
	age := 1

	_, err := store.GetProfile(context.Background(), "u1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrProfileNotFound)
	assert.Error(t, store.MergeProfile(context.Background(), "u1", models.ProfileUpdate{Age: &age}))
}

func TestDecodeProfileIgnoresWrongTypes(t *testing.T) {
	profile := decodeProfile(map[string]any{"gender": 3, "height": "tall", "age": float64(40)})
	assert.Equal(t, &models.Profile{Age: 40}, profile)
}

func TestClassifyGetError(t *testing.T) {
	assert.ErrorIs(t, classifyGetError(status.Error(codes.NotFound, "no document")), services.ErrProfileNotFound)

	unavailable := status.Error(codes.Unavailable, "try later")
	assert.Equal(t, unavailable, classifyGetError(unavailable))
}
