package models

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAdminClaim(t *testing.T) {
	assert.True(t, IsAdminClaim(map[string]any{"admin": true}))
	assert.False(t, IsAdminClaim(map[string]any{"admin": "true"}))
	assert.False(t, IsAdminClaim(map[string]any{"role": "admin"}))
	assert.False(t, IsAdminClaim(nil))
}

func TestIdentityContextRoundTrip(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	identity := &IdentityContext{SubjectID: "u1", IsPrivileged: true}
	got, ok := IdentityFromContext(WithIdentity(context.Background(), identity))
	require.True(t, ok)
	assert.Same(t, identity, got)

	_, ok = IdentityFromContext(WithIdentity(context.Background(), nil))
	assert.False(t, ok)
}

func TestUserRecordDetailOmitsZeroTimes(t *testing.T) {
	signIn := time.Date(2025, 5, 1, 8, 0, 0, 0, time.FixedZone("UTC+8", 8*3600))
	detail := UserRecord{ID: "u1", LastSignInAt: signIn}.Detail()

	assert.Nil(t, detail.CreatedAt)
	require.NotNil(t, detail.LastSignInAt)
	assert.True(t, detail.LastSignInAt.Equal(signIn))
	assert.Equal(t, time.UTC, detail.LastSignInAt.Location())
}

func TestProfileUpdateApply(t *testing.T) {
	gender := "female"
	age := 41
	update := ProfileUpdate{Gender: &gender, Age: &age}
	profile := Profile{Gender: "male", Height: 180, Weight: 80, Age: 40}

	update.Apply(&profile)

	assert.Equal(t, Profile{Gender: "female", Height: 180, Weight: 80, Age: 41}, profile)
	assert.Equal(t, map[string]any{"gender": "female", "age": 41}, update.Fields())
	assert.False(t, update.IsEmpty())
	assert.True(t, ProfileUpdate{}.IsEmpty())
}
