package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thanhthanh221/identity-gateway/pkg/models"
	services "github.com/thanhthanh221/identity-gateway/pkg/service"
)

// hashClient mimics HSET/HGETALL, storing values the way Redis would (as strings)
type hashClient struct {
	hashes map[string]map[string]string
	err    error
}

func (c *hashClient) HSet(_ context.Context, key string, values map[string]any) error {
	if c.err != nil {
		return c.err
	}
	h, ok := c.hashes[key]
	if !ok {
		h = map[string]string{}
		c.hashes[key] = h
	}
	for k, v := range values {
		h[k] = fmt.Sprint(v)
	}
	return nil
}

func (c *hashClient) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.hashes[key], nil
}

func (c *hashClient) Ping(context.Context) error { return c.err }
func (c *hashClient) Close() error               { return nil }

func TestRedisProfileStoreMerge(t *testing.T) {
	client := &hashClient{hashes: map[string]map[string]string{}}
	store := NewProfileStore(client)
	ctx := context.Background()

	_, err := store.GetProfile(ctx, "u1")
	assert.ErrorIs(t, err, services.ErrProfileNotFound)

	gender, height, age := "female", 165.5, 33
	require.NoError(t, store.MergeProfile(ctx, "u1", models.ProfileUpdate{Gender: &gender, Height: &height}))
	require.NoError(t, store.MergeProfile(ctx, "u1", models.ProfileUpdate{Age: &age}))

	profile, err := store.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, &models.Profile{Gender: "female", Height: 165.5, Age: 33}, profile)
	assert.Contains(t, client.hashes, "profile:u1")
}

func TestRedisProfileStoreErrors(t *testing.T) {
	client := &hashClient{hashes: map[string]map[string]string{}, err: errors.New("connection refused")}
	store := NewProfileStore(client)
	age := 1

	_, err := store.GetProfile(context.Background(), "u1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrProfileNotFound)
	assert.Error(t, store.MergeProfile(context.Background(), "u1", models.ProfileUpdate{Age: &age}))
}

func TestDecodeProfileRejectsCorruptField(t *testing.T) {
	_, err := decodeProfile(map[string]string{"age": "old"})
	assert.Error(t, err)
}
