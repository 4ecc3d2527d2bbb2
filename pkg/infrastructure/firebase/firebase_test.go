package firebase

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	services "github.com/thanhthanh221/identity-gateway/pkg/service"
	"google.golang.org/api/iterator"
)

var (
	errNotFound = errors.New("USER_NOT_FOUND")
	errExists   = errors.New("EMAIL_EXISTS")
)

type fakeAuth struct {
	token      *auth.Token
	tokenErr   error
	users      map[string]*auth.UserRecord
	created    *auth.UserToCreate
	claimsSet  map[string]interface{}
	createErr  error
	deletedUID string
}

func (f *fakeAuth) VerifyIDToken(context.Context, string) (*auth.Token, error) {
	return f.token, f.tokenErr
}

func (f *fakeAuth) GetUser(_ context.Context, uid string) (*auth.UserRecord, error) {
	if u, ok := f.users[uid]; ok {
		return u, nil
	}
	return nil, errNotFound
}

func (f *fakeAuth) GetUserByEmail(_ context.Context, email string) (*auth.UserRecord, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeAuth) CreateUser(_ context.Context, user *auth.UserToCreate) (*auth.UserRecord, error) {
	f.created = user
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &auth.UserRecord{UserInfo: &auth.UserInfo{UID: "new-uid", Email: "new@example.com"}}, nil
}

func (f *fakeAuth) DeleteUser(_ context.Context, uid string) error {
	if _, ok := f.users[uid]; !ok {
		return errNotFound
	}
	f.deletedUID = uid
	return nil
}

func (f *fakeAuth) SetCustomUserClaims(_ context.Context, uid string, claims map[string]interface{}) error {
	if _, ok := f.users[uid]; !ok {
		return errNotFound
	}
	f.claimsSet = claims
	return nil
}

type sliceIterator struct {
	users []*auth.ExportedUserRecord
	err   error
}

func (it *sliceIterator) Next() (*auth.ExportedUserRecord, error) {
	if it.err != nil {
		return nil, it.err
	}
	if len(it.users) == 0 {
		return nil, iterator.Done
	}
	next := it.users[0]
	it.users = it.users[1:]
	return next, nil
}

func newTestClient(api *fakeAuth, it *sliceIterator) *AuthClient {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &AuthClient{
		api:            api,
		users:          func(context.Context) userIterator { return it },
		logger:         logger,
		isUserNotFound: func(err error) bool { return errors.Is(err, errNotFound) },
		isEmailExists:  func(err error) bool { return errors.Is(err, errExists) },
	}
}

func TestVerifyIDTokenFlattensClaims(t *testing.T) {
	api := &fakeAuth{token: &auth.Token{
		Subject: "sub-1",
		UID:     "sub-1",
		Issuer:  "https://securetoken.google.com/demo",
		Expires: 1700000000,
		Claims:  map[string]interface{}{"admin": true, "email": "a@example.com"},
	}}
	client := newTestClient(api, &sliceIterator{})

	claims, err := client.VerifyIDToken(context.Background(), "tok")

	require.NoError(t, err)
	assert.Equal(t, "sub-1", claims["sub"])
	assert.Equal(t, "sub-1", claims["uid"])
	assert.Equal(t, true, claims["admin"])
	assert.Equal(t, int64(1700000000), claims["exp"])
	assert.NotContains(t, api.token.Claims, "sub")
}

func TestVerifyIDTokenError(t *testing.T) {
	client := newTestClient(&fakeAuth{tokenErr: errors.New("expired")}, &sliceIterator{})

	_, err := client.VerifyIDToken(context.Background(), "tok")
	assert.EqualError(t, err, "expired")
}

func TestListUsers(t *testing.T) {
	it := &sliceIterator{users: []*auth.ExportedUserRecord{
		{UserRecord: &auth.UserRecord{UserInfo: &auth.UserInfo{UID: "a", Email: "a@example.com"}, CustomClaims: map[string]interface{}{"admin": true}}},
		{UserRecord: &auth.UserRecord{UserInfo: &auth.UserInfo{UID: "b", Email: "b@example.com"}}},
	}}
	client := newTestClient(&fakeAuth{}, it)

	records, err := client.ListUsers(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].IsPrivileged)
	assert.Equal(t, "b@example.com", records[1].Email)
	assert.False(t, records[1].IsPrivileged)
}

func TestListUsersIteratorError(t *testing.T) {
	client := newTestClient(&fakeAuth{}, &sliceIterator{err: errors.New("quota")})

	_, err := client.ListUsers(context.Background())
	assert.Error(t, err)
}

func TestUserLookupsClassifyErrors(t *testing.T) {
	api := &fakeAuth{users: map[string]*auth.UserRecord{
		"u1": {
			UserInfo:      &auth.UserInfo{UID: "u1", Email: "u1@example.com"},
			EmailVerified: true,
			UserMetadata:  &auth.UserMetadata{CreationTimestamp: 1700000000000},
		},
	}}
	client := newTestClient(api, &sliceIterator{})
	ctx := context.Background()

	record, err := client.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, record.EmailVerified)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), record.CreatedAt)
	assert.True(t, record.LastSignInAt.IsZero())

	byEmail, err := client.GetUserByEmail(ctx, "u1@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)

	_, err = client.GetUser(ctx, "ghost")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
	_, err = client.GetUserByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
	assert.ErrorIs(t, client.DeleteUser(ctx, "ghost"), services.ErrUserNotFound)
	assert.ErrorIs(t, client.SetCustomClaims(ctx, "ghost", map[string]any{"admin": true}), services.ErrUserNotFound)

	require.NoError(t, client.DeleteUser(ctx, "u1"))
	assert.Equal(t, "u1", api.deletedUID)
	require.NoError(t, client.SetCustomClaims(ctx, "u1", map[string]any{"admin": true}))
	assert.Equal(t, map[string]interface{}{"admin": true}, api.claimsSet)
}

func TestCreateUser(t *testing.T) {
	api := &fakeAuth{}
	client := newTestClient(api, &sliceIterator{})

	record, err := client.CreateUser(context.Background(), "new@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "new-uid", record.ID)
	assert.NotNil(t, api.created)

	api.createErr = errExists
	_, err = client.CreateUser(context.Background(), "new@example.com", "secret1")
	assert.ErrorIs(t, err, services.ErrEmailExists)

	api.createErr = errors.New("PASSWORD_TOO_WEAK")
	_, err = client.CreateUser(context.Background(), "new@example.com", "secret1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrEmailExists)
}
