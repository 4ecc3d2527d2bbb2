package firebase

import (
	"context"
	"errors"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/sirupsen/logrus"
	"github.com/thanhthanh221/identity-gateway/pkg/models"
	services "github.com/thanhthanh221/identity-gateway/pkg/service"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Config selects the Firebase project and service account
type Config struct {
	ProjectID       string
	CredentialsFile string
}

// NewApp initializes the Admin SDK. Without a credentials file the SDK falls back to
// GOOGLE_APPLICATION_CREDENTIALS and the metadata server.
func NewApp(ctx context.Context, cfg Config) (*firebase.App, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	var appCfg *firebase.Config
	if cfg.ProjectID != "" {
		appCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}
	app, err := firebase.NewApp(ctx, appCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	return app, nil
}

// userIterator is satisfied by *auth.UserIterator
type userIterator interface {
	Next() (*auth.ExportedUserRecord, error)
}

// authAPI is the part of *auth.Client this package calls
type authAPI interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*auth.UserRecord, error)
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
	SetCustomUserClaims(ctx context.Context, uid string, customClaims map[string]interface{}) error
}

// AuthClient adapts Firebase Authentication to the TokenVerifier and IdentityProvider ports
type AuthClient struct {
	api    authAPI
	users  func(ctx context.Context) userIterator
	logger *logrus.Logger

	isUserNotFound func(error) bool
	isEmailExists  func(error) bool
}

func NewAuthClient(ctx context.Context, app *firebase.App, logger *logrus.Logger) (*AuthClient, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &AuthClient{
		api: client,
		users: func(ctx context.Context) userIterator {
			return client.Users(ctx, "")
		},
		logger:         logger,
		isUserNotFound: auth.IsUserNotFound,
		isEmailExists:  auth.IsEmailAlreadyExists,
	}, nil
}

// VerifyIDToken checks signature, expiry, audience and issuer through the SDK and
// returns the token's claims with the registered ones put back alongside the custom ones
func (c *AuthClient) VerifyIDToken(ctx context.Context, idToken string) (map[string]any, error) {
	token, err := c.api.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return flattenToken(token), nil
}

func flattenToken(token *auth.Token) map[string]any {
	claims := make(map[string]any, len(token.Claims)+7)
	for k, v := range token.Claims {
		claims[k] = v
	}
	claims["sub"] = token.Subject
	claims["uid"] = token.UID
	claims["iss"] = token.Issuer
	claims["aud"] = token.Audience
	claims["exp"] = token.Expires
	claims["iat"] = token.IssuedAt
	claims["auth_time"] = token.AuthTime
	return claims
}

// ListUsers pages through every account
func (c *AuthClient) ListUsers(ctx context.Context) ([]models.UserRecord, error) {
	it := c.users(ctx)
	var records []models.UserRecord
	for {
		user, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate users: %w", err)
		}
		records = append(records, toUserRecord(user.UserRecord))
	}
	c.logger.WithField("count", len(records)).Debug("listed firebase users")
	return records, nil
}

func (c *AuthClient) GetUser(ctx context.Context, id string) (*models.UserRecord, error) {
	user, err := c.api.GetUser(ctx, id)
	if err != nil {
		return nil, c.classify(err)
	}
	record := toUserRecord(user)
	return &record, nil
}

func (c *AuthClient) GetUserByEmail(ctx context.Context, email string) (*models.UserRecord, error) {
	user, err := c.api.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, c.classify(err)
	}
	record := toUserRecord(user)
	return &record, nil
}

func (c *AuthClient) CreateUser(ctx context.Context, email, password string) (*models.UserRecord, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	user, err := c.api.CreateUser(ctx, params)
	if err != nil {
		return nil, c.classify(err)
	}
	record := toUserRecord(user)
	return &record, nil
}

func (c *AuthClient) DeleteUser(ctx context.Context, id string) error {
	if err := c.api.DeleteUser(ctx, id); err != nil {
		return c.classify(err)
	}
	return nil
}

func (c *AuthClient) SetCustomClaims(ctx context.Context, id string, claims map[string]any) error {
	if err := c.api.SetCustomUserClaims(ctx, id, claims); err != nil {
		return c.classify(err)
	}
	return nil
}

// classify maps SDK error codes onto the service sentinels and keeps the SDK error for logs
func (c *AuthClient) classify(err error) error {
	switch {
	case c.isUserNotFound(err):
		return fmt.Errorf("%w: %v", services.ErrUserNotFound, err)
	case c.isEmailExists(err):
		return fmt.Errorf("%w: %v", services.ErrEmailExists, err)
	default:
		return err
	}
}

func toUserRecord(user *auth.UserRecord) models.UserRecord {
	if user == nil {
		return models.UserRecord{}
	}
	record := models.UserRecord{
		EmailVerified: user.EmailVerified,
		CustomClaims:  user.CustomClaims,
		IsPrivileged:  models.IsAdminClaim(user.CustomClaims),
	}
	if user.UserInfo != nil {
		record.ID = user.UID
		record.Email = user.Email
	}
	if user.UserMetadata != nil {
		record.CreatedAt = millis(user.UserMetadata.CreationTimestamp)
		record.LastSignInAt = millis(user.UserMetadata.LastLogInTimestamp)
	}
	return record
}

func millis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
