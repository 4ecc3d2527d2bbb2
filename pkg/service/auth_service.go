package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/thanhthanh221/identity-gateway/pkg/common"
	"github.com/thanhthanh221/identity-gateway/pkg/models"
)

const bearerPrefix = "Bearer "

// TokenVerifier checks a bearer credential with the issuing identity platform
// and returns its claims. Signature and expiry checks belong to the implementation.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, token string) (map[string]any, error)
}

// AuthService is the authorization gate and admin guard
type AuthService struct {
	verifier TokenVerifier
	logger   *logrus.Logger
}

func NewAuthService(verifier TokenVerifier, logger *logrus.Logger) *AuthService {
	return &AuthService{verifier: verifier, logger: logger}
}

// Authenticate turns the Authorization header into an IdentityContext.
// The verifier is called at most once and only when the header is well formed.
func (s *AuthService) Authenticate(ctx context.Context, header http.Header) (*models.IdentityContext, error) {
	values := header.Values("Authorization")
	if len(values) == 0 {
		return nil, common.Unauthenticated("missing authorization header", nil).Keyed(common.MsgAuthMissingHeader)
	}

	authHeader := values[0]
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return nil, common.Unauthenticated("malformed authorization header", nil).Keyed(common.MsgAuthMalformedHeader)
	}
	token := authHeader[len(bearerPrefix):]

	claims, err := s.verifier.VerifyIDToken(ctx, token)
	if err != nil {
		s.logger.WithError(err).Warn("token verification failed")
		return nil, common.Unauthenticated("token verification failed", err).Keyed(common.MsgAuthInvalidToken)
	}

	subject := subjectFromClaims(claims)
	if subject == "" {
		return nil, common.Unauthenticated("token has no subject", nil).Keyed(common.MsgAuthNoSubject)
	}

	return &models.IdentityContext{
		SubjectID:    subject,
		IsPrivileged: models.IsAdminClaim(claims),
		RawClaims:    claims,
	}, nil
}

// RequireAdmin admits only privileged identities. It never re-verifies the token.
func (s *AuthService) RequireAdmin(identity *models.IdentityContext) (*models.IdentityContext, error) {
	if identity == nil {
		return nil, common.Unauthenticated("authentication required", nil).Keyed(common.MsgErrorUnauthorized)
	}
	if !identity.IsPrivileged {
		return nil, common.Forbidden("admin required").Keyed(common.MsgAuthAdminRequired)
	}
	return identity, nil
}

func subjectFromClaims(claims map[string]any) string {
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	if uid, ok := claims["uid"].(string); ok && uid != "" {
		return uid
	}
	return ""
}
