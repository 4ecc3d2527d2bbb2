package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/thanhthanh221/identity-gateway/pkg/common"
	"github.com/thanhthanh221/identity-gateway/pkg/metrics"
	"github.com/thanhthanh221/identity-gateway/pkg/models"
	services "github.com/thanhthanh221/identity-gateway/pkg/service"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AuthMiddleware mounts the authorization gate and the admin guard on routes
type AuthMiddleware struct {
	logger *logrus.Logger
	auth   *services.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(auth *services.AuthService, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		logger: logger,
		auth:   auth,
	}
}

// RequireAuth admits requests carrying a verifiable bearer credential
func (m *AuthMiddleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			identity, err := m.auth.Authenticate(req.Context(), req.Header)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
				return err
			}

			// Put identity into both Echo context and request context (typed key)
			c.Set(common.EchoIdentityKey, identity)
			ctx := models.WithIdentity(req.Context(), identity)
			trace.SpanFromContext(ctx).SetAttributes(attribute.String("enduser.id", identity.SubjectID))
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}

// RequireAdmin admits only privileged identities. Mount it after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, _ := IdentityFromEcho(c)
			if _, err := m.auth.RequireAdmin(identity); err != nil {
				if common.IsKind(err, common.KindForbidden) {
					metrics.AuthRejectionsTotal.WithLabelValues(metrics.ReasonNotAdmin).Inc()
					m.logger.WithField("uid", identity.SubjectID).Info("admin route refused")
				}
				return err
			}
			return next(c)
		}
	}
}

// IdentityFromEcho returns the identity stored by RequireAuth
func IdentityFromEcho(c echo.Context) (*models.IdentityContext, bool) {
	identity, ok := c.Get(common.EchoIdentityKey).(*models.IdentityContext)
	return identity, ok && identity != nil
}

func rejectionReason(err error) string {
	appErr, ok := common.AsAppError(err)
	if !ok {
		return metrics.ReasonInvalidToken
	}
	switch appErr.MessageKey {
	case common.MsgAuthMissingHeader:
		return metrics.ReasonMissingHeader
	case common.MsgAuthMalformedHeader:
		return metrics.ReasonMalformedHeader
	case common.MsgAuthNoSubject:
		return metrics.ReasonNoSubject
	default:
		return metrics.ReasonInvalidToken
	}
}
