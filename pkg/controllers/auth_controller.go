package controllers

import (
	"github.com/labstack/echo/v4"
	"github.com/thanhthanh221/identity-gateway/pkg/common"
	"github.com/thanhthanh221/identity-gateway/pkg/models"
)

// AuthController serves the liveness probes and the identity introspection routes
type AuthController struct {
	common.BaseController
}

func NewAuthController() *AuthController {
	return &AuthController{}
}

// Hello godoc
// @Summary      Service greeting
// @Tags         general
// @Produce      json
// @Success      200  {object}  common.BaseResponse
// @Router       / [get]
func (ctrl *AuthController) Hello(c echo.Context) error {
	return ctrl.SuccessWithMessage(c, nil, common.MsgWelcome)
}

// Health godoc
// @Summary      Liveness probe
// @Tags         general
// @Produce      json
// @Success      200  {object}  common.BaseResponse
// @Router       /health [get]
func (ctrl *AuthController) Health(c echo.Context) error {
	return ctrl.SuccessWithMessage(c, map[string]string{"status": "ok"}, common.MsgHealthy)
}

// WhoAmI godoc
// @Summary      Describe the caller
// @Description  Returns the identity built from the bearer token, including every verified claim.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  common.BaseResponse{data=models.IdentityContext}
// @Failure      401  {object}  common.ErrorResponse
// @Security     BearerAuth
// @Router       /whoami [get]
func (ctrl *AuthController) WhoAmI(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	return ctrl.Success(c, identity)
}

// VerifyUser backs /verify_user and /protected
func (ctrl *AuthController) VerifyUser(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	return ctrl.SuccessWithMessage(c, models.VerifyStatus{
		Status: "verified",
		UID:    identity.SubjectID,
		Admin:  identity.IsPrivileged,
	}, common.MsgVerified)
}

// AdminOnly godoc
// @Summary      Admin probe
// @Description  Succeeds only for callers whose token carries admin=true.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  common.BaseResponse{data=models.AdminStatus}
// @Failure      401  {object}  common.ErrorResponse
// @Failure      403  {object}  common.ErrorResponse
// @Security     BearerAuth
// @Router       /admin-only [get]
func (ctrl *AuthController) AdminOnly(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	return ctrl.Success(c, models.AdminStatus{
		UID:     identity.SubjectID,
		IsAdmin: identity.IsPrivileged,
		Msg:     common.TWithContext(ctx, common.MsgAdminWelcome),
	})
}

// callerIdentity returns the identity stored by the auth middleware.
// A route mounted without it is a wiring bug, reported as unauthenticated rather than a panic.
func callerIdentity(c echo.Context) (*models.IdentityContext, error) {
	identity, ok := models.IdentityFromContext(c.Request().Context())
	if !ok {
		return nil, common.Unauthenticated("authentication required", nil).Keyed(common.MsgErrorUnauthorized)
	}
	return identity, nil
}
