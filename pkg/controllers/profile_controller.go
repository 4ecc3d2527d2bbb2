package controllers

import (
	"github.com/labstack/echo/v4"
	"github.com/thanhthanh221/identity-gateway/pkg/common"
	"github.com/thanhthanh221/identity-gateway/pkg/models"
	services "github.com/thanhthanh221/identity-gateway/pkg/service"
)

// ProfileController reads and merges the caller's own profile document
type ProfileController struct {
	common.BaseController
	profiles *services.ProfileService
}

func NewProfileController(profiles *services.ProfileService) *ProfileController {
	return &ProfileController{profiles: profiles}
}

// GetProfile godoc
// @Summary      Read own profile
// @Tags         settings
// @Produce      json
// @Success      200  {object}  common.BaseResponse{data=models.Profile}
// @Failure      404  {object}  common.ErrorResponse
// @Security     BearerAuth
// @Router       /settings/profile [get]
func (ctrl *ProfileController) GetProfile(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	profile, err := ctrl.profiles.GetProfile(c.Request().Context(), identity.SubjectID)
	if err != nil {
		return err
	}
	return ctrl.ResponseRetrieved(c, profile)
}

// UpdateProfile godoc
// @Summary      Merge own profile
// @Description  Fields left out of the body keep their stored value. The merged profile is returned.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request  body      models.ProfileUpdate  true  "Fields to change"
// @Success      200      {object}  common.BaseResponse{data=models.Profile}
// @Failure      400      {object}  common.ErrorResponse
// @Security     BearerAuth
// @Router       /settings/profile [put]
func (ctrl *ProfileController) UpdateProfile(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var update models.ProfileUpdate
	if err := c.Bind(&update); err != nil {
		return ctrl.HandleBindError(err)
	}

	profile, err := ctrl.profiles.UpdateProfile(c.Request().Context(), identity.SubjectID, update)
	if err != nil {
		return err
	}
	return ctrl.ResponseUpdated(c, profile, common.MsgProfileUpdated)
}
