package controllers

import (
	"github.com/labstack/echo/v4"
	"github.com/thanhthanh221/identity-gateway/pkg/common"
	"github.com/thanhthanh221/identity-gateway/pkg/models"
	services "github.com/thanhthanh221/identity-gateway/pkg/service"
)

// AdminController exposes user management to admin callers.
// Every route is mounted behind RequireAuth and RequireAdmin.
type AdminController struct {
	common.BaseController
	users *services.UserService
}

func NewAdminController(users *services.UserService) *AdminController {
	return &AdminController{users: users}
}

// ListUsers godoc
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Success      200  {object}  common.BaseResponse{data=[]models.UserSummary}
// @Failure      403  {object}  common.ErrorResponse
// @Security     BearerAuth
// @Router       /users [get]
func (ctrl *AdminController) ListUsers(c echo.Context) error {
	users, err := ctrl.users.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return ctrl.ResponseRetrieved(c, users)
}

// SearchUsers godoc
// @Summary      Search users
// @Description  Case-insensitive substring match on id or email. An empty query returns every user.
// @Tags         admin
// @Produce      json
// @Param        q    query     string  false  "Search text"
// @Success      200  {object}  common.BaseResponse{data=[]models.UserSummary}
// @Security     BearerAuth
// @Router       /search [get]
func (ctrl *AdminController) SearchUsers(c echo.Context) error {
	users, err := ctrl.users.SearchUsers(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return ctrl.ResponseRetrieved(c, users)
}

// GetUser godoc
// @Summary      Get user by id
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  common.BaseResponse{data=models.UserDetail}
// @Failure      404  {object}  common.ErrorResponse
// @Security     BearerAuth
// @Router       /get_user/{id} [get]
func (ctrl *AdminController) GetUser(c echo.Context) error {
	user, err := ctrl.users.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ctrl.ResponseRetrieved(c, user)
}

func (ctrl *AdminController) GetUserByEmail(c echo.Context) error {
	user, err := ctrl.users.GetUserByEmail(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return err
	}
	return ctrl.ResponseRetrieved(c, user)
}

// CreateUser godoc
// @Summary      Create user
// @Description  A duplicate email is rejected with 400 and error "conflict".
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      models.CreateUserRequest  true  "New account"
// @Success      201      {object}  common.BaseResponse{data=models.CreatedUser}
// @Failure      400      {object}  common.ErrorResponse
// @Security     BearerAuth
// @Router       /create_user [post]
func (ctrl *AdminController) CreateUser(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.HandleBindError(err)
	}

	created, err := ctrl.users.CreateUser(c.Request().Context(), actorID(c), req)
	if err != nil {
		return err
	}
	return ctrl.ResponseCreated(c, created)
}

func (ctrl *AdminController) DeleteUser(c echo.Context) error {
	if err := ctrl.users.DeleteUser(c.Request().Context(), actorID(c), c.Param("id")); err != nil {
		return err
	}
	return ctrl.ResponseDeleted(c, common.MsgUserDeleted)
}

// SetAdmin grants or revokes the admin claim. It takes effect on tokens issued afterwards.
func (ctrl *AdminController) SetAdmin(c echo.Context) error {
	var req models.SetAdminRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.HandleBindError(err)
	}
	if req.Admin == nil {
		v := common.NewValidator(c.Request().Context())
		return ctrl.HandleValidation(v.ValidateMultiple(v.Required("admin", "")))
	}

	updated, err := ctrl.users.SetAdmin(c.Request().Context(), actorID(c), c.Param("id"), *req.Admin)
	if err != nil {
		return err
	}
	return ctrl.ResponseUpdated(c, updated, common.MsgUserClaimsUpdated)
}

func actorID(c echo.Context) string {
	if identity, ok := models.IdentityFromContext(c.Request().Context()); ok {
		return identity.SubjectID
	}
	return ""
}
