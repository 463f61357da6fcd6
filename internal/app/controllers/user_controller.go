package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cgmis/guidance/internal/app/models/dto"
	"github.com/cgmis/guidance/internal/app/services"
	"github.com/cgmis/guidance/internal/middleware"
)

// UserController handles account administration
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

// ListUsers returns every account
// @Summary List users
// @Description Lists every account, newest first
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.UserDetailResponse "Users retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin role required"
// @Router /users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	users, err := c.userService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := make([]dto.UserDetailResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, dto.NewUserDetailResponse(u))
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateRole assigns a role to a user
// @Summary Change a user's role
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateRoleRequest true "New role"
// @Success 200 {object} dto.UserDetailResponse "Role updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin role required"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id}/role [put]
func (c *UserController) UpdateRole(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "user")
	if !ok {
		return
	}
	var req dto.UpdateRoleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	actorID, _ := middleware.UserIDFrom(ctx)
	user, err := c.userService.AssignRole(ctx.Request.Context(), actorID, id, req.Role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewUserDetailResponse(user))
}
