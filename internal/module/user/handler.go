package user

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/userdeck/userdeck/internal/domain"
	"github.com/userdeck/userdeck/internal/pkg"
)

// UserHandler handles REST API requests for the user resource.
type UserHandler struct {
	svc domain.UserService
}

// NewUserHandler creates a new UserHandler with the given service.
func NewUserHandler(svc domain.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// List handles GET /api/v1/users. The response carries the serialized page
// plus the echoed query parameters and pagination metadata, so clients can
// rebuild every control without re-parsing the URL.
func (h *UserHandler) List(c *gin.Context) {
	state := pkg.ParseQueryState(c)

	page, err := h.svc.ListUsers(c.Request.Context(), state, c.Request.URL.Path)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, NewUserResourcePage(page))
}

// Create handles POST /api/v1/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.CreateUser(c.Request.Context(), req.Input())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg.Response{
		Code:    http.StatusCreated,
		Message: "success",
		Data:    NewUserResource(*user),
	})
}

// Get handles GET /api/v1/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, NewUserResource(*user))
}

// Update handles PUT /api/v1/users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	var req UpdateUserRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.UpdateUser(c.Request.Context(), id, req.Input())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, NewUserResource(*user))
}

// Delete handles DELETE /api/v1/users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	if err := h.svc.DeleteUser(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}

// BulkDelete handles DELETE /api/v1/users/bulk-delete. The batch is
// all-or-nothing: a single unknown id rejects the whole request.
func (h *UserHandler) BulkDelete(c *gin.Context) {
	var req BulkDeleteRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	if err := h.svc.BulkDeleteUsers(c.Request.Context(), req.IDs); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}

// parseID extracts and validates the "id" URL parameter.
func parseID(c *gin.Context) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id: %s", idStr)
	}
	if id > uint64(^uint(0)) {
		return 0, fmt.Errorf("invalid id: %s", idStr)
	}
	return uint(id), nil
}
