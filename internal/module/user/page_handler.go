package user

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/userdeck/userdeck/internal/domain"
	"github.com/userdeck/userdeck/internal/middleware"
	"github.com/userdeck/userdeck/internal/pkg"
	"github.com/userdeck/userdeck/internal/table"
)

const listPath = "/users"

// UserPageHandler renders the user pages and handles their form submissions.
// Mutations set a one-shot flash message and redirect back into the listing;
// the listing itself is a pure projection of the query string.
type UserPageHandler struct {
	svc domain.UserService
}

// NewUserPageHandler creates a new UserPageHandler with the given service.
func NewUserPageHandler(svc domain.UserService) *UserPageHandler {
	return &UserPageHandler{svc: svc}
}

// ListPage renders the user listing with the data table.
// GET /users
func (h *UserPageHandler) ListPage(c *gin.Context) {
	state := pkg.ParseQueryState(c)

	page, err := h.svc.ListUsers(c.Request.Context(), state, listPath)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{})
		return
	}

	view, err := table.Build(listColumns(), NewUserResourcePage(page), table.Options[UserResource]{
		BasePath: listPath,
		RowID:    rowID,
		BulkDelete: &table.BulkDelete{
			URL:         listPath + "/bulk-delete",
			Title:       "Delete selected users",
			Description: "Are you sure you want to delete the selected users? This action cannot be undone.",
		},
	})
	if err != nil {
		c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{})
		return
	}

	c.HTML(http.StatusOK, "user/list.html", gin.H{
		"Table":     view,
		"Flash":     pkg.TakeFlash(c),
		"CSRFToken": middleware.GetCSRFToken(c),
	})
}

// NewPage renders the new user form.
// GET /users/new
func (h *UserPageHandler) NewPage(c *gin.Context) {
	h.renderForm(c, http.StatusOK, gin.H{"IsEdit": false})
}

// ShowPage renders a single user.
// GET /users/:id
func (h *UserPageHandler) ShowPage(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "user/show.html", gin.H{
		"User":      NewUserResource(*user),
		"Flash":     pkg.TakeFlash(c),
		"CSRFToken": middleware.GetCSRFToken(c),
	})
}

// EditPage renders the edit user form.
// GET /users/:id/edit
func (h *UserPageHandler) EditPage(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, gin.H{
		"IsEdit": true,
		"User":   NewUserResource(*user),
		"Values": valuesFromUser(*user),
	})
}

// Create handles the new user form submission.
// POST /users
func (h *UserPageHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, gin.H{
			"IsEdit": false,
			"Errors": formErrors(err, &req),
			"Values": valuesFromRequest(req.Name, req.Email, req.Role, req.Avatar),
		})
		return
	}

	if _, err := h.svc.CreateUser(c.Request.Context(), req.Input()); err != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, gin.H{
			"IsEdit": false,
			"Errors": serviceFormErrors(err),
			"Values": valuesFromRequest(req.Name, req.Email, req.Role, req.Avatar),
		})
		return
	}

	pkg.FlashSuccess(c, "User created successfully")
	redirectToList(c)
}

// Update handles the edit user form submission. Empty password fields leave
// the stored password unchanged.
// PUT /users/:id
func (h *UserPageHandler) Update(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, gin.H{
			"IsEdit": true,
			"User":   NewUserResource(*user),
			"Errors": formErrors(err, &req),
			"Values": valuesFromRequest(req.Name, req.Email, req.Role, req.Avatar),
		})
		return
	}

	if _, err := h.svc.UpdateUser(c.Request.Context(), user.ID, req.Input()); err != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, gin.H{
			"IsEdit": true,
			"User":   NewUserResource(*user),
			"Errors": serviceFormErrors(err),
			"Values": valuesFromRequest(req.Name, req.Email, req.Role, req.Avatar),
		})
		return
	}

	pkg.FlashSuccess(c, "User updated successfully")
	redirectToList(c)
}

// Delete removes one user. The datatable script reloads the listing after
// the request completes, which surfaces the queued flash message.
// DELETE /users/:id
func (h *UserPageHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.FlashError(c, "Invalid user id")
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteUser(c.Request.Context(), id); err != nil {
		if domain.IsNotFound(err) {
			pkg.FlashError(c, "User not found or already deleted")
			c.Status(http.StatusNotFound)
			return
		}
		pkg.FlashError(c, "Failed to delete user, please try again later")
		c.Status(http.StatusInternalServerError)
		return
	}

	pkg.FlashSuccess(c, "User deleted successfully")
	c.Status(http.StatusOK)
}

// BulkDelete removes the selected users as one all-or-nothing batch: when
// any id no longer exists the whole request is rejected and nothing changes.
// DELETE /users/bulk-delete
func (h *UserPageHandler) BulkDelete(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBind(&req); err != nil {
		pkg.FlashError(c, "No users selected")
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.svc.BulkDeleteUsers(c.Request.Context(), req.IDs); err != nil {
		if domain.IsValidation(err) || domain.IsNotFound(err) {
			pkg.FlashError(c, "Some of the selected users no longer exist; nothing was deleted")
			c.Status(http.StatusUnprocessableEntity)
			return
		}
		pkg.FlashError(c, "Failed to delete users, please try again later")
		c.Status(http.StatusInternalServerError)
		return
	}

	pkg.FlashSuccess(c, "Users deleted successfully")
	c.Status(http.StatusOK)
}

// loadUser resolves the :id parameter or renders the matching error page.
func (h *UserPageHandler) loadUser(c *gin.Context) (*domain.User, bool) {
	id, err := parseID(c)
	if err != nil {
		c.HTML(http.StatusBadRequest, "errors/400.html", gin.H{})
		return nil, false
	}

	user, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		if domain.IsNotFound(err) {
			c.HTML(http.StatusNotFound, "errors/404.html", gin.H{})
			return nil, false
		}
		c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{})
		return nil, false
	}
	return user, true
}

func (h *UserPageHandler) renderForm(c *gin.Context, status int, data gin.H) {
	data["Roles"] = domain.Roles
	data["CSRFToken"] = middleware.GetCSRFToken(c)
	if _, ok := data["Values"]; !ok {
		data["Values"] = map[string]string{}
	}
	c.HTML(status, "user/form.html", data)
}

// redirectToList sends the client back to the listing. htmx submissions get
// an HX-Redirect header; plain form posts get a 303.
func redirectToList(c *gin.Context) {
	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Redirect", listPath)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, listPath)
}

// valuesFromRequest echoes submitted form values back into a re-rendered
// form. Passwords are deliberately never echoed.
func valuesFromRequest(name, email, role, avatar string) map[string]string {
	return map[string]string{
		"name":   name,
		"email":  email,
		"role":   role,
		"avatar": avatar,
	}
}

func valuesFromUser(u domain.User) map[string]string {
	avatar := ""
	if u.Avatar != nil {
		avatar = *u.Avatar
	}
	return map[string]string{
		"name":   u.Name,
		"email":  u.Email,
		"role":   u.Role,
		"avatar": avatar,
	}
}

// formErrors converts binding errors to human-readable field messages.
func formErrors(err error, obj any) map[string]string {
	raw := pkg.FieldErrors(err, obj)
	out := make(map[string]string, len(raw))
	for field, rule := range raw {
		out[field] = humanizeRule(rule)
	}
	return out
}

// serviceFormErrors maps a service error onto the form. Uniqueness failures
// land on the email field; other user-safe messages become general errors.
func serviceFormErrors(err error) map[string]string {
	if domain.IsAlreadyExists(err) {
		return map[string]string{"email": "This email has already been taken"}
	}

	var appErr *domain.AppError
	if errors.As(err, &appErr) && appErr.Code == domain.CodeValidation && appErr.Message != "" {
		return map[string]string{"general": appErr.Message}
	}
	return map[string]string{"general": "Something went wrong, please try again later"}
}

func humanizeRule(rule string) string {
	tag, param, _ := strings.Cut(rule, "=")
	switch tag {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Must be at least " + param + " characters"
	case "max":
		return "Must be at most " + param + " characters"
	case "eqfield":
		return "Passwords do not match"
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(param, " ", ", ")
	case "url":
		return "Must be a valid URL"
	default:
		return "Invalid value"
	}
}
