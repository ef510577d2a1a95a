package user

import "github.com/gin-gonic/gin"

// UserModule implements the app.Module interface for the user domain.
type UserModule struct {
	handler     *UserHandler
	pageHandler *UserPageHandler
}

// NewModule creates a new UserModule with the given handlers.
// Panics if h or ph is nil.
func NewModule(h *UserHandler, ph *UserPageHandler) *UserModule {
	if h == nil {
		panic("user.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("user.NewModule: pageHandler must not be nil")
	}
	return &UserModule{handler: h, pageHandler: ph}
}

// RegisterRoutes registers user API and page routes. The bulk-delete route
// sits beside the :id routes; gin resolves the static segment first.
func (m *UserModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	// API routes
	api.GET("/users", m.handler.List)
	api.POST("/users", m.handler.Create)
	api.GET("/users/:id", m.handler.Get)
	api.PUT("/users/:id", m.handler.Update)
	api.DELETE("/users/:id", m.handler.Delete)
	api.DELETE("/users/bulk-delete", m.handler.BulkDelete)

	// Page routes
	pages.GET("/users", m.pageHandler.ListPage)
	pages.GET("/users/new", m.pageHandler.NewPage)
	pages.GET("/users/:id", m.pageHandler.ShowPage)
	pages.GET("/users/:id/edit", m.pageHandler.EditPage)
	pages.POST("/users", m.pageHandler.Create)
	// Browsers only submit GET/POST forms, so the edit form posts here.
	pages.POST("/users/:id", m.pageHandler.Update)
	pages.PUT("/users/:id", m.pageHandler.Update)
	pages.DELETE("/users/:id", m.pageHandler.Delete)
	pages.DELETE("/users/bulk-delete", m.pageHandler.BulkDelete)
}
