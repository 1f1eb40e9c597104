package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the children and guest routes. All of them require
// an authenticated caller, so they go under the protected group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	children := rg.Group("/children")
	{
		children.GET("", h.ListChildren)
		children.POST("", h.AddChild)
		children.DELETE("/:child_id", h.DeleteChild)

		children.GET("/:child_id/guests", h.ListGuests)
		children.POST("/:child_id/guests", h.AddGuest)
		children.PUT("/:child_id/guests/:guest_id/status", h.SetStatus)
	}
}
