package http

import "github.com/gin-gonic/gin"

// RegisterPublic attaches the unauthenticated auth routes.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.RegisterUser)
	rg.POST("/auth/login", h.Login)
	rg.GET("/test", h.TestConnection)
}

// RegisterProtected attaches the routes that require a verified ID token.
func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.POST("/auth/logout", h.Logout)
	rg.GET("/user-data", h.UserData)
	rg.PUT("/profile", h.UpdateProfile)
}
