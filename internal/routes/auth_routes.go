// edufy-erp/internal/routes/auth_routes.go
package routes

import (
	"edufy-erp/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the unauthenticated session endpoints.
func RegisterAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", handlers.LoginHandler)
		auth.POST("/register", handlers.RegisterHandler)
		auth.POST("/logout", handlers.LogoutHandler)
	}
}
