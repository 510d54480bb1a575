package routes

import (
	"edufy-erp/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every route of the application onto the engine.
func SetupRoutes(r *gin.Engine) {
	// Public routes first: login and the booking form need no token.
	RegisterAuthRoutes(r)
	RegisterPublicRoutes(r)

	// Everything else requires a valid JWT.
	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		RegisterAPIRoutes(authRequired)
	}
}
