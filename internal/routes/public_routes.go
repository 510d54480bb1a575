// edufy-erp/internal/routes/public_routes.go
package routes

import (
	"edufy-erp/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes exposes the endpoints behind the public booking
// form: the program catalog for the slot picker and the lead capture.
func RegisterPublicRoutes(r *gin.Engine) {
	public := r.Group("/public")
	{
		public.GET("/programs", handlers.ListProgramsHandler)
		public.POST("/leads", handlers.CreateLeadHandler)
	}
}
