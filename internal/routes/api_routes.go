// edufy-erp/internal/routes/api_routes.go
package routes

import (
	"edufy-erp/internal/handlers"
	"edufy-erp/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes registers every authenticated API route.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	apiGroup := api.Group("/api")
	{
		// --- SESSION / PROFILE ---
		apiGroup.GET("/me", handlers.MeHandler)
		apiGroup.POST("/me/change-password", handlers.ChangePasswordHandler)

		// --- REALTIME EVENTS ---
		apiGroup.GET("/events/ws", handlers.EventsWebsocketHandler)

		// --- STUDENTS ---
		students := apiGroup.Group("/students")
		students.Use(middleware.PermissionMiddleware("students.view"))
		{
			students.GET("", handlers.ListStudentsHandler)
			students.GET("/duplicates", handlers.CheckDuplicateStudentsHandler)
			students.POST("", middleware.PermissionMiddleware("students.create"), handlers.CreateStudentHandler)
			students.GET("/:id", handlers.GetStudentHandler)
			students.PUT("/:id", middleware.PermissionMiddleware("students.edit"), handlers.UpdateStudentHandler)
			students.DELETE("/:id", middleware.PermissionMiddleware("students.delete"), handlers.DeleteStudentHandler)
			students.GET("/:id/credentials", middleware.PermissionMiddleware("students.credentials"), handlers.GetStudentCredentialsHandler)
			students.POST("/:id/provision", middleware.PermissionMiddleware("students.credentials"), handlers.ProvisionStudentAccountsHandler)
		}

		// --- PROGRAMS ---
		programs := apiGroup.Group("/programs")
		programs.Use(middleware.PermissionMiddleware("programs.view"))
		{
			programs.GET("", handlers.ListProgramsHandler)
			programs.POST("", middleware.PermissionMiddleware("programs.edit"), handlers.CreateProgramHandler)
			programs.GET("/:id", handlers.GetProgramHandler)
			programs.PUT("/:id", middleware.PermissionMiddleware("programs.edit"), handlers.UpdateProgramHandler)
			programs.DELETE("/:id", middleware.PermissionMiddleware("programs.edit"), handlers.DeleteProgramHandler)
			programs.POST("/:id/quote", handlers.QuoteProgramHandler)
		}

		// --- ENROLLMENTS ---
		enrollments := apiGroup.Group("/enrollments")
		enrollments.Use(middleware.PermissionMiddleware("enrollments.view"))
		{
			enrollments.GET("", handlers.ListEnrollmentsHandler)
			enrollments.POST("", middleware.PermissionMiddleware("enrollments.create"), handlers.CreateEnrollmentHandler)
			enrollments.GET("/debtors", middleware.PermissionMiddleware("finance.view"), handlers.ListDebtorsHandler)
			enrollments.GET("/:id", handlers.GetEnrollmentHandler)
			enrollments.PUT("/:id/status", middleware.PermissionMiddleware("enrollments.edit"), handlers.UpdateEnrollmentStatusHandler)
			enrollments.DELETE("/:id", middleware.PermissionMiddleware("enrollments.delete"), handlers.DeleteEnrollmentHandler)
		}

		// --- PAYMENTS ---
		payments := apiGroup.Group("/payments")
		payments.Use(middleware.PermissionMiddleware("finance.view"))
		{
			payments.GET("", handlers.ListPaymentsHandler)
			payments.GET("/pending", handlers.ListPendingPaymentsHandler)
			payments.GET("/export", middleware.PermissionMiddleware("finance.export"), handlers.ExportPaymentsHandler)
			payments.POST("", middleware.PermissionMiddleware("finance.record_payment"), handlers.CreatePaymentHandler)
			payments.POST("/:id/confirm", middleware.PermissionMiddleware("finance.confirm_payment"), handlers.ConfirmPaymentHandler)
			payments.DELETE("/:id", middleware.PermissionMiddleware("finance.delete_payment"), handlers.DeletePaymentHandler)
			payments.GET("/:id/receipt", handlers.GetReceiptHandler)
		}

		// --- PAYMENT PLANS ---
		plans := apiGroup.Group("/payment-plans")
		plans.Use(middleware.PermissionMiddleware("finance.view"))
		{
			plans.GET("", handlers.ListPaymentPlansHandler)
			plans.POST("", middleware.PermissionMiddleware("finance.edit_plans"), handlers.CreatePaymentPlanHandler)
			plans.GET("/:id", handlers.GetPaymentPlanHandler)
			plans.PUT("/:id", middleware.PermissionMiddleware("finance.edit_plans"), handlers.UpdatePaymentPlanHandler)
			plans.DELETE("/:id", middleware.PermissionMiddleware("finance.edit_plans"), handlers.DeletePaymentPlanHandler)
			plans.POST("/:id/preview", handlers.PreviewPaymentPlanHandler)
		}

		// --- LEADS (CRM) ---
		leads := apiGroup.Group("/leads")
		leads.Use(middleware.PermissionMiddleware("leads.view"))
		{
			leads.GET("", handlers.ListLeadsHandler)
			leads.POST("", middleware.PermissionMiddleware("leads.edit"), handlers.CreateLeadHandler)
			leads.GET("/:id", handlers.GetLeadHandler)
			leads.PUT("/:id", middleware.PermissionMiddleware("leads.edit"), handlers.UpdateLeadHandler)
			leads.DELETE("/:id", middleware.PermissionMiddleware("leads.edit"), handlers.DeleteLeadHandler)
			leads.POST("/:id/convert", middleware.PermissionMiddleware("enrollments.create"), handlers.ConvertLeadHandler)
		}

		// --- USERS ---
		users := apiGroup.Group("/users")
		users.Use(middleware.PermissionMiddleware("users.view"))
		{
			users.GET("", handlers.ListUsersHandler)
			users.POST("", middleware.PermissionMiddleware("users.edit"), handlers.CreateUserHandler)
			users.GET("/:id", handlers.GetUserHandler)
			users.PUT("/:id", middleware.PermissionMiddleware("users.edit"), handlers.UpdateUserHandler)
			users.DELETE("/:id", middleware.PermissionMiddleware("users.delete"), handlers.DeleteUserHandler)
			users.POST("/:id/reset-password", middleware.PermissionMiddleware("users.edit"), handlers.ResetPasswordHandler)
		}

		// --- ROLES AND PERMISSIONS ---
		roles := apiGroup.Group("/roles")
		roles.Use(middleware.PermissionMiddleware("roles.view"))
		{
			roles.GET("", handlers.ListRolesHandler)
			roles.POST("", middleware.PermissionMiddleware("roles.edit"), handlers.CreateRoleHandler)
			roles.GET("/:id", handlers.GetRoleHandler)
			roles.PUT("/:id", middleware.PermissionMiddleware("roles.edit"), handlers.UpdateRoleHandler)
			roles.DELETE("/:id", middleware.PermissionMiddleware("roles.edit"), handlers.DeleteRoleHandler)
			roles.PUT("/:id/permissions", middleware.PermissionMiddleware("roles.edit"), handlers.SetRolePermissionsHandler)
			roles.POST("/:id/permissions/:permissionId/toggle", middleware.PermissionMiddleware("roles.edit"), handlers.ToggleRolePermissionHandler)
		}

		permissions := apiGroup.Group("/permissions")
		permissions.Use(middleware.PermissionMiddleware("roles.view"))
		{
			permissions.GET("", handlers.ListPermissionsHandler)
			permissions.POST("", middleware.PermissionMiddleware("roles.edit"), handlers.CreatePermissionHandler)
			permissions.DELETE("/:id", middleware.PermissionMiddleware("roles.edit"), handlers.DeletePermissionHandler)
		}

		// --- ORGANIZATIONS ---
		organizations := apiGroup.Group("/organizations")
		organizations.Use(middleware.PermissionMiddleware("organizations.view"))
		{
			organizations.GET("", handlers.ListOrganizationsHandler)
			organizations.POST("", middleware.PermissionMiddleware("organizations.edit"), handlers.CreateOrganizationHandler)
			organizations.GET("/:id", handlers.GetOrganizationHandler)
			organizations.PUT("/:id", middleware.PermissionMiddleware("organizations.edit"), handlers.UpdateOrganizationSettingsHandler)
		}
	}
}
