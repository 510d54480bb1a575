// edufy-erp/main.go
package main

import (
	"log/slog"
	"os"

	"edufy-erp/config"
	"edufy-erp/internal/handlers"
	"edufy-erp/internal/routes"
	"edufy-erp/models"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using process environment")
	}

	config.LoadAppSettings()
	config.ConnectDB()
	config.ConnectRedis()

	if err := config.DB.AutoMigrate(
		&models.Organization{},
		&models.OrganizationSettings{},
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.Student{},
		&models.Program{},
		&models.Pack{},
		&models.Grade{},
		&models.Group{},
		&models.Enrollment{},
		&models.Payment{},
		&models.PaymentPlan{},
		&models.PlanInstallment{},
		&models.Lead{},
	); err != nil {
		slog.Error("Auto-migration failed", "error", err)
		os.Exit(1)
	}

	go handlers.GlobalHub.Run()

	r := gin.Default()
	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("Starting server", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
