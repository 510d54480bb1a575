// Command tenantbackfill stamps the default organization onto rows created
// before multi-tenancy existed. Safe to re-run: only NULL org_id rows are
// touched.
package main

import (
	"log/slog"
	"os"

	"edufy-erp/config"
	"edufy-erp/models"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using process environment")
	}

	config.LoadAppSettings()
	config.ConnectDB()

	orgID := config.DefaultOrgID

	var org models.Organization
	err := config.DB.FirstOrCreate(&org, models.Organization{
		Model: gorm.Model{ID: orgID},
		Name:  "Default Academy",
	}).Error
	if err != nil {
		slog.Error("Failed to ensure the default organization", "error", err)
		os.Exit(1)
	}

	var settings models.OrganizationSettings
	if err := config.DB.Where("org_id = ?", orgID).
		FirstOrCreate(&settings, models.OrganizationSettings{OrgID: orgID}).Error; err != nil {
		slog.Error("Failed to ensure the default settings row", "error", err)
		os.Exit(1)
	}

	tables := []string{
		"users", "students", "programs", "enrollments",
		"payments", "payment_plans", "leads",
	}
	for _, table := range tables {
		result := config.DB.Exec(
			"UPDATE "+table+" SET org_id = ? WHERE org_id IS NULL", orgID,
		)
		if result.Error != nil {
			slog.Error("Backfill failed", "table", table, "error", result.Error)
			os.Exit(1)
		}
		slog.Info("Backfilled table", "table", table, "rows", result.RowsAffected)
	}

	slog.Info("Tenant backfill complete", "org_id", orgID)
}
