// edufy-erp/internal/handlers/organization_handler.go
package handlers

import (
	"errors"
	"net/http"

	"edufy-erp/config"
	"edufy-erp/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func CreateOrganizationHandler(c *gin.Context) {
	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	org := models.Organization{Name: input.Name}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		// Every tenant gets a settings row with the defaults.
		return tx.Create(&models.OrganizationSettings{OrgID: org.ID}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create organization: " + err.Error()})
		return
	}

	config.DB.Preload("Settings").First(&org, org.ID)
	c.JSON(http.StatusCreated, org)
}

func ListOrganizationsHandler(c *gin.Context) {
	var orgs []models.Organization
	if err := config.DB.Preload("Settings").Order("name ASC").Find(&orgs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch organizations"})
		return
	}
	c.JSON(http.StatusOK, orgs)
}

func GetOrganizationHandler(c *gin.Context) {
	id := c.Param("id")
	var org models.Organization
	if err := config.DB.Preload("Settings").First(&org, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch organization"})
		return
	}
	c.JSON(http.StatusOK, org)
}

// UpdateOrganizationSettingsHandler updates the per-tenant settings row.
func UpdateOrganizationSettingsHandler(c *gin.Context) {
	id := c.Param("id")
	var org models.Organization
	if err := config.DB.First(&org, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	var input struct {
		Name               string `json:"name"`
		Currency           string `json:"currency"`
		AcademicYearStart  int    `json:"academicYearStart" binding:"omitempty,min=1,max=12"`
		AccountEmailDomain string `json:"accountEmailDomain"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if input.Name != "" {
			if err := tx.Model(&org).Update("name", input.Name).Error; err != nil {
				return err
			}
		}

		var settings models.OrganizationSettings
		if err := tx.Where("org_id = ?", org.ID).
			FirstOrCreate(&settings, models.OrganizationSettings{OrgID: org.ID}).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if input.Currency != "" {
			updates["currency"] = input.Currency
		}
		if input.AcademicYearStart != 0 {
			updates["academic_year_start"] = input.AcademicYearStart
		}
		if input.AccountEmailDomain != "" {
			updates["account_email_domain"] = input.AccountEmailDomain
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&settings).Updates(updates).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings: " + err.Error()})
		return
	}

	config.DB.Preload("Settings").First(&org, org.ID)
	c.JSON(http.StatusOK, org)
}
