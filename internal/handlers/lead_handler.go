// edufy-erp/internal/handlers/lead_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"edufy-erp/config"
	"edufy-erp/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LeadInput is shared by the public booking form and the back-office CRM.
type LeadInput struct {
	Name        string `json:"name" binding:"required"`
	ParentName  string `json:"parentName"`
	ParentPhone string `json:"parentPhone"`
	ParentEmail string `json:"parentEmail"`
	Source      string `json:"source"`
	ProgramID   *uint  `json:"programId"`
	PackName    string `json:"packName"`
	GroupID     *uint  `json:"groupId"`
	Notes       string `json:"notes"`
}

// CreateLeadHandler captures a lead. Mounted without auth for the public
// booking form, so it only ever writes into the default tenant.
func CreateLeadHandler(c *gin.Context) {
	var input LeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	lead := models.Lead{
		OrgID:       orgIDFromContext(c),
		Name:        strings.TrimSpace(input.Name),
		ParentName:  input.ParentName,
		ParentPhone: input.ParentPhone,
		ParentEmail: input.ParentEmail,
		Source:      input.Source,
		ProgramID:   input.ProgramID,
		PackName:    input.PackName,
		GroupID:     input.GroupID,
		Status:      models.LeadStatusNew,
		Notes:       input.Notes,
	}

	if err := config.DB.Create(&lead).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lead: " + err.Error()})
		return
	}

	GlobalHub.Publish(Event{
		Type:    "lead.created",
		Message: fmt.Sprintf("New lead: %s", lead.Name),
		Ref:     lead.ID,
	})

	c.JSON(http.StatusCreated, lead)
}

func ListLeadsHandler(c *gin.Context) {
	query := config.DB.Model(&models.Lead{})

	if search := c.Query("search"); search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(parent_name) LIKE ? OR parent_phone LIKE ?",
			searchPattern, searchPattern, "%"+search+"%",
		)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if source := c.Query("source"); source != "" {
		query = query.Where("source = ?", source)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count leads"})
		return
	}

	var leads []models.Lead
	if err := query.Scopes(Paginate(c)).Order("created_at DESC").Find(&leads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leads"})
		return
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, leads, totalRows))
}

func GetLeadHandler(c *gin.Context) {
	id := c.Param("id")
	var lead models.Lead
	if err := config.DB.First(&lead, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch lead"})
		return
	}
	c.JSON(http.StatusOK, lead)
}

// UpdateLeadHandler updates contact details, status and notes.
func UpdateLeadHandler(c *gin.Context) {
	id := c.Param("id")
	var lead models.Lead
	if err := config.DB.First(&lead, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
		return
	}

	var input struct {
		LeadInput
		Status string `json:"status" binding:"omitempty,oneof=new contacted converted lost"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	updates := map[string]interface{}{
		"name":         strings.TrimSpace(input.Name),
		"parent_name":  input.ParentName,
		"parent_phone": input.ParentPhone,
		"parent_email": input.ParentEmail,
		"source":       input.Source,
		"program_id":   input.ProgramID,
		"pack_name":    input.PackName,
		"group_id":     input.GroupID,
		"notes":        input.Notes,
	}
	if input.Status != "" {
		updates["status"] = input.Status
	}

	if err := config.DB.Model(&lead).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lead: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, lead)
}

func DeleteLeadHandler(c *gin.Context) {
	id := c.Param("id")
	result := config.DB.Delete(&models.Lead{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete lead"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lead deleted"})
}

// ConvertLeadHandler marks a lead converted and returns the wizard seed
// built from its captured fields. The enrollment itself goes through the
// normal wizard submission.
func ConvertLeadHandler(c *gin.Context) {
	id := c.Param("id")
	var lead models.Lead
	if err := config.DB.First(&lead, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
		return
	}
	if lead.Status == models.LeadStatusConverted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Lead is already converted"})
		return
	}

	if err := config.DB.Model(&lead).Update("status", models.LeadStatusConverted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert lead"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leadId": lead.ID,
		"wizardSeed": gin.H{
			"student": gin.H{
				"name":        lead.Name,
				"parentName":  lead.ParentName,
				"parentPhone": lead.ParentPhone,
				"parentEmail": lead.ParentEmail,
			},
			"programId": lead.ProgramID,
			"packName":  lead.PackName,
			"groupId":   lead.GroupID,
		},
	})
}
