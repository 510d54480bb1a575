// edufy-erp/internal/handlers/permission_handler.go
package handlers

import (
	"net/http"

	"edufy-erp/config"
	"edufy-erp/models"

	"github.com/gin-gonic/gin"
)

// ListPermissionsHandler returns every grantable permission grouped by
// category, for rendering the settings matrix.
func ListPermissionsHandler(c *gin.Context) {
	var permissions []models.Permission
	if err := config.DB.Order("category ASC, name ASC").Find(&permissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch permissions"})
		return
	}

	grouped := make(map[string][]models.Permission)
	for _, p := range permissions {
		grouped[p.Category] = append(grouped[p.Category], p)
	}

	c.JSON(http.StatusOK, gin.H{
		"permissions": permissions,
		"byCategory":  grouped,
	})
}

// CreatePermissionHandler registers a new grantable id. Mostly used by
// seeds and migrations, exposed for completeness.
func CreatePermissionHandler(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Category    string `json:"category" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	permission := models.Permission{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
	}
	if err := config.DB.Create(&permission).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to create permission, the name may be taken"})
		return
	}
	c.JSON(http.StatusCreated, permission)
}

func DeletePermissionHandler(c *gin.Context) {
	id := c.Param("id")
	result := config.DB.Delete(&models.Permission{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete permission"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Permission not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Permission deleted"})
}
