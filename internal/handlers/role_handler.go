// edufy-erp/internal/handlers/role_handler.go
package handlers

import (
	"errors"
	"net/http"

	"edufy-erp/config"
	"edufy-erp/internal/middleware"
	"edufy-erp/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RoleInput is the create/update form for a role.
type RoleInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func CreateRoleHandler(c *gin.Context) {
	var input RoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	role := models.Role{Name: input.Name, Description: input.Description}
	if err := config.DB.Create(&role).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to create role, the name may be taken"})
		return
	}
	c.JSON(http.StatusCreated, role)
}

func ListRolesHandler(c *gin.Context) {
	var roles []models.Role
	if err := config.DB.Preload("Permissions").Order("name ASC").Find(&roles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch roles"})
		return
	}
	c.JSON(http.StatusOK, roles)
}

func GetRoleHandler(c *gin.Context) {
	id := c.Param("id")
	var role models.Role
	if err := config.DB.Preload("Permissions").First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch role"})
		return
	}
	c.JSON(http.StatusOK, role)
}

func UpdateRoleHandler(c *gin.Context) {
	id := c.Param("id")
	var role models.Role
	if err := config.DB.First(&role, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}
	if role.Name == models.AdminRoleName {
		c.JSON(http.StatusForbidden, gin.H{"error": "The admin role cannot be edited"})
		return
	}

	var input RoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if err := config.DB.Model(&role).Updates(map[string]interface{}{
		"name":        input.Name,
		"description": input.Description,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}
	c.JSON(http.StatusOK, role)
}

func DeleteRoleHandler(c *gin.Context) {
	id := c.Param("id")
	var role models.Role
	if err := config.DB.First(&role, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}
	if role.Name == models.AdminRoleName {
		c.JSON(http.StatusForbidden, gin.H{"error": "The admin role cannot be deleted"})
		return
	}

	var memberIDs []uint
	config.DB.Table("user_roles").Where("role_id = ?", role.ID).Pluck("user_id", &memberIDs)

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&role).Association("Permissions").Clear(); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_roles WHERE role_id = ?", role.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&role).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete role: " + err.Error()})
		return
	}

	if len(memberIDs) > 0 {
		middleware.InvalidateUserCache(memberIDs)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role deleted"})
}

// SetRolePermissionsHandler replaces a role's grants in one shot, as saved
// from the settings matrix. Grants may be exact ids, "*" or "{namespace}.*".
func SetRolePermissionsHandler(c *gin.Context) {
	id := c.Param("id")
	var role models.Role
	if err := config.DB.First(&role, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}
	if role.Name == models.AdminRoleName {
		c.JSON(http.StatusForbidden, gin.H{"error": "The admin role always has every permission"})
		return
	}

	var input struct {
		PermissionIDs []uint `json:"permissionIds"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var permissions []models.Permission
	if len(input.PermissionIDs) > 0 {
		if err := config.DB.Find(&permissions, input.PermissionIDs).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid permission ids"})
			return
		}
	}

	if err := config.DB.Model(&role).Association("Permissions").Replace(permissions); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role permissions"})
		return
	}

	// Members of the role carry stale grants in the auth cache until
	// invalidated.
	invalidateRoleMembers(role.ID)

	config.DB.Preload("Permissions").First(&role, role.ID)
	c.JSON(http.StatusOK, role)
}

// ToggleRolePermissionHandler flips one cell of the settings matrix: the
// grant is added when absent and removed when present. The change takes
// effect immediately for the role's members.
func ToggleRolePermissionHandler(c *gin.Context) {
	id := c.Param("id")
	var role models.Role
	if err := config.DB.Preload("Permissions").First(&role, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}
	if role.Name == models.AdminRoleName {
		c.JSON(http.StatusForbidden, gin.H{"error": "The admin role always has every permission"})
		return
	}

	var permission models.Permission
	if err := config.DB.First(&permission, c.Param("permissionId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Permission not found"})
		return
	}

	granted := false
	for _, p := range role.Permissions {
		if p.ID == permission.ID {
			granted = true
			break
		}
	}

	assoc := config.DB.Model(&role).Association("Permissions")
	var err error
	if granted {
		err = assoc.Delete(&permission)
	} else {
		err = assoc.Append(&permission)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle permission"})
		return
	}

	invalidateRoleMembers(role.ID)

	c.JSON(http.StatusOK, gin.H{
		"roleId":       role.ID,
		"permissionId": permission.ID,
		"granted":      !granted,
	})
}

func invalidateRoleMembers(roleID uint) {
	var userIDs []uint
	config.DB.Table("user_roles").Where("role_id = ?", roleID).Pluck("user_id", &userIDs)
	if len(userIDs) > 0 {
		middleware.InvalidateUserCache(userIDs)
	}
}
