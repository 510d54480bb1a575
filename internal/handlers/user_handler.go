// edufy-erp/internal/handlers/user_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"edufy-erp/config"
	"edufy-erp/internal/middleware"
	"edufy-erp/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserInput is the staff account create/update form.
type UserInput struct {
	Login    string `json:"login" binding:"required"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Status   string `json:"status" binding:"omitempty,oneof=active disabled"`
	RoleIDs  []uint `json:"roleIds"`
}

func CreateUserHandler(c *gin.Context) {
	var input UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		OrgID:    orgIDFromContext(c),
		Login:    strings.ToLower(strings.TrimSpace(input.Login)),
		Email:    input.Email,
		FullName: input.FullName,
		Phone:    input.Phone,
		Password: string(hashed),
		Status:   "active",
	}
	if input.Status != "" {
		user.Status = input.Status
	}

	if len(input.RoleIDs) > 0 {
		var roles []models.Role
		if err := config.DB.Find(&roles, input.RoleIDs).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role ids"})
			return
		}
		user.Roles = roles
	}

	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to create user, the login may be taken: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func ListUsersHandler(c *gin.Context) {
	query := config.DB.Model(&models.User{})

	if search := c.Query("search"); search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(login) LIKE ? OR LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
		return
	}

	var users []models.User
	if err := query.Preload("Roles").Scopes(Paginate(c)).Order("login ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, users, totalRows))
}

func GetUserHandler(c *gin.Context) {
	id := c.Param("id")
	var user models.User
	if err := config.DB.Preload("Roles.Permissions").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUserHandler updates profile fields and role assignment. A supplied
// password is re-hashed; an empty one leaves the hash alone.
func UpdateUserHandler(c *gin.Context) {
	id := c.Param("id")
	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var input UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	updates := map[string]interface{}{
		"login":     strings.ToLower(strings.TrimSpace(input.Login)),
		"email":     input.Email,
		"full_name": input.FullName,
		"phone":     input.Phone,
	}
	if input.Status != "" {
		updates["status"] = input.Status
	}
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		updates["password"] = string(hashed)
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}
		if input.RoleIDs != nil {
			var roles []models.Role
			if err := tx.Find(&roles, input.RoleIDs).Error; err != nil {
				return err
			}
			if err := tx.Model(&user).Association("Roles").Replace(roles); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user: " + err.Error()})
		return
	}

	middleware.InvalidateUserCache([]uint{user.ID})

	config.DB.Preload("Roles").First(&user, user.ID)
	c.JSON(http.StatusOK, user)
}

func DeleteUserHandler(c *gin.Context) {
	id := c.Param("id")

	requesterID, _ := getUserIDFromContext(c)
	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.ID == requesterID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account"})
		return
	}

	if err := config.DB.Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	middleware.InvalidateUserCache([]uint{user.ID})
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
