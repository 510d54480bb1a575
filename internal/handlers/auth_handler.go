// edufy-erp/internal/handlers/auth_handler.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"edufy-erp/config"
	"edufy-erp/internal/accounts"
	"edufy-erp/internal/mailer"
	"edufy-erp/internal/middleware"
	"edufy-erp/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

func issueToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(tokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.JwtKey)
}

// LoginHandler checks credentials and sets the auth cookie. The token is
// also returned in the body for API clients.
func LoginHandler(c *gin.Context) {
	var input struct {
		Login    string `json:"login" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Login and password are required"})
		return
	}

	var user models.User
	if err := config.DB.Where("login = ?", input.Login).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid login or password"})
		return
	}
	if user.Status != "active" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is disabled"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid login or password"})
		return
	}

	tokenStr, err := issueToken(user.ID)
	if err != nil {
		slog.Error("Failed to sign token", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.SetCookie("auth_token", tokenStr, int(tokenTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token": tokenStr,
		"user": gin.H{
			"id":       user.ID,
			"login":    user.Login,
			"fullName": user.FullName,
		},
	})
}

// RegisterHandler creates a self-service account with no roles. Until an
// administrator assigns a role the account can sign in but reach nothing.
func RegisterHandler(c *gin.Context) {
	var input struct {
		Login    string `json:"login" binding:"required,min=3"`
		Password string `json:"password" binding:"required,min=6"`
		Email    string `json:"email" binding:"omitempty,email"`
		FullName string `json:"fullName"`
		Phone    string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		OrgID:    orgIDFromContext(c),
		Login:    input.Login,
		Email:    input.Email,
		FullName: input.FullName,
		Phone:    input.Phone,
		Password: string(hashed),
		Status:   "active",
	}
	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Login is already taken"})
		return
	}

	tokenStr, err := issueToken(user.ID)
	if err != nil {
		slog.Error("Failed to sign token", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Account created, sign in manually"})
		return
	}
	c.SetCookie("auth_token", tokenStr, int(tokenTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusCreated, gin.H{
		"token": tokenStr,
		"user":  gin.H{"id": user.ID, "login": user.Login},
	})
}

func LogoutHandler(c *gin.Context) {
	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// ChangePasswordHandler lets an authenticated user rotate their own
// password, including the auto-provisioned initial one.
func ChangePasswordHandler(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var input struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	if err := config.DB.Model(&user).Update("password", string(hashed)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	middleware.InvalidateUserCache([]uint{user.ID})
	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

// ResetPasswordHandler generates a new random password for a user and mails
// it. Staff-only; for families who lost their printed credentials sheet.
func ResetPasswordHandler(c *gin.Context) {
	id := c.Param("id")
	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	newPassword := accounts.RandomPassword(accounts.ParentPasswordLength)
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	if err := config.DB.Model(&user).Update("password", string(hashed)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	middleware.InvalidateUserCache([]uint{user.ID})

	if user.Email != "" {
		mailer.Send(user.FullName, user.Email,
			"Your password was reset",
			fmt.Sprintf("Hello %s,\n\nYour new password is: %s\n\nPlease change it after signing in.", user.FullName, newPassword),
		)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Password reset",
		"newPassword": newPassword,
	})
}

// MeHandler returns the authenticated user's identity and grants, for the
// client to build its menu.
func MeHandler(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	roles, _ := c.Get("roles")
	permissions, _ := c.Get("permissions")

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          user.ID,
		"login":       user.Login,
		"fullName":    user.FullName,
		"email":       user.Email,
		"orgId":       user.OrgID,
		"roles":       roles,
		"permissions": permissions,
	})
}
