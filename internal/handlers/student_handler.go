// edufy-erp/internal/handlers/student_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"edufy-erp/config"
	"edufy-erp/internal/accounts"
	"edufy-erp/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StudentInput is the create/update form for a student record.
type StudentInput struct {
	Name        string `json:"name" binding:"required"`
	BirthDate   string `json:"birthDate"`
	School      string `json:"school"`
	Status      string `json:"status"`
	ParentName  string `json:"parentName"`
	ParentPhone string `json:"parentPhone"`
	ParentEmail string `json:"parentEmail"`
}

func CreateStudentHandler(c *gin.Context) {
	var input StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	student := models.Student{
		OrgID:       orgIDFromContext(c),
		Name:        strings.TrimSpace(input.Name),
		School:      input.School,
		Status:      "active",
		ParentName:  input.ParentName,
		ParentPhone: input.ParentPhone,
		ParentEmail: input.ParentEmail,
	}
	if input.Status != "" {
		student.Status = input.Status
	}
	if input.BirthDate != "" {
		birthDate, err := parseDate(input.BirthDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid birth date, expected YYYY-MM-DD"})
			return
		}
		student.BirthDate = &birthDate
	}

	if err := config.DB.Create(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create student: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, student)
}

// ListStudentsHandler returns a paginated student list with search over
// name, school and parent contact.
func ListStudentsHandler(c *gin.Context) {
	query := config.DB.Model(&models.Student{})

	if search := c.Query("search"); search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(school) LIKE ? OR LOWER(parent_name) LIKE ? OR parent_phone LIKE ?",
			searchPattern, searchPattern, searchPattern, "%"+search+"%",
		)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count students"})
		return
	}

	var students []models.Student
	if err := query.Scopes(Paginate(c)).Order("name ASC").Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch students"})
		return
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, students, totalRows))
}

func GetStudentHandler(c *gin.Context) {
	id := c.Param("id")
	var student models.Student
	if err := config.DB.Preload("Enrollments.Payments").First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch student"})
		return
	}
	c.JSON(http.StatusOK, student)
}

func UpdateStudentHandler(c *gin.Context) {
	id := c.Param("id")
	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	var input StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	updates := map[string]interface{}{
		"name":         strings.TrimSpace(input.Name),
		"school":       input.School,
		"parent_name":  input.ParentName,
		"parent_phone": input.ParentPhone,
		"parent_email": input.ParentEmail,
	}
	if input.Status != "" {
		updates["status"] = input.Status
	}
	if input.BirthDate != "" {
		birthDate, err := parseDate(input.BirthDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid birth date, expected YYYY-MM-DD"})
			return
		}
		updates["birth_date"] = birthDate
	}

	if err := config.DB.Model(&student).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update student: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, student)
}

// DeleteStudentHandler soft-deletes the student. Enrollment history stays
// in place for the finance reports.
func DeleteStudentHandler(c *gin.Context) {
	id := c.Param("id")
	result := config.DB.Delete(&models.Student{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete student"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student deleted"})
}

// GetStudentCredentialsHandler returns the auto-provisioned logins with the
// one-time initial passwords, for printing the welcome sheet. Guarded by
// its own permission in the routes.
func GetStudentCredentialsHandler(c *gin.Context) {
	id := c.Param("id")
	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"studentName": student.Name,
		"student":     student.LoginInfo,
		"parent":      student.ParentLoginInfo,
	})
}

// ProvisionStudentAccountsHandler retries account creation for a student
// whose enrollment-time provisioning failed or was skipped.
func ProvisionStudentAccountsHandler(c *gin.Context) {
	id := c.Param("id")
	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	provisioner := &accounts.Provisioner{DB: config.DB, EmailDomain: accountEmailDomain(student.OrgID)}
	provisioner.ProvisionAll(&student)

	config.DB.First(&student, student.ID)
	c.JSON(http.StatusOK, gin.H{
		"studentName": student.Name,
		"student":     student.LoginInfo,
		"parent":      student.ParentLoginInfo,
	})
}

// CheckDuplicateStudentsHandler lets the wizard warn about likely duplicates
// before the form is submitted.
func CheckDuplicateStudentsHandler(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter is required"})
		return
	}

	duplicates, err := findDuplicateStudents(orgIDFromContext(c), name, c.Query("parentPhone"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check for duplicates"})
		return
	}
	if duplicates == nil {
		duplicates = make([]DuplicateCandidate, 0)
	}
	c.JSON(http.StatusOK, gin.H{"duplicates": duplicates})
}
