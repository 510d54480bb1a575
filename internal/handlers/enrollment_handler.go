// edufy-erp/internal/handlers/enrollment_handler.go
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"edufy-erp/config"
	"edufy-erp/internal/accounts"
	"edufy-erp/internal/enroll"
	"edufy-erp/internal/mailer"
	"edufy-erp/internal/pricing"
	"edufy-erp/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Input and response structures for ENROLLMENTS ---

// PaymentEntryInput is one payment line collected in the wizard's last step.
type PaymentEntryInput struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Date        string  `json:"date"`
	Method      string  `json:"method" binding:"required,oneof=cash check virement"`
	CheckNumber string  `json:"checkNumber"`
	BankName    string  `json:"bankName"`
	DepositDate string  `json:"depositDate"`
	ProofURL    string  `json:"proofUrl"`
}

// NewStudentInput carries the identity fields of the wizard's first step.
type NewStudentInput struct {
	Name        string `json:"name"`
	BirthDate   string `json:"birthDate"`
	School      string `json:"school"`
	ParentName  string `json:"parentName"`
	ParentPhone string `json:"parentPhone"`
	ParentEmail string `json:"parentEmail"`
}

// EnrollmentInput is the wizard's full submitted form.
type EnrollmentInput struct {
	StudentID        *uint            `json:"studentId"`
	Student          *NewStudentInput `json:"student"`
	ConfirmDuplicate bool             `json:"confirmDuplicate"`

	ProgramID     uint   `json:"programId" binding:"required"`
	PackName      string `json:"packName"`
	GradeID       *uint  `json:"gradeId"`
	GroupID       *uint  `json:"groupId"`
	SecondGroupID *uint  `json:"secondGroupId"`

	NegotiatedPrice float64 `json:"negotiatedPrice" binding:"gte=0"`
	Session         string  `json:"session"`
	IdempotencyKey  string  `json:"idempotencyKey"`

	Payments []PaymentEntryInput `json:"payments" binding:"dive"`
}

// DuplicateCandidate is returned with a 409 when a matching student exists
// and the client has not confirmed the submission yet.
type DuplicateCandidate struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	ParentPhone string `json:"parentPhone"`
}

// CreateEnrollmentHandler finishes the enrollment wizard. The whole write
// sequence (student, enrollment, payment rows) runs in one transaction, so
// a declined duplicate or a failed step leaves nothing behind. Account
// provisioning happens after commit and is best-effort.
func CreateEnrollmentHandler(c *gin.Context) {
	var input EnrollmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	form := enroll.Form{
		StudentID: input.StudentID,
		ProgramID: input.ProgramID,
		PackName:  input.PackName,
		GroupID:   input.GroupID,
	}
	if input.Student != nil {
		form.StudentName = strings.TrimSpace(input.Student.Name)
	}
	form.PaymentCount = len(input.Payments)
	if err := enroll.Validate(form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orgID := orgIDFromContext(c)

	// Resubmission of the same wizard form returns the original enrollment.
	if input.IdempotencyKey != "" {
		var existing models.Enrollment
		err := config.DB.Preload("Payments").
			Where("idempotency_key = ?", input.IdempotencyKey).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusOK, existing)
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check for an existing enrollment"})
			return
		}
	}

	var program models.Program
	if err := config.DB.Preload("Packs").Preload("Grades.Groups").First(&program, input.ProgramID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		return
	}

	if input.GroupID != nil && program.FindGroup(*input.GroupID) == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Selected group does not belong to the program"})
		return
	}
	if input.SecondGroupID != nil && program.FindGroup(*input.SecondGroupID) == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Selected second group does not belong to the program"})
		return
	}

	// Resolve the student before opening the transaction so the duplicate
	// confirmation can abort with zero writes.
	var student models.Student
	isNewStudent := false
	if input.StudentID != nil && *input.StudentID != 0 {
		if err := config.DB.First(&student, *input.StudentID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
			return
		}
	} else {
		isNewStudent = true
		if !input.ConfirmDuplicate {
			duplicates, err := findDuplicateStudents(orgID, form.StudentName, input.Student.ParentPhone)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check for duplicate students"})
				return
			}
			if len(duplicates) > 0 {
				c.JSON(http.StatusConflict, gin.H{
					"error":      "A student with the same name or parent phone already exists",
					"duplicates": duplicates,
				})
				return
			}
		}

		student = models.Student{
			OrgID:       orgID,
			Name:        form.StudentName,
			School:      input.Student.School,
			Status:      "active",
			ParentName:  input.Student.ParentName,
			ParentPhone: input.Student.ParentPhone,
			ParentEmail: input.Student.ParentEmail,
		}
		if input.Student.BirthDate != "" {
			if birthDate, err := parseDate(input.Student.BirthDate); err == nil {
				student.BirthDate = &birthDate
			}
		}
	}

	standardTuition := pricing.StandardTuition(&program, input.PackName)
	discount := pricing.ClampDiscount(pricing.DiscountAmount(standardTuition, input.NegotiatedPrice))

	entries := make([]pricing.Entry, len(input.Payments))
	for i, p := range input.Payments {
		entries[i] = pricing.Entry{Amount: p.Amount, Method: p.Method}
	}
	initialCleared := pricing.ClearedTotal(entries)

	session := input.Session
	if session == "" {
		session = currentSession(orgID)
	}

	var enrollment models.Enrollment
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if isNewStudent {
			if err := tx.Create(&student).Error; err != nil {
				return fmt.Errorf("create student: %w", err)
			}
		}

		enrollment = models.Enrollment{
			OrgID:          orgID,
			StudentID:      student.ID,
			ProgramID:      program.ID,
			PackName:       input.PackName,
			GradeID:        input.GradeID,
			GroupID:        input.GroupID,
			SecondGroupID:  input.SecondGroupID,
			TotalAmount:    input.NegotiatedPrice,
			DiscountAmount: discount,
			PaidAmount:     initialCleared,
			Balance:        input.NegotiatedPrice - initialCleared,
			Status:         "active",
			Session:        session,
		}
		if input.IdempotencyKey != "" {
			key := input.IdempotencyKey
			enrollment.IdempotencyKey = &key
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return fmt.Errorf("create enrollment: %w", err)
		}

		for _, entry := range input.Payments {
			payment, err := buildPayment(&enrollment, entry, session, orgID)
			if err != nil {
				return err
			}
			// Historical wizard behavior: every non-cash entry is tagged
			// check_received, transfers included. The single-payment
			// recorder is the one that distinguishes transfers.
			if entry.Method != models.MethodCash {
				payment.Status = models.StatusCheckReceived
			}
			if err := tx.Create(payment).Error; err != nil {
				return fmt.Errorf("create payment: %w", err)
			}
		}
		return nil
	})

	if err != nil {
		slog.Error("Enrollment submission failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save enrollment: " + err.Error()})
		return
	}

	// Best-effort: a failed login provisioning must not undo the enrollment.
	if student.LoginInfo.Username == "" {
		provisioner := &accounts.Provisioner{DB: config.DB, EmailDomain: accountEmailDomain(orgID)}
		provisioner.ProvisionAll(&student)
		mailCredentials(&student)
	}

	GlobalHub.Publish(Event{
		Type:    "enrollment.created",
		Message: fmt.Sprintf("%s enrolled in %s", student.Name, program.Name),
		Ref:     enrollment.ID,
	})

	config.DB.Preload("Payments").Preload("Student").First(&enrollment, enrollment.ID)
	c.JSON(http.StatusCreated, enrollment)
}

func buildPayment(enrollment *models.Enrollment, entry PaymentEntryInput, session string, orgID *uint) (*models.Payment, error) {
	paymentDate := time.Now()
	if entry.Date != "" {
		parsed, err := parseDate(entry.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid payment date %q, expected YYYY-MM-DD", entry.Date)
		}
		paymentDate = parsed
	}

	payment := &models.Payment{
		OrgID:         orgID,
		EnrollmentID:  enrollment.ID,
		Amount:        entry.Amount,
		PaymentDate:   paymentDate,
		Method:        entry.Method,
		Status:        models.StatusForMethod(entry.Method),
		Session:       session,
		ReceiptNumber: uuid.NewString(),
		CheckNumber:   entry.CheckNumber,
		BankName:      entry.BankName,
		ProofURL:      entry.ProofURL,
	}
	if entry.DepositDate != "" {
		if depositDate, err := parseDate(entry.DepositDate); err == nil {
			payment.DepositDate = &depositDate
		}
	}
	return payment, nil
}

func findDuplicateStudents(orgID *uint, name, parentPhone string) ([]DuplicateCandidate, error) {
	var candidates []DuplicateCandidate
	query := config.DB.Model(&models.Student{}).
		Select("id, name, parent_phone").
		Where("org_id = ?", orgID)
	if parentPhone != "" {
		query = query.Where("LOWER(name) = ? OR parent_phone = ?", strings.ToLower(name), parentPhone)
	} else {
		query = query.Where("LOWER(name) = ?", strings.ToLower(name))
	}
	if err := query.Scan(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}

// mailCredentials sends the freshly provisioned logins to the parent.
// Like provisioning itself this is a side channel: no error reaches the
// enrollment response.
func mailCredentials(student *models.Student) {
	if student.ParentEmail == "" || student.LoginInfo.Username == "" {
		return
	}
	body := fmt.Sprintf(
		"Hello %s,\n\nAccounts for %s are ready.\n\nStudent login: %s\nStudent password: %s\n",
		student.ParentName, student.Name,
		student.LoginInfo.Username, student.LoginInfo.InitialPassword,
	)
	if student.ParentLoginInfo.Username != "" {
		body += fmt.Sprintf("\nParent login: %s\nParent password: %s\n",
			student.ParentLoginInfo.Username, student.ParentLoginInfo.InitialPassword)
	}
	body += "\nPlease change these passwords after the first sign-in."
	mailer.Send(student.ParentName, student.ParentEmail, "Your Edufy accounts", body)
}

func accountEmailDomain(orgID *uint) string {
	if orgID != nil {
		var settings models.OrganizationSettings
		if err := config.DB.Where("org_id = ?", *orgID).First(&settings).Error; err == nil && settings.AccountEmailDomain != "" {
			return settings.AccountEmailDomain
		}
	}
	return config.AccountEmailDomain
}

// EnrollmentListItem joins student identity onto the enrollment row for the
// finance screens.
type EnrollmentListItem struct {
	ID          uint    `json:"id"`
	StudentID   uint    `json:"studentId"`
	StudentName string  `json:"studentName"`
	ProgramName string  `json:"programName"`
	PackName    string  `json:"packName"`
	TotalAmount float64 `json:"totalAmount"`
	PaidAmount  float64 `json:"paidAmount"`
	Balance     float64 `json:"balance"`
	Status      string  `json:"status"`
	Session     string  `json:"session"`
}

// ListEnrollmentsHandler returns a paginated enrollment list with search
// over student name and program. Used both by the finance screens and the
// payment recorder's search-as-you-type box (status=active).
func ListEnrollmentsHandler(c *gin.Context) {
	var results []EnrollmentListItem
	var totalRows int64

	baseQuery := config.DB.Table("enrollments").
		Joins("JOIN students ON students.id = enrollments.student_id AND students.deleted_at IS NULL").
		Joins("LEFT JOIN programs ON programs.id = enrollments.program_id").
		Where("enrollments.deleted_at IS NULL")

	if search := c.Query("search"); search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		baseQuery = baseQuery.Where(
			"LOWER(students.name) LIKE ? OR LOWER(programs.name) LIKE ?",
			searchPattern, searchPattern,
		)
	}
	if status := c.Query("status"); status != "" {
		baseQuery = baseQuery.Where("enrollments.status = ? AND students.status = ?", status, "active")
	}
	if session := c.Query("session"); session != "" {
		baseQuery = baseQuery.Where("enrollments.session = ?", session)
	}

	if err := baseQuery.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count enrollments"})
		return
	}

	finalQuery := baseQuery.Select(`
		enrollments.id,
		enrollments.student_id,
		students.name as student_name,
		programs.name as program_name,
		enrollments.pack_name,
		enrollments.total_amount,
		enrollments.paid_amount,
		enrollments.balance,
		enrollments.status,
		enrollments.session
	`).
		Scopes(Paginate(c)).
		Order("enrollments.created_at DESC")

	if err := finalQuery.Scan(&results).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch enrollments: " + err.Error()})
		return
	}

	if results == nil {
		results = make([]EnrollmentListItem, 0)
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, results, totalRows))
}

func GetEnrollmentHandler(c *gin.Context) {
	id := c.Param("id")
	var enrollment models.Enrollment
	if err := config.DB.Preload("Student").Preload("Payments").First(&enrollment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Enrollment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch enrollment"})
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

// UpdateEnrollmentStatusHandler changes the lifecycle status (active,
// suspended, cancelled). Money columns are never touched here.
func UpdateEnrollmentStatusHandler(c *gin.Context) {
	id := c.Param("id")
	var input struct {
		Status string `json:"status" binding:"required,oneof=active suspended cancelled"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := config.DB.Model(&models.Enrollment{}).Where("id = ?", id).Update("status", input.Status)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update enrollment status"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Enrollment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Enrollment status updated"})
}

// DeleteEnrollmentHandler soft-deletes an enrollment and its payments.
func DeleteEnrollmentHandler(c *gin.Context) {
	id := c.Param("id")
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("enrollment_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Enrollment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Enrollment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete enrollment: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Enrollment deleted"})
}

// DebtorResponse is one outstanding-balance row.
type DebtorResponse struct {
	EnrollmentID uint    `json:"enrollmentId"`
	StudentName  string  `json:"studentName"`
	ProgramName  string  `json:"programName"`
	Balance      float64 `json:"balance"`
	Session      string  `json:"session"`
}

// ListDebtorsHandler returns enrollments with cleared funds below the
// negotiated price, largest debt first.
func ListDebtorsHandler(c *gin.Context) {
	var debtors []DebtorResponse
	var totalRows int64

	query := config.DB.Table("enrollments").
		Joins("JOIN students ON students.id = enrollments.student_id").
		Joins("LEFT JOIN programs ON programs.id = enrollments.program_id").
		Where("enrollments.deleted_at IS NULL AND enrollments.balance > 0")

	if session := c.Query("session"); session != "" {
		query = query.Where("enrollments.session = ?", session)
	}

	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count debtors"})
		return
	}

	err := query.Select(`
		enrollments.id as enrollment_id,
		students.name as student_name,
		programs.name as program_name,
		enrollments.balance,
		enrollments.session
	`).Scopes(Paginate(c)).Order("balance DESC").Scan(&debtors).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch debtors"})
		return
	}

	if debtors == nil {
		debtors = make([]DebtorResponse, 0)
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, debtors, totalRows))
}
