// edufy-erp/internal/handlers/payment_plan_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"edufy-erp/config"
	"edufy-erp/models"

	"github.com/Knetic/govaluate"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PlanInstallmentInput is one line of an installment template.
type PlanInstallmentInput struct {
	Month   int    `json:"month" binding:"required,min=1,max=12"`
	Day     int    `json:"day" binding:"required,min=1,max=31"`
	Formula string `json:"formula" binding:"required"`
}

// PaymentPlanInput is the plan create/update form.
type PaymentPlanInput struct {
	Name         string                 `json:"name" binding:"required"`
	Installments []PlanInstallmentInput `json:"installments" binding:"required,min=1,dive"`
}

// validatePlanFormulas parses every formula and evaluates it against dummy
// figures, so broken templates are rejected at save time rather than when
// the desk tries to use them.
func validatePlanFormulas(installments []PlanInstallmentInput) error {
	probe := map[string]interface{}{
		"Total":      1000.0,
		"Discounted": 900.0,
		"Discount":   100.0,
	}
	for i, inst := range installments {
		expr, err := govaluate.NewEvaluableExpression(inst.Formula)
		if err != nil {
			return fmt.Errorf("installment %d: invalid formula: %w", i+1, err)
		}
		result, err := expr.Evaluate(probe)
		if err != nil {
			return fmt.Errorf("installment %d: formula failed to evaluate: %w", i+1, err)
		}
		if _, ok := result.(float64); !ok {
			return fmt.Errorf("installment %d: formula must produce a number", i+1)
		}
	}
	return nil
}

func CreatePaymentPlanHandler(c *gin.Context) {
	var input PaymentPlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if err := validatePlanFormulas(input.Installments); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan := models.PaymentPlan{
		OrgID:             orgIDFromContext(c),
		Name:              input.Name,
		InstallmentsCount: len(input.Installments),
	}
	for _, inst := range input.Installments {
		plan.Installments = append(plan.Installments, models.PlanInstallment{
			Month:   inst.Month,
			Day:     inst.Day,
			Formula: inst.Formula,
		})
	}

	if err := config.DB.Create(&plan).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment plan: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func ListPaymentPlansHandler(c *gin.Context) {
	var plans []models.PaymentPlan
	if err := config.DB.Preload("Installments").Order("name ASC").Find(&plans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment plans"})
		return
	}
	c.JSON(http.StatusOK, plans)
}

func GetPaymentPlanHandler(c *gin.Context) {
	id := c.Param("id")
	var plan models.PaymentPlan
	if err := config.DB.Preload("Installments").First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment plan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment plan"})
		return
	}
	c.JSON(http.StatusOK, plan)
}

func UpdatePaymentPlanHandler(c *gin.Context) {
	id := c.Param("id")
	var plan models.PaymentPlan
	if err := config.DB.First(&plan, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment plan not found"})
		return
	}

	var input PaymentPlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if err := validatePlanFormulas(input.Installments); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("payment_plan_id = ?", plan.ID).Delete(&models.PlanInstallment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&plan).Updates(map[string]interface{}{
			"name":               input.Name,
			"installments_count": len(input.Installments),
		}).Error; err != nil {
			return err
		}
		for _, inst := range input.Installments {
			if err := tx.Create(&models.PlanInstallment{
				PaymentPlanID: plan.ID,
				Month:         inst.Month,
				Day:           inst.Day,
				Formula:       inst.Formula,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment plan: " + err.Error()})
		return
	}

	config.DB.Preload("Installments").First(&plan, plan.ID)
	c.JSON(http.StatusOK, plan)
}

func DeletePaymentPlanHandler(c *gin.Context) {
	id := c.Param("id")
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("payment_plan_id = ?", id).Delete(&models.PlanInstallment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.PaymentPlan{}, id)
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
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment plan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete payment plan"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment plan deleted"})
}

// InstallmentPreview is one computed line of a plan schedule.
type InstallmentPreview struct {
	DueDate string  `json:"dueDate"`
	Amount  float64 `json:"amount"`
}

// PreviewPaymentPlanHandler evaluates a plan against concrete enrollment
// figures and returns the dated schedule. Formulas see the variables Total,
// Discounted and Discount.
func PreviewPaymentPlanHandler(c *gin.Context) {
	id := c.Param("id")
	var plan models.PaymentPlan
	if err := config.DB.Preload("Installments").First(&plan, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment plan not found"})
		return
	}

	var input struct {
		TotalAmount    float64 `json:"totalAmount" binding:"required,gt=0"`
		DiscountAmount float64 `json:"discountAmount" binding:"gte=0"`
		Session        string  `json:"session"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	session := input.Session
	if session == "" {
		session = currentSession(orgIDFromContext(c))
	}
	var startYear int
	if _, err := fmt.Sscanf(session, "%d-", &startYear); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session, expected YYYY-YYYY"})
		return
	}

	startMonth := 9
	if orgID := orgIDFromContext(c); orgID != nil {
		var settings models.OrganizationSettings
		if err := config.DB.Where("org_id = ?", *orgID).First(&settings).Error; err == nil && settings.AcademicYearStart != 0 {
			startMonth = settings.AcademicYearStart
		}
	}

	vars := map[string]interface{}{
		"Total":      input.TotalAmount + input.DiscountAmount,
		"Discounted": input.TotalAmount,
		"Discount":   input.DiscountAmount,
	}

	schedule := make([]InstallmentPreview, 0, len(plan.Installments))
	var scheduleTotal float64
	for _, inst := range plan.Installments {
		expr, err := govaluate.NewEvaluableExpression(inst.Formula)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Stored formula is invalid: %v", err)})
			return
		}
		result, err := expr.Evaluate(vars)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Formula evaluation failed: %v", err)})
			return
		}
		amount, ok := result.(float64)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Formula did not produce a number"})
			return
		}

		// Installments before the year-start month fall in the second
		// calendar year of the session.
		year := startYear
		if inst.Month < startMonth {
			year++
		}
		dueDate := time.Date(year, time.Month(inst.Month), inst.Day, 0, 0, 0, 0, time.UTC)

		schedule = append(schedule, InstallmentPreview{
			DueDate: dueDate.Format("2006-01-02"),
			Amount:  amount,
		})
		scheduleTotal += amount
	}

	c.JSON(http.StatusOK, gin.H{
		"planName": plan.Name,
		"session":  session,
		"schedule": schedule,
		"total":    scheduleTotal,
	})
}
