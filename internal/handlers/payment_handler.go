// edufy-erp/internal/handlers/payment_handler.go
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"edufy-erp/config"
	"edufy-erp/models"

	"github.com/divan/num2words"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// PaymentInput is the single-payment recorder form, used outside the
// enrollment wizard (installments, settling a debt).
type PaymentInput struct {
	EnrollmentID uint    `json:"enrollmentId" binding:"required"`
	Amount       float64 `json:"amount" binding:"required,gt=0"`
	Date         string  `json:"date"`
	Method       string  `json:"method" binding:"required,oneof=cash check virement"`
	CheckNumber  string  `json:"checkNumber"`
	BankName     string  `json:"bankName"`
	DepositDate  string  `json:"depositDate"`
	ProofURL     string  `json:"proofUrl"`
}

// recalcEnrollmentBalance recomputes paid_amount and balance from the
// payment rows inside the caller's transaction. Summing in SQL instead of
// adding deltas in Go keeps the money columns consistent under concurrent
// recorders.
func recalcEnrollmentBalance(tx *gorm.DB, enrollmentID uint) error {
	return tx.Exec(`
		UPDATE enrollments SET
			paid_amount = (
				SELECT COALESCE(SUM(amount), 0) FROM payments
				WHERE enrollment_id = ? AND status = ? AND deleted_at IS NULL
			),
			balance = total_amount - (
				SELECT COALESCE(SUM(amount), 0) FROM payments
				WHERE enrollment_id = ? AND status = ? AND deleted_at IS NULL
			)
		WHERE id = ?`,
		enrollmentID, models.StatusPaid, enrollmentID, models.StatusPaid, enrollmentID,
	).Error
}

// CreatePaymentHandler records one payment against an enrollment. Cash is
// cleared immediately and moves the balance; checks and transfers are
// registered pending and leave the balance alone until confirmed.
func CreatePaymentHandler(c *gin.Context) {
	var input PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var enrollment models.Enrollment
	if err := config.DB.First(&enrollment, input.EnrollmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Enrollment not found"})
		return
	}

	paymentDate := time.Now()
	if input.Date != "" {
		parsed, err := parseDate(input.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment date, expected YYYY-MM-DD"})
			return
		}
		paymentDate = parsed
	}

	payment := models.Payment{
		OrgID:         enrollment.OrgID,
		EnrollmentID:  enrollment.ID,
		Amount:        input.Amount,
		PaymentDate:   paymentDate,
		Method:        input.Method,
		Status:        models.StatusForMethod(input.Method),
		Session:       enrollment.Session,
		ReceiptNumber: uuid.NewString(),
		CheckNumber:   input.CheckNumber,
		BankName:      input.BankName,
		ProofURL:      input.ProofURL,
	}
	if input.DepositDate != "" {
		if depositDate, err := parseDate(input.DepositDate); err == nil {
			payment.DepositDate = &depositDate
		}
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		if payment.CountsTowardBalance() {
			return recalcEnrollmentBalance(tx, enrollment.ID)
		}
		return nil
	})
	if err != nil {
		slog.Error("Failed to record payment", "error", err, "enrollment_id", enrollment.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment: " + err.Error()})
		return
	}

	GlobalHub.Publish(Event{
		Type:    "payment.recorded",
		Message: fmt.Sprintf("Payment of %.2f (%s) recorded", payment.Amount, payment.Method),
		Ref:     payment.ID,
	})

	c.JSON(http.StatusCreated, payment)
}

// ConfirmPaymentHandler flips a pending check or transfer to paid once the
// funds show up on the bank statement, and folds it into the balance.
func ConfirmPaymentHandler(c *gin.Context) {
	id := c.Param("id")

	var payment models.Payment
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, id).Error; err != nil {
			return err
		}
		if payment.Status == models.StatusPaid {
			return errors.New("payment is already confirmed")
		}
		if err := tx.Model(&payment).Update("status", models.StatusPaid).Error; err != nil {
			return err
		}
		payment.Status = models.StatusPaid
		return recalcEnrollmentBalance(tx, payment.EnrollmentID)
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, payment)
}

// DeletePaymentHandler soft-deletes a payment and recomputes the balance,
// for correcting data-entry mistakes.
func DeletePaymentHandler(c *gin.Context) {
	id := c.Param("id")

	var payment models.Payment
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&payment).Error; err != nil {
			return err
		}
		return recalcEnrollmentBalance(tx, payment.EnrollmentID)
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete payment: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment deleted"})
}

// PaymentListItem joins student identity for the finance screens.
type PaymentListItem struct {
	ID            uint      `json:"id"`
	EnrollmentID  uint      `json:"enrollmentId"`
	StudentName   string    `json:"studentName"`
	Amount        float64   `json:"amount"`
	PaymentDate   time.Time `json:"paymentDate"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	Session       string    `json:"session"`
	ReceiptNumber string    `json:"receiptNumber"`
	CheckNumber   string    `json:"checkNumber"`
	BankName      string    `json:"bankName"`
}

func paymentListQuery(c *gin.Context) *gorm.DB {
	query := config.DB.Table("payments").
		Joins("JOIN enrollments ON enrollments.id = payments.enrollment_id").
		Joins("JOIN students ON students.id = enrollments.student_id").
		Where("payments.deleted_at IS NULL")

	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(students.name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if method := c.Query("method"); method != "" {
		query = query.Where("payments.method = ?", method)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("payments.status = ?", status)
	}
	if session := c.Query("session"); session != "" {
		query = query.Where("payments.session = ?", session)
	}
	if from := c.Query("from"); from != "" {
		if fromDate, err := parseDate(from); err == nil {
			query = query.Where("payments.payment_date >= ?", fromDate)
		}
	}
	if to := c.Query("to"); to != "" {
		if toDate, err := parseDate(to); err == nil {
			query = query.Where("payments.payment_date < ?", toDate.AddDate(0, 0, 1))
		}
	}
	return query
}

const paymentListSelect = `
	payments.id,
	payments.enrollment_id,
	students.name as student_name,
	payments.amount,
	payments.payment_date,
	payments.method,
	payments.status,
	payments.session,
	payments.receipt_number,
	payments.check_number,
	payments.bank_name
`

// ListPaymentsHandler returns the filtered payment journal, newest first.
func ListPaymentsHandler(c *gin.Context) {
	query := paymentListQuery(c)

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count payments"})
		return
	}

	var results []PaymentListItem
	err := query.Select(paymentListSelect).
		Scopes(Paginate(c)).
		Order("payments.payment_date DESC, payments.id DESC").
		Scan(&results).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments: " + err.Error()})
		return
	}

	if results == nil {
		results = make([]PaymentListItem, 0)
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, results, totalRows))
}

// ListPendingPaymentsHandler is the reconciliation worklist: every check or
// transfer still waiting for bank confirmation.
func ListPendingPaymentsHandler(c *gin.Context) {
	query := paymentListQuery(c).
		Where("payments.status IN ?", []string{models.StatusCheckReceived, models.StatusPendingVerification})

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count pending payments"})
		return
	}

	var results []PaymentListItem
	err := query.Select(paymentListSelect).
		Scopes(Paginate(c)).
		Order("payments.payment_date ASC").
		Scan(&results).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending payments"})
		return
	}

	if results == nil {
		results = make([]PaymentListItem, 0)
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, results, totalRows))
}

// ExportPaymentsHandler streams the filtered payment journal as an .xlsx
// workbook for the accountant.
func ExportPaymentsHandler(c *gin.Context) {
	var results []PaymentListItem
	err := paymentListQuery(c).Select(paymentListSelect).
		Order("payments.payment_date ASC, payments.id ASC").
		Scan(&results).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments for export"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Payments"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Receipt #", "Date", "Student", "Amount", "Method", "Status", "Session", "Check #", "Bank"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, p := range results {
		row := rowIdx + 2
		values := []interface{}{
			p.ReceiptNumber,
			p.PaymentDate.Format("2006-01-02"),
			p.StudentName,
			p.Amount,
			p.Method,
			p.Status,
			p.Session,
			p.CheckNumber,
			p.BankName,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	fileName := fmt.Sprintf("payments_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		slog.Error("Failed to stream payments export", "error", err)
	}
}

// ReceiptResponse is the printable receipt payload.
type ReceiptResponse struct {
	ReceiptNumber string  `json:"receiptNumber"`
	StudentName   string  `json:"studentName"`
	ProgramName   string  `json:"programName"`
	Amount        float64 `json:"amount"`
	AmountInWords string  `json:"amountInWords"`
	Currency      string  `json:"currency"`
	Method        string  `json:"method"`
	Status        string  `json:"status"`
	PaymentDate   string  `json:"paymentDate"`
	Session       string  `json:"session"`
	Balance       float64 `json:"balance"`
}

// GetReceiptHandler returns the receipt data for one payment, with the
// amount spelled out for the printed form.
func GetReceiptHandler(c *gin.Context) {
	id := c.Param("id")

	var payment models.Payment
	if err := config.DB.Preload("Enrollment.Student").Preload("Enrollment.Program").First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment"})
		return
	}

	currency := "MAD"
	if payment.OrgID != nil {
		var settings models.OrganizationSettings
		if err := config.DB.Where("org_id = ?", *payment.OrgID).First(&settings).Error; err == nil && settings.Currency != "" {
			currency = settings.Currency
		}
	}

	resp := ReceiptResponse{
		ReceiptNumber: payment.ReceiptNumber,
		Amount:        payment.Amount,
		AmountInWords: amountInWords(payment.Amount, currency),
		Currency:      currency,
		Method:        payment.Method,
		Status:        payment.Status,
		PaymentDate:   payment.PaymentDate.Format("2006-01-02"),
		Session:       payment.Session,
	}
	if payment.Enrollment != nil {
		resp.Balance = payment.Enrollment.Balance
		if payment.Enrollment.Student != nil {
			resp.StudentName = payment.Enrollment.Student.Name
		}
		if payment.Enrollment.Program != nil {
			resp.ProgramName = payment.Enrollment.Program.Name
		}
	}

	c.JSON(http.StatusOK, resp)
}

// amountInWords spells out the integer part and appends cents numerically,
// e.g. "one thousand two hundred MAD and 50/100". Cents are rounded in one
// step so float representation (0.29 stored as 0.28999...) cannot shave a
// centime off the receipt.
func amountInWords(amount float64, currency string) string {
	totalCents := int(math.Round(amount * 100))
	whole := totalCents / 100
	cents := totalCents % 100
	words := num2words.Convert(whole)
	if cents > 0 {
		return fmt.Sprintf("%s %s and %02d/100", words, currency, cents)
	}
	return fmt.Sprintf("%s %s", words, currency)
}
