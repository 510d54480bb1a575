package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"edufy-erp/config"
	"edufy-erp/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database, migrates the schema and
// points the global connection at it for the duration of the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.Organization{},
		&models.OrganizationSettings{},
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.Student{},
		&models.Program{},
		&models.Pack{},
		&models.Grade{},
		&models.Group{},
		&models.Enrollment{},
		&models.Payment{},
		&models.PaymentPlan{},
		&models.PlanInstallment{},
		&models.Lead{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	prev := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = prev })
	return db
}

// newTestRouter registers the handlers under test directly, without auth
// middleware; handlers fall back to the default tenant.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.POST("/api/enrollments", CreateEnrollmentHandler)
	r.GET("/api/enrollments", ListEnrollmentsHandler)
	r.GET("/api/enrollments/debtors", ListDebtorsHandler)
	r.GET("/api/enrollments/:id", GetEnrollmentHandler)

	r.POST("/api/payments", CreatePaymentHandler)
	r.POST("/api/payments/:id/confirm", ConfirmPaymentHandler)
	r.DELETE("/api/payments/:id", DeletePaymentHandler)
	r.GET("/api/payments/pending", ListPendingPaymentsHandler)
	r.GET("/api/payments/:id/receipt", GetReceiptHandler)

	r.PUT("/api/programs/:id", UpdateProgramHandler)
	r.POST("/api/programs/:id/quote", QuoteProgramHandler)

	r.POST("/api/leads", CreateLeadHandler)
	r.POST("/api/leads/:id/convert", ConvertLeadHandler)

	r.POST("/api/payment-plans", CreatePaymentPlanHandler)
	r.POST("/api/payment-plans/:id/preview", PreviewPaymentPlanHandler)

	return r
}

func performJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// seedProgram creates a program with one pack and one slot and returns it
// fully loaded.
func seedProgram(t *testing.T, db *gorm.DB) models.Program {
	t.Helper()

	program := models.Program{
		Name: "Robotics",
		Type: models.ProgramTypeRegular,
		Packs: []models.Pack{
			{Name: "Annual", Price: 150, PriceAnnual: 1200},
		},
		Grades: []models.Grade{
			{Name: "CM1-CM2", Groups: []models.Group{
				{Name: "Saturday Morning", Day: "Saturday", Time: "10:00"},
			}},
		},
	}
	if err := db.Create(&program).Error; err != nil {
		t.Fatalf("seed program: %v", err)
	}
	return program
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, want, w.Body.String())
	}
}
