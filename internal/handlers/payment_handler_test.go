package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"edufy-erp/models"
)

// seedEnrollment creates a paid-nothing enrollment at the given negotiated
// price through the wizard.
func seedEnrollment(t *testing.T, programID, groupID uint, price float64) models.Enrollment {
	t.Helper()

	body := wizardBody(programID, groupID, map[string]interface{}{
		"negotiatedPrice": price,
		"payments":        []map[string]interface{}{},
	})
	w := performJSON(t, newTestRouter(), http.MethodPost, "/api/enrollments", body)
	mustStatus(t, w, http.StatusCreated)
	var enrollment models.Enrollment
	decodeBody(t, w, &enrollment)
	return enrollment
}

func TestRecordCashPaymentUpdatesBalance(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	program := seedProgram(t, db)
	groupID := program.Grades[0].Groups[0].ID
	enrollment := seedEnrollment(t, program.ID, groupID, 1000)

	w := performJSON(t, r, http.MethodPost, "/api/payments", map[string]interface{}{
		"enrollmentId": enrollment.ID,
		"amount":       300.0,
		"method":       "cash",
	})
	mustStatus(t, w, http.StatusCreated)

	var payment models.Payment
	decodeBody(t, w, &payment)
	if payment.Status != models.StatusPaid {
		t.Errorf("cash status = %q, want %q", payment.Status, models.StatusPaid)
	}

	var reloaded models.Enrollment
	if err := db.First(&reloaded, enrollment.ID).Error; err != nil {
		t.Fatalf("reload enrollment: %v", err)
	}
	if reloaded.PaidAmount != 300 || reloaded.Balance != 700 {
		t.Errorf("paid/balance = %v/%v, want 300/700", reloaded.PaidAmount, reloaded.Balance)
	}
}

func TestRecordPendingPaymentsLeaveBalanceAlone(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	program := seedProgram(t, db)
	groupID := program.Grades[0].Groups[0].ID
	enrollment := seedEnrollment(t, program.ID, groupID, 1000)

	cases := []struct {
		method     string
		wantStatus string
	}{
		{"check", models.StatusCheckReceived},
		{"virement", models.StatusPendingVerification},
	}
	for _, tc := range cases {
		w := performJSON(t, r, http.MethodPost, "/api/payments", map[string]interface{}{
			"enrollmentId": enrollment.ID,
			"amount":       200.0,
			"method":       tc.method,
		})
		mustStatus(t, w, http.StatusCreated)

		var payment models.Payment
		decodeBody(t, w, &payment)
		if payment.Status != tc.wantStatus {
			t.Errorf("%s status = %q, want %q", tc.method, payment.Status, tc.wantStatus)
		}
	}

	var reloaded models.Enrollment
	db.First(&reloaded, enrollment.ID)
	if reloaded.PaidAmount != 0 || reloaded.Balance != 1000 {
		t.Errorf("paid/balance = %v/%v, want 0/1000 before confirmation",
			reloaded.PaidAmount, reloaded.Balance)
	}
}

func TestConfirmPaymentFoldsIntoBalance(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	program := seedProgram(t, db)
	groupID := program.Grades[0].Groups[0].ID
	enrollment := seedEnrollment(t, program.ID, groupID, 1000)

	w := performJSON(t, r, http.MethodPost, "/api/payments", map[string]interface{}{
		"enrollmentId": enrollment.ID,
		"amount":       600.0,
		"method":       "check",
		"checkNumber":  "CHK-42",
	})
	mustStatus(t, w, http.StatusCreated)
	var payment models.Payment
	decodeBody(t, w, &payment)

	w = performJSON(t, r, http.MethodPost, fmt.Sprintf("/api/payments/%d/confirm", payment.ID), nil)
	mustStatus(t, w, http.StatusOK)

	var confirmed models.Payment
	decodeBody(t, w, &confirmed)
	if confirmed.Status != models.StatusPaid {
		t.Errorf("confirmed status = %q, want %q", confirmed.Status, models.StatusPaid)
	}

	var reloaded models.Enrollment
	db.First(&reloaded, enrollment.ID)
	if reloaded.PaidAmount != 600 || reloaded.Balance != 400 {
		t.Errorf("paid/balance = %v/%v, want 600/400", reloaded.PaidAmount, reloaded.Balance)
	}

	// A second confirm is rejected and the money columns stay put.
	w = performJSON(t, r, http.MethodPost, fmt.Sprintf("/api/payments/%d/confirm", payment.ID), nil)
	mustStatus(t, w, http.StatusBadRequest)
	db.First(&reloaded, enrollment.ID)
	if reloaded.PaidAmount != 600 {
		t.Errorf("paid after double confirm = %v, want 600", reloaded.PaidAmount)
	}
}

func TestDeletePaymentRecomputesBalance(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	program := seedProgram(t, db)
	groupID := program.Grades[0].Groups[0].ID
	enrollment := seedEnrollment(t, program.ID, groupID, 1000)

	w := performJSON(t, r, http.MethodPost, "/api/payments", map[string]interface{}{
		"enrollmentId": enrollment.ID,
		"amount":       500.0,
		"method":       "cash",
	})
	mustStatus(t, w, http.StatusCreated)
	var payment models.Payment
	decodeBody(t, w, &payment)

	w = performJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/payments/%d", payment.ID), nil)
	mustStatus(t, w, http.StatusOK)

	var reloaded models.Enrollment
	db.First(&reloaded, enrollment.ID)
	if reloaded.PaidAmount != 0 || reloaded.Balance != 1000 {
		t.Errorf("paid/balance after delete = %v/%v, want 0/1000",
			reloaded.PaidAmount, reloaded.Balance)
	}
}

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{1200, "one thousand two hundred MAD"},
		{450.5, "four hundred fifty MAD and 50/100"},
		// 0.29 has no exact float representation; naive truncation
		// yields 28/100.
		{0.29, "zero MAD and 29/100"},
		{19.99, "nineteen MAD and 99/100"},
	}
	for _, tt := range tests {
		if got := amountInWords(tt.amount, "MAD"); got != tt.want {
			t.Errorf("amountInWords(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestPendingWorklistAndReceipt(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	program := seedProgram(t, db)
	groupID := program.Grades[0].Groups[0].ID
	enrollment := seedEnrollment(t, program.ID, groupID, 1000)

	w := performJSON(t, r, http.MethodPost, "/api/payments", map[string]interface{}{
		"enrollmentId": enrollment.ID,
		"amount":       450.5,
		"method":       "virement",
	})
	mustStatus(t, w, http.StatusCreated)
	var payment models.Payment
	decodeBody(t, w, &payment)
	if payment.ReceiptNumber == "" {
		t.Fatal("payment has no receipt number")
	}

	w = performJSON(t, r, http.MethodGet, "/api/payments/pending", nil)
	mustStatus(t, w, http.StatusOK)
	var pending struct {
		TotalRows int64 `json:"totalRows"`
	}
	decodeBody(t, w, &pending)
	if pending.TotalRows != 1 {
		t.Errorf("pending rows = %d, want 1", pending.TotalRows)
	}

	w = performJSON(t, r, http.MethodGet, fmt.Sprintf("/api/payments/%d/receipt", payment.ID), nil)
	mustStatus(t, w, http.StatusOK)
	var receipt ReceiptResponse
	decodeBody(t, w, &receipt)
	if receipt.Amount != 450.5 {
		t.Errorf("receipt amount = %v, want 450.5", receipt.Amount)
	}
	if receipt.AmountInWords == "" {
		t.Error("receipt amount in words is empty")
	}
	if receipt.StudentName != "Neil Hamdouch" {
		t.Errorf("receipt student = %q, want Neil Hamdouch", receipt.StudentName)
	}
}
