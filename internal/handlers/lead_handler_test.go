package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"edufy-erp/models"
)

func TestLeadCaptureAndConvert(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	program := seedProgram(t, db)
	groupID := program.Grades[0].Groups[0].ID

	w := performJSON(t, r, http.MethodPost, "/api/leads", map[string]interface{}{
		"name":        "Yasmine Idrissi",
		"parentName":  "Khadija Idrissi",
		"parentPhone": "0611111111",
		"source":      "booking_form",
		"programId":   program.ID,
		"packName":    "Annual",
		"groupId":     groupID,
	})
	mustStatus(t, w, http.StatusCreated)

	var lead models.Lead
	decodeBody(t, w, &lead)
	if lead.Status != models.LeadStatusNew {
		t.Errorf("lead status = %q, want %q", lead.Status, models.LeadStatusNew)
	}

	w = performJSON(t, r, http.MethodPost, fmt.Sprintf("/api/leads/%d/convert", lead.ID), nil)
	mustStatus(t, w, http.StatusOK)

	var resp struct {
		WizardSeed struct {
			Student struct {
				Name        string `json:"name"`
				ParentPhone string `json:"parentPhone"`
			} `json:"student"`
			ProgramID *uint  `json:"programId"`
			PackName  string `json:"packName"`
		} `json:"wizardSeed"`
	}
	decodeBody(t, w, &resp)
	if resp.WizardSeed.Student.Name != "Yasmine Idrissi" {
		t.Errorf("seed name = %q, want Yasmine Idrissi", resp.WizardSeed.Student.Name)
	}
	if resp.WizardSeed.ProgramID == nil || *resp.WizardSeed.ProgramID != program.ID {
		t.Errorf("seed program = %v, want %d", resp.WizardSeed.ProgramID, program.ID)
	}
	if resp.WizardSeed.PackName != "Annual" {
		t.Errorf("seed pack = %q, want Annual", resp.WizardSeed.PackName)
	}

	var reloaded models.Lead
	db.First(&reloaded, lead.ID)
	if reloaded.Status != models.LeadStatusConverted {
		t.Errorf("lead status after convert = %q, want %q", reloaded.Status, models.LeadStatusConverted)
	}

	// Converting twice is an error.
	w = performJSON(t, r, http.MethodPost, fmt.Sprintf("/api/leads/%d/convert", lead.ID), nil)
	mustStatus(t, w, http.StatusBadRequest)
}

func TestPaymentPlanPreview(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()

	w := performJSON(t, r, http.MethodPost, "/api/payment-plans", map[string]interface{}{
		"name": "Three installments",
		"installments": []map[string]interface{}{
			{"month": 9, "day": 5, "formula": "Discounted / 2"},
			{"month": 12, "day": 5, "formula": "Discounted / 4"},
			{"month": 3, "day": 5, "formula": "Discounted / 4"},
		},
	})
	mustStatus(t, w, http.StatusCreated)

	var plan models.PaymentPlan
	decodeBody(t, w, &plan)
	if plan.InstallmentsCount != 3 {
		t.Fatalf("installments count = %d, want 3", plan.InstallmentsCount)
	}

	w = performJSON(t, r, http.MethodPost, fmt.Sprintf("/api/payment-plans/%d/preview", plan.ID),
		map[string]interface{}{
			"totalAmount":    1000.0,
			"discountAmount": 200.0,
			"session":        "2025-2026",
		})
	mustStatus(t, w, http.StatusOK)

	var preview struct {
		Schedule []InstallmentPreview `json:"schedule"`
		Total    float64              `json:"total"`
	}
	decodeBody(t, w, &preview)
	if len(preview.Schedule) != 3 {
		t.Fatalf("schedule lines = %d, want 3", len(preview.Schedule))
	}
	if preview.Total != 1000 {
		t.Errorf("schedule total = %v, want 1000", preview.Total)
	}
	// September and December fall in 2025, March rolls into 2026.
	wantDates := []string{"2025-09-05", "2025-12-05", "2026-03-05"}
	for i, want := range wantDates {
		if preview.Schedule[i].DueDate != want {
			t.Errorf("due date %d = %q, want %q", i, preview.Schedule[i].DueDate, want)
		}
	}
	if preview.Schedule[0].Amount != 500 {
		t.Errorf("first installment = %v, want 500", preview.Schedule[0].Amount)
	}
}

func TestPaymentPlanRejectsBrokenFormula(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()

	w := performJSON(t, r, http.MethodPost, "/api/payment-plans", map[string]interface{}{
		"name": "Broken",
		"installments": []map[string]interface{}{
			{"month": 9, "day": 5, "formula": "Discounted / / 2"},
		},
	})
	mustStatus(t, w, http.StatusBadRequest)
}
