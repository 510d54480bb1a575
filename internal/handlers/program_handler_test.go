package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"edufy-erp/models"
)

func TestUpdateProgramKeepsSlotIDs(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	program := seedProgram(t, db)
	gradeID := program.Grades[0].ID
	groupID := program.Grades[0].Groups[0].ID

	// An enrollment referencing the slot, as the catalog screen will find
	// in any live install.
	enrollment := seedEnrollment(t, program.ID, groupID, 1000)
	if enrollment.GroupID == nil || *enrollment.GroupID != groupID {
		t.Fatalf("seed enrollment group = %v, want %d", enrollment.GroupID, groupID)
	}

	// Edit the slot time, add a second slot, keep everything else.
	body := map[string]interface{}{
		"name": "Robotics",
		"type": models.ProgramTypeRegular,
		"packs": []map[string]interface{}{
			{"name": "Annual", "price": 150, "priceAnnual": 1300},
		},
		"grades": []map[string]interface{}{
			{"name": "CM1-CM2", "groups": []map[string]interface{}{
				{"name": "Saturday Morning", "day": "Saturday", "time": "11:00"},
				{"name": "Wednesday Afternoon", "day": "Wednesday", "time": "15:00"},
			}},
		},
	}
	w := performJSON(t, r, http.MethodPut, fmt.Sprintf("/api/programs/%d", program.ID), body)
	mustStatus(t, w, http.StatusOK)

	// The edited slot kept its id, so the enrollment still resolves.
	var group models.Group
	if err := db.First(&group, groupID).Error; err != nil {
		t.Fatalf("group %d no longer resolves after update: %v", groupID, err)
	}
	if group.Time != "11:00" {
		t.Errorf("group time = %q, want 11:00", group.Time)
	}
	if group.GradeID != gradeID {
		t.Errorf("group grade = %d, want %d", group.GradeID, gradeID)
	}

	var updated models.Program
	if err := db.Preload("Packs").Preload("Grades.Groups").First(&updated, program.ID).Error; err != nil {
		t.Fatalf("reload program: %v", err)
	}
	if len(updated.Grades) != 1 || updated.Grades[0].ID != gradeID {
		t.Fatalf("grade was recreated instead of kept: %+v", updated.Grades)
	}
	if len(updated.Grades[0].Groups) != 2 {
		t.Errorf("groups = %d, want 2", len(updated.Grades[0].Groups))
	}
	if updated.Packs[0].PriceAnnual != 1300 {
		t.Errorf("pack annual price = %v, want 1300", updated.Packs[0].PriceAnnual)
	}
}

func TestUpdateProgramRemovesDroppedSlots(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	program := seedProgram(t, db)
	groupID := program.Grades[0].Groups[0].ID

	body := map[string]interface{}{
		"name":  "Robotics",
		"type":  models.ProgramTypeRegular,
		"packs": []map[string]interface{}{},
		"grades": []map[string]interface{}{
			{"name": "CM1-CM2", "groups": []map[string]interface{}{}},
		},
	}
	w := performJSON(t, r, http.MethodPut, fmt.Sprintf("/api/programs/%d", program.ID), body)
	mustStatus(t, w, http.StatusOK)

	var group models.Group
	if err := db.First(&group, groupID).Error; err == nil {
		t.Errorf("dropped group %d still resolves", groupID)
	}
	var packCount int64
	db.Model(&models.Pack{}).Where("program_id = ?", program.ID).Count(&packCount)
	if packCount != 0 {
		t.Errorf("pack count = %d, want 0", packCount)
	}
}

func TestQuoteClampsAboveListPrice(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	program := seedProgram(t, db)

	quote := func(price float64) (amount float64, percent float64) {
		w := performJSON(t, r, http.MethodPost, fmt.Sprintf("/api/programs/%d/quote", program.ID),
			map[string]interface{}{"packName": "Annual", "negotiatedPrice": price})
		mustStatus(t, w, http.StatusOK)
		var resp struct {
			DiscountAmount  float64 `json:"discountAmount"`
			DiscountPercent float64 `json:"discountPercent"`
		}
		decodeBody(t, w, &resp)
		return resp.DiscountAmount, resp.DiscountPercent
	}

	// Below list: 1200 standard, 1000 negotiated.
	amount, percent := quote(1000)
	if amount != 200 || percent != 17 {
		t.Errorf("quote(1000) = %v / %v%%, want 200 / 17%%", amount, percent)
	}

	// Above list: both figures clamp to zero, matching what submission
	// persists.
	amount, percent = quote(1500)
	if amount != 0 || percent != 0 {
		t.Errorf("quote(1500) = %v / %v%%, want 0 / 0%%", amount, percent)
	}
}
