package pricing

import (
	"testing"

	"edufy-erp/models"
)

func regularProgram() *models.Program {
	return &models.Program{
		Name: "Coding Club",
		Type: models.ProgramTypeRegular,
		Packs: []models.Pack{
			{Name: "Monthly", Price: 400, PriceAnnual: 4000},
			{Name: "Trimester", Price: 1100, PriceAnnual: 4200},
		},
	}
}

func TestStandardTuition(t *testing.T) {
	regular := regularProgram()
	workshop := &models.Program{
		Name:  "Robotics Workshop",
		Type:  "Workshop",
		Packs: []models.Pack{{Name: "Monthly", Price: 500, PriceAnnual: 5000}},
	}

	tests := []struct {
		name     string
		program  *models.Program
		packName string
		want     float64
	}{
		{"regular program uses annual price", regular, "Monthly", 4000},
		{"other program uses base price", workshop, "Monthly", 500},
		{"unknown pack", regular, "Quarterly", 0},
		{"nil program", nil, "Monthly", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StandardTuition(tt.program, tt.packName); got != tt.want {
				t.Errorf("StandardTuition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		name       string
		standard   float64
		negotiated float64
		want       int
	}{
		{"quarter off", 4000, 3000, 25},
		{"no discount", 4000, 4000, 0},
		{"rounding", 3000, 2000, 33},
		{"zero tuition guards division", 0, 1000, 0},
		{"negotiated above list goes negative", 4000, 4400, -10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DiscountPercent(tt.standard, tt.negotiated); got != tt.want {
				t.Errorf("DiscountPercent(%v, %v) = %v, want %v", tt.standard, tt.negotiated, got, tt.want)
			}
		})
	}
}

func TestClampDiscount(t *testing.T) {
	if got := ClampDiscount(-400); got != 0 {
		t.Errorf("ClampDiscount(-400) = %v, want 0", got)
	}
	if got := ClampDiscount(250); got != 250 {
		t.Errorf("ClampDiscount(250) = %v, want 250", got)
	}
}

func TestRemainingBalance(t *testing.T) {
	entries := []Entry{
		{Amount: 400, Method: models.MethodCash},
		{Amount: 600, Method: models.MethodCheck},
	}
	if got := RemainingBalance(1000, entries); got != 0 {
		t.Errorf("RemainingBalance() = %v, want 0", got)
	}
	if got := RemainingBalance(1000, nil); got != 1000 {
		t.Errorf("RemainingBalance() with no entries = %v, want 1000", got)
	}
}

func TestClearedTotal(t *testing.T) {
	entries := []Entry{
		{Amount: 400, Method: models.MethodCash},
		{Amount: 600, Method: models.MethodCheck},
		{Amount: 200, Method: models.MethodTransfer},
	}
	// Only cash clears at creation time.
	if got := ClearedTotal(entries); got != 400 {
		t.Errorf("ClearedTotal() = %v, want 400", got)
	}
}
