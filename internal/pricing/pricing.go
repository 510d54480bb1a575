// edufy-erp/internal/pricing/pricing.go

// Package pricing derives tuition figures for the enrollment workflow.
// Everything here is a pure recomputation over the selected program, pack
// and in-progress payment entries; nothing touches the database.
package pricing

import (
	"math"

	"edufy-erp/models"
)

// StandardTuition returns the list price for a pack: the annual price for
// regular programs, the base price otherwise. Returns 0 when the program or
// pack is absent.
func StandardTuition(program *models.Program, packName string) float64 {
	if program == nil {
		return 0
	}
	pack := program.FindPack(packName)
	if pack == nil {
		return 0
	}
	if program.Type == models.ProgramTypeRegular {
		return pack.PriceAnnual
	}
	return pack.Price
}

// DiscountAmount is the raw difference between list and negotiated price.
// It can be negative when the desk negotiates above list; callers clamp
// with ClampDiscount before persisting.
func DiscountAmount(standardTuition, negotiatedPrice float64) float64 {
	return standardTuition - negotiatedPrice
}

// ClampDiscount floors a discount at zero for persistence.
func ClampDiscount(discount float64) float64 {
	if discount < 0 {
		return 0
	}
	return discount
}

// DiscountPercent returns the rounded discount percentage, 0 when the
// standard tuition is 0 (guards divide-by-zero).
func DiscountPercent(standardTuition, negotiatedPrice float64) int {
	if standardTuition == 0 {
		return 0
	}
	return int(math.Round(DiscountAmount(standardTuition, negotiatedPrice) / standardTuition * 100))
}

// Entry is one in-progress payment line of the wizard.
type Entry struct {
	Amount float64
	Method string
}

// RemainingBalance is the negotiated price minus everything entered so far,
// regardless of method.
func RemainingBalance(negotiatedPrice float64, entries []Entry) float64 {
	total := negotiatedPrice
	for _, e := range entries {
		total -= e.Amount
	}
	return total
}

// ClearedTotal sums the cash entries only. Checks and transfers are not
// cleared funds at creation time.
func ClearedTotal(entries []Entry) float64 {
	var sum float64
	for _, e := range entries {
		if e.Method == models.MethodCash {
			sum += e.Amount
		}
	}
	return sum
}
