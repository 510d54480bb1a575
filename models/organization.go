package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Organization is a tenant: one customer academy's data partition.
type Organization struct {
	gorm.Model
	Name     string                `json:"name" gorm:"not null"`
	Settings *OrganizationSettings `json:"settings,omitempty" gorm:"foreignKey:OrgID"`
}

// OrganizationSettings is the per-tenant global settings row.
type OrganizationSettings struct {
	gorm.Model
	OrgID uint `json:"orgId" gorm:"uniqueIndex"`

	Currency           string `json:"currency" gorm:"default:MAD"`
	AcademicYearStart  int    `json:"academicYearStart" gorm:"default:9"` // month number
	AccountEmailDomain string `json:"accountEmailDomain"`
}

// AcademicSession returns the academic-year tag for a date, e.g.
// "2025-2026" for any date from September 2025 through August 2026 when the
// year starts in month 9.
func AcademicSession(t time.Time, startMonth int) string {
	if startMonth < 1 || startMonth > 12 {
		startMonth = 9
	}
	year := t.Year()
	if int(t.Month()) < startMonth {
		year--
	}
	return fmt.Sprintf("%d-%d", year, year+1)
}
