package models

import "gorm.io/gorm"

// Lead statuses.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusConverted = "converted"
	LeadStatusLost      = "lost"
)

// Lead is a CRM capture record. A lead can seed the enrollment wizard's
// initial form (name, parent contact, selected program/pack/slot).
type Lead struct {
	gorm.Model
	OrgID *uint `json:"orgId" gorm:"index"`

	Name        string `json:"name" gorm:"not null"`
	ParentName  string `json:"parentName"`
	ParentPhone string `json:"parentPhone"`
	ParentEmail string `json:"parentEmail"`
	Source      string `json:"source"`

	ProgramID *uint  `json:"programId,omitempty"`
	PackName  string `json:"packName,omitempty"`
	GroupID   *uint  `json:"groupId,omitempty"`

	Status string `json:"status" gorm:"default:new"`
	Notes  string `json:"notes"`
}
