package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment links a student to a program/pack/slot and carries the money
// columns. Invariant: balance == total_amount - paid_amount after every
// mutation, where paid_amount counts cleared (cash/confirmed) payments only.
type Enrollment struct {
	ID        uint           `gorm:"primaryKey"            json:"ID"`
	CreatedAt time.Time      `                             json:"CreatedAt"`
	UpdatedAt time.Time      `                             json:"UpdatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index"                 json:"DeletedAt"`

	OrgID *uint `gorm:"column:org_id;index" json:"orgId"`

	StudentID uint     `gorm:"column:student_id;index" json:"studentId"`
	Student   *Student `gorm:"foreignKey:StudentID"    json:"student,omitempty"`

	ProgramID     uint   `gorm:"column:program_id;index" json:"programId"`
	Program       *Program `gorm:"foreignKey:ProgramID"  json:"program,omitempty"`
	PackName      string `gorm:"column:pack_name"        json:"packName"`
	GradeID       *uint  `gorm:"column:grade_id"         json:"gradeId,omitempty"`
	GroupID       *uint  `gorm:"column:group_id"         json:"groupId,omitempty"`
	SecondGroupID *uint  `gorm:"column:second_group_id"  json:"secondGroupId,omitempty"`

	TotalAmount    float64 `gorm:"column:total_amount"    json:"totalAmount"`
	DiscountAmount float64 `gorm:"column:discount_amount" json:"discountAmount"`
	PaidAmount     float64 `gorm:"column:paid_amount"     json:"paidAmount"`
	Balance        float64 `gorm:"column:balance"         json:"balance"`

	Status  string `gorm:"column:status;default:active" json:"status"`
	Session string `gorm:"column:session;index"         json:"session"`

	// Dedupe key for wizard resubmissions; NULL for legacy rows so the
	// unique index only bites on real keys.
	IdempotencyKey *string `gorm:"column:idempotency_key;uniqueIndex" json:"idempotencyKey,omitempty"`

	Payments []Payment `gorm:"foreignKey:EnrollmentID" json:"payments,omitempty"`
}

func (Enrollment) TableName() string { return "enrollments" }
