// edufy-erp/models/student.go

package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginInfo holds auto-provisioned credentials linked to a student or parent.
// InitialPassword is kept in plaintext on purpose: the front desk prints it
// once for the family; the users table only ever stores the bcrypt hash.
type LoginInfo struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	InitialPassword string `json:"initialPassword"`
	UserID          *uint  `json:"userId"`
}

// Student represents the student record in the database.
type Student struct {
	gorm.Model
	OrgID *uint `json:"orgId" gorm:"index"`

	Name        string     `json:"name" gorm:"not null"`
	BirthDate   *time.Time `json:"birthDate"`
	School      string     `json:"school"`
	Status      string     `json:"status" gorm:"default:active"`
	ParentName  string     `json:"parentName"`
	ParentPhone string     `json:"parentPhone"`
	ParentEmail string     `json:"parentEmail"`

	LoginInfo       LoginInfo `json:"loginInfo" gorm:"embedded;embeddedPrefix:login_"`
	ParentLoginInfo LoginInfo `json:"parentLoginInfo" gorm:"embedded;embeddedPrefix:parent_login_"`

	Enrollments []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:StudentID"`
}
