// edufy-erp/models/user.go
package models

import "gorm.io/gorm"

// User is an account that can sign in: staff, students and parents alike.
// Student/parent accounts are auto-provisioned during enrollment.
type User struct {
	gorm.Model
	OrgID *uint `json:"orgId" gorm:"index"`

	Login    string `json:"login" gorm:"uniqueIndex;not null"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Password string `json:"-"`
	Status   string `json:"status" gorm:"default:active"`

	Roles []Role `json:"roles" gorm:"many2many:user_roles;"`
}
