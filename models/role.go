package models

// Role groups permissions. The "admin" role is special-cased everywhere:
// always allowed, never editable through the permission matrix.
type Role struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"unique;not null"`
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions" gorm:"many2many:role_permissions;"`
}

// AdminRoleName is the hard-coded superuser role.
const AdminRoleName = "admin"

// Built-in roles assigned by the account auto-provisioner.
const (
	StudentRoleName = "student"
	ParentRoleName  = "parent"
)
