// edufy-erp/models/permission.go
package models

import "strings"

// Permission is one grantable action id, namespaced with a dot:
// "finance.record_payment", "students.view". Category groups rows in the
// settings matrix.
type Permission struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"unique;not null"`
	Description string `json:"description"`
	Category    string `json:"category" gorm:"not null"`
}

// PermissionsAllow reports whether a permission set grants the required id.
// A set allows an id when it contains "*", the exact id, or a namespace
// wildcard like "finance.*".
func PermissionsAllow(granted []string, required string) bool {
	for _, g := range granted {
		if g == "*" || g == required {
			return true
		}
		if ns, ok := strings.CutSuffix(g, ".*"); ok {
			if strings.HasPrefix(required, ns+".") {
				return true
			}
		}
	}
	return false
}
