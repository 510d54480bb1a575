package models

import "testing"

func TestPermissionsAllow(t *testing.T) {
	tests := []struct {
		name     string
		granted  []string
		required string
		want     bool
	}{
		{"exact match", []string{"students.view"}, "students.view", true},
		{"namespace wildcard matches view", []string{"finance.*"}, "finance.view", true},
		{"namespace wildcard matches record", []string{"finance.*"}, "finance.record_payment", true},
		{"namespace wildcard does not cross namespaces", []string{"finance.*"}, "students.view", false},
		{"global wildcard", []string{"*"}, "anything.at_all", true},
		{"no grant", []string{"students.view"}, "students.edit", false},
		{"empty set", nil, "students.view", false},
		{"wildcard is not a prefix match", []string{"finance.*"}, "financereports.view", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PermissionsAllow(tt.granted, tt.required); got != tt.want {
				t.Errorf("PermissionsAllow(%v, %q) = %v, want %v", tt.granted, tt.required, got, tt.want)
			}
		})
	}
}

func TestAcademicSession(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		month int
		want  string
	}{
		{"october is in the started year", "2025-10-15", 9, "2025-2026"},
		{"may belongs to the previous start", "2026-05-01", 9, "2025-2026"},
		{"september starts the new year", "2026-09-01", 9, "2026-2027"},
		{"bad start month falls back to september", "2025-10-15", 0, "2025-2026"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := mustParseDate(t, tt.date)
			if got := AcademicSession(d, tt.month); got != tt.want {
				t.Errorf("AcademicSession(%s, %d) = %q, want %q", tt.date, tt.month, got, tt.want)
			}
		})
	}
}
