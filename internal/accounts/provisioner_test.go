package accounts

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestUsernameFromName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"two tokens", "Neil Hamdouch", "n.hamdouch"},
		{"single token falls back", "Ali", "a.ali"},
		{"three tokens take the last", "Sara El Amrani", "s.amrani"},
		{"case folded", "YOUSSEF BENALI", "y.benali"},
		{"surrounding spaces", "  Lina Tazi  ", "l.tazi"},
		{"accented initial", "Élodie Martin", "é.martin"},
		{"accented upper initial folds", "ÉLODIE MARTIN", "é.martin"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UsernameFromName(tt.in)
			if got != tt.want {
				t.Errorf("UsernameFromName(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("UsernameFromName(%q) produced invalid UTF-8: %q", tt.in, got)
			}
		})
	}
}

func TestRandomPassword(t *testing.T) {
	for _, length := range []int{StudentPasswordLength, ParentPasswordLength} {
		pwd := RandomPassword(length)
		if len(pwd) != length {
			t.Fatalf("RandomPassword(%d) returned %d characters", length, len(pwd))
		}
		for _, r := range pwd {
			if !strings.ContainsRune(base36, r) {
				t.Fatalf("password %q contains non-base36 rune %q", pwd, r)
			}
		}
	}

	// 100 draws of 6 base36 chars; a collision means the generator is broken.
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		p := RandomPassword(StudentPasswordLength)
		if _, dup := seen[p]; dup {
			t.Fatalf("duplicate password %q generated", p)
		}
		seen[p] = struct{}{}
	}
}
