package models

import (
	"testing"
	"time"
)

func mustParseDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestStatusForMethod(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{MethodCash, StatusPaid},
		{MethodCheck, StatusCheckReceived},
		{MethodTransfer, StatusPendingVerification},
		{"carrier_pigeon", StatusPendingVerification},
	}
	for _, tt := range tests {
		if got := StatusForMethod(tt.method); got != tt.want {
			t.Errorf("StatusForMethod(%q) = %q, want %q", tt.method, got, tt.want)
		}
	}
}

func TestCountsTowardBalance(t *testing.T) {
	if !(&Payment{Status: StatusPaid}).CountsTowardBalance() {
		t.Error("paid payment should count toward balance")
	}
	if (&Payment{Status: StatusCheckReceived}).CountsTowardBalance() {
		t.Error("received check must not count toward balance")
	}
	if (&Payment{Status: StatusPendingVerification}).CountsTowardBalance() {
		t.Error("unverified transfer must not count toward balance")
	}
}
