package validate

import (
	"strings"
	"testing"
)

func TestID(t *testing.T) {
	for _, ok := range []string{"p-1", "u_marta", "ABC123", " trimmed-id "} {
		if _, valid := ID(ok); !valid {
			t.Errorf("ID(%q) rejected", ok)
		}
	}
	for _, bad := range []string{"", "  ", "a b", "p/1", "p;drop", strings.Repeat("x", 65)} {
		if _, valid := ID(bad); valid {
			t.Errorf("ID(%q) accepted", bad)
		}
	}
	if got, _ := ID(" p-1 "); got != "p-1" {
		t.Errorf("ID not trimmed: %q", got)
	}
}

func TestUsername(t *testing.T) {
	if got, ok := Username("  Marta "); !ok || got != "marta" {
		t.Errorf("Username = %q, %v", got, ok)
	}
	for _, bad := range []string{"", "m", "has space", "uñicode", strings.Repeat("a", 33)} {
		if _, ok := Username(bad); ok {
			t.Errorf("Username(%q) accepted", bad)
		}
	}
}

func TestLabel(t *testing.T) {
	if got, ok := Label(" Terrace 1 "); !ok || got != "Terrace 1" {
		t.Errorf("Label = %q, %v", got, ok)
	}
	if _, ok := Label(""); ok {
		t.Error("empty label accepted")
	}
	if _, ok := Label(strings.Repeat("x", 31)); ok {
		t.Error("overlong label accepted")
	}
}

func TestPassword(t *testing.T) {
	if !Password("12345678") || !Password(strings.Repeat("x", 64)) {
		t.Error("boundary lengths rejected")
	}
	if Password("1234567") || Password(strings.Repeat("x", 65)) {
		t.Error("out-of-window lengths accepted")
	}
}

func TestDateRange(t *testing.T) {
	start, end, ok := DateRange("2026-01-01T00:00:00Z", "2026-01-31T23:59:59Z")
	if !ok || !end.After(start) {
		t.Fatalf("valid range rejected: %v %v %v", start, end, ok)
	}

	if _, _, ok := DateRange("2026-01-31T00:00:00Z", "2026-01-01T00:00:00Z"); ok {
		t.Error("inverted range accepted")
	}
	if _, _, ok := DateRange("not-a-date", "2026-01-01T00:00:00Z"); ok {
		t.Error("garbage start accepted")
	}
	if _, _, ok := DateRange("2026-01-01T00:00:00Z", "31/01/2026"); ok {
		t.Error("garbage end accepted")
	}

	// equal endpoints are a valid single-instant window
	if _, _, ok := DateRange("2026-01-01T00:00:00Z", "2026-01-01T00:00:00Z"); !ok {
		t.Error("equal endpoints rejected")
	}
}
