package core

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAppID(t *testing.T) {
	valid := []string{"boletapp", "boletapp-dev", "boletapp-staging"}
	for _, appID := range valid {
		if err := ValidateAppID(appID); err != nil {
			t.Errorf("ValidateAppID(%q): unexpected error %v", appID, err)
		}
	}

	invalid := []string{
		"",
		"unknown-app",
		"Boletapp",
		"boletapp/../secrets",
		"-boletapp",
		strings.Repeat("a", 64),
	}
	for _, appID := range invalid {
		if err := ValidateAppID(appID); !errors.Is(err, ErrInvalidAppID) {
			t.Errorf("ValidateAppID(%q): expected ErrInvalidAppID, got %v", appID, err)
		}
	}
}

func TestValidateGroupName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"valid name", "Family Budget", "Family Budget", false},
		{"trimmed before bounds check", "  AB  ", "AB", false},
		{"markup stripped before bounds check", "<b>A</b>", "", true},
		{"script payload removed entirely", "<script>x</script>AB", "AB", false},
		{"one character too short", "A", "", true},
		{"two characters is the minimum", "Ok", "Ok", false},
		{"over-long input capped to the maximum", strings.Repeat("x", 51), strings.Repeat("x", 50), false},
		{"whitespace only", "    ", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateGroupName(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidGroupName) {
					t.Fatalf("expected ErrInvalidGroupName, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("sanitized name: expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestValidateGroupIconAndColor(t *testing.T) {
	if err := validateGroupIcon("home"); err != nil {
		t.Errorf("icon 'home' should be allowed, got %v", err)
	}
	if err := validateGroupIcon("rocket"); !errors.Is(err, ErrInvalidGroupIcon) {
		t.Errorf("icon 'rocket' should be rejected, got %v", err)
	}
	if err := validateGroupIcon(""); !errors.Is(err, ErrInvalidGroupIcon) {
		t.Errorf("empty icon should be rejected, got %v", err)
	}

	if err := validateGroupColor("#10B981"); err != nil {
		t.Errorf("color '#10B981' should be allowed, got %v", err)
	}
	if err := validateGroupColor("#123456"); !errors.Is(err, ErrInvalidGroupColor) {
		t.Errorf("off-palette color should be rejected, got %v", err)
	}
	// Whitelist membership is exact, including case.
	if err := validateGroupColor("#10b981"); !errors.Is(err, ErrInvalidGroupColor) {
		t.Errorf("lowercase variant should be rejected, got %v", err)
	}
}
