package errors

import (
	"strings"
	"testing"
)

func TestValidateRouteName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Home", false},
		{"valid with dash", "order-detail", false},
		{"valid with space inside", "Order Detail", false},
		{"valid unicode", "Início", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"control char", "Home\x01", true},
		{"newline", "Ho\nme", true},
		{"leading space", " Home", true},
		{"trailing space", "Home ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRouteName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRouteName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidRouteName) {
				t.Errorf("ValidateRouteName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidRouteName)
			}
		})
	}
}

func TestValidateStoreKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "default", false},
		{"valid with colon", "user:123:nav", false},
		{"valid with dots", "app.v2", false},

		{"empty", "", true},
		{"too long", strings.Repeat("k", 300), true},
		{"path traversal", "..", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"control char", "a\x1bb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStoreKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStoreKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
