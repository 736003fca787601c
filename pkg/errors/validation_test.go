package errors

import (
	"testing"
)

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "husky", false},
		{"valid with dash", "lint-staged", false},
		{"valid with dot", "my.package", false},
		{"valid scoped npm", "@types/node", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"path traversal ..", "foo/../bar", true},
		{"path traversal //", "foo//bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNpmPackageName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"tailwindcss", false},
		{"@typescript-eslint/parser", false},
		{"@ginterdev/toolkit", false},
		{"React", true},
		{"has space", true},
		{"@scope", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateNpmPackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNpmPackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPackage) {
				t.Errorf("expected INVALID_PACKAGE code, got %v", GetCode(err))
			}
		})
	}
}

func TestValidateVersion(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"12.20.1", false},
		{"v20.11.0", false},
		{"18", true},
		{"latest", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateVersion(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVersion(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
