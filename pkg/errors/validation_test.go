package errors

import (
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "linked-list", false},
		{"valid with underscore", "bst_v2", false},
		{"valid with dot", "queue.demo", false},
		{"valid digits", "2024", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"path traversal", "foo/../bar", true},
		{"slash", "foo/bar", true},
		{"backslash", "foo\\bar", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"leading dot", ".hidden", true},
		{"space", "my diagram", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	allowed := []string{"svg", "png"}

	if err := ValidateFormat("svg", allowed); err != nil {
		t.Errorf("ValidateFormat(svg) = %v, want nil", err)
	}

	err := ValidateFormat("gif", allowed)
	if err == nil {
		t.Fatal("ValidateFormat(gif) = nil, want error")
	}
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidFormat)
	}
}
