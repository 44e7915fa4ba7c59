package utils_test

import (
	"reflect"
	"testing"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
)

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{name: "Regular email", email: "user@example.com", want: "u**r@example.com"},
		{name: "Short local part", email: "ab@example.com", want: "ab@example.com"},
		{name: "Not an email", email: "not-an-email", want: "not-an-email"},
		{name: "Two at signs", email: "a@b@c", want: "a@b@c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := utils.MaskEmail(tt.email); got != tt.want {
				t.Errorf("MaskEmail() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSanitizeKeys(t *testing.T) {
	input := map[string]interface{}{
		"email":         "user@example.com",
		"password_hash": "$2a$10$abc",
		"newPassword":   "secret1",
		"nested": map[string]interface{}{
			"token": "raw",
			"id":    7,
		},
		"list": []map[string]interface{}{{"refreshToken": "r"}},
	}

	got := utils.SanitizeKeys(input)

	want := map[string]interface{}{
		"email":         "user@example.com",
		"password_hash": "[REDACTED]",
		"newPassword":   "[REDACTED]",
		"nested": map[string]interface{}{
			"token": "[REDACTED]",
			"id":    7,
		},
		"list": []map[string]interface{}{{"refreshToken": "[REDACTED]"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SanitizeKeys() = %v, want %v", got, want)
	}
	if input["password_hash"] != "$2a$10$abc" {
		t.Errorf("SanitizeKeys() must not modify its input")
	}
}

func TestSplitCSV(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{name: "Empty", value: "", want: nil},
		{name: "Whitespace only", value: "  ", want: nil},
		{name: "Single", value: "go", want: []string{"go"}},
		{name: "Trims and drops empties", value: " go, ,sql ,", want: []string{"go", "sql"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := utils.SplitCSV(tt.value); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitCSV(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "golang", want: "golang"},
		{in: "100%", want: `100\%`},
		{in: "snake_case", want: `snake\_case`},
		{in: `back\slash`, want: `back\\slash`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := utils.EscapeLike(tt.in); got != tt.want {
				t.Errorf("EscapeLike(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
