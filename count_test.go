package instagram

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseCount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want int
	}{
		{"1,234", 1234},
		{"5.6K", 5600},
		{"5.6k", 5600},
		{"2M", 2_000_000},
		{"1.2m", 1_200_000},
		{"12,345,678", 12_345_678},
		{" 42 ", 42},
		{"12.5", 12},
		{"987 posts", 987},
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"k", 0},
		{"-5", 0},
		{"-1k", 0},
		{"1e30k", 0},
		{"9.3e15k", 0},
		{"99999999999999999999m", 0},
		{"99999999999999999999", 0},
	}
	for _, tt := range tests {
		if got := ParseCount(tt.in); got != tt.want {
			t.Errorf("ParseCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// A JSON null decodes to the empty string, which must parse as 0.
func TestParseCount_Null(t *testing.T) {
	t.Parallel()
	var v struct {
		Likes string `json:"likes"`
	}
	if err := json.Unmarshal([]byte(`{"likes":null}`), &v); err != nil {
		t.Fatal(err)
	}
	if got := ParseCount(v.Likes); got != 0 {
		t.Errorf("ParseCount(null) = %d, want 0", got)
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		valid bool
	}{
		{"valid.name_1", true},
		{"natgeo", true},
		{"_under", true},
		{"a", true},
		{strings.Repeat("a", 30), true},
		{"bad..name", false},
		{".leading", false},
		{"trailing.", false},
		{"", false},
		{strings.Repeat("a", 31), false},
		{"has space", false},
		{"dash-name", false},
		{"émoji", false},
	}
	for _, tt := range tests {
		err := ValidateUsername(tt.name)
		if tt.valid && err != nil {
			t.Errorf("ValidateUsername(%q) = %v, want nil", tt.name, err)
		}
		if !tt.valid && !errors.Is(err, ErrValidation) {
			t.Errorf("ValidateUsername(%q) = %v, want ErrValidation", tt.name, err)
		}
	}
}
