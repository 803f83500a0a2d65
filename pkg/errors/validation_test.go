package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateDirection(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"LR", false},
		{"TB", false},
		{"", true},
		{"lr", true},
		{"RL", true},
		{"BT", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateDirection(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDirection(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDirection) {
				t.Errorf("code = %s, want %s", GetCode(err), ErrCodeInvalidDirection)
			}
		})
	}
}

func TestValidateSpacing(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 150, false},
		{"fraction", 0.5, false},
		{"negative", -1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSpacing("node_sep", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSpacing(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "node_sep") {
				t.Errorf("message %q should name the parameter", err)
			}
		})
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "users", false},
		{"underscore", "post_tags", false},
		{"empty", "", true},
		{"space", "user s", true},
		{"control", "a\x01b", true},
		{"too long", strings.Repeat("a", 300), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSchemaText(t *testing.T) {
	if err := ValidateSchemaText("Table a {\n id int\n}"); err != nil {
		t.Errorf("valid text: %v", err)
	}
	if err := ValidateSchemaText(""); err != nil {
		t.Errorf("empty text: %v", err)
	}
	if err := ValidateSchemaText("a\x00b"); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("null byte: got %v", err)
	}
	if err := ValidateSchemaText(strings.Repeat("x", MaxSchemaBytes+1)); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("oversized: got %v", err)
	}
}

func TestValidateFormat(t *testing.T) {
	if err := ValidateFormat("svg", "svg", "png"); err != nil {
		t.Errorf("svg: %v", err)
	}
	if err := ValidateFormat("gif", "svg", "png"); !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("gif: got %v", err)
	}
}
