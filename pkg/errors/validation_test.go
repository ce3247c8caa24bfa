package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Alice", false},
		{"with spaces", "Acme Corp", false},
		{"unicode", "Zürich", false},
		{"punctuation", "node/../x", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxNodeIDLength+1), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSnapshot) {
				t.Errorf("ValidateNodeID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidSnapshot)
			}
		})
	}
}

func TestValidateViewport(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		wantErr bool
	}{
		{"typical", 800, 600, false},
		{"collapsed", 0, 0, false},
		{"negative width", -1, 600, true},
		{"nan height", 800, math.NaN(), true},
		{"inf width", math.Inf(1), 600, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateViewport(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateViewport(%v, %v) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePoint(t *testing.T) {
	if err := ValidatePoint(10, -20); err != nil {
		t.Errorf("ValidatePoint(10, -20) error = %v", err)
	}
	err := ValidatePoint(math.NaN(), 0)
	if !Is(err, ErrCodeInvalidPointer) {
		t.Errorf("ValidatePoint(NaN, 0) code = %v, want %v", GetCode(err), ErrCodeInvalidPointer)
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out/graph.svg", false},
		{"absolute", "/tmp/graph.svg", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"control char", "graph\x07.svg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
