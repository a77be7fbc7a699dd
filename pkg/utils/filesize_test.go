package utils

import "testing"

func TestParseSize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
	}{
		{"bytes", "512B", 512},
		{"no unit", "2048", 2048},
		{"1KB", "1KB", 1024},
		{"1MB", "1MB", 1024 * 1024},
		{"1GB", "1GB", 1024 * 1024 * 1024},
		{"1TB", "1TB", 1024 * 1024 * 1024 * 1024},
		{"fractional", "1.5KB", 1536},
		{"lowercase", "100kb", 100 * 1024},
		{"short unit", "2M", 2 * 1024 * 1024},
		{"leading space", " 100MB", 100 * 1024 * 1024},
		{"trailing space", "100MB ", 100 * 1024 * 1024},
		{"zero", "0", 0},
		{"zero with unit", "0KB", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseSize(tt.input)
			if err != nil {
				t.Fatalf("ParseSize(%q) returned error: %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseSizeInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"only spaces", "   "},
		{"only unit", "MB"},
		{"unknown unit", "100XB"},
		{"negative value", "-100MB"},
		{"garbage", "abcMB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSize(tt.input); err == nil {
				t.Errorf("ParseSize(%q) expected error, got nil", tt.input)
			}
		})
	}
}
