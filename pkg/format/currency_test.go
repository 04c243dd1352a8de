package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "$0.00"},
		{12.5, "$12.50"},
		{1234.567, "$1,234.57"},
		{-1234.56, "-$1,234.56"},
		{1000000, "$1,000,000.00"},
		{-0.001, "$0.00"},
	}

	for _, tt := range tests {
		if got := Currency(tt.input); got != tt.expected {
			t.Errorf("Currency(%v) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestNumericCurrency(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{999.999, "1,000.00"},
		{-45000.1, "-45,000.10"},
		{7, "7.00"},
	}

	for _, tt := range tests {
		if got := NumericCurrency(tt.input); got != tt.expected {
			t.Errorf("NumericCurrency(%v) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestPlain(t *testing.T) {
	if got := Plain(-1234.5); got != "-1234.50" {
		t.Errorf("Plain(-1234.5) = %q, expected -1234.50", got)
	}
	if got := Plain(0.105); got != "0.11" {
		t.Errorf("Plain(0.105) = %q, expected 0.11", got)
	}
}
