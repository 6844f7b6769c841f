package utils

import (
	"testing"

	"onnrides/internal/payment"
)

func TestFormatINR(t *testing.T) {
	cases := []struct {
		in   payment.Paise
		want string
	}{
		{0, "Rs 0.00"},
		{50, "Rs 0.50"},
		{100, "Rs 1.00"},
		{85000, "Rs 850.00"},
		{123456789, "Rs 12,34,567.89"},
		{10000000000, "Rs 10,00,00,000.00"},
		{-85050, "-Rs 850.50"},
	}
	for _, tc := range cases {
		if got := FormatINR(tc.in); got != tc.want {
			t.Errorf("FormatINR(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseRupees(t *testing.T) {
	cases := []struct {
		in   string
		want payment.Paise
	}{
		{"1500", 150000},
		{"1500.50", 150050},
		{"Rs 1,500", 150000},
		{"rs 850.25", 85025},
	}
	for _, tc := range cases {
		got, err := ParseRupees(tc.in)
		if err != nil {
			t.Errorf("ParseRupees(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseRupees(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "abc", "-100"} {
		if _, err := ParseRupees(bad); err == nil {
			t.Errorf("ParseRupees(%q) expected error", bad)
		}
	}
}
