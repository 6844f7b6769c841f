package utils

import (
	"fmt"
	"strconv"
	"strings"

	"onnrides/internal/payment"
)

// FormatINR renders a paise amount as rupees with Indian digit grouping,
// e.g. 123456789 paise -> "Rs 12,34,567.89".
func FormatINR(p payment.Paise) string {
	sign := ""
	v := int64(p)
	if v < 0 {
		sign = "-"
		v = -v
	}
	rupees := v / payment.PaisePerRupee
	paise := v % payment.PaisePerRupee
	return fmt.Sprintf("%sRs %s.%02d", sign, groupIndian(rupees), paise)
}

// ParseRupees parses "Rs 1,500", "1500" or "1500.50" into paise.
func ParseRupees(s string) (payment.Paise, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.ToLower(s), "rs")
	s = strings.TrimPrefix(s, ".")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, fmt.Errorf("invalid rupee amount")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rupee amount: %w", err)
	}
	return payment.FromRupees(v)
}

// groupIndian applies lakh/crore grouping: last three digits, then pairs.
func groupIndian(n int64) string {
	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 {
		return str
	}
	head := str[:len(str)-3]
	tail := str[len(str)-3:]
	var out strings.Builder
	for i, c := range head {
		if i != 0 && (len(head)-i)%2 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String() + "," + tail
}
