package payment

import (
	"fmt"
	"math"
)

// Paise is a fixed-point INR amount in minor units (1 rupee = 100 paise).
// All engine arithmetic happens on Paise so status comparisons are exact.
type Paise int64

const PaisePerRupee = 100

// FromRupees converts a rupee amount from the API boundary into paise.
// Non-finite and negative values are rejected.
func FromRupees(v float64) (Paise, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, InvalidAmountError{Value: v, Msg: "amount is not finite"}
	}
	if v < 0 {
		return 0, InvalidAmountError{Value: v, Msg: "amount is negative"}
	}
	return Paise(math.Round(v * PaisePerRupee)), nil
}

// Rupees returns the amount as a float for JSON responses.
func (p Paise) Rupees() float64 {
	return float64(p) / PaisePerRupee
}

func (p Paise) String() string {
	sign := ""
	v := int64(p)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/PaisePerRupee, v%PaisePerRupee)
}
