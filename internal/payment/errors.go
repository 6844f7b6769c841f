package payment

import (
	"errors"
	"fmt"
)

// InvalidAmountError reports a negative or non-finite amount supplied to any
// engine operation.
type InvalidAmountError struct {
	Field string
	Value float64
	Msg   string
}

func (e InvalidAmountError) Error() string {
	if e.Field != "" && e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid amount for %s", e.Field)
	}
	return "invalid amount"
}

// BookingClosedError reports a collection attempt against a booking whose
// lifecycle state no longer accepts money (cancelled or completed).
type BookingClosedError struct {
	State BookingState
}

func (e BookingClosedError) Error() string {
	return fmt.Sprintf("booking is %s and no longer accepts collections", e.State)
}

// InconsistentTotalsError guards against stale or tampered input: the stored
// total does not match what ComputeTotals yields for the same booking.
type InconsistentTotalsError struct {
	Want Paise
	Got  Paise
}

func (e InconsistentTotalsError) Error() string {
	return fmt.Sprintf("total amount %s does not match computed total %s", e.Got, e.Want)
}

func IsInvalidAmount(err error) bool {
	var target InvalidAmountError
	return errors.As(err, &target)
}

func IsBookingClosed(err error) bool {
	var target BookingClosedError
	return errors.As(err, &target)
}

func IsInconsistentTotals(err error) bool {
	var target InconsistentTotalsError
	return errors.As(err, &target)
}
