package payment

import (
	"strings"
	"time"
)

// BookingType selects the collection policy: online bookings pay a 5% advance
// through the gateway and the rest at pickup, offline bookings pay rental plus
// a refundable deposit at the counter.
type BookingType string

const (
	BookingOnline  BookingType = "online"
	BookingOffline BookingType = "offline"
)

// BookingState is the booking lifecycle state as far as the engine cares:
// terminal states stop accepting collection events.
type BookingState string

const (
	StatePending   BookingState = "pending"
	StateConfirmed BookingState = "confirmed"
	StateActive    BookingState = "active"
	StateCompleted BookingState = "completed"
	StateCancelled BookingState = "cancelled"
)

// Terminal reports whether the booking no longer accepts collection events.
func (s BookingState) Terminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// PaymentStatus is derived from the amounts, never stored independently.
type PaymentStatus string

const (
	StatusPending       PaymentStatus = "pending"
	StatusPartiallyPaid PaymentStatus = "partially_paid"
	StatusPaid          PaymentStatus = "paid"
)

// Method is how a collection event was paid.
type Method string

const (
	MethodCash         Method = "cash"
	MethodUPI          Method = "upi"
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank_transfer"
)

// ParseMethod normalizes a user supplied payment method string.
func ParseMethod(s string) (Method, bool) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case MethodCash:
		return MethodCash, true
	case MethodUPI:
		return MethodUPI, true
	case MethodCard:
		return MethodCard, true
	case MethodBankTransfer:
		return MethodBankTransfer, true
	}
	return "", false
}

// CollectionEvent is one recorded instance of money received against a
// booking. The event log is append-only; paid amount is always its sum.
type CollectionEvent struct {
	Amount      Paise
	Method      Method
	CollectedBy string
	At          time.Time
}

// Financials is the monetary snapshot of a booking the engine operates on.
type Financials struct {
	BookingType     BookingType
	State           BookingState
	RentalAmount    Paise
	SecurityDeposit Paise
	TotalAmount     Paise
	Events          []CollectionEvent
}

// PaidAmount sums the collection event log.
func (f Financials) PaidAmount() Paise {
	var paid Paise
	for _, ev := range f.Events {
		paid += ev.Amount
	}
	return paid
}

// Derived holds the fields recomputed from the amounts.
type Derived struct {
	PendingAmount Paise
	Status        PaymentStatus
}

// ApplyResult is the outcome of applying one collection event.
type ApplyResult struct {
	Financials Financials
	PaidAmount Paise
	Derived

	// Overpaid flags a paid amount above the total. The event is still
	// recorded; whether to refuse it is the caller's call.
	Overpaid bool
	// FullyCollected is true only on the transition into StatusPaid, so
	// callers can stop reminders and unlock downstream actions once.
	FullyCollected bool
}

// ComputeTotals derives the booking total from its fixed charges. Online
// bookings carry no deposit concept, so a non-zero deposit there is rejected.
func ComputeTotals(rental, deposit Paise, bt BookingType) (Paise, error) {
	if rental < 0 {
		return 0, InvalidAmountError{Field: "rental_amount", Msg: "amount is negative"}
	}
	if deposit < 0 {
		return 0, InvalidAmountError{Field: "security_deposit", Msg: "amount is negative"}
	}
	if bt == BookingOnline && deposit != 0 {
		return 0, InvalidAmountError{Field: "security_deposit", Msg: "online bookings carry no deposit"}
	}
	return rental + deposit, nil
}

// Reconcile derives the pending amount and payment status from a total and a
// cumulative paid amount. Pure and idempotent; exact integer comparison, so
// paid == total is StatusPaid with no epsilon.
func Reconcile(total, paid Paise) (Derived, error) {
	if total < 0 {
		return Derived{}, InvalidAmountError{Field: "total_amount", Msg: "amount is negative"}
	}
	if paid < 0 {
		return Derived{}, InvalidAmountError{Field: "paid_amount", Msg: "amount is negative"}
	}

	pending := total - paid
	if pending < 0 {
		pending = 0
	}

	var status PaymentStatus
	switch {
	case paid == 0 && total > 0:
		status = StatusPending
	case paid >= total:
		status = StatusPaid
	default:
		status = StatusPartiallyPaid
	}
	return Derived{PendingAmount: pending, Status: status}, nil
}

// Derive recomputes the derived fields for a full snapshot, verifying the
// stored total against ComputeTotals first.
func Derive(f Financials) (Derived, error) {
	want, err := ComputeTotals(f.RentalAmount, f.SecurityDeposit, f.BookingType)
	if err != nil {
		return Derived{}, err
	}
	if f.TotalAmount != want {
		return Derived{}, InconsistentTotalsError{Want: want, Got: f.TotalAmount}
	}
	return Reconcile(f.TotalAmount, f.PaidAmount())
}

// ApplyCollectionEvent validates and appends one collection event, returning
// the updated snapshot plus derived fields. All-or-nothing: on error the input
// financials are returned unchanged.
func ApplyCollectionEvent(f Financials, amount Paise, method Method, collectedBy string, now time.Time) (ApplyResult, error) {
	if amount <= 0 {
		return ApplyResult{Financials: f}, InvalidAmountError{Field: "amount", Msg: "amount must be positive"}
	}
	if f.State.Terminal() {
		return ApplyResult{Financials: f}, BookingClosedError{State: f.State}
	}

	before, err := Derive(f)
	if err != nil {
		return ApplyResult{Financials: f}, err
	}

	events := make([]CollectionEvent, len(f.Events), len(f.Events)+1)
	copy(events, f.Events)
	updated := f
	updated.Events = append(events, CollectionEvent{
		Amount:      amount,
		Method:      method,
		CollectedBy: strings.TrimSpace(collectedBy),
		At:          now,
	})

	paid := updated.PaidAmount()
	after, err := Reconcile(updated.TotalAmount, paid)
	if err != nil {
		return ApplyResult{Financials: f}, err
	}

	return ApplyResult{
		Financials:     updated,
		PaidAmount:     paid,
		Derived:        after,
		Overpaid:       paid > updated.TotalAmount,
		FullyCollected: after.Status == StatusPaid && before.Status != StatusPaid,
	}, nil
}

// SplitAdvance applies the online collection policy: 5% of the total is
// collected at booking time, rounded half-up to the whole rupee, and the
// deferred remainder absorbs the rounding so the two always sum to the total.
func SplitAdvance(total Paise) (advance, remaining Paise, err error) {
	if total < 0 {
		return 0, 0, InvalidAmountError{Field: "total_amount", Msg: "amount is negative"}
	}
	// total*5/100 paise, rounded to the nearest 100 paise (whole rupee).
	advance = (total*5 + 5000) / 10000 * PaisePerRupee
	remaining = total - advance
	return advance, remaining, nil
}
