package models

import (
	"time"

	"onnrides/internal/payment"
)

// Booking captures the booking data used across services. Money columns are
// stored in paise; the HTTP layer converts to rupees at the boundary.
type Booking struct {
	ID              int64
	BookingRef      string
	CustomerName    string
	CustomerPhone   string
	VehicleID       int64
	BookingType     payment.BookingType
	Status          payment.BookingState
	PickupDate      string
	DropoffDate     string
	RentalAmount    payment.Paise
	SecurityDeposit payment.Paise
	TotalAmount     payment.Paise
	PaidAmount      payment.Paise
	PendingAmount   payment.Paise
	PaymentStatus   payment.PaymentStatus
	PaymentMethod   string
	LastRemindedAt  *time.Time
	CreatedAt       time.Time
}

// Financials projects the booking into the engine's input snapshot.
func (b Booking) Financials(events []CollectionEvent) payment.Financials {
	f := payment.Financials{
		BookingType:     b.BookingType,
		State:           b.Status,
		RentalAmount:    b.RentalAmount,
		SecurityDeposit: b.SecurityDeposit,
		TotalAmount:     b.TotalAmount,
	}
	for _, ev := range events {
		f.Events = append(f.Events, payment.CollectionEvent{
			Amount:      ev.Amount,
			Method:      ev.Method,
			CollectedBy: ev.CollectedBy,
			At:          ev.CreatedAt,
		})
	}
	return f
}

// CollectionEvent is one persisted row of the append-only collection log.
type CollectionEvent struct {
	ID          int64
	BookingID   int64
	Amount      payment.Paise
	Method      payment.Method
	CollectedBy string
	Notes       string
	CreatedAt   time.Time
}
