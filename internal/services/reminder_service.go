package services

import (
	"context"
	"fmt"
	"time"

	"onnrides/internal/notifications"
	"onnrides/internal/payment"
	"onnrides/internal/repositories"
	"onnrides/internal/utils"
)

// ReminderService scans open bookings that still owe money and nudges the
// customer over WhatsApp. It relies on the engine's invariants holding in the
// persisted rows and re-derives before sending as a guard against drift.
type ReminderService struct {
	BookingRepo repositories.BookingRepository
	Notifier    notifications.Sender
	RequestID   string

	// MinInterval keeps repeat reminders for the same booking apart.
	MinInterval time.Duration
}

// SendPaymentReminders runs one scan. Returns how many reminders went out;
// individual send failures are logged and skipped, not fatal.
func (s ReminderService) SendPaymentReminders(ctx context.Context, now time.Time) (int, error) {
	interval := s.MinInterval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	bookings, err := s.BookingRepo.ListPendingReminders(now.Add(-interval), 100)
	if err != nil {
		return 0, err
	}
	if len(bookings) == 0 {
		return 0, nil
	}

	sent := 0
	for _, b := range bookings {
		// guard against rows whose derived fields drifted from the amounts
		derived, err := payment.Reconcile(b.TotalAmount, b.PaidAmount)
		if err != nil || derived.PendingAmount <= 0 {
			utils.LogEvent(s.RequestID, "reminder", "skip",
				fmt.Sprintf("booking_id=%d stored pending disagrees with amounts", b.ID))
			continue
		}

		msg := fmt.Sprintf("Hi %s, a payment of %s is pending on your OnnRides booking %s. Please clear it at pickup or reply here to pay now.",
			b.CustomerName, utils.FormatINR(derived.PendingAmount), b.BookingRef)

		if err := s.Notifier.Send(ctx, b.CustomerPhone, msg); err != nil {
			utils.LogEvent(s.RequestID, "reminder", "send", fmt.Sprintf("booking_id=%d failed: %v", b.ID, err))
			continue
		}
		if err := s.BookingRepo.TouchReminded(b.ID, now); err != nil {
			utils.LogEvent(s.RequestID, "reminder", "touch", fmt.Sprintf("booking_id=%d failed: %v", b.ID, err))
		}
		sent++
	}

	utils.LogEvent(s.RequestID, "reminder", "scan", fmt.Sprintf("candidates=%d sent=%d", len(bookings), sent))
	return sent, nil
}
