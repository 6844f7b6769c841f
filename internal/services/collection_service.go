package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	intconfig "onnrides/internal/config"
	"onnrides/internal/domain"
	"onnrides/internal/domain/models"
	"onnrides/internal/notifications"
	"onnrides/internal/payment"
	"onnrides/internal/repositories"
	"onnrides/internal/utils"
)

// CollectionService records payment collection events against a booking. The
// engine itself is pure; this service owns the transaction that serializes
// concurrent collections per booking (row lock on the booking) and persists
// the recomputed fields.
type CollectionService struct {
	BookingRepo    repositories.BookingRepository
	CollectionRepo repositories.CollectionRepository
	Notifier       notifications.Sender
	DB             *sql.DB
	RequestID      string
}

func (s CollectionService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

// CollectInput is one "Collect Payment" action from staff or the gateway
// callback.
type CollectInput struct {
	BookingID   int64
	Amount      payment.Paise
	Method      payment.Method
	CollectedBy string
	Notes       string
}

// CollectResult echoes the engine outcome to the caller, including the
// overpayment flag the admin UI decides on.
type CollectResult struct {
	Booking        models.Booking
	EventID        int64
	Overpaid       bool
	FullyCollected bool
}

// Collect applies one collection event atomically: lock booking row, replay
// the event log through the engine, append, persist derived fields, commit.
func (s CollectionService) Collect(in CollectInput) (CollectResult, error) {
	if in.BookingID <= 0 {
		return CollectResult{}, domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}
	db := s.db()
	if db == nil {
		return CollectResult{}, domain.InternalError{Msg: "db not available"}
	}

	tx, err := db.Begin()
	if err != nil {
		return CollectResult{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	booking, err := s.BookingRepo.GetByIDForUpdate(tx, in.BookingID)
	if err != nil {
		return CollectResult{}, err
	}
	events, err := s.CollectionRepo.ListByBookingID(tx, in.BookingID)
	if err != nil {
		return CollectResult{}, err
	}

	now := time.Now()
	res, err := payment.ApplyCollectionEvent(booking.Financials(events), in.Amount, in.Method, in.CollectedBy, now)
	if err != nil {
		return CollectResult{}, mapEngineError(err)
	}

	eventID, err := s.CollectionRepo.Append(tx, models.CollectionEvent{
		BookingID:   in.BookingID,
		Amount:      in.Amount,
		Method:      in.Method,
		CollectedBy: in.CollectedBy,
		Notes:       in.Notes,
		CreatedAt:   now,
	})
	if err != nil {
		return CollectResult{}, err
	}
	if err := s.BookingRepo.UpdateDerived(tx, in.BookingID, res.PaidAmount, res.PendingAmount, res.Status, in.Method); err != nil {
		return CollectResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return CollectResult{}, domain.InternalError{Err: err}
	}

	booking.PaidAmount = res.PaidAmount
	booking.PendingAmount = res.PendingAmount
	booking.PaymentStatus = res.Status
	booking.PaymentMethod = string(in.Method)

	utils.LogEvent(s.RequestID, "collection", "collect",
		fmt.Sprintf("booking_id=%d amount=%s status=%s overpaid=%t", in.BookingID, in.Amount, res.Status, res.Overpaid))

	if res.FullyCollected {
		s.notifyFullyCollected(booking)
	}

	return CollectResult{
		Booking:        booking,
		EventID:        eventID,
		Overpaid:       res.Overpaid,
		FullyCollected: res.FullyCollected,
	}, nil
}

// notifyFullyCollected tells the customer the booking is settled. Best effort:
// the collection is already committed, a messaging failure must not undo it.
func (s CollectionService) notifyFullyCollected(b models.Booking) {
	if s.Notifier == nil || b.CustomerPhone == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	msg := fmt.Sprintf("Hi %s, payment for your OnnRides booking %s is complete. Total %s received. Enjoy your ride!",
		b.CustomerName, b.BookingRef, utils.FormatINR(b.PaidAmount))
	if err := s.Notifier.Send(ctx, b.CustomerPhone, msg); err != nil {
		utils.LogEvent(s.RequestID, "collection", "notify", "fully-collected message failed: "+err.Error())
	}
}

// mapEngineError folds engine error kinds into the shared domain taxonomy so
// handlers translate them uniformly.
func mapEngineError(err error) error {
	switch {
	case payment.IsInvalidAmount(err):
		return domain.ValidationError{Field: "amount", Msg: err.Error(), Err: err}
	case payment.IsBookingClosed(err):
		return domain.ConflictError{Resource: "booking", Msg: err.Error(), Err: err}
	case payment.IsInconsistentTotals(err):
		return domain.ConflictError{Resource: "booking", Msg: err.Error(), Err: err}
	default:
		return domain.InternalError{Err: err}
	}
}
