package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"onnrides/internal/domain"
	"onnrides/internal/payment"
	"onnrides/internal/repositories"
)

var bookingCols = []string{
	"id", "booking_ref", "customer_name", "customer_phone", "vehicle_id",
	"booking_type", "status", "pickup_date", "dropoff_date",
	"rental_amount", "security_deposit", "total_amount",
	"paid_amount", "pending_amount", "payment_status", "payment_method",
	"last_reminded_at", "created_at",
}

var collectionCols = []string{"id", "booking_id", "amount", "method", "collected_by", "notes", "created_at"}

func offlineBookingRow(id int64, status string, rental, deposit, paid int64) *sqlmock.Rows {
	total := rental + deposit
	pending := total - paid
	payStatus := "pending"
	if paid >= total {
		payStatus = "paid"
		pending = 0
	} else if paid > 0 {
		payStatus = "partially_paid"
	}
	return sqlmock.NewRows(bookingCols).AddRow(
		id, "OR-TEST1234", "Asha", "+919900112233", 7,
		"offline", status, "2026-09-01", "2026-09-02",
		rental, deposit, total,
		paid, pending, payStatus, "",
		nil, time.Now(),
	)
}

func newCollectionService(t *testing.T) (CollectionService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := CollectionService{
		BookingRepo:    repositories.BookingRepository{DB: db},
		CollectionRepo: repositories.CollectionRepository{DB: db},
		DB:             db,
	}
	return svc, mock, func() { db.Close() }
}

func TestCollectPartialPayment(t *testing.T) {
	svc, mock, done := newCollectionService(t)
	defer done()

	// rental 1500 + deposit 500 = 2000 rupees, nothing collected yet
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=\\? LIMIT 1 FOR UPDATE").WithArgs(int64(1)).
		WillReturnRows(offlineBookingRow(1, "confirmed", 150000, 50000, 0))
	mock.ExpectQuery("FROM collection_events").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(collectionCols))
	mock.ExpectExec("INSERT INTO collection_events").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("UPDATE bookings").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	res, err := svc.Collect(CollectInput{
		BookingID:   1,
		Amount:      50000,
		Method:      payment.MethodCash,
		CollectedBy: "42",
	})
	if err != nil {
		t.Fatalf("collect error: %v", err)
	}
	if res.EventID != 11 {
		t.Fatalf("event id = %d, want 11", res.EventID)
	}
	if res.Booking.PaymentStatus != payment.StatusPartiallyPaid {
		t.Fatalf("status = %s, want partially_paid", res.Booking.PaymentStatus)
	}
	if res.Booking.PaidAmount != 50000 || res.Booking.PendingAmount != 150000 {
		t.Fatalf("paid=%d pending=%d, want 50000/150000", res.Booking.PaidAmount, res.Booking.PendingAmount)
	}
	if res.Overpaid || res.FullyCollected {
		t.Fatalf("unexpected flags: overpaid=%t fully=%t", res.Overpaid, res.FullyCollected)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCollectFinalPaymentFlagsFullyCollected(t *testing.T) {
	svc, mock, done := newCollectionService(t)
	defer done()

	// total 2000, 1500 already in the event log, 500 more closes it
	prior := sqlmock.NewRows(collectionCols).
		AddRow(1, 1, 150000, "upi", "42", "", time.Now().Add(-time.Hour))

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(int64(1)).
		WillReturnRows(offlineBookingRow(1, "confirmed", 150000, 50000, 150000))
	mock.ExpectQuery("FROM collection_events").WithArgs(int64(1)).
		WillReturnRows(prior)
	mock.ExpectExec("INSERT INTO collection_events").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec("UPDATE bookings").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	res, err := svc.Collect(CollectInput{BookingID: 1, Amount: 50000, Method: payment.MethodCash, CollectedBy: "42"})
	if err != nil {
		t.Fatalf("collect error: %v", err)
	}
	if !res.FullyCollected {
		t.Fatal("expected FullyCollected on transition into paid")
	}
	if res.Overpaid {
		t.Fatal("exact settlement must not be flagged overpaid")
	}
	if res.Booking.PaymentStatus != payment.StatusPaid || res.Booking.PendingAmount != 0 {
		t.Fatalf("status=%s pending=%d, want paid/0", res.Booking.PaymentStatus, res.Booking.PendingAmount)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCollectOverpaymentIsRecordedAndFlagged(t *testing.T) {
	svc, mock, done := newCollectionService(t)
	defer done()

	// pending 300 of a 2000 total; staff collects 500
	prior := sqlmock.NewRows(collectionCols).
		AddRow(1, 1, 170000, "cash", "42", "", time.Now().Add(-time.Hour))

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(int64(1)).
		WillReturnRows(offlineBookingRow(1, "active", 150000, 50000, 170000))
	mock.ExpectQuery("FROM collection_events").WithArgs(int64(1)).
		WillReturnRows(prior)
	mock.ExpectExec("INSERT INTO collection_events").
		WillReturnResult(sqlmock.NewResult(13, 1))
	mock.ExpectExec("UPDATE bookings").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	res, err := svc.Collect(CollectInput{BookingID: 1, Amount: 50000, Method: payment.MethodUPI, CollectedBy: "42"})
	if err != nil {
		t.Fatalf("collect error: %v", err)
	}
	if !res.Overpaid {
		t.Fatal("expected overpaid flag")
	}
	if res.Booking.PaidAmount != 220000 {
		t.Fatalf("paid = %d, want 220000 (full amount kept)", res.Booking.PaidAmount)
	}
	if res.Booking.PendingAmount != 0 {
		t.Fatalf("pending = %d, want 0 (clamped)", res.Booking.PendingAmount)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCollectOnCancelledBookingRollsBack(t *testing.T) {
	svc, mock, done := newCollectionService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(int64(1)).
		WillReturnRows(offlineBookingRow(1, "cancelled", 150000, 50000, 50000))
	mock.ExpectQuery("FROM collection_events").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(collectionCols).
			AddRow(1, 1, 50000, "cash", "42", "", time.Now().Add(-time.Hour)))
	mock.ExpectRollback()

	_, err := svc.Collect(CollectInput{BookingID: 1, Amount: 10000, Method: payment.MethodCash, CollectedBy: "42"})
	if err == nil {
		t.Fatal("expected error for cancelled booking")
	}
	if !domain.IsConflict(err) {
		t.Fatalf("want conflict error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCollectStaleTotalsRollsBack(t *testing.T) {
	svc, mock, done := newCollectionService(t)
	defer done()

	// stored total disagrees with rental+deposit, nothing may be written
	row := sqlmock.NewRows(bookingCols).AddRow(
		1, "OR-TEST1234", "Asha", "+919900112233", 7,
		"offline", "confirmed", "2026-09-01", "2026-09-02",
		150000, 50000, 190000,
		0, 190000, "pending", "",
		nil, time.Now(),
	)
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(int64(1)).WillReturnRows(row)
	mock.ExpectQuery("FROM collection_events").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(collectionCols))
	mock.ExpectRollback()

	_, err := svc.Collect(CollectInput{BookingID: 1, Amount: 10000, Method: payment.MethodCash, CollectedBy: "42"})
	if err == nil {
		t.Fatal("expected error for inconsistent totals")
	}
	if !domain.IsConflict(err) {
		t.Fatalf("want conflict error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
