package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	intconfig "onnrides/internal/config"
	intdb "onnrides/internal/db"
	"onnrides/internal/domain"
	"onnrides/internal/domain/models"
	"onnrides/internal/payment"
)

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `id,
	       COALESCE(booking_ref,''),
	       COALESCE(customer_name,''),
	       COALESCE(customer_phone,''),
	       COALESCE(vehicle_id,0),
	       COALESCE(booking_type,'offline'),
	       COALESCE(status,'pending'),
	       COALESCE(pickup_date,''),
	       COALESCE(dropoff_date,''),
	       COALESCE(rental_amount,0),
	       COALESCE(security_deposit,0),
	       COALESCE(total_amount,0),
	       COALESCE(paid_amount,0),
	       COALESCE(pending_amount,0),
	       COALESCE(payment_status,'pending'),
	       COALESCE(payment_method,''),
	       last_reminded_at,
	       created_at`

func scanBooking(row interface{ Scan(dest ...any) error }) (models.Booking, error) {
	var (
		b           models.Booking
		bookingType string
		status      string
		payStatus   string
		rental      int64
		deposit     int64
		total       int64
		paid        int64
		pending     int64
		reminded    sql.NullTime
	)
	err := row.Scan(
		&b.ID,
		&b.BookingRef,
		&b.CustomerName,
		&b.CustomerPhone,
		&b.VehicleID,
		&bookingType,
		&status,
		&b.PickupDate,
		&b.DropoffDate,
		&rental,
		&deposit,
		&total,
		&paid,
		&pending,
		&payStatus,
		&b.PaymentMethod,
		&reminded,
		&b.CreatedAt,
	)
	if err != nil {
		return models.Booking{}, err
	}
	b.BookingType = payment.BookingType(bookingType)
	b.Status = payment.BookingState(status)
	b.PaymentStatus = payment.PaymentStatus(payStatus)
	b.RentalAmount = payment.Paise(rental)
	b.SecurityDeposit = payment.Paise(deposit)
	b.TotalAmount = payment.Paise(total)
	b.PaidAmount = payment.Paise(paid)
	b.PendingAmount = payment.Paise(pending)
	if reminded.Valid {
		t := reminded.Time
		b.LastRemindedAt = &t
	}
	return b, nil
}

// Create inserts a booking with its computed totals and derived fields.
func (r BookingRepository) Create(b models.Booking) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.InternalError{Msg: "db not available"}
	}

	res, err := db.Exec(`
		INSERT INTO bookings
			(booking_ref, customer_name, customer_phone, vehicle_id,
			 booking_type, status, pickup_date, dropoff_date,
			 rental_amount, security_deposit, total_amount,
			 paid_amount, pending_amount, payment_status, payment_method, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.BookingRef,
		b.CustomerName,
		b.CustomerPhone,
		b.VehicleID,
		string(b.BookingType),
		string(b.Status),
		b.PickupDate,
		intdb.NullIfEmpty(b.DropoffDate),
		int64(b.RentalAmount),
		int64(b.SecurityDeposit),
		int64(b.TotalAmount),
		int64(b.PaidAmount),
		int64(b.PendingAmount),
		string(b.PaymentStatus),
		intdb.NullIfEmpty(b.PaymentMethod),
		b.CreatedAt,
	)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return res.LastInsertId()
}

// GetByID fetches a booking by primary key.
func (r BookingRepository) GetByID(id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}
	db := r.db()
	if db == nil {
		return models.Booking{}, domain.InternalError{Msg: "db not available"}
	}

	b, err := scanBooking(db.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	return b, nil
}

// GetByIDForUpdate locks the booking row for the duration of the transaction.
// Collection events for the same booking must serialize on this lock.
func (r BookingRepository) GetByIDForUpdate(tx *sql.Tx, id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}

	b, err := scanBooking(tx.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	return b, nil
}

// List returns bookings filtered by lifecycle status and/or payment status.
func (r BookingRepository) List(status, paymentStatus, q string, page, limit int) ([]models.Booking, error) {
	db := r.db()
	if db == nil {
		return nil, domain.InternalError{Msg: "db not available"}
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	where := []string{}
	args := []any{}
	if s := strings.TrimSpace(status); s != "" {
		where = append(where, "status=?")
		args = append(args, s)
	}
	if s := strings.TrimSpace(paymentStatus); s != "" {
		where = append(where, "payment_status=?")
		args = append(args, s)
	}
	if s := strings.TrimSpace(q); s != "" {
		where = append(where, "(customer_name LIKE ? OR customer_phone LIKE ? OR booking_ref LIKE ?)")
		like := "%" + s + "%"
		args = append(args, like, like, like)
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, (page-1)*limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateDerived persists the engine's recomputed fields inside the caller's
// transaction, together with the last used payment method.
func (r BookingRepository) UpdateDerived(tx *sql.Tx, id int64, paid, pending payment.Paise, status payment.PaymentStatus, method payment.Method) error {
	res, err := tx.Exec(`
		UPDATE bookings
		SET paid_amount=?, pending_amount=?, payment_status=?, payment_method=?, updated_at=?
		WHERE id=?`,
		int64(paid), int64(pending), string(status), string(method), time.Now(), id,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}

// UpdateStatus transitions the booking lifecycle state. Terminal states are
// final: once cancelled or completed a booking cannot move again.
func (r BookingRepository) UpdateStatus(id int64, next payment.BookingState) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "db not available"}
	}

	res, err := db.Exec(`
		UPDATE bookings SET status=?, updated_at=?
		WHERE id=? AND status NOT IN (?, ?)`,
		string(next), time.Now(), id,
		string(payment.StateCancelled), string(payment.StateCompleted),
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ConflictError{Resource: "booking", Msg: fmt.Sprintf("booking %d is missing or already closed", id)}
	}
	return nil
}

// ListPendingReminders returns open bookings that still owe money and were not
// reminded since the cutoff.
func (r BookingRepository) ListPendingReminders(cutoff time.Time, limit int) ([]models.Booking, error) {
	db := r.db()
	if db == nil {
		return nil, domain.InternalError{Msg: "db not available"}
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}

	rows, err := db.Query(`
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE pending_amount > 0
		  AND status NOT IN (?, ?)
		  AND (last_reminded_at IS NULL OR last_reminded_at < ?)
		ORDER BY created_at ASC
		LIMIT ?`,
		string(payment.StateCancelled), string(payment.StateCompleted), cutoff, limit,
	)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// TouchReminded stamps the reminder time so the scan does not repeat daily.
func (r BookingRepository) TouchReminded(id int64, at time.Time) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "db not available"}
	}
	_, err := db.Exec(`UPDATE bookings SET last_reminded_at=? WHERE id=?`, at, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}
