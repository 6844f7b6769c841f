package repositories

import (
	"database/sql"
	"strings"

	intconfig "onnrides/internal/config"
	"onnrides/internal/domain"
	"onnrides/internal/payment"
)

type ReportsRepository struct {
	DB *sql.DB
}

func (r ReportsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// FinanceTotals aggregates the booking book over a period.
type FinanceTotals struct {
	Bookings       int
	TotalAmount    payment.Paise
	CollectedTotal payment.Paise
	PendingTotal   payment.Paise
	PaidCount      int
	PartialCount   int
	PendingCount   int
}

// MethodTotal is collected money grouped by payment method.
type MethodTotal struct {
	Method payment.Method
	Amount payment.Paise
	Events int
}

// FinanceTotals sums open and closed bookings created in the optional
// [start, end] date range (YYYY-MM-DD), cancelled bookings excluded.
func (r ReportsRepository) FinanceTotals(start, end string) (FinanceTotals, error) {
	db := r.db()
	if db == nil {
		return FinanceTotals{}, domain.InternalError{Msg: "db not available"}
	}

	where := []string{"status <> ?"}
	args := []any{string(payment.StateCancelled)}
	if s := strings.TrimSpace(start); s != "" {
		where = append(where, "DATE(created_at) >= ?")
		args = append(args, s)
	}
	if s := strings.TrimSpace(end); s != "" {
		where = append(where, "DATE(created_at) <= ?")
		args = append(args, s)
	}

	var (
		out       FinanceTotals
		total     int64
		collected int64
		pending   int64
	)
	err := db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(total_amount),0),
		       COALESCE(SUM(paid_amount),0),
		       COALESCE(SUM(pending_amount),0),
		       COALESCE(SUM(payment_status='paid'),0),
		       COALESCE(SUM(payment_status='partially_paid'),0),
		       COALESCE(SUM(payment_status='pending'),0)
		FROM bookings
		WHERE `+strings.Join(where, " AND "), args...,
	).Scan(&out.Bookings, &total, &collected, &pending, &out.PaidCount, &out.PartialCount, &out.PendingCount)
	if err != nil {
		return FinanceTotals{}, domain.InternalError{Err: err}
	}
	out.TotalAmount = payment.Paise(total)
	out.CollectedTotal = payment.Paise(collected)
	out.PendingTotal = payment.Paise(pending)
	return out, nil
}

// CollectedByMethod groups the collection log by payment method for the same
// optional date range.
func (r ReportsRepository) CollectedByMethod(start, end string) ([]MethodTotal, error) {
	db := r.db()
	if db == nil {
		return nil, domain.InternalError{Msg: "db not available"}
	}

	where := []string{"1=1"}
	args := []any{}
	if s := strings.TrimSpace(start); s != "" {
		where = append(where, "DATE(created_at) >= ?")
		args = append(args, s)
	}
	if s := strings.TrimSpace(end); s != "" {
		where = append(where, "DATE(created_at) <= ?")
		args = append(args, s)
	}

	rows, err := db.Query(`
		SELECT COALESCE(method,''), COALESCE(SUM(amount),0), COUNT(*)
		FROM collection_events
		WHERE `+strings.Join(where, " AND ")+`
		GROUP BY method
		ORDER BY SUM(amount) DESC`, args...)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []MethodTotal{}
	for rows.Next() {
		var (
			mt     MethodTotal
			method string
			amount int64
		)
		if err := rows.Scan(&method, &amount, &mt.Events); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		mt.Method = payment.Method(method)
		mt.Amount = payment.Paise(amount)
		out = append(out, mt)
	}
	return out, rows.Err()
}
