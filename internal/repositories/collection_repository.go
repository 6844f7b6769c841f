package repositories

import (
	"database/sql"

	intconfig "onnrides/internal/config"
	intdb "onnrides/internal/db"
	"onnrides/internal/domain"
	"onnrides/internal/domain/models"
	"onnrides/internal/payment"
)

// CollectionRepository persists the append-only collection event log.
// There is deliberately no update or delete path.
type CollectionRepository struct {
	DB *sql.DB
}

func (r CollectionRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Append writes one event inside the caller's transaction.
func (r CollectionRepository) Append(tx *sql.Tx, ev models.CollectionEvent) (int64, error) {
	res, err := tx.Exec(`
		INSERT INTO collection_events
			(booking_id, amount, method, collected_by, notes, created_at)
		VALUES (?,?,?,?,?,?)`,
		ev.BookingID,
		int64(ev.Amount),
		string(ev.Method),
		ev.CollectedBy,
		intdb.NullIfEmpty(ev.Notes),
		ev.CreatedAt,
	)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return res.LastInsertId()
}

const collectionColumns = `id,
	       COALESCE(booking_id,0),
	       COALESCE(amount,0),
	       COALESCE(method,''),
	       COALESCE(collected_by,''),
	       COALESCE(notes,''),
	       created_at`

// ListByBookingID returns the event log in collection order. Accepts a *sql.Tx
// through q so callers inside a transaction read their own lock-consistent view.
func (r CollectionRepository) ListByBookingID(q Querier, bookingID int64) ([]models.CollectionEvent, error) {
	if bookingID <= 0 {
		return nil, domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}
	if q == nil {
		if r.db() == nil {
			return nil, domain.InternalError{Msg: "db not available"}
		}
		q = r.db()
	}

	rows, err := q.Query(`
		SELECT `+collectionColumns+`
		FROM collection_events
		WHERE booking_id=?
		ORDER BY created_at ASC, id ASC`, bookingID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.CollectionEvent{}
	for rows.Next() {
		var (
			ev     models.CollectionEvent
			amount int64
			method string
		)
		if err := rows.Scan(&ev.ID, &ev.BookingID, &amount, &method, &ev.CollectedBy, &ev.Notes, &ev.CreatedAt); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		ev.Amount = payment.Paise(amount)
		ev.Method = payment.Method(method)
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}
