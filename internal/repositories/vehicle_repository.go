package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "onnrides/internal/config"
	"onnrides/internal/domain"
	"onnrides/internal/domain/models"
	"onnrides/internal/payment"
)

type VehicleRepository struct {
	DB *sql.DB
}

func (r VehicleRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const vehicleColumns = `id,
	       COALESCE(vehicle_code,''),
	       COALESCE(name,''),
	       COALESCE(plate_number,''),
	       COALESCE(category,''),
	       COALESCE(price_per_day,0),
	       COALESCE(security_deposit,0),
	       COALESCE(available,1)`

func scanVehicle(row interface{ Scan(dest ...any) error }) (models.Vehicle, error) {
	var (
		v       models.Vehicle
		price   int64
		deposit int64
	)
	err := row.Scan(&v.ID, &v.VehicleCode, &v.Name, &v.PlateNumber, &v.Category, &price, &deposit, &v.Available)
	if err != nil {
		return models.Vehicle{}, err
	}
	v.PricePerDay = payment.Paise(price)
	v.SecurityDeposit = payment.Paise(deposit)
	return v, nil
}

func (r VehicleRepository) GetByID(id int64) (models.Vehicle, error) {
	if id <= 0 {
		return models.Vehicle{}, domain.ValidationError{Field: "vehicle_id", Msg: "invalid id"}
	}
	db := r.db()
	if db == nil {
		return models.Vehicle{}, domain.InternalError{Msg: "db not available"}
	}

	v, err := scanVehicle(db.QueryRow(`SELECT `+vehicleColumns+` FROM vehicles WHERE id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle", Err: err}
	}
	if err != nil {
		return models.Vehicle{}, domain.InternalError{Err: err}
	}
	return v, nil
}

// List returns vehicles, optionally filtered by a free text query or
// availability.
func (r VehicleRepository) List(q string, onlyAvailable bool, page, limit int) ([]models.Vehicle, error) {
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
	if s := strings.TrimSpace(q); s != "" {
		where = append(where, "(vehicle_code LIKE ? OR name LIKE ? OR plate_number LIKE ?)")
		like := "%" + s + "%"
		args = append(args, like, like, like)
	}
	if onlyAvailable {
		where = append(where, "available=1")
	}

	query := `SELECT ` + vehicleColumns + ` FROM vehicles`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY vehicle_code ASC LIMIT ? OFFSET ?"
	args = append(args, limit, (page-1)*limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r VehicleRepository) Create(v models.Vehicle) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.InternalError{Msg: "db not available"}
	}

	res, err := db.Exec(`
		INSERT INTO vehicles
			(vehicle_code, name, plate_number, category, price_per_day, security_deposit, available)
		VALUES (?,?,?,?,?,?,?)`,
		v.VehicleCode, v.Name, v.PlateNumber, v.Category,
		int64(v.PricePerDay), int64(v.SecurityDeposit), v.Available,
	)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return res.LastInsertId()
}

// Update applies PATCH-style changes via pointer presence.
func (r VehicleRepository) Update(id int64, upd models.VehicleUpdate) error {
	if id <= 0 {
		return domain.ValidationError{Field: "vehicle_id", Msg: "invalid id"}
	}
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "db not available"}
	}

	sets := []string{}
	args := []any{}
	if upd.Name != nil {
		sets = append(sets, "name=?")
		args = append(args, *upd.Name)
	}
	if upd.PlateNumber != nil {
		sets = append(sets, "plate_number=?")
		args = append(args, *upd.PlateNumber)
	}
	if upd.Category != nil {
		sets = append(sets, "category=?")
		args = append(args, *upd.Category)
	}
	if upd.PricePerDay != nil {
		sets = append(sets, "price_per_day=?")
		args = append(args, int64(*upd.PricePerDay))
	}
	if upd.SecurityDeposit != nil {
		sets = append(sets, "security_deposit=?")
		args = append(args, int64(*upd.SecurityDeposit))
	}
	if upd.Available != nil {
		sets = append(sets, "available=?")
		args = append(args, *upd.Available)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	res, err := db.Exec(`UPDATE vehicles SET `+strings.Join(sets, ",")+` WHERE id=?`, args...)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "vehicle"}
	}
	return nil
}
