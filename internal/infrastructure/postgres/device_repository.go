package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
	"github.com/oksasatya/vital-identity/internal/domain/repository"
)

const deviceColumns = `id, user_id, issued_at, insurance_name, insurance_expiration_date, status,
	last_active, model_name, model_manufacturer, model_release_date, model_last_update,
	model_price, COALESCE(pass_code, 0)`

type DeviceRepository struct {
	db DB
}

func NewDeviceRepository(db DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// Create inserts the device and points its owner at it in one transaction.
func (r *DeviceRepository) Create(ctx context.Context, d *entity.Device) error {
	return inTx(ctx, r.db, "create device", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO devices (`+deviceInsertColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`, deviceArgs(d)...)
		if err != nil {
			return dbError(err, "insert device", "device")
		}
		tag, err := tx.Exec(ctx, `UPDATE users SET device_id = $1, updated_at = $2 WHERE id = $3`,
			d.ID, time.Now().UTC(), d.UserID)
		if err != nil {
			return dbError(err, "link device owner", "user")
		}
		return affected(tag, "user")
	})
}

const deviceInsertColumns = `id, user_id, issued_at, insurance_name, insurance_expiration_date, status,
	last_active, model_name, model_manufacturer, model_release_date, model_last_update,
	model_price, pass_code`

func deviceArgs(d *entity.Device) []any {
	return []any{
		d.ID, d.UserID, d.IssuedAt, d.Insurance.Name, d.Insurance.ExpirationDate, string(d.Status),
		d.LastActive, d.Model.Name, d.Model.Manufacturer, d.Model.ReleaseDate, d.Model.LastUpdate,
		d.Model.Price, d.PassCode,
	}
}

// Update rewrites the descriptive columns. Status is left to SetStatus.
func (r *DeviceRepository) Update(ctx context.Context, d *entity.Device) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE devices SET issued_at = $3, insurance_name = $4, insurance_expiration_date = $5,
			last_active = $6, model_name = $7, model_manufacturer = $8,
			model_release_date = $9, model_last_update = $10, model_price = $11, pass_code = $12
		WHERE id = $1 AND user_id = $2
	`, d.ID, d.UserID, d.IssuedAt, d.Insurance.Name, d.Insurance.ExpirationDate,
		d.LastActive, d.Model.Name, d.Model.Manufacturer, d.Model.ReleaseDate, d.Model.LastUpdate,
		d.Model.Price, d.PassCode)
	if err != nil {
		return dbError(err, "update device", "device")
	}
	return affected(tag, "device")
}

func (r *DeviceRepository) GetByID(ctx context.Context, id string) (*entity.Device, error) {
	row := r.db.QueryRow(ctx, `SELECT `+deviceColumns+` FROM devices WHERE id = $1`, id)
	d, err := scanDevice(row)
	if err != nil {
		return nil, dbError(err, "get device", "device")
	}
	return d, nil
}

func (r *DeviceRepository) List(ctx context.Context) ([]entity.Device, error) {
	return r.list(ctx, "list devices", `SELECT `+deviceColumns+` FROM devices ORDER BY issued_at DESC`)
}

func (r *DeviceRepository) ListByStatus(ctx context.Context, status entity.DeviceStatus) ([]entity.Device, error) {
	return r.list(ctx, "list devices by status",
		`SELECT `+deviceColumns+` FROM devices WHERE status = $1 ORDER BY issued_at DESC`, string(status))
}

func (r *DeviceRepository) SetStatus(ctx context.Context, id string, status entity.DeviceStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE devices SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return dbError(err, "set device status", "device")
	}
	return affected(tag, "device")
}

func (r *DeviceRepository) Touch(ctx context.Context, id string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE devices SET last_active = $1 WHERE id = $2`, at, id)
	if err != nil {
		return dbError(err, "touch device", "device")
	}
	return affected(tag, "device")
}

func (r *DeviceRepository) list(ctx context.Context, op, sql string, args ...any) ([]entity.Device, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dbError(err, op, "device")
	}
	defer rows.Close()

	out := []entity.Device{}
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, dbError(err, op, "device")
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, op, "device")
	}
	return out, nil
}

func scanDevice(row pgx.Row) (*entity.Device, error) {
	var (
		d        entity.Device
		status   string
		passCode int
	)
	if err := row.Scan(&d.ID, &d.UserID, &d.IssuedAt, &d.Insurance.Name, &d.Insurance.ExpirationDate,
		&status, &d.LastActive, &d.Model.Name, &d.Model.Manufacturer, &d.Model.ReleaseDate,
		&d.Model.LastUpdate, &d.Model.Price, &passCode); err != nil {
		return nil, err
	}
	d.Status = entity.DeviceStatus(status)
	if passCode != 0 {
		d.PassCode = &passCode
	}
	return &d, nil
}

var _ repository.DeviceRepository = (*DeviceRepository)(nil)
