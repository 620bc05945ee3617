package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
	"github.com/oksasatya/vital-identity/internal/domain/repository"
	"github.com/oksasatya/vital-identity/pkg/apperr"
)

const userColumns = `id, email, first_name, last_name, location, gender, role, phone_number,
	COALESCE(id_number, ''), date_of_birth, password_hash, is_active, is_verified,
	COALESCE(verification_code, ''), COALESCE(password_reset_code, ''),
	COALESCE(refresh_token, ''), COALESCE(device_id, ''), created_at, updated_at`

// UserRepository stores users, their status history and their one-time codes.
type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (id, email, first_name, last_name, location, gender, role, phone_number,
			id_number, date_of_birth, password_hash, is_active, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`, u.ID, u.Email, u.FirstName, u.LastName, u.Location, string(u.Gender), string(u.Role),
		u.PhoneNumber, u.IDNumber, u.DateOfBirth, u.PasswordHash, u.IsActive, u.IsVerified)

	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		return dbError(err, "create user", "user")
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, dbError(err, "get user by id", "user")
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, dbError(err, "get user by email", "user")
	}
	return u, nil
}

// Update writes the non-nil fields of patch.
func (r *UserRepository) Update(ctx context.Context, id string, patch entity.UserPatch) error {
	if patch.Empty() {
		return nil
	}
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	if patch.PasswordHash != nil {
		add("password_hash", *patch.PasswordHash)
	}
	if patch.IsActive != nil {
		add("is_active", *patch.IsActive)
	}
	if patch.IsVerified != nil {
		add("is_verified", *patch.IsVerified)
	}
	if patch.RefreshToken != nil {
		add("refresh_token", *patch.RefreshToken)
	}
	if patch.DeviceID != nil {
		add("device_id", *patch.DeviceID)
	}
	add("updated_at", time.Now().UTC())
	args = append(args, id)

	sql := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = $" + strconv.Itoa(len(args))
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return dbError(err, "update user", "user")
	}
	return affected(tag, "user")
}

func (r *UserRepository) AppendStatus(ctx context.Context, userID string, s *entity.UserStatus) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO user_statuses (id, user_id, temperature, heart_rate, blood_pressure,
			temperature_unit, heart_rate_unit, blood_pressure_unit, status, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, s.ID, userID, s.Temperature, s.HeartRate, s.BloodPressure,
		string(s.Metrics.Temperature), s.Metrics.HeartRate, s.Metrics.BloodPressure,
		string(s.Status), s.IssuedAt)
	if err != nil {
		return dbError(err, "append user status", "user")
	}
	return nil
}

func (r *UserRepository) ListStatuses(ctx context.Context, userID string) ([]entity.UserStatus, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, temperature, heart_rate, blood_pressure,
			temperature_unit, heart_rate_unit, blood_pressure_unit, status, issued_at
		FROM user_statuses
		WHERE user_id = $1
		ORDER BY issued_at DESC, seq DESC
	`, userID)
	if err != nil {
		return nil, dbError(err, "list user statuses", "user")
	}
	defer rows.Close()

	out := []entity.UserStatus{}
	for rows.Next() {
		var (
			s            entity.UserStatus
			unit, status string
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.Temperature, &s.HeartRate, &s.BloodPressure,
			&unit, &s.Metrics.HeartRate, &s.Metrics.BloodPressure, &status, &s.IssuedAt); err != nil {
			return nil, dbError(err, "scan user status", "user")
		}
		s.Metrics.Temperature = entity.TemperatureUnit(unit)
		s.Status = entity.HealthStatus(status)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "iterate user statuses", "user")
	}
	return out, nil
}

func codeColumn(slot repository.CodeSlot) (string, error) {
	switch slot {
	case repository.SlotVerification:
		return "verification_code", nil
	case repository.SlotPasswordReset:
		return "password_reset_code", nil
	}
	return "", apperr.New(apperr.Internal, "unknown code slot %d", int(slot))
}

func (r *UserRepository) StoreCode(ctx context.Context, userID string, slot repository.CodeSlot, code string) error {
	col, err := codeColumn(slot)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `UPDATE users SET `+col+` = $1, updated_at = $2 WHERE id = $3`,
		code, time.Now().UTC(), userID)
	if err != nil {
		return dbError(err, "store code", "user")
	}
	return affected(tag, "user")
}

// ConsumeCode clears the code with a conditional update so that only one of several
// concurrent consumers succeeds.
func (r *UserRepository) ConsumeCode(ctx context.Context, userID string, slot repository.CodeSlot, code string) (bool, error) {
	col, err := codeColumn(slot)
	if err != nil {
		return false, err
	}
	tag, err := r.db.Exec(ctx, `UPDATE users SET `+col+` = NULL, updated_at = $1 WHERE id = $2 AND `+col+` = $3`,
		time.Now().UTC(), userID, code)
	if err != nil {
		return false, dbError(err, "consume code", "user")
	}
	return tag.RowsAffected() == 1, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u                             entity.User
		gender, role                  string
		idNumber, verification, reset string
		refresh, deviceID             string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Location, &gender, &role,
		&u.PhoneNumber, &idNumber, &u.DateOfBirth, &u.PasswordHash, &u.IsActive, &u.IsVerified,
		&verification, &reset, &refresh, &deviceID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Gender = entity.Gender(gender)
	u.Role = entity.Role(role)
	u.IDNumber = nullable(idNumber)
	u.VerificationCode = nullable(verification)
	u.PasswordResetCode = nullable(reset)
	u.RefreshToken = nullable(refresh)
	u.DeviceID = nullable(deviceID)
	u.Statuses = []entity.UserStatus{}
	return &u, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.CodeStore      = (*UserRepository)(nil)
)
