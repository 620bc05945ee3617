package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
	"github.com/oksasatya/vital-identity/internal/domain/repository"
	"github.com/oksasatya/vital-identity/pkg/apperr"
)

var userRowColumns = []string{
	"id", "email", "first_name", "last_name", "location", "gender", "role", "phone_number",
	"id_number", "date_of_birth", "password_hash", "is_active", "is_verified",
	"verification_code", "password_reset_code", "refresh_token", "device_id", "created_at", "updated_at",
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestUserRepository_GetByEmail(t *testing.T) {
	dob := time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantKind  apperr.Kind
		check     func(t *testing.T, u *entity.User)
	}{
		{
			name: "found with nullable columns empty",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(userRowColumns).AddRow(
					"u1", "a@b.co", "Ada", "Lovelace", "London", "F", "user", "0123456789",
					"", dob, "hash", false, false, "", "", "", "", now, now)
				mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
					WithArgs("a@b.co").
					WillReturnRows(rows)
			},
			check: func(t *testing.T, u *entity.User) {
				assert.Equal(t, "u1", u.ID)
				assert.Equal(t, entity.GenderFemale, u.Gender)
				assert.Equal(t, entity.RoleUser, u.Role)
				assert.Nil(t, u.IDNumber)
				assert.Nil(t, u.VerificationCode)
				assert.Nil(t, u.RefreshToken)
				assert.Empty(t, u.Statuses)
			},
		},
		{
			name: "found with codes",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(userRowColumns).AddRow(
					"u1", "a@b.co", "Ada", "Lovelace", "London", "F", "admin", "0123456789",
					"1234567890123456", dob, "hash", true, true, "V1", "R1", "tok", "d1", now, now)
				mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
					WithArgs("a@b.co").
					WillReturnRows(rows)
			},
			check: func(t *testing.T, u *entity.User) {
				require.NotNil(t, u.IDNumber)
				assert.Equal(t, "1234567890123456", *u.IDNumber)
				assert.Equal(t, "V1", *u.VerificationCode)
				assert.Equal(t, "R1", *u.PasswordResetCode)
				assert.Equal(t, "tok", *u.RefreshToken)
				assert.Equal(t, "d1", *u.DeviceID)
				assert.True(t, u.IsVerified)
			},
		},
		{
			name: "not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
					WithArgs("a@b.co").
					WillReturnError(pgx.ErrNoRows)
			},
			wantKind: apperr.NotFound,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
					WithArgs("a@b.co").
					WillReturnError(errors.New("connection refused"))
			},
			wantKind: apperr.Internal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.setupMock(mock)

			u, err := NewUserRepository(mock).GetByEmail(context.Background(), "a@b.co")
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			} else {
				require.NoError(t, err)
				tt.check(t, u)
			}
			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestUserRepository_Create(t *testing.T) {
	now := time.Now().UTC()
	u := &entity.User{
		ID: "u1", Email: "a@b.co", FirstName: "Ada", LastName: "Lovelace", Location: "London",
		Gender: entity.GenderFemale, Role: entity.RoleUser, PhoneNumber: "0123456789",
		DateOfBirth: time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC), PasswordHash: "hash",
	}

	t.Run("inserts", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("u1", "a@b.co", "Ada", "Lovelace", "London", "F", "user", "0123456789",
				pgxmock.AnyArg(), u.DateOfBirth, "hash", false, false).
			WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		require.NoError(t, NewUserRepository(mock).Create(context.Background(), u))
		assert.Equal(t, now, u.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		err := NewUserRepository(mock).Create(context.Background(), u)
		assert.Equal(t, apperr.AlreadyExists, apperr.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_Update(t *testing.T) {
	t.Run("writes only patched columns", func(t *testing.T) {
		mock := newMock(t)
		yes := true
		mock.ExpectExec(`UPDATE users SET is_active = \$1, is_verified = \$2, updated_at = \$3 WHERE id = \$4`).
			WithArgs(true, true, pgxmock.AnyArg(), "u1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := NewUserRepository(mock).Update(context.Background(), "u1", entity.UserPatch{IsActive: &yes, IsVerified: &yes})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user", func(t *testing.T) {
		mock := newMock(t)
		hash := "h"
		mock.ExpectExec(`UPDATE users SET password_hash = \$1, updated_at = \$2 WHERE id = \$3`).
			WithArgs("h", pgxmock.AnyArg(), "ghost").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := NewUserRepository(mock).Update(context.Background(), "ghost", entity.UserPatch{PasswordHash: &hash})
		assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty patch", func(t *testing.T) {
		mock := newMock(t)
		require.NoError(t, NewUserRepository(mock).Update(context.Background(), "u1", entity.UserPatch{}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_Codes(t *testing.T) {
	ctx := context.Background()

	t.Run("store overwrites", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`UPDATE users SET verification_code = \$1`).
			WithArgs("CODE", pgxmock.AnyArg(), "u1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, NewUserRepository(mock).StoreCode(ctx, "u1", repository.SlotVerification, "CODE"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("consume matches", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`UPDATE users SET password_reset_code = NULL, updated_at = \$1 WHERE id = \$2 AND password_reset_code = \$3`).
			WithArgs(pgxmock.AnyArg(), "u1", "CODE").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		ok, err := NewUserRepository(mock).ConsumeCode(ctx, "u1", repository.SlotPasswordReset, "CODE")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("consume mismatch", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`UPDATE users SET verification_code = NULL`).
			WithArgs(pgxmock.AnyArg(), "u1", "WRONG").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		ok, err := NewUserRepository(mock).ConsumeCode(ctx, "u1", repository.SlotVerification, "WRONG")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown slot", func(t *testing.T) {
		mock := newMock(t)
		_, err := NewUserRepository(mock).ConsumeCode(ctx, "u1", repository.CodeSlot(9), "X")
		assert.Equal(t, apperr.Internal, apperr.KindOf(err))
	})
}

func TestUserRepository_Statuses(t *testing.T) {
	mock := newMock(t)
	ctx := context.Background()
	issued := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

	s := &entity.UserStatus{
		ID: "s1", UserID: "u1", Temperature: 36.6, HeartRate: 70, BloodPressure: 120,
		Metrics: entity.Metrics{Temperature: entity.Celsius, HeartRate: "bpm", BloodPressure: "mmHg"},
		Status:  entity.Healthy, IssuedAt: issued,
	}
	mock.ExpectExec(`INSERT INTO user_statuses`).
		WithArgs("s1", "u1", 36.6, 70.0, 120.0, "C", "bpm", "mmHg", "healthy", issued).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`SELECT .+ FROM user_statuses\s+WHERE user_id = \$1\s+ORDER BY issued_at DESC`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "temperature", "heart_rate", "blood_pressure",
			"temperature_unit", "heart_rate_unit", "blood_pressure_unit", "status", "issued_at",
		}).
			AddRow("s2", "u1", 39.0, 110.0, 120.0, "C", "bpm", "mmHg", "sick", issued.Add(time.Hour)).
			AddRow("s1", "u1", 36.6, 70.0, 120.0, "C", "bpm", "mmHg", "healthy", issued))

	repo := NewUserRepository(mock)
	require.NoError(t, repo.AppendStatus(ctx, "u1", s))

	history, err := repo.ListStatuses(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "s2", history[0].ID)
	assert.Equal(t, entity.Sick, history[0].Status)
	assert.Equal(t, entity.Celsius, history[1].Metrics.Temperature)
	assert.NoError(t, mock.ExpectationsWereMet())
}
