package factory

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
	"github.com/oksasatya/vital-identity/pkg/apperr"
)

type stubCreds struct {
	calls int
	err   error
}

func (s *stubCreds) Set(plaintext string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "hashed:" + plaintext, nil
}

func validUserInput() UserInput {
	return UserInput{
		Email:       "a@b.co",
		Password:    "secret1",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Location:    "London",
		Gender:      "F",
		Role:        "user",
		DateOfBirth: "1990-12-10",
		PhoneNumber: "0123456789",
	}
}

func TestNewUser_Valid(t *testing.T) {
	creds := &stubCreds{}
	u, err := NewUser(validUserInput(), creds)
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "a@b.co", u.Email)
	assert.Equal(t, "Ada", u.FirstName)
	assert.Equal(t, "Lovelace", u.LastName)
	assert.Equal(t, entity.GenderFemale, u.Gender)
	assert.Equal(t, entity.RoleUser, u.Role)
	assert.Equal(t, "hashed:secret1", u.PasswordHash)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.Nil(t, u.IDNumber)
	assert.False(t, u.IsActive)
	assert.False(t, u.IsVerified)
	assert.Empty(t, u.Statuses)
	assert.Equal(t, 1, creds.calls)
}

func TestNewUser_OptionalIDNumber(t *testing.T) {
	in := validUserInput()
	in.IDNumber = "1234567890123456"
	u, err := NewUser(in, &stubCreds{})
	require.NoError(t, err)
	require.NotNil(t, u.IDNumber)
	assert.Equal(t, "1234567890123456", *u.IDNumber)

	in.IDNumber = "123"
	_, err = NewUser(in, &stubCreds{})
	assertInvalid(t, err, "id_number")
}

func TestNewUser_FirstErrorWins(t *testing.T) {
	in := validUserInput()
	in.Email = "bad"
	in.FirstName = "x"
	in.PhoneNumber = "1"
	creds := &stubCreds{}

	u, err := NewUser(in, creds)
	assert.Nil(t, u)
	assertInvalid(t, err, "email")
	assert.Zero(t, creds.calls, "password must not be hashed when a field is invalid")
}

func TestNewUser_FieldOrder(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		field  string
		mutate func(*UserInput)
	}{
		{"first_name", func(in *UserInput) { in.FirstName = "" }},
		{"last_name", func(in *UserInput) { in.LastName = "L" }},
		{"location", func(in *UserInput) { in.Location = "abc" }},
		{"gender", func(in *UserInput) { in.Gender = "X" }},
		{"role", func(in *UserInput) { in.Role = "owner" }},
		{"date_of_birth", func(in *UserInput) { in.DateOfBirth = "2023-01-01" }},
		{"phone_number", func(in *UserInput) { in.PhoneNumber = "12" }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			in := validUserInput()
			tt.mutate(&in)
			_, err := newUserAt(in, &stubCreds{}, now)
			assertInvalid(t, err, tt.field)
		})
	}
}

func TestNewUser_CredentialFailure(t *testing.T) {
	creds := &stubCreds{err: apperr.Invalid("password", "password too short")}
	_, err := NewUser(validUserInput(), creds)
	assertInvalid(t, err, "password")

	creds = &stubCreds{err: errors.New("bcrypt exploded")}
	_, err = NewUser(validUserInput(), creds)
	require.Error(t, err)
}
