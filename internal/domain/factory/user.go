package factory

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
)

// CredentialSetter turns a plaintext password into a storable hash.
type CredentialSetter interface {
	Set(plaintext string) (string, error)
}

// UserInput is the raw registration payload.
type UserInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Location    string
	Gender      string
	Role        string
	DateOfBirth string
	PhoneNumber string
	IDNumber    string
}

// NewUser validates every field of in, in declaration order, and hashes the password.
// New users start inactive and unverified.
func NewUser(in UserInput, creds CredentialSetter) (*entity.User, error) {
	return newUserAt(in, creds, time.Now())
}

func newUserAt(in UserInput, creds CredentialSetter, now time.Time) (*entity.User, error) {
	email, err := Email(in.Email)
	if err != nil {
		return nil, err
	}
	first, err := Name("first_name", in.FirstName)
	if err != nil {
		return nil, err
	}
	last, err := Name("last_name", in.LastName)
	if err != nil {
		return nil, err
	}
	loc, err := Location(in.Location)
	if err != nil {
		return nil, err
	}
	gender, err := ParseGender(in.Gender)
	if err != nil {
		return nil, err
	}
	role, err := ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	dob, err := DateOfBirthAt(in.DateOfBirth, now)
	if err != nil {
		return nil, err
	}
	phone, err := PhoneNumber(in.PhoneNumber)
	if err != nil {
		return nil, err
	}
	var idNumber *string
	if strings.TrimSpace(in.IDNumber) != "" {
		v, err := IDNumber(in.IDNumber)
		if err != nil {
			return nil, err
		}
		idNumber = &v
	}
	hash, err := creds.Set(in.Password)
	if err != nil {
		return nil, err
	}

	return &entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    first,
		LastName:     last,
		Location:     loc,
		Gender:       gender,
		Role:         role,
		PhoneNumber:  phone,
		IDNumber:     idNumber,
		DateOfBirth:  dob,
		PasswordHash: hash,
		Statuses:     []entity.UserStatus{},
	}, nil
}
