// Package factory holds the validating constructors of the identity domain.
//
// Field factories are pure functions that either return the validated value or an
// InvalidArgument error naming the field. Entity factories call them in a fixed order
// and stop at the first failure, so a partially built entity is never returned.
package factory

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
	"github.com/oksasatya/vital-identity/pkg/apperr"
)

const (
	EmailMinLength    = 5
	EmailMaxLength    = 40
	NameMinLength     = 2
	NameMaxLength     = 20
	LocationMinLength = 4
	LocationMaxLength = 50
	PhoneNumberLength = 10
	IDNumberLength    = 16
	MinimumAge        = 6
)

var (
	emailRe  = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,4}$`)
	digitsRe = regexp.MustCompile(`^[0-9]+$`)
)

// dateLayouts are tried in order; the first that parses wins.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func Email(raw string) (string, error) {
	if !emailRe.MatchString(raw) {
		return "", apperr.Invalid("email", "invalid email")
	}
	if n := len(raw); n < EmailMinLength || n > EmailMaxLength {
		return "", apperr.Invalid("email", "email must be between %d and %d characters", EmailMinLength, EmailMaxLength)
	}
	return raw, nil
}

// Name validates a person or product name stored under field.
func Name(field, raw string) (string, error) {
	if n := utf8.RuneCountInString(raw); n < NameMinLength || n > NameMaxLength {
		return "", apperr.Invalid(field, "%s must be between %d and %d characters", field, NameMinLength, NameMaxLength)
	}
	return raw, nil
}

func Location(raw string) (string, error) {
	if n := utf8.RuneCountInString(raw); n < LocationMinLength || n > LocationMaxLength {
		return "", apperr.Invalid("location", "location must be between %d and %d characters", LocationMinLength, LocationMaxLength)
	}
	return raw, nil
}

func PhoneNumber(raw string) (string, error) {
	if len(raw) != PhoneNumberLength || !digitsRe.MatchString(raw) {
		return "", apperr.Invalid("phone_number", "phone number must be exactly %d digits", PhoneNumberLength)
	}
	return raw, nil
}

func IDNumber(raw string) (string, error) {
	if len(raw) != IDNumberLength || !digitsRe.MatchString(raw) {
		return "", apperr.Invalid("id_number", "id number must be exactly %d digits", IDNumberLength)
	}
	return raw, nil
}

// Date parses raw into a UTC time. This is the only normalization the factories apply.
func Date(field, raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperr.Invalid(field, "invalid %s", field)
}

// DateOfBirth parses raw and checks the minimum age against the current time.
func DateOfBirth(raw string) (time.Time, error) {
	return DateOfBirthAt(raw, time.Now())
}

// DateOfBirthAt is DateOfBirth with an explicit reference time.
func DateOfBirthAt(raw string, now time.Time) (time.Time, error) {
	dob, err := Date("date_of_birth", raw)
	if err != nil {
		return time.Time{}, err
	}
	if ageAt(dob, now.UTC()) < MinimumAge {
		return time.Time{}, apperr.Invalid("date_of_birth", "user must be %d years or older", MinimumAge)
	}
	return dob, nil
}

func ageAt(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

func ParseGender(raw string) (entity.Gender, error) {
	switch g := entity.Gender(raw); g {
	case entity.GenderMale, entity.GenderFemale, entity.GenderOther:
		return g, nil
	}
	return "", apperr.Invalid("gender", "invalid gender")
}

func ParseRole(raw string) (entity.Role, error) {
	switch r := entity.Role(raw); r {
	case entity.RoleUser, entity.RoleAdmin, entity.RoleSuperAdmin:
		return r, nil
	}
	return "", apperr.Invalid("role", "invalid role")
}
