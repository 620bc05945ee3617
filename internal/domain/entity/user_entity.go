package entity

import (
	"time"
)

// Gender is one of M, F or O.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

// Role is the authorization role of a user. Role gates are enforced at the edge.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

// User is the aggregate root for the identity domain.
// PasswordHash holds a bcrypt hash; plaintext credentials never reach this struct.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	Location     string
	Gender       Gender
	Role         Role
	PhoneNumber  string
	IDNumber     *string
	DateOfBirth  time.Time
	PasswordHash string

	IsActive   bool
	IsVerified bool

	VerificationCode  *string
	PasswordResetCode *string
	RefreshToken      *string

	// Statuses is ordered most-recent-first.
	Statuses []UserStatus
	DeviceID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserPatch lists the mutable columns of a user. Nil fields are left untouched.
type UserPatch struct {
	PasswordHash *string
	IsActive     *bool
	IsVerified   *bool
	RefreshToken *string
	DeviceID     *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.PasswordHash == nil && p.IsActive == nil && p.IsVerified == nil &&
		p.RefreshToken == nil && p.DeviceID == nil
}
