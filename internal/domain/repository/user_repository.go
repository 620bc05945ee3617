package repository

import (
	"context"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Lookups return an apperr NotFound when no row matches; Create returns AlreadyExists
// on a duplicate email.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, id string, patch entity.UserPatch) error
	AppendStatus(ctx context.Context, userID string, s *entity.UserStatus) error
	// ListStatuses returns the history most-recent-first.
	ListStatuses(ctx context.Context, userID string) ([]entity.UserStatus, error)
}

// CodeSlot names the column a one-time code is stored in.
type CodeSlot int

const (
	SlotVerification CodeSlot = iota + 1
	SlotPasswordReset
)

func (s CodeSlot) String() string {
	switch s {
	case SlotVerification:
		return "verification"
	case SlotPasswordReset:
		return "password_reset"
	}
	return "unknown"
}

// CodeStore keeps at most one code per user and slot.
type CodeStore interface {
	// StoreCode overwrites any previous code in the slot.
	StoreCode(ctx context.Context, userID string, slot CodeSlot, code string) error
	// ConsumeCode clears the slot only if it still holds code, reporting whether it did.
	ConsumeCode(ctx context.Context, userID string, slot CodeSlot, code string) (bool, error)
}
