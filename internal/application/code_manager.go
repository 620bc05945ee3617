package application

import (
	"context"
	"crypto/subtle"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
	repo "github.com/oksasatya/vital-identity/internal/domain/repository"
	"github.com/oksasatya/vital-identity/pkg/apperr"
	"github.com/oksasatya/vital-identity/pkg/helpers"
)

// CodeManager issues and consumes one-time codes. A purpose is the configured name of a
// code kind; each purpose maps to one storage slot on the user.
type CodeManager struct {
	store    repo.CodeStore
	purposes map[string]repo.CodeSlot
}

func NewCodeManager(store repo.CodeStore, verificationPurpose, resetPurpose string) *CodeManager {
	if verificationPurpose == "" {
		verificationPurpose = helpers.PurposeVerification
	}
	if resetPurpose == "" {
		resetPurpose = helpers.PurposeReset
	}
	return &CodeManager{
		store: store,
		purposes: map[string]repo.CodeSlot{
			verificationPurpose: repo.SlotVerification,
			resetPurpose:        repo.SlotPasswordReset,
		},
	}
}

func (m *CodeManager) Generate() string {
	return helpers.GenerateCode()
}

// Store overwrites the user's previous code for purpose.
func (m *CodeManager) Store(ctx context.Context, userID, purpose, code string) error {
	slot, err := m.slot(purpose)
	if err != nil {
		return err
	}
	if err := m.store.StoreCode(ctx, userID, slot, code); err != nil {
		return apperr.Wrap(err, apperr.FailedPrecondition, "store %s code", slot)
	}
	return nil
}

// Consume clears the stored code if it equals code. Any mismatch, including a code
// already consumed by a concurrent request, is Unauthenticated and changes nothing.
func (m *CodeManager) Consume(ctx context.Context, userID, purpose, code string) error {
	slot, err := m.slot(purpose)
	if err != nil {
		return err
	}
	if code == "" {
		return apperr.New(apperr.Unauthenticated, "invalid code")
	}
	ok, err := m.store.ConsumeCode(ctx, userID, slot, code)
	if err != nil {
		return apperr.Wrap(err, apperr.FailedPrecondition, "consume %s code", slot)
	}
	if !ok {
		return apperr.New(apperr.Unauthenticated, "invalid code")
	}
	return nil
}

// Matches compares code with the one held by an already loaded user without consuming it.
func (m *CodeManager) Matches(u *entity.User, purpose, code string) bool {
	slot, err := m.slot(purpose)
	if err != nil || u == nil || code == "" {
		return false
	}
	var stored *string
	switch slot {
	case repo.SlotVerification:
		stored = u.VerificationCode
	case repo.SlotPasswordReset:
		stored = u.PasswordResetCode
	}
	return stored != nil && subtle.ConstantTimeCompare([]byte(*stored), []byte(code)) == 1
}

func (m *CodeManager) slot(purpose string) (repo.CodeSlot, error) {
	slot, ok := m.purposes[purpose]
	if !ok {
		return 0, apperr.New(apperr.Internal, "unknown code purpose %q", purpose)
	}
	return slot, nil
}
