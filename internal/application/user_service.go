package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
	"github.com/oksasatya/vital-identity/internal/domain/factory"
	repo "github.com/oksasatya/vital-identity/internal/domain/repository"
	"github.com/oksasatya/vital-identity/pkg/apperr"
)

const (
	defaultSearchSize = 10
	maxSearchSize     = 50
)

// DirectoryEntry is the searchable projection of a user.
type DirectoryEntry struct {
	ID         string      `json:"id"`
	Email      string      `json:"email"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Location   string      `json:"location"`
	Role       entity.Role `json:"role"`
	IsActive   bool        `json:"is_active"`
	IsVerified bool        `json:"is_verified"`
}

func NewDirectoryEntry(u *entity.User) DirectoryEntry {
	return DirectoryEntry{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Location:   u.Location,
		Role:       u.Role,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
	}
}

// UserDirectory is a secondary, eventually consistent index of users.
type UserDirectory interface {
	Index(ctx context.Context, e DirectoryEntry) error
	Search(ctx context.Context, q string, role entity.Role, size int) ([]DirectoryEntry, error)
}

// indexUser keeps the directory in step with the primary store. Failures are logged only.
func indexUser(ctx context.Context, dir UserDirectory, logger *logrus.Logger, u *entity.User) {
	if dir == nil {
		return
	}
	if err := dir.Index(ctx, NewDirectoryEntry(u)); err != nil {
		logger.WithError(err).WithField("user_id", u.ID).Warn("directory index failed")
	}
}

type UserService struct {
	Users     repo.UserRepository
	Directory UserDirectory
	Logger    *logrus.Logger
}

func NewUserService(users repo.UserRepository, directory UserDirectory, logger *logrus.Logger) *UserService {
	return &UserService{Users: users, Directory: directory, Logger: orDiscard(logger)}
}

// Profile returns the user with the status history loaded.
func (s *UserService) Profile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.FailedPrecondition, "load user")
	}
	statuses, err := s.Users.ListStatuses(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.FailedPrecondition, "load statuses")
	}
	u.Statuses = statuses
	return u, nil
}

// Deactivate clears the active flag. Deactivating an inactive user is a no-op.
func (s *UserService) Deactivate(ctx context.Context, userID string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return apperr.Wrap(err, apperr.FailedPrecondition, "load user")
	}
	if !u.IsActive {
		return nil
	}
	no := false
	if err := s.Users.Update(ctx, userID, entity.UserPatch{IsActive: &no}); err != nil {
		return apperr.Wrap(err, apperr.FailedPrecondition, "deactivate user")
	}
	u.IsActive = false
	s.Logger.WithField("user_id", userID).Info("user deactivated")
	indexUser(ctx, s.Directory, s.Logger, u)
	return nil
}

// AppendStatus validates a vitals reading and prepends it to the user's history.
func (s *UserService) AppendStatus(ctx context.Context, in factory.UserStatusInput) (*entity.UserStatus, error) {
	st, err := factory.NewUserStatus(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.Users.GetByID(ctx, in.UserID); err != nil {
		return nil, apperr.Wrap(err, apperr.FailedPrecondition, "load user")
	}
	if err := s.Users.AppendStatus(ctx, in.UserID, st); err != nil {
		return nil, apperr.Wrap(err, apperr.FailedPrecondition, "append status")
	}
	s.Logger.WithFields(logrus.Fields{"user_id": in.UserID, "status": st.Status}).Info("status appended")
	return st, nil
}

func (s *UserService) Statuses(ctx context.Context, userID string) ([]entity.UserStatus, error) {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		return nil, apperr.Wrap(err, apperr.FailedPrecondition, "load user")
	}
	statuses, err := s.Users.ListStatuses(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.FailedPrecondition, "load statuses")
	}
	return statuses, nil
}

// RegularUsers searches the directory for users holding the plain user role.
func (s *UserService) RegularUsers(ctx context.Context, q string, size int) ([]DirectoryEntry, error) {
	if s.Directory == nil {
		return nil, apperr.New(apperr.Unavailable, "user directory not configured")
	}
	if size <= 0 || size > maxSearchSize {
		size = defaultSearchSize
	}
	out, err := s.Directory.Search(ctx, q, entity.RoleUser, size)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Unavailable, "search users")
	}
	return out, nil
}
