package application

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
	"github.com/oksasatya/vital-identity/internal/domain/factory"
	repo "github.com/oksasatya/vital-identity/internal/domain/repository"
	"github.com/oksasatya/vital-identity/pkg/apperr"
)

type DeviceService struct {
	Devices repo.DeviceRepository
	Users   repo.UserRepository
	Logger  *logrus.Logger
	now     func() time.Time
}

func NewDeviceService(devices repo.DeviceRepository, users repo.UserRepository, logger *logrus.Logger) *DeviceService {
	return &DeviceService{Devices: devices, Users: users, Logger: orDiscard(logger), now: time.Now}
}

// Register builds a device and links it to its owner, who must hold the user role.
func (s *DeviceService) Register(ctx context.Context, in factory.DeviceInput) (*entity.Device, error) {
	in.ID = ""
	d, err := factory.NewDevice(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, d.UserID); err != nil {
		return nil, err
	}
	if err := s.Devices.Create(ctx, d); err != nil {
		return nil, apperr.Wrap(err, apperr.FailedPrecondition, "create device")
	}
	s.Logger.WithFields(logrus.Fields{"device_id": d.ID, "user_id": d.UserID}).Info("device registered")
	return d, nil
}

// Update replaces a device's descriptive fields. Status only moves through Activate
// and Deactivate, so a payload status must match the stored one. Blank status and
// timestamps keep the stored values.
func (s *DeviceService) Update(ctx context.Context, in factory.DeviceInput) (*entity.Device, error) {
	if in.ID == "" {
		return nil, apperr.Invalid("id", "device id is required")
	}
	current, err := s.Devices.GetByID(ctx, in.ID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.FailedPrecondition, "load device")
	}
	if in.Status != "" {
		requested, err := factory.ParseDeviceStatus(in.Status)
		if err != nil {
			return nil, err
		}
		if requested != current.Status {
			return nil, apperr.Invalid("status", "device status changes through activate or deactivate")
		}
	}
	in.Status = string(current.Status)
	if strings.TrimSpace(in.IssuedAt) == "" {
		in.IssuedAt = current.IssuedAt.Format(time.RFC3339Nano)
	}
	if strings.TrimSpace(in.LastActive) == "" {
		in.LastActive = current.LastActive.Format(time.RFC3339Nano)
	}

	d, err := factory.NewDevice(in)
	if err != nil {
		return nil, err
	}
	if current.UserID != d.UserID {
		return nil, apperr.New(apperr.NotFound, "device not found")
	}
	if _, err := s.Users.GetByID(ctx, d.UserID); err != nil {
		return nil, apperr.Wrap(err, apperr.FailedPrecondition, "load owner")
	}
	if err := s.Devices.Update(ctx, d); err != nil {
		return nil, apperr.Wrap(err, apperr.FailedPrecondition, "update device")
	}
	s.Logger.WithField("device_id", d.ID).Info("device updated")
	return d, nil
}

func (s *DeviceService) Get(ctx context.Context, id string) (*entity.Device, error) {
	d, err := s.Devices.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.FailedPrecondition, "load device")
	}
	return d, nil
}

// List returns every device; an empty fleet is NotFound.
func (s *DeviceService) List(ctx context.Context) ([]entity.Device, error) {
	devices, err := s.Devices.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.FailedPrecondition, "list devices")
	}
	if len(devices) == 0 {
		return nil, apperr.New(apperr.NotFound, "no devices found")
	}
	return devices, nil
}

func (s *DeviceService) ListByStatus(ctx context.Context, status entity.DeviceStatus) ([]entity.Device, error) {
	devices, err := s.Devices.ListByStatus(ctx, status)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.FailedPrecondition, "list devices")
	}
	return devices, nil
}

func (s *DeviceService) Activate(ctx context.Context, id string) error {
	return s.transition(ctx, id, entity.DeviceActive)
}

func (s *DeviceService) Deactivate(ctx context.Context, id string) error {
	return s.transition(ctx, id, entity.DeviceInactive)
}

// Touch records that the device reported in now.
func (s *DeviceService) Touch(ctx context.Context, id string) error {
	if err := s.Devices.Touch(ctx, id, s.now().UTC()); err != nil {
		return apperr.Wrap(err, apperr.FailedPrecondition, "touch device")
	}
	return nil
}

func (s *DeviceService) transition(ctx context.Context, id string, to entity.DeviceStatus) error {
	d, err := s.Devices.GetByID(ctx, id)
	if err != nil {
		return apperr.Wrap(err, apperr.FailedPrecondition, "load device")
	}
	if d.Status == to {
		return apperr.New(apperr.AlreadyExists, "device already %s", to)
	}
	if err := s.Devices.SetStatus(ctx, id, to); err != nil {
		return apperr.Wrap(err, apperr.FailedPrecondition, "set device status")
	}
	s.Logger.WithFields(logrus.Fields{"device_id": id, "from": d.Status, "to": to}).Info("device status changed")
	return nil
}

func (s *DeviceService) checkOwner(ctx context.Context, userID string) error {
	owner, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return apperr.Wrap(err, apperr.FailedPrecondition, "load owner")
	}
	if owner.Role != entity.RoleUser {
		return apperr.New(apperr.PermissionDenied, "devices can only be registered to regular users")
	}
	return nil
}
