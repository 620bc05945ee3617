package repository

import (
	"context"
	"time"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
)

type DeviceRepository interface {
	// Create stores d and links it to its owner in one transaction.
	Create(ctx context.Context, d *entity.Device) error
	Update(ctx context.Context, d *entity.Device) error
	GetByID(ctx context.Context, id string) (*entity.Device, error)
	List(ctx context.Context) ([]entity.Device, error)
	ListByStatus(ctx context.Context, status entity.DeviceStatus) ([]entity.Device, error)
	SetStatus(ctx context.Context, id string, status entity.DeviceStatus) error
	Touch(ctx context.Context, id string, at time.Time) error
}
