package factory

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
	"github.com/oksasatya/vital-identity/pkg/apperr"
)

const (
	PassCodeMin = 1000
	PassCodeMax = 9999
)

type InsuranceInput struct {
	Name           string
	ExpirationDate string
}

type DeviceModelInput struct {
	Name         string
	Manufacturer string
	ReleaseDate  string
	LastUpdate   string
	Price        float64
}

// DeviceInput is the raw device payload. ID is set only when updating an existing device.
type DeviceInput struct {
	ID         string
	IssuedAt   string
	UserID     string
	Insurance  InsuranceInput
	Status     string
	LastActive string
	Model      DeviceModelInput
	PassCode   *int
}

func NewInsurance(in InsuranceInput) (entity.Insurance, error) {
	name, err := Name("insurance.name", in.Name)
	if err != nil {
		return entity.Insurance{}, err
	}
	exp, err := Date("insurance.expiration_date", in.ExpirationDate)
	if err != nil {
		return entity.Insurance{}, err
	}
	return entity.Insurance{Name: name, ExpirationDate: exp}, nil
}

func NewDeviceModel(in DeviceModelInput) (entity.DeviceModel, error) {
	name, err := Name("device_model.name", in.Name)
	if err != nil {
		return entity.DeviceModel{}, err
	}
	manufacturer, err := Name("device_model.manufacturer", in.Manufacturer)
	if err != nil {
		return entity.DeviceModel{}, err
	}
	release, err := Date("device_model.release_date", in.ReleaseDate)
	if err != nil {
		return entity.DeviceModel{}, err
	}
	lastUpdate, err := Date("device_model.last_update", in.LastUpdate)
	if err != nil {
		return entity.DeviceModel{}, err
	}
	if in.Price < 0 || math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		return entity.DeviceModel{}, apperr.Invalid("device_model.price", "price must not be negative")
	}
	return entity.DeviceModel{
		Name:         name,
		Manufacturer: manufacturer,
		ReleaseDate:  release,
		LastUpdate:   lastUpdate,
		Price:        in.Price,
	}, nil
}

// ParseDeviceStatus accepts the status case-insensitively and returns it lower-cased.
func ParseDeviceStatus(raw string) (entity.DeviceStatus, error) {
	switch s := entity.DeviceStatus(strings.ToLower(raw)); s {
	case entity.DeviceActive, entity.DeviceInactive, entity.DeviceLost, entity.DeviceStolen:
		return s, nil
	}
	return "", apperr.Invalid("device_status", "invalid device status")
}

// PassCode validates an optional 4-digit pass code; nil means no pass code.
func PassCode(code *int) (*int, error) {
	if code == nil {
		return nil, nil
	}
	if *code < PassCodeMin || *code > PassCodeMax {
		return nil, apperr.Invalid("pass_code", "pass code must be between %d and %d", PassCodeMin, PassCodeMax)
	}
	v := *code
	return &v, nil
}

// NewDevice assembles a device from nested factories. A fresh id is generated unless
// in.ID is set.
func NewDevice(in DeviceInput) (*entity.Device, error) {
	issuedAt, err := Date("issued_at", in.IssuedAt)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.UserID) == "" {
		return nil, apperr.Invalid("user_id", "user id is required")
	}
	insurance, err := NewInsurance(in.Insurance)
	if err != nil {
		return nil, err
	}
	status, err := ParseDeviceStatus(in.Status)
	if err != nil {
		return nil, err
	}
	lastActive, err := Date("last_active", in.LastActive)
	if err != nil {
		return nil, err
	}
	model, err := NewDeviceModel(in.Model)
	if err != nil {
		return nil, err
	}
	passCode, err := PassCode(in.PassCode)
	if err != nil {
		return nil, err
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &entity.Device{
		ID:         id,
		IssuedAt:   issuedAt,
		UserID:     in.UserID,
		Insurance:  insurance,
		Status:     status,
		LastActive: lastActive,
		Model:      model,
		PassCode:   passCode,
	}, nil
}
