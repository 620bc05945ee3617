package entity

import "time"

// DeviceStatus is the lifecycle state of a monitoring device.
type DeviceStatus string

const (
	DeviceActive   DeviceStatus = "active"
	DeviceInactive DeviceStatus = "inactive"
	DeviceLost     DeviceStatus = "lost"
	DeviceStolen   DeviceStatus = "stolen"
)

type Insurance struct {
	Name           string
	ExpirationDate time.Time
}

type DeviceModel struct {
	Name         string
	Manufacturer string
	ReleaseDate  time.Time
	LastUpdate   time.Time
	Price        float64
}

// Device is a monitored hardware unit owned by exactly one user.
type Device struct {
	ID         string
	IssuedAt   time.Time
	UserID     string
	Insurance  Insurance
	Status     DeviceStatus
	LastActive time.Time
	Model      DeviceModel
	// PassCode is nil when the device has no pass code.
	PassCode *int
}
