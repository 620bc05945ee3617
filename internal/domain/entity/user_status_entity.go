package entity

import "time"

type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "C"
	Fahrenheit TemperatureUnit = "F"
)

// HealthStatus is derived from the vitals of a UserStatus.
type HealthStatus string

const (
	Healthy  HealthStatus = "healthy"
	Sick     HealthStatus = "sick"
	Critical HealthStatus = "critical"
)

type Metrics struct {
	Temperature   TemperatureUnit
	HeartRate     string
	BloodPressure string
}

// UserStatus is an immutable vitals snapshot. Once appended to a user's history it is
// never modified.
type UserStatus struct {
	ID            string
	UserID        string
	Temperature   float64
	HeartRate     float64
	BloodPressure float64
	Metrics       Metrics
	Status        HealthStatus
	IssuedAt      time.Time
}
