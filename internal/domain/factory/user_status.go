package factory

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
	"github.com/oksasatya/vital-identity/pkg/apperr"
)

const (
	HeartRateUnit     = "bpm"
	BloodPressureUnit = "mmHg"
)

type UserStatusInput struct {
	UserID          string
	Temperature     float64
	TemperatureUnit string
	HeartRate       float64
	BloodPressure   float64
	// IssuedAt defaults to now when empty.
	IssuedAt string
}

type vitalRange struct{ min, max float64 }

var temperatureRanges = map[entity.TemperatureUnit]vitalRange{
	entity.Celsius:    {0, 100},
	entity.Fahrenheit: {32, 212},
}

var (
	heartRateRange     = vitalRange{0, 200}
	bloodPressureRange = vitalRange{0, 200}
)

func (r vitalRange) contains(v float64) bool {
	return !math.IsNaN(v) && v >= r.min && v <= r.max
}

// NewUserStatus range-checks the vitals against the declared unit and derives the
// health status.
func NewUserStatus(in UserStatusInput) (*entity.UserStatus, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, apperr.Invalid("user_id", "user id is required")
	}
	unit := entity.TemperatureUnit(strings.ToUpper(in.TemperatureUnit))
	tr, ok := temperatureRanges[unit]
	if !ok {
		return nil, apperr.Invalid("metrics.temperature", "temperature unit must be C or F")
	}
	if !tr.contains(in.Temperature) {
		return nil, apperr.Invalid("temperature", "temperature must be between %g and %g %s", tr.min, tr.max, unit)
	}
	if !heartRateRange.contains(in.HeartRate) {
		return nil, apperr.Invalid("heart_rate", "heart rate must be between %g and %g", heartRateRange.min, heartRateRange.max)
	}
	if !bloodPressureRange.contains(in.BloodPressure) {
		return nil, apperr.Invalid("blood_pressure", "blood pressure must be between %g and %g", bloodPressureRange.min, bloodPressureRange.max)
	}

	issuedAt := time.Now().UTC()
	if strings.TrimSpace(in.IssuedAt) != "" {
		t, err := Date("issued_at", in.IssuedAt)
		if err != nil {
			return nil, err
		}
		issuedAt = t
	}

	return &entity.UserStatus{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		Temperature:   in.Temperature,
		HeartRate:     in.HeartRate,
		BloodPressure: in.BloodPressure,
		Metrics: entity.Metrics{
			Temperature:   unit,
			HeartRate:     HeartRateUnit,
			BloodPressure: BloodPressureUnit,
		},
		Status:   DeriveHealthStatus(toCelsius(in.Temperature, unit), in.HeartRate, in.BloodPressure),
		IssuedAt: issuedAt,
	}, nil
}

func toCelsius(v float64, unit entity.TemperatureUnit) float64 {
	if unit == entity.Fahrenheit {
		return (v - 32) * 5 / 9
	}
	return v
}

// DeriveHealthStatus classifies vitals; tempC is in Celsius, blood pressure is systolic.
func DeriveHealthStatus(tempC, heartRate, bloodPressure float64) entity.HealthStatus {
	switch {
	case tempC >= 40 || tempC < 35,
		heartRate > 150 || heartRate < 40,
		bloodPressure >= 180 || bloodPressure < 70:
		return entity.Critical
	case tempC >= 37.5,
		heartRate > 100 || heartRate < 50,
		bloodPressure >= 140 || bloodPressure < 90:
		return entity.Sick
	default:
		return entity.Healthy
	}
}
