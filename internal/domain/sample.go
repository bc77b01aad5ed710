package domain

import (
	"fmt"
	"strings"
)

// TelemetrySample is one reported truck reading. It is transient input: it is
// validated at the edge and never persisted as-is.
type TelemetrySample struct {
	TruckID   string  `json:"truckId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Speed     float64 `json:"speed"`
	FuelLevel float64 `json:"fuelLevel"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks every field constraint and returns the failures in field
// order. A nil result means the sample may be passed downstream.
func (s *TelemetrySample) Validate() []FieldError {
	var errs []FieldError

	if strings.TrimSpace(s.TruckID) == "" {
		errs = append(errs, FieldError{"truckId", "truck ID is required"})
	}
	if s.Latitude < -90 || s.Latitude > 90 {
		errs = append(errs, FieldError{"latitude", "latitude must be between -90 and 90"})
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		errs = append(errs, FieldError{"longitude", "longitude must be between -180 and 180"})
	}
	if s.Speed < 0 {
		errs = append(errs, FieldError{"speed", "speed cannot be negative"})
	}
	if s.FuelLevel < 0 || s.FuelLevel > 100 {
		errs = append(errs, FieldError{"fuelLevel", "fuel level must be between 0 and 100"})
	}

	return errs
}
