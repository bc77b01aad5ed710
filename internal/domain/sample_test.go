package domain

import "testing"

func validSample() TelemetrySample {
	return TelemetrySample{
		TruckID:   "T-100",
		Latitude:  9.03,
		Longitude: 38.74,
		Speed:     40,
		FuelLevel: 70,
	}
}

func TestValidateAcceptsValidSample(t *testing.T) {
	s := validSample()
	if errs := s.Validate(); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*TelemetrySample)
		wantField string
	}{
		{"blank truck id", func(s *TelemetrySample) { s.TruckID = "" }, "truckId"},
		{"whitespace truck id", func(s *TelemetrySample) { s.TruckID = "   " }, "truckId"},
		{"latitude too high", func(s *TelemetrySample) { s.Latitude = 95 }, "latitude"},
		{"latitude too low", func(s *TelemetrySample) { s.Latitude = -90.5 }, "latitude"},
		{"longitude too high", func(s *TelemetrySample) { s.Longitude = 181 }, "longitude"},
		{"longitude too low", func(s *TelemetrySample) { s.Longitude = -180.1 }, "longitude"},
		{"negative speed", func(s *TelemetrySample) { s.Speed = -5 }, "speed"},
		{"fuel below zero", func(s *TelemetrySample) { s.FuelLevel = -1 }, "fuelLevel"},
		{"fuel above hundred", func(s *TelemetrySample) { s.FuelLevel = 100.5 }, "fuelLevel"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := validSample()
			tc.mutate(&s)
			errs := s.Validate()
			if len(errs) == 0 {
				t.Fatalf("expected a validation error")
			}
			if errs[0].Field != tc.wantField {
				t.Fatalf("expected first failing field %q, got %q", tc.wantField, errs[0].Field)
			}
		})
	}
}

func TestValidateBoundaryValuesAccepted(t *testing.T) {
	s := validSample()
	s.Latitude = 90
	s.Longitude = -180
	s.Speed = 0
	s.FuelLevel = 0
	if errs := s.Validate(); errs != nil {
		t.Fatalf("boundary values must be accepted, got %v", errs)
	}
}

func TestValidateReportsAllFailingFields(t *testing.T) {
	s := TelemetrySample{TruckID: "", Latitude: 95, Longitude: 200, Speed: -1, FuelLevel: 101}
	errs := s.Validate()
	if len(errs) != 5 {
		t.Fatalf("expected 5 field errors, got %d: %v", len(errs), errs)
	}
	if errs[0].Field != "truckId" {
		t.Fatalf("expected truckId reported first, got %q", errs[0].Field)
	}
}
