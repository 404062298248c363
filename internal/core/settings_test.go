package core

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	want := RateCalculationSettings{
		WeightUnit:      UnitPound,
		DimDivisor:      139,
		DASSurcharge:    1.98,
		EDASSurcharge:   3.92,
		RemoteSurcharge: 14.15,
		OriginZip:       "46307",
	}
	if got := DefaultSettings(); got != want {
		t.Errorf("DefaultSettings() = %+v, want %+v", got, want)
	}
}

func TestSettingsUnmarshalJSON_DefaultsAbsentFields(t *testing.T) {
	var s RateCalculationSettings
	if err := json.Unmarshal([]byte(`{"weightUnit":"oz","fuelSurchargePct":0.1,"dasSurcharge":0}`), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if s.WeightUnit != UnitOunce {
		t.Errorf("WeightUnit = %q, want oz", s.WeightUnit)
	}
	if s.FuelSurchargePct != 0.1 {
		t.Errorf("FuelSurchargePct = %v, want 0.1", s.FuelSurchargePct)
	}
	if s.DASSurcharge != 0 {
		t.Errorf("explicit zero DASSurcharge = %v, want 0", s.DASSurcharge)
	}
	if s.EDASSurcharge != DefaultEDASSurcharge || s.DimDivisor != DefaultDimDivisor || s.OriginZip != DefaultOriginZip {
		t.Errorf("absent fields not defaulted: %+v", s)
	}
}

func TestSettingsUnmarshalJSON_Nested(t *testing.T) {
	var req struct {
		Settings *RateCalculationSettings `json:"settings"`
	}
	if err := json.Unmarshal([]byte(`{"settings":{}}`), &req); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if req.Settings == nil || *req.Settings != DefaultSettings() {
		t.Errorf("empty settings object = %+v, want defaults", req.Settings)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RateCalculationSettings)
		wantErr string
	}{
		{"defaults", func(*RateCalculationSettings) {}, ""},
		{"unknown unit accepted", func(s *RateCalculationSettings) { s.WeightUnit = "stone" }, ""},
		{"negative fuel", func(s *RateCalculationSettings) { s.FuelSurchargePct = -0.1 }, "fuelSurchargePct"},
		{"negative markup", func(s *RateCalculationSettings) { s.MarkupPct = -1 }, "markupPct"},
		{"zero dim divisor", func(s *RateCalculationSettings) { s.DimDivisor = 0 }, "dimDivisor"},
		{"discount over 100", func(s *RateCalculationSettings) { s.DiscountPercent = 120 }, "discountPercent"},
		{"NaN remote", func(s *RateCalculationSettings) { s.RemoteSurcharge = math.NaN() }, "remoteSurcharge must be a finite number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			var se *SettingsError
			if !errors.As(err, &se) {
				t.Fatalf("Validate() = %v, want *SettingsError", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSettingsValidate_CollectsAllProblems(t *testing.T) {
	s := DefaultSettings()
	s.FuelSurchargePct = -1
	s.MarkupPct = -1
	s.DimDivisor = -5

	var se *SettingsError
	if !errors.As(s.Validate(), &se) {
		t.Fatal("expected *SettingsError")
	}
	if len(se.Problems) != 3 {
		t.Errorf("Problems = %v, want 3 entries", se.Problems)
	}
}
