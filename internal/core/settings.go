package core

// settings.go defines the per-request rate calculation settings.
//
// Settings arrive once per analysis and never change while a batch runs.
// Every default lives in DefaultSettings; request JSON is decoded on top of
// it, so a field the caller leaves out takes its default and an explicit zero
// is honored.
//
// Percent conventions differ by field:
//   - FuelSurchargePct, MarkupPct: fractions (0.10 = 10%)
//   - DiscountPercent: whole percent, forwarded to the rate engine as-is

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// WeightUnit is the unit of the weight column in an upload.
type WeightUnit string

const (
	UnitOunce    WeightUnit = "oz"
	UnitPound    WeightUnit = "lb"
	UnitPounds   WeightUnit = "lbs"
	UnitGram     WeightUnit = "g"
	UnitKilogram WeightUnit = "kg"
)

// RateCalculationSettings configures one analysis.
type RateCalculationSettings struct {
	WeightUnit       WeightUnit `json:"weightUnit" yaml:"weight_unit" mapstructure:"weight_unit"`
	FuelSurchargePct float64    `json:"fuelSurchargePct" yaml:"fuel_surcharge_pct" mapstructure:"fuel_surcharge_pct"`
	MarkupPct        float64    `json:"markupPct" yaml:"markup_pct" mapstructure:"markup_pct"`
	DimDivisor       float64    `json:"dimDivisor" yaml:"dim_divisor" mapstructure:"dim_divisor"`
	DASSurcharge     float64    `json:"dasSurcharge" yaml:"das_surcharge" mapstructure:"das_surcharge"`
	EDASSurcharge    float64    `json:"edasSurcharge" yaml:"edas_surcharge" mapstructure:"edas_surcharge"`
	RemoteSurcharge  float64    `json:"remoteSurcharge" yaml:"remote_surcharge" mapstructure:"remote_surcharge"`
	DiscountPercent  float64    `json:"discountPercent" yaml:"discount_percent" mapstructure:"discount_percent"`
	OriginZip        string     `json:"originZip" yaml:"origin_zip" mapstructure:"origin_zip"`
	MinMargin        float64    `json:"minMargin" yaml:"min_margin" mapstructure:"min_margin"`
}

// Defaults applied when a setting is not supplied.
const (
	DefaultWeightUnit      = UnitPound
	DefaultDimDivisor      = 139.0
	DefaultDASSurcharge    = 1.98
	DefaultEDASSurcharge   = 3.92
	DefaultRemoteSurcharge = 14.15
	DefaultOriginZip       = "46307"
)

// DefaultSettings returns the single default table for rate settings.
func DefaultSettings() RateCalculationSettings {
	return RateCalculationSettings{
		WeightUnit:      DefaultWeightUnit,
		DimDivisor:      DefaultDimDivisor,
		DASSurcharge:    DefaultDASSurcharge,
		EDASSurcharge:   DefaultEDASSurcharge,
		RemoteSurcharge: DefaultRemoteSurcharge,
		OriginZip:       DefaultOriginZip,
	}
}

// UnmarshalJSON decodes settings over DefaultSettings.
func (s *RateCalculationSettings) UnmarshalJSON(b []byte) error {
	type plain RateCalculationSettings
	p := plain(DefaultSettings())
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*s = RateCalculationSettings(p)
	return nil
}

// SettingsError lists every problem found while validating settings.
type SettingsError struct {
	Problems []string
}

func (e *SettingsError) Error() string {
	return "invalid settings: " + strings.Join(e.Problems, "; ")
}

// Validate checks the settings once at the entry boundary.
// Unknown weight units are accepted and treated as pounds.
func (s RateCalculationSettings) Validate() error {
	var problems []string

	check := func(name string, v float64) bool {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			problems = append(problems, fmt.Sprintf("%s must be a finite number", name))
			return false
		}
		return true
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"fuelSurchargePct", s.FuelSurchargePct},
		{"markupPct", s.MarkupPct},
		{"dasSurcharge", s.DASSurcharge},
		{"edasSurcharge", s.EDASSurcharge},
		{"remoteSurcharge", s.RemoteSurcharge},
		{"minMargin", s.MinMargin},
	}
	for _, f := range nonNegative {
		if check(f.name, f.value) && f.value < 0 {
			problems = append(problems, fmt.Sprintf("%s must be non-negative", f.name))
		}
	}

	if check("dimDivisor", s.DimDivisor) && s.DimDivisor <= 0 {
		problems = append(problems, "dimDivisor must be positive")
	}
	if check("discountPercent", s.DiscountPercent) && (s.DiscountPercent < 0 || s.DiscountPercent > 100) {
		problems = append(problems, "discountPercent must be between 0 and 100")
	}

	if len(problems) > 0 {
		return &SettingsError{Problems: problems}
	}
	return nil
}
