package core

// convert.go coerces raw upload cells into the canonical shipment record.
//
// These functions handle the messy reality of carrier invoice exports:
//   - Currency symbols, thousands separators and unit suffixes ("$1,234.50", "3 lbs")
//   - Weights in ounces, pounds, grams or kilograms
//   - Zone columns that are blank, numeric, or junk
//
// Nothing here returns an error. A cell that cannot be read degrades to a
// safe default (0 for numbers, nil for zone, "" for ZIPs) so every data row
// still yields exactly one NormalizedShipment.

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// nonNumericRegex matches everything a numeric cell is stripped of.
	nonNumericRegex = regexp.MustCompile(`[^0-9.\-]+`)

	// leadingFloatRegex matches the readable prefix of a stripped cell,
	// so "1.2.3" reads as 1.2 and "12-3" reads as 12.
	leadingFloatRegex = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)

	// leadingIntRegex matches the integer prefix of a zone cell.
	leadingIntRegex = regexp.MustCompile(`^[+-]?\d+`)
)

// Weight conversion factors to pounds.
const (
	OuncesPerPound = 16.0
	GramsPerPound  = 453.592
	PoundsPerKilo  = 2.20462
)

// ParseNumber reads a numeric cell after removing every character other
// than digits, '.' and '-'. Unreadable cells return 0.
func ParseNumber(s string) float64 {
	cleaned := nonNumericRegex.ReplaceAllString(s, "")
	m := leadingFloatRegex.FindString(cleaned)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return f
}

// ParseZone reads a zone cell. Blank or unreadable cells return nil.
func ParseZone(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	m := leadingIntRegex.FindString(s)
	if m == "" {
		return nil
	}
	z, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &z
}

// ToPounds converts a weight in the given unit to pounds.
// Unrecognized units are treated as pounds already.
func ToPounds(v float64, unit WeightUnit) float64 {
	switch WeightUnit(strings.ToLower(strings.TrimSpace(string(unit)))) {
	case UnitOunce:
		return v / OuncesPerPound
	case UnitGram:
		return v / GramsPerPound
	case UnitKilogram:
		return v * PoundsPerKilo
	default:
		return v
	}
}

// NormalizeRow builds the canonical record for one data row.
// rowIndex is the 1-based position of the row among the data rows.
// Negative weights and costs are treated as unreadable and become 0.
func NormalizeRow(row []string, idx ResolvedIndices, settings RateCalculationSettings, rowIndex int) NormalizedShipment {
	weight := nonNegative(ParseNumber(cellAt(row, idx.Weight)))
	cost := nonNegative(ParseNumber(cellAt(row, idx.CarrierRate)))

	var zone *int
	if idx.Zone >= 0 {
		zone = ParseZone(cellAt(row, idx.Zone))
	}

	return NormalizedShipment{
		RowIndex:    rowIndex,
		WeightLbs:   ToPounds(weight, settings.WeightUnit),
		CarrierRate: cost,
		Zone:        zone,
		DestZip:     strings.TrimSpace(cellAt(row, idx.DestZip)),
		OrigZip:     strings.TrimSpace(cellAt(row, idx.OrigZip)),
	}
}

// NormalizeTable normalizes every data row of t, one record per row.
func NormalizeTable(t RawTable, idx ResolvedIndices, settings RateCalculationSettings) []NormalizedShipment {
	rows := t.DataRows()
	out := make([]NormalizedShipment, len(rows))
	for i, row := range rows {
		out[i] = NormalizeRow(row, idx, settings, i+1)
	}
	return out
}

// cellAt returns the cell at i, or "" when i is NotFound or past the row end.
func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func nonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
