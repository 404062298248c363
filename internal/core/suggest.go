package core

import "strings"

// suggestionKeywords lists, per field, the header keywords tried in order.
var suggestionKeywords = []struct {
	field    Field
	keywords []string
}{
	{FieldDestZip, []string{"zip", "postal", "destination", "zip_code", "postal_code"}},
	{FieldWeight, []string{"weight", "mass", "lbs", "pounds", "package_weight"}},
	{FieldCarrierRate, []string{"rate", "paid", "carrier", "cost", "charge", "amount", "price", "carrier_rate", "shipping_cost"}},
	{FieldZone, []string{"zone"}},
	{FieldOrigZip, []string{"origin", "orig", "from_zip"}},
}

// SuggestMapping guesses a ColumnMapping from header names. For each field
// the first keyword that is contained in a header (or contains it) wins.
// Fields with no candidate are left blank.
func SuggestMapping(headers []string) ColumnMapping {
	lower := make([]string, len(headers))
	for i, h := range headers {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var m ColumnMapping
	for _, rule := range suggestionKeywords {
		for _, kw := range rule.keywords {
			if i := matchKeyword(lower, kw); i >= 0 {
				m.set(rule.field, strings.TrimSpace(headers[i]))
				break
			}
		}
	}
	return m
}

func matchKeyword(lowerHeaders []string, kw string) int {
	for i, h := range lowerHeaders {
		if h == "" {
			continue
		}
		if strings.Contains(h, kw) || strings.Contains(kw, h) {
			return i
		}
	}
	return -1
}

func (m *ColumnMapping) set(f Field, header string) {
	switch f {
	case FieldWeight:
		m.Weight = header
	case FieldCarrierRate:
		m.CarrierRate = header
	case FieldZone:
		m.Zone = header
	case FieldDestZip:
		m.DestZip = header
	case FieldOrigZip:
		m.OrigZip = header
	}
}
