package core

// Field is a logical column name the caller maps onto an uploaded header.
type Field string

const (
	FieldWeight      Field = "weight"
	FieldCarrierRate Field = "carrier_rate"
	FieldZone        Field = "zone"
	FieldDestZip     Field = "dest_zip"
	FieldOrigZip     Field = "orig_zip"
)

// RequiredFields must resolve to a header or the whole analysis is rejected.
var RequiredFields = []Field{FieldWeight, FieldCarrierRate}

// AllFields lists every logical field in resolution order.
var AllFields = []Field{FieldWeight, FieldCarrierRate, FieldZone, FieldDestZip, FieldOrigZip}

// ColumnMapping maps logical fields to the header strings declared by the caller.
type ColumnMapping struct {
	Weight      string `json:"weight"`
	CarrierRate string `json:"carrier_rate"`
	Zone        string `json:"zone,omitempty"`
	DestZip     string `json:"dest_zip,omitempty"`
	OrigZip     string `json:"orig_zip,omitempty"`
}

// Header returns the declared header for a logical field.
func (m ColumnMapping) Header(f Field) string {
	switch f {
	case FieldWeight:
		return m.Weight
	case FieldCarrierRate:
		return m.CarrierRate
	case FieldZone:
		return m.Zone
	case FieldDestZip:
		return m.DestZip
	case FieldOrigZip:
		return m.OrigZip
	}
	return ""
}

// RawTable is a parsed upload. Row 0 is the header row.
type RawTable [][]string

// Header returns the header row, or nil for an empty table.
func (t RawTable) Header() []string {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// DataRows returns every row after the header.
func (t RawTable) DataRows() [][]string {
	if len(t) < 2 {
		return nil
	}
	return t[1:]
}

// NotFound is the column index reported for an unresolved field.
const NotFound = -1

// ResolvedIndices holds the column position of each logical field, or NotFound.
type ResolvedIndices struct {
	Weight      int
	CarrierRate int
	Zone        int
	DestZip     int
	OrigZip     int
}

// Index returns the resolved column for a logical field.
func (ri ResolvedIndices) Index(f Field) int {
	switch f {
	case FieldWeight:
		return ri.Weight
	case FieldCarrierRate:
		return ri.CarrierRate
	case FieldZone:
		return ri.Zone
	case FieldDestZip:
		return ri.DestZip
	case FieldOrigZip:
		return ri.OrigZip
	}
	return NotFound
}

func (ri *ResolvedIndices) set(f Field, idx int) {
	switch f {
	case FieldWeight:
		ri.Weight = idx
	case FieldCarrierRate:
		ri.CarrierRate = idx
	case FieldZone:
		ri.Zone = idx
	case FieldDestZip:
		ri.DestZip = idx
	case FieldOrigZip:
		ri.OrigZip = idx
	}
}

// NormalizedShipment is the canonical numeric record built from one data row.
// Zone is nil when no zone column was mapped or the cell could not be parsed.
type NormalizedShipment struct {
	RowIndex    int     `json:"rowIndex"`
	WeightLbs   float64 `json:"weight_lbs"`
	CarrierRate float64 `json:"carrier_rate"`
	Zone        *int    `json:"zone"`
	DestZip     string  `json:"dest_zip"`
	OrigZip     string  `json:"orig_zip"`
}

// RateResult is the estimated rate for one shipment. The normalized inputs
// are echoed alongside the computed values.
type RateResult struct {
	NormalizedShipment
	BaseRate       float64 `json:"base_rate"`
	FuelSurcharge  float64 `json:"fuel_surcharge"`
	FinalRate      float64 `json:"final_rate"`
	Savings        float64 `json:"savings"`
	SavingsPercent float64 `json:"savings_percent"`
}

// Summary aggregates final rates over a result set.
type Summary struct {
	Count    int     `json:"count"`
	AvgFinal float64 `json:"avg_final"`
	MinFinal float64 `json:"min_final"`
	MaxFinal float64 `json:"max_final"`
}

// AnalysisRequest identifies a staged table and how to read and price it.
type AnalysisRequest struct {
	FileID   string
	Mapping  ColumnMapping
	Settings RateCalculationSettings
}

// AnalysisResponse is a complete result set. Warning is set when the
// local approximation was used instead of the rate engine.
type AnalysisResponse struct {
	Results []RateResult `json:"results"`
	Summary Summary      `json:"summary"`
	Warning string       `json:"warning,omitempty"`
}

// UploadResult describes a freshly staged upload.
type UploadResult struct {
	FileID      string   `json:"fileId"`
	FileName    string   `json:"fileName"`
	FileSize    int64    `json:"fileSize"`
	Columns     []string `json:"columns"`
	RecordCount int      `json:"recordCount"`
}

// ColumnsResult lists a staged table's headers with a suggested mapping.
type ColumnsResult struct {
	FileID           string        `json:"fileId"`
	Columns          []string      `json:"columns"`
	RecordCount      int           `json:"recordCount"`
	SuggestedMapping ColumnMapping `json:"suggestedMapping"`
}
