package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"testing"
)

// ============================================================================
// Cell Coercion Benchmarks
// ============================================================================

// BenchmarkParseNumber benchmarks numeric cell coercion.
// Runs twice per data row (weight and carrier rate).
func BenchmarkParseNumber(b *testing.B) {
	testCases := []string{
		"12",
		"3.75",
		"$1,234.56",
		"  19.99  ",
		"n/a",
		"",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ParseNumber(tc)
		}
	}
}

// BenchmarkParseZone benchmarks zone coercion, including unparseable cells.
func BenchmarkParseZone(b *testing.B) {
	testCases := []string{"2", "8", "zone 5", "", "4.0"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ParseZone(tc)
		}
	}
}

// BenchmarkRound2 benchmarks half-up cent rounding.
func BenchmarkRound2(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Round2(12.345)
	}
}

// ============================================================================
// Table Benchmarks
// ============================================================================

// BenchmarkParseTable benchmarks parsing an upload into a RawTable.
func BenchmarkParseTable(b *testing.B) {
	for _, rows := range []int{100, 10000} {
		data := generateShipmentCSV(rows)
		b.Run(strconv.Itoa(rows), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			for i := 0; i < b.N; i++ {
				if _, err := ParseTable(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkSanitizeUTF8_Invalid benchmarks the slow path taken for
// exports containing Latin-1 bytes.
func BenchmarkSanitizeUTF8_Invalid(b *testing.B) {
	data := bytes.Repeat([]byte("Caf\xe9 shipment,2,15.00\n"), 500)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sanitizeUTF8(data)
	}
}

// BenchmarkResolveMapping benchmarks header resolution on a wide export.
func BenchmarkResolveMapping(b *testing.B) {
	headers := make([]string, 60)
	for i := range headers {
		headers[i] = "Column " + strconv.Itoa(i)
	}
	headers[41] = "Package Weight"
	headers[57] = "Carrier Rate"

	m := ColumnMapping{Weight: "package_weight", CarrierRate: "carrier-rate", Zone: "Zone"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ResolveMapping(headers, m); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSuggestMapping benchmarks keyword-based mapping suggestion.
func BenchmarkSuggestMapping(b *testing.B) {
	headers := []string{"Order ID", "Ship Date", "Destination ZIP", "Weight (lb)", "Zone", "Amount Paid", "Origin"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SuggestMapping(headers)
	}
}

// ============================================================================
// Pricing Benchmarks
// ============================================================================

// BenchmarkNormalizeTable benchmarks row normalization.
func BenchmarkNormalizeTable(b *testing.B) {
	table, idx := benchTable(b, 5000)
	settings := DefaultSettings()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		NormalizeTable(table, idx, settings)
	}
}

// BenchmarkCalculateFallbackBatch benchmarks local tier pricing plus summary.
func BenchmarkCalculateFallbackBatch(b *testing.B) {
	table, idx := benchTable(b, 5000)
	settings := DefaultSettings()
	settings.FuelSurchargePct = 0.12
	settings.MarkupPct = 0.15
	shipments := NormalizeTable(table, idx, settings)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		CalculateFallbackBatch(shipments, settings)
	}
}

// BenchmarkAnalyzeTable benchmarks the whole offline pipeline.
func BenchmarkAnalyzeTable(b *testing.B) {
	table, _ := benchTable(b, 5000)
	gw := NewGateway(nil, 0)
	m := ColumnMapping{Weight: "Weight", CarrierRate: "Paid", Zone: "Zone", DestZip: "Destination ZIP"}
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := AnalyzeTable(ctx, gw, table, m, DefaultSettings()); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkFallbackParallel benchmarks concurrent pricing across analyses.
func BenchmarkFallbackParallel(b *testing.B) {
	zone := 5
	sh := NormalizedShipment{RowIndex: 1, WeightLbs: 7.5, CarrierRate: 18.40, Zone: &zone}
	settings := DefaultSettings()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			CalculateFallback(sh, settings)
		}
	})
}

// ============================================================================
// Helper Functions
// ============================================================================

// generateShipmentCSV generates a shipment export with the given number of rows.
func generateShipmentCSV(rows int) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"Order ID", "Weight", "Zone", "Paid", "Destination ZIP"})

	for i := 0; i < rows; i++ {
		w.Write([]string{
			strconv.Itoa(100000 + i),
			strconv.FormatFloat(float64(i%70)+0.5, 'f', 1, 64),
			strconv.Itoa(2 + i%7),
			"$" + strconv.FormatFloat(8+float64(i%40)*1.25, 'f', 2, 64),
			"1000" + strconv.Itoa(i%10),
		})
	}
	w.Flush()

	return buf.Bytes()
}

func benchTable(b *testing.B, rows int) (RawTable, ResolvedIndices) {
	b.Helper()
	table, err := ParseTable(generateShipmentCSV(rows))
	if err != nil {
		b.Fatal(err)
	}
	idx, err := ResolveMapping(table.Header(), ColumnMapping{Weight: "Weight", CarrierRate: "Paid", Zone: "Zone"})
	if err != nil {
		b.Fatal(err)
	}
	return table, idx
}
