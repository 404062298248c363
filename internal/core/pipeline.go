package core

import "context"

// AnalyzeTable runs the analysis pipeline over an already parsed table:
// resolve the mapping, normalize every data row, then price the batch.
//
// A table without at least one data row fails with ErrEmptyTable, and an
// unresolvable required field fails with *MissingMappingError before any
// row is read. Bad cells never fail the batch. The result is always complete;
// Warning is set when the local tier table priced it.
func AnalyzeTable(ctx context.Context, gw *Gateway, table RawTable, mapping ColumnMapping, settings RateCalculationSettings) (*AnalysisResponse, error) {
	if len(table) < 2 {
		return nil, ErrEmptyTable
	}

	idx, err := ResolveMapping(table.Header(), mapping)
	if err != nil {
		return nil, err
	}

	shipments := NormalizeTable(table, idx, settings)

	results, summary, usedFallback := gw.ComputeRates(ctx, shipments, settings)

	resp := &AnalysisResponse{
		Results: results,
		Summary: summary,
	}
	if usedFallback {
		resp.Warning = FallbackWarning
	}
	return resp, nil
}
