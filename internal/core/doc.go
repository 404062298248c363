// Package core provides the business logic for shipment rate analysis.
//
// The package has no transport dependencies. The HTTP server and the
// rateaudit CLI both drive the same pipeline.
//
// # Pipeline
//
// One analysis is a synchronous pass over a staged CSV table:
//
//  1. [ResolveMapping] maps caller-declared headers onto column indices.
//     A required field that resolves nowhere fails the whole batch with
//     [*MissingMappingError], which lists every available header.
//  2. [NormalizeTable] turns each data row into a [NormalizedShipment].
//     Unreadable cells become 0 or a nil zone; they never fail the batch.
//  3. [Gateway.ComputeRates] prices the batch through the [RateEngine] in a
//     single bounded call. On any failure the whole batch is priced by
//     [CalculateFallback] and summarized by [Summarize] instead.
//
// [AnalyzeTable] runs the three steps over an in-memory table. [Service]
// adds staging, settings validation and a concurrency limit around it.
//
// # Settings
//
// [RateCalculationSettings] has a single default table, [DefaultSettings].
// JSON decoding starts from the defaults; [RateCalculationSettings.Validate]
// runs once at the entry boundary.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each category has a code for support reference:
//
//   - MAP001: Required column could not be resolved
//   - SET001: Invalid rate settings
//   - FILE001-FILE005: File errors (size, format, encoding, empty)
//   - STG001: Staged file not found
//   - UPL002: Too many concurrent analyses
package core
