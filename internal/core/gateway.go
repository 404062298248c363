package core

// gateway.go decides, once per batch, who prices the shipments.
//
// The primary path hands the whole normalized batch to the external rate
// engine in a single bounded call. Any failure (transport error, non-success
// status, or a success=false payload) switches the entire batch to the local
// tier table. There is no retry and no mixing of engine and local rows.

import (
	"context"
	"errors"
	"time"

	"github.com/JonMunkholm/rateaudit/internal/logging"
)

// ErrRateEngineUnavailable is matched by every rate engine failure.
var ErrRateEngineUnavailable = errors.New("rate engine unavailable")

// FallbackWarning is attached to responses priced by the local tier table.
const FallbackWarning = "Using fallback calculations - rate engine unavailable"

// DefaultEngineTimeout bounds a rate engine call when no timeout is configured.
const DefaultEngineTimeout = 10 * time.Second

// RateEngine prices a full batch of shipments. Implementations return an
// error matching ErrRateEngineUnavailable on any failure.
type RateEngine interface {
	CalculateRates(ctx context.Context, shipments []NormalizedShipment, settings RateCalculationSettings) ([]RateResult, Summary, error)
}

// Gateway prices batches through a RateEngine with a local fallback.
// A nil engine always uses the fallback.
type Gateway struct {
	engine  RateEngine
	timeout time.Duration
}

// NewGateway creates a Gateway. A non-positive timeout uses DefaultEngineTimeout.
func NewGateway(engine RateEngine, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = DefaultEngineTimeout
	}
	return &Gateway{engine: engine, timeout: timeout}
}

// ComputeRates prices the batch. usedFallback reports whether the local
// tier table produced the results.
func (g *Gateway) ComputeRates(ctx context.Context, shipments []NormalizedShipment, settings RateCalculationSettings) (results []RateResult, summary Summary, usedFallback bool) {
	logger := logging.FromContext(ctx)

	if g.engine == nil {
		logger.Debug("rate engine disabled, using fallback", "shipments", len(shipments))
		results, summary = CalculateFallbackBatch(shipments, settings)
		return results, summary, true
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	results, summary, err := g.engine.CalculateRates(callCtx, shipments, settings)
	if err == nil {
		logger.Debug("rate engine priced batch",
			"shipments", len(shipments),
			"results", len(results),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return results, summary, false
	}

	logger.Warn("rate engine failed, falling back to tier table",
		"error", err,
		"shipments", len(shipments),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	results, summary = CalculateFallbackBatch(shipments, settings)
	return results, summary, true
}
