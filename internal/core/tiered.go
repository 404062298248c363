package core

// tiered.go is the local approximation used when the rate engine cannot be
// reached. It is deliberately coarse: a four-step weight table, with a
// per-zone increment when a zone is known and flat prices when it is not.
//
// The dollar amounts are placeholder approximation constants, not a carrier
// rate card. DAS/EDAS/remote surcharges and the DIM divisor are accepted in
// settings but only the rate engine applies them.

import "math"

// weightTier is one row of the fallback table.
type weightTier struct {
	MaxLbs    float64 // inclusive upper bound
	ZonedBase float64 // base when a zone is known
	PerZone   float64 // added per zone number
	Flat      float64 // base when no zone is known
}

var fallbackTiers = []weightTier{
	{MaxLbs: 1, ZonedBase: 8.50, PerZone: 0.75, Flat: 9.50},
	{MaxLbs: 5, ZonedBase: 12.00, PerZone: 1.25, Flat: 14.00},
	{MaxLbs: 10, ZonedBase: 18.00, PerZone: 1.75, Flat: 22.00},
	{MaxLbs: math.Inf(1), ZonedBase: 25.00, PerZone: 2.25, Flat: 32.00},
}

// FallbackBaseRate returns the tiered base rate, rounded to cents.
// Only a zone greater than zero selects the zoned table.
func FallbackBaseRate(weightLbs float64, zone *int) float64 {
	tier := fallbackTiers[len(fallbackTiers)-1]
	for _, t := range fallbackTiers {
		if weightLbs <= t.MaxLbs {
			tier = t
			break
		}
	}

	if zone != nil && *zone > 0 {
		return Round2(tier.ZonedBase + float64(*zone)*tier.PerZone)
	}
	return Round2(tier.Flat)
}

// CalculateFallback prices one shipment with the local tier table.
//
// Savings is measured against the base rate, not the final rate. The final
// rate already carries fuel and markup, so this likely overstates savings;
// it is kept as-is until the intended comparison is confirmed.
func CalculateFallback(sh NormalizedShipment, settings RateCalculationSettings) RateResult {
	base := FallbackBaseRate(sh.WeightLbs, sh.Zone)
	fuel := base * settings.FuelSurchargePct
	final := (base + fuel) * (1 + settings.MarkupPct)
	savings := sh.CarrierRate - base

	var savingsPct float64
	if sh.CarrierRate > 0 {
		savingsPct = savings / sh.CarrierRate * 100
	}

	return RateResult{
		NormalizedShipment: sh,
		BaseRate:           base,
		FuelSurcharge:      Round2(fuel),
		FinalRate:          Round2(final),
		Savings:            Round2(savings),
		SavingsPercent:     Round2(savingsPct),
	}
}

// CalculateFallbackBatch prices every shipment locally and summarizes them.
func CalculateFallbackBatch(shipments []NormalizedShipment, settings RateCalculationSettings) ([]RateResult, Summary) {
	results := make([]RateResult, len(shipments))
	for i, sh := range shipments {
		results[i] = CalculateFallback(sh, settings)
	}
	return results, Summarize(results)
}
