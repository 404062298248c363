package rateengine

import "github.com/JonMunkholm/rateaudit/internal/core"

// Defaults sent for every shipment; uploads carry no package or service data.
const (
	DefaultPackageType  = "box"
	DefaultServiceLevel = "standard"
)

// calculatePath is the batch pricing endpoint, relative to the base URL.
const calculatePath = "/api/calculate-rates"

type shipmentPayload struct {
	Weight         float64 `json:"weight"`
	Zone           *int    `json:"zone"`
	OriginZip      string  `json:"origin_zip,omitempty"`
	DestinationZip string  `json:"destination_zip,omitempty"`
	PackageType    string  `json:"package_type"`
	ServiceLevel   string  `json:"service_level"`
	CarrierRate    float64 `json:"carrier_rate"`
}

// calculateRequest is the body of POST /api/calculate-rates. The engine
// takes markup and fuel as whole percents, not fractions.
type calculateRequest struct {
	Shipments            []shipmentPayload `json:"shipments"`
	DiscountPercent      float64           `json:"discount_percent"`
	MarkupPercent        float64           `json:"markup_percent"`
	FuelSurchargePercent float64           `json:"fuel_surcharge_percent"`
	DASSurcharge         float64           `json:"das_surcharge"`
	EDASSurcharge        float64           `json:"edas_surcharge"`
	RemoteSurcharge      float64           `json:"remote_surcharge"`
	DimDivisor           float64           `json:"dim_divisor"`
	OriginZip            string            `json:"origin_zip"`
}

type calculateResponse struct {
	Success bool              `json:"success"`
	Results []core.RateResult `json:"results"`
	Summary core.Summary      `json:"summary"`
	Message string            `json:"message,omitempty"`
}

// buildRequest converts normalized shipments and settings to the wire form.
// Weights are already in pounds; no unit conversion happens here.
func buildRequest(shipments []core.NormalizedShipment, s core.RateCalculationSettings) calculateRequest {
	payload := make([]shipmentPayload, len(shipments))
	for i, sh := range shipments {
		payload[i] = shipmentPayload{
			Weight:         sh.WeightLbs,
			Zone:           sh.Zone,
			OriginZip:      sh.OrigZip,
			DestinationZip: sh.DestZip,
			PackageType:    DefaultPackageType,
			ServiceLevel:   DefaultServiceLevel,
			CarrierRate:    sh.CarrierRate,
		}
	}

	originZip := s.OriginZip
	if originZip == "" {
		originZip = core.DefaultOriginZip
	}

	return calculateRequest{
		Shipments:            payload,
		DiscountPercent:      s.DiscountPercent,
		MarkupPercent:        s.MarkupPct * 100,
		FuelSurchargePercent: s.FuelSurchargePct * 100,
		DASSurcharge:         s.DASSurcharge,
		EDASSurcharge:        s.EDASSurcharge,
		RemoteSurcharge:      s.RemoteSurcharge,
		DimDivisor:           s.DimDivisor,
		OriginZip:            originZip,
	}
}
