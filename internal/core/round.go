package core

import (
	"math"

	"github.com/shopspring/decimal"
)

var halfCent = decimal.New(5, -3)

// Round2 rounds to cents, half-up (toward +Inf on an exact half).
//
// The float is taken at its shortest decimal representation before rounding,
// so 1.005 rounds to 1.01 rather than falling to 1.00 through binary error.
// NaN and Inf round to 0.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(v).Add(halfCent).RoundFloor(2).Float64()
	return f
}
