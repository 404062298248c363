package core

import (
	"math"
	"testing"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.01},
		{2.675, 2.68},
		{1.825, 1.83},
		{23.08625, 23.09},
		{0.125, 0.13},
		{1.004, 1.00},
		{18.25, 18.25},
		{-1.005, -1.00},
		{-1.006, -1.01},
		{0, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}

	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
