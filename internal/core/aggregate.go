package core

// Summarize reduces a result set to count/avg/min/max of final_rate.
// An empty set yields a zero Summary.
func Summarize(results []RateResult) Summary {
	if len(results) == 0 {
		return Summary{}
	}

	minFinal := results[0].FinalRate
	maxFinal := results[0].FinalRate
	var sum float64
	for _, r := range results {
		sum += r.FinalRate
		minFinal = min(minFinal, r.FinalRate)
		maxFinal = max(maxFinal, r.FinalRate)
	}

	return Summary{
		Count:    len(results),
		AvgFinal: Round2(sum / float64(len(results))),
		MinFinal: Round2(minFinal),
		MaxFinal: Round2(maxFinal),
	}
}
