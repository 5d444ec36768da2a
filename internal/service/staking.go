package service

// StakeRecommendation computes a Kelly-style stake fraction, expressed as
// a percentage of bankroll. The bookmaker's implied probability, adjusted
// by the trainer's form score, acts as the edge estimate against the
// market's implied probability.
//
// Degenerate inputs return 0: a market percentage of zero has no price to
// bet into, and a market percentage of 100 leaves no odds to win.
func StakeRecommendation(marketPercentage, bookmakerPercentage, formScore float64) float64 {
	if marketPercentage <= 0 {
		return 0
	}

	marketOdds := 100 / marketPercentage
	if marketOdds == 1 {
		return 0
	}

	adjustedEdge := (bookmakerPercentage / 100) * (1 + formScore/100)
	fraction := (adjustedEdge*marketOdds - 1) / (marketOdds - 1)

	return 100 * fraction
}
