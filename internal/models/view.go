package models

// CommonOdd is the canonical normalized representation of a price from
// any source. Percentage is the implied probability on a 0-100 scale and
// Decimal is the matching decimal odds; both are zero when the source had
// no usable price for the runner.
type CommonOdd struct {
	Name       string  `json:"name"`
	Decimal    float64 `json:"decimal"`
	Percentage float64 `json:"percentage"`
}

// HorseView is the final per-runner aggregation served to clients
type HorseView struct {
	Number              int         `json:"number"`
	Name                string      `json:"name"`
	FrontShoes          bool        `json:"frontShoes"`
	RearShoes           bool        `json:"rearShoes"`
	Driver              string      `json:"driver"`
	Coach               string      `json:"coach"`
	Odds                []CommonOdd `json:"odds"`
	FormScore           float64     `json:"formScore"`
	StakeRecommendation float64     `json:"stakeRecommendation"`
}

// Track is the card list view
type Track struct {
	Name string `json:"name"`
}

// Starts summarizes how many races a card holds
type Starts struct {
	Count int `json:"count"`
}
