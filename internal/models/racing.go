package models

import "strings"

// Shoe information values used by the racing provider
const (
	HasShoes = "HAS_SHOES"
	NoShoes  = "NO_SHOES"
)

// NameSuffixDelimiter separates a horse name from its country-of-birth
// disambiguation suffix, e.g. "Thunder*AB".
const NameSuffixDelimiter = "*"

// Card represents one race meeting at a track on a given day
type Card struct {
	CardID            int64  `json:"cardId"`
	Country           string `json:"country"`
	TrackName         string `json:"trackName"`
	TrackAbbreviation string `json:"trackAbbreviation"`
}

// Race represents a single race within a card
type Race struct {
	RaceID              int64  `json:"raceId"`
	CardID              int64  `json:"cardId"`
	Number              int    `json:"number"`
	Distance            int    `json:"distance"`
	Breed               string `json:"breed"`
	StartType           string `json:"startType"`
	SeriesSpecification string `json:"seriesSpecification"`
}

// Runner represents one participant in a race
type Runner struct {
	RunnerID    int64  `json:"runnerId"`
	HorseName   string `json:"horseName"`
	StartNumber int    `json:"startNumber"`
	FrontShoes  string `json:"frontShoes"`
	RearShoes   string `json:"rearShoes"`
	CoachName   string `json:"coachName"`
	DriverName  string `json:"driverName"`
	Scratched   bool   `json:"scratched"`
}

// DisplayName returns the horse name with any disambiguation suffix stripped
func (r *Runner) DisplayName() string {
	name, _, _ := strings.Cut(r.HorseName, NameSuffixDelimiter)
	return name
}

// Pool represents a wagering pool offered on a race
type Pool struct {
	PoolID   int64  `json:"poolId"`
	PoolType string `json:"poolType"`
}

// Odd represents a per-runner price inside one pool. Probable and
// Percentage are optional depending on the pool type, and RaceID is only
// populated for multi-leg pools whose odds query spans several races.
type Odd struct {
	RunnerNumber int      `json:"runnerNumber"`
	Probable     *float64 `json:"probable"`
	Percentage   *float64 `json:"percentage"`
	RaceID       *int64   `json:"raceId"`
}
