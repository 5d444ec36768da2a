package models

// Event represents one bookmaker event. The event name embeds the track
// name and race number in the form "<group> – <track>#<race>".
type Event struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Group   string `json:"group"`
	GroupID int64  `json:"groupId"`
}

// EventWithOffers bundles an event with the bet offers listed for it
type EventWithOffers struct {
	Event     Event      `json:"event"`
	BetOffers []BetOffer `json:"betOffers"`
}

// HasOffers reports whether the event carries at least one bet offer
func (e *EventWithOffers) HasOffers() bool {
	return len(e.BetOffers) > 0
}

// BetOffer represents one market offered on a bookmaker event
type BetOffer struct {
	ID       int64     `json:"id"`
	EventID  int64     `json:"eventId"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome represents a per-runner price from the bookmaker. Odds are in
// the bookmaker's native fixed-point scale, see the odds package for the
// conversion to decimal odds.
type Outcome struct {
	ID          int64   `json:"id"`
	Label       string  `json:"label"`
	StartNumber int     `json:"startNro"`
	Odds        float64 `json:"odds"`
}
