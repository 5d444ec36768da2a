package bookmaker

import (
	"strconv"
	"strings"

	"github.com/ktoiv/epistemo-hippodrome/internal/models"
)

// Event names arrive as one delimited string, e.g. "V5 – Solvalla#5":
// the game group, an en dash, the track name, a hash, the race number.
const (
	groupDelimiter = "–"
	raceDelimiter  = "#"
)

// parseEventName recovers the track name and race number embedded in a
// bookmaker event name. The packed format is a provider quirk, so a name
// that does not follow it yields a MalformedRecordError and the caller
// treats the event as not matching.
func parseEventName(name string) (string, int, error) {
	_, trackAndRace, found := strings.Cut(name, groupDelimiter)
	if !found {
		return "", 0, models.NewMalformedRecordError(providerName, "event name", name)
	}

	track, raceNumberPart, found := strings.Cut(trackAndRace, raceDelimiter)
	if !found {
		return "", 0, models.NewMalformedRecordError(providerName, "event name", name)
	}

	raceNumber, err := strconv.Atoi(strings.TrimSpace(raceNumberPart))
	if err != nil {
		return "", 0, models.NewMalformedRecordError(providerName, "race number", raceNumberPart)
	}

	return strings.TrimSpace(track), raceNumber, nil
}
