package bookmaker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktoiv/epistemo-hippodrome/internal/models"
)

func TestParseEventName(t *testing.T) {
	tests := []struct {
		name           string
		eventName      string
		wantTrack      string
		wantRaceNumber int
		wantErr        bool
	}{
		{
			name:           "well formed name",
			eventName:      "V5 – Solvalla#5",
			wantTrack:      "Solvalla",
			wantRaceNumber: 5,
		},
		{
			name:           "extra whitespace is trimmed",
			eventName:      "V75 –  Axevalla # 11 ",
			wantTrack:      "Axevalla",
			wantRaceNumber: 11,
		},
		{
			name:      "missing group delimiter",
			eventName: "Solvalla#5",
			wantErr:   true,
		},
		{
			name:      "missing race delimiter",
			eventName: "V5 – Solvalla 5",
			wantErr:   true,
		},
		{
			name:      "non-numeric race number",
			eventName: "V5 – Solvalla#five",
			wantErr:   true,
		},
		{
			name:      "empty name",
			eventName: "",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track, raceNumber, err := parseEventName(tt.eventName)

			if tt.wantErr {
				require.Error(t, err)
				var malformed *models.MalformedRecordError
				assert.ErrorAs(t, err, &malformed)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTrack, track)
			assert.Equal(t, tt.wantRaceNumber, raceNumber)
		})
	}
}
