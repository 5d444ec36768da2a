// Package odds converts provider-native price encodings into the
// canonical CommonOdd representation. All scale constants live here, the
// orchestrator never touches raw provider values.
package odds

import "github.com/ktoiv/epistemo-hippodrome/internal/models"

// Scale conventions per provider. The racing provider sends its
// percentage field as a 0-1 fraction and its probable field as decimal
// odds divided by 100. The bookmaker sends decimal odds divided by 100.
const (
	percentageScale    = 100.0
	probableScale      = 100.0
	bookmakerOddsScale = 100.0
)

// FromPoolOdd normalizes a racing-provider price, labelled with the pool
// type it came from. A record with neither a percentage nor a probable
// value normalizes to the zero placeholder, never NaN or Inf.
func FromPoolOdd(poolType string, odd models.Odd) models.CommonOdd {
	if odd.Percentage != nil && *odd.Percentage > 0 {
		return models.CommonOdd{
			Name:       poolType,
			Percentage: *odd.Percentage * percentageScale,
			Decimal:    1 / *odd.Percentage,
		}
	}

	if odd.Probable != nil && *odd.Probable > 0 {
		decimal := *odd.Probable * probableScale
		return models.CommonOdd{
			Name:       poolType,
			Percentage: 100 / decimal,
			Decimal:    decimal,
		}
	}

	return models.CommonOdd{Name: poolType}
}

// FromBookmakerOutcome normalizes a bookmaker price. A zero or absent
// odds value normalizes to the zero placeholder.
func FromBookmakerOutcome(name string, outcome models.Outcome) models.CommonOdd {
	if outcome.Odds <= 0 {
		return models.CommonOdd{Name: name}
	}

	decimal := outcome.Odds * bookmakerOddsScale
	return models.CommonOdd{
		Name:       name,
		Percentage: 100 / decimal,
		Decimal:    decimal,
	}
}
