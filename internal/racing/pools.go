package racing

// Pool types offered by the racing provider. Win and place pools price a
// single race; the T-prefixed pools are multi-leg games whose odds query
// returns rows spanning every leg of the game.
const (
	PoolTypeWin   = "VOI"
	PoolTypePlace = "SIJA"
)

var multiLegPoolTypes = map[string]bool{
	"T4":  true,
	"T5":  true,
	"T64": true,
	"T65": true,
	"T75": true,
	"T86": true,
}

// IsMultiLegPoolType reports whether odds for the pool type span several
// races and need filtering by race identifier. The classification must be
// exact: treating a single-race pool as multi-leg drops every row, and
// the reverse leaks rows from other races.
func IsMultiLegPoolType(poolType string) bool {
	return multiLegPoolTypes[poolType]
}

// IsRecognizedPoolType reports whether the pool type is one this service
// knows how to price. Unrecognized pools are discarded at fetch time.
func IsRecognizedPoolType(poolType string) bool {
	return poolType == PoolTypeWin || poolType == PoolTypePlace || multiLegPoolTypes[poolType]
}
