package services

// Vote power tiers. A voter's own standing is normalized against the total
// weight ever issued so a single account cannot dominate tiering as the
// system grows.
const (
	PowerNone   int64 = 0
	PowerSingle int64 = 1
	PowerDouble int64 = 2
	PowerTriple int64 = 3
)

// PowerOf maps a caller's accumulated score and the global running total into
// a discrete voting-power tier. The very first vote in the system always
// carries power 1 so the denominator never starts stuck at zero.
//
// The ratio uses truncating integer division to keep parity with the ledger's
// historical banding: a small negative score over a large total still lands
// in the 0-33 band.
func PowerOf(callerScore int64, totalWeight int64) int64 {
	if totalWeight == 0 {
		return PowerSingle
	}
	ratio := callerScore * 100 / totalWeight
	switch {
	case ratio < 0:
		return PowerNone
	case ratio <= 33:
		return PowerSingle
	case ratio <= 66:
		return PowerDouble
	default:
		return PowerTriple
	}
}
