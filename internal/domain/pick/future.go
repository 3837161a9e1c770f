package pick

import (
	"fmt"

	"github.com/riskibarqy/pick-ledger/internal/domain/owner"
)

// DefaultGeneratedRounds matches the provider's full draft length. Rounds past
// MaxRound are generated and then dropped by normalization.
const DefaultGeneratedRounds = 20

// BuildFuture allocates every round of every season in [startSeason, endSeason)
// to each owner, untraded.
func BuildFuture(owners []owner.Owner, startSeason, endSeason, rounds int) ([]Record, error) {
	if endSeason <= startSeason {
		return nil, fmt.Errorf("end season %d must be after start season %d", endSeason, startSeason)
	}
	if !SeasonInRange(startSeason) || !SeasonInRange(endSeason-1) {
		return nil, fmt.Errorf("seasons must be between %d and %d", EarliestSeason, LatestSeason)
	}
	if rounds < MinRound {
		return nil, fmt.Errorf("rounds must be >= %d", MinRound)
	}

	out := make([]Record, 0, len(owners)*(endSeason-startSeason)*rounds)
	for _, o := range owners {
		for season := startSeason; season < endSeason; season++ {
			for round := MinRound; round <= rounds; round++ {
				out = append(out, Record{
					Season:        season,
					Round:         round,
					CurrentOwner:  o,
					OriginalOwner: o,
				})
			}
		}
	}
	return out, nil
}
