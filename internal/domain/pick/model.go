package pick

import (
	"fmt"

	"github.com/riskibarqy/pick-ledger/internal/domain/owner"
	"github.com/shopspring/decimal"
)

const (
	MinRound = 1
	MaxRound = 10
)

// Seasons outside this window are treated as corrupt input.
const (
	EarliestSeason = 1900
	LatestSeason   = 2999
)

// Key identifies a pick lineage. Exactly one active record exists per key.
type Key struct {
	Season          int
	Round           int
	OriginalOwnerID int64
}

func (k Key) String() string {
	return fmt.Sprintf("season=%d round=%d original_owner=%d", k.Season, k.Round, k.OriginalOwnerID)
}

// Record is the canonical draft pick row.
type Record struct {
	Season        int
	Round         int
	CurrentOwner  owner.Owner
	OriginalOwner owner.Owner
	Traded        bool
	Lost          bool
	Value         decimal.Decimal
}

func (r Record) Key() Key {
	return Key{
		Season:          r.Season,
		Round:           r.Round,
		OriginalOwnerID: r.OriginalOwner.ID,
	}
}

// Active reports whether the record is the current holding for its lineage.
func (r Record) Active() bool {
	return !r.Lost
}

func RoundInRange(round int) bool {
	return round >= MinRound && round <= MaxRound
}

func SeasonInRange(season int) bool {
	return season >= EarliestSeason && season <= LatestSeason
}

func cloneRecords(records []Record) []Record {
	return append([]Record(nil), records...)
}
