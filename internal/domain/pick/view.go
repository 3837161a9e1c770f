package pick

import (
	"github.com/riskibarqy/pick-ledger/internal/domain/owner"
	"github.com/shopspring/decimal"
)

// ViewColumns are the presentation headers, in display order.
var ViewColumns = []string{
	"Season",
	"Pick Round",
	"Pick Owner",
	"Original Owner",
	"Pick Traded",
	"Pick Lost",
	"Pick Value",
}

// ViewRow is the read-only presentation shape of a record.
type ViewRow struct {
	Season        int
	Round         int
	Owner         string
	OriginalOwner string
	Traded        bool
	Lost          bool
	Value         decimal.Decimal
}

func (r ViewRow) Cells() []any {
	return []any{r.Season, r.Round, r.Owner, r.OriginalOwner, r.Traded, r.Lost, r.Value.StringFixed(valuePlaces)}
}

// ViewFilter narrows the presentation view. Zero values match everything.
type ViewFilter struct {
	Season          int
	OwnerID         int64
	OriginalOwnerID int64
	ActiveOnly      bool
}

func (f ViewFilter) matches(r Record) bool {
	if f.Season != 0 && r.Season != f.Season {
		return false
	}
	if f.OwnerID != 0 && r.CurrentOwner.ID != f.OwnerID {
		return false
	}
	if f.OriginalOwnerID != 0 && r.OriginalOwner.ID != f.OriginalOwnerID {
		return false
	}
	if f.ActiveOnly && r.Lost {
		return false
	}
	return true
}

// BuildView keeps the ledger order of records.
func BuildView(records []Record, filter ViewFilter) []ViewRow {
	out := make([]ViewRow, 0, len(records))
	for _, r := range records {
		if !filter.matches(r) {
			continue
		}
		out = append(out, ViewRow{
			Season:        r.Season,
			Round:         r.Round,
			Owner:         r.CurrentOwner.Name,
			OriginalOwner: r.OriginalOwner.Name,
			Traded:        r.Traded,
			Lost:          r.Lost,
			Value:         r.Value,
		})
	}
	return out
}

// OwnerSummary aggregates the active holdings of one owner.
type OwnerSummary struct {
	Owner       owner.Owner
	ActivePicks int
	Acquired    int
	TradedAway  int
	TotalValue  decimal.Decimal
}

// Summarize returns one row per owner, in the order owners are given.
func Summarize(records []Record, owners []owner.Owner) []OwnerSummary {
	byID := make(map[int64]*OwnerSummary, len(owners))
	out := make([]OwnerSummary, len(owners))
	for i, o := range owners {
		out[i] = OwnerSummary{Owner: o, TotalValue: decimal.Zero}
		byID[o.ID] = &out[i]
	}

	for _, r := range records {
		if r.Lost {
			continue
		}
		if holder, ok := byID[r.CurrentOwner.ID]; ok {
			holder.ActivePicks++
			holder.TotalValue = holder.TotalValue.Add(r.Value)
			if r.OriginalOwner.ID != r.CurrentOwner.ID {
				holder.Acquired++
			}
		}
		if r.OriginalOwner.ID != r.CurrentOwner.ID {
			if origin, ok := byID[r.OriginalOwner.ID]; ok {
				origin.TradedAway++
			}
		}
	}

	return out
}
