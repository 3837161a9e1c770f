package httpapi

import (
	"time"

	"github.com/riskibarqy/pick-ledger/internal/domain/pick"
	"github.com/riskibarqy/pick-ledger/internal/usecase"
)

type picksViewDTO struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
	Count   int      `json:"count"`
}

func viewToDTO(rows []pick.ViewRow) picksViewDTO {
	out := picksViewDTO{
		Columns: pick.ViewColumns,
		Rows:    make([][]any, 0, len(rows)),
		Count:   len(rows),
	}
	for _, row := range rows {
		out.Rows = append(out.Rows, row.Cells())
	}
	return out
}

type ownerRefDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type pickDTO struct {
	Season        int         `json:"season"`
	Round         int         `json:"round"`
	Owner         ownerRefDTO `json:"owner"`
	OriginalOwner ownerRefDTO `json:"original_owner"`
	Traded        bool        `json:"traded"`
	Lost          bool        `json:"lost"`
	Value         string      `json:"value"`
}

func pickToDTO(r pick.Record) pickDTO {
	return pickDTO{
		Season:        r.Season,
		Round:         r.Round,
		Owner:         ownerRefDTO{ID: r.CurrentOwner.ID, Name: r.CurrentOwner.Name},
		OriginalOwner: ownerRefDTO{ID: r.OriginalOwner.ID, Name: r.OriginalOwner.Name},
		Traded:        r.Traded,
		Lost:          r.Lost,
		Value:         r.Value.StringFixed(2),
	}
}

type ownerSummaryDTO struct {
	Owner       ownerRefDTO `json:"owner"`
	ActivePicks int         `json:"active_picks"`
	Acquired    int         `json:"acquired"`
	TradedAway  int         `json:"traded_away"`
	TotalValue  string      `json:"total_value"`
}

func summaryToDTO(items []pick.OwnerSummary) []ownerSummaryDTO {
	out := make([]ownerSummaryDTO, 0, len(items))
	for _, item := range items {
		out = append(out, ownerSummaryDTO{
			Owner:       ownerRefDTO{ID: item.Owner.ID, Name: item.Owner.Name},
			ActivePicks: item.ActivePicks,
			Acquired:    item.Acquired,
			TradedAway:  item.TradedAway,
			TotalValue:  item.TotalValue.StringFixed(2),
		})
	}
	return out
}

type ledgerStatusDTO struct {
	Loaded           bool       `json:"loaded"`
	RefreshedAt      *time.Time `json:"refreshed_at,omitempty"`
	ReferenceSeason  int        `json:"reference_season,omitempty"`
	MaxFetchedSeason int        `json:"max_fetched_season,omitempty"`
	RecordCount      int        `json:"record_count"`
	ActiveCount      int        `json:"active_count"`
	FutureCount      int        `json:"future_count"`
}

func statusToDTO(status usecase.LedgerStatus) ledgerStatusDTO {
	out := ledgerStatusDTO{
		Loaded:           status.Loaded,
		ReferenceSeason:  status.ReferenceSeason,
		MaxFetchedSeason: status.MaxFetchedSeason,
		RecordCount:      status.RecordCount,
		ActiveCount:      status.ActiveCount,
		FutureCount:      status.FutureCount,
	}
	if !status.RefreshedAt.IsZero() {
		refreshedAt := status.RefreshedAt.UTC()
		out.RefreshedAt = &refreshedAt
	}
	return out
}

// Owners may be given by id or by directory name.
type tradeRequest struct {
	Season            int    `json:"season" validate:"required,gt=0"`
	Round             int    `json:"round" validate:"required,min=1,max=10"`
	FromOriginalOwner string `json:"from_original_owner" validate:"required"`
	ToOwner           string `json:"to_owner" validate:"required"`
}

type tradeResultDTO struct {
	Superseded pickDTO `json:"superseded"`
	Active     pickDTO `json:"active"`
}

type seedRequest struct {
	StartSeason int  `json:"start_season" validate:"required,gt=0"`
	EndSeason   int  `json:"end_season" validate:"required,gtfield=StartSeason"`
	Rounds      int  `json:"rounds" validate:"omitempty,gt=0"`
	Overwrite   bool `json:"overwrite"`
}
