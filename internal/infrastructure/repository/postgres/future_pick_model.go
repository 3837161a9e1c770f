package postgres

import "github.com/riskibarqy/pick-ledger/internal/domain/pick"

const futurePickTable = "future_picks"

var futurePickColumns = []string{
	"season",
	"round",
	"current_owner_id",
	"original_owner_id",
	"traded",
	"lost",
}

type futurePickTableModel struct {
	Season          int   `db:"season"`
	Round           int   `db:"round"`
	CurrentOwnerID  int64 `db:"current_owner_id"`
	OriginalOwnerID int64 `db:"original_owner_id"`
	Traded          bool  `db:"traded"`
	Lost            bool  `db:"lost"`
}

type futurePickInsertModel struct {
	LeagueID        int64 `db:"league_id"`
	Season          int   `db:"season"`
	Round           int   `db:"round"`
	CurrentOwnerID  int64 `db:"current_owner_id"`
	OriginalOwnerID int64 `db:"original_owner_id"`
	Traded          bool  `db:"traded"`
	Lost            bool  `db:"lost"`
}

// Owner names are not stored; the ledger resolves them from the owner directory.
func (m futurePickTableModel) toRecord() pick.Record {
	r := pick.Record{
		Season: m.Season,
		Round:  m.Round,
		Traded: m.Traded,
		Lost:   m.Lost,
	}
	r.CurrentOwner.ID = m.CurrentOwnerID
	r.OriginalOwner.ID = m.OriginalOwnerID
	return r
}

func newFuturePickInsertModel(leagueID int64, r pick.Record) futurePickInsertModel {
	originalID := r.OriginalOwner.ID
	if originalID == 0 {
		originalID = r.CurrentOwner.ID
	}
	return futurePickInsertModel{
		LeagueID:        leagueID,
		Season:          r.Season,
		Round:           r.Round,
		CurrentOwnerID:  r.CurrentOwner.ID,
		OriginalOwnerID: originalID,
		Traded:          r.Traded,
		Lost:            r.Lost,
	}
}
