package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pick-ledger/internal/domain/pick"
	qb "github.com/riskibarqy/pick-ledger/internal/platform/querybuilder"
)

const futurePickInsertBatch = 500

// FuturePickRepository stores the future pick set of one league. ReplaceAll
// soft-deletes the live rows and inserts the new set in a single transaction.
type FuturePickRepository struct {
	db       *sqlx.DB
	leagueID int64
}

func NewFuturePickRepository(db *sqlx.DB, leagueID int64) *FuturePickRepository {
	return &FuturePickRepository{db: db, leagueID: leagueID}
}

func (r *FuturePickRepository) List(ctx context.Context) ([]pick.Record, error) {
	query, args, err := r.listQuery()
	if err != nil {
		return nil, fmt.Errorf("build select future picks query: %w", err)
	}

	var rows []futurePickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select future picks: %w", err)
	}

	out := make([]pick.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toRecord())
	}
	return out, nil
}

func (r *FuturePickRepository) ReplaceAll(ctx context.Context, records []pick.Record) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace future picks: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update(futurePickTable).
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("league_id", r.leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear future picks query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear future picks: %w", err)
	}

	batches, err := r.insertQueries(records)
	if err != nil {
		return err
	}
	for i, batch := range batches {
		if _, err := tx.ExecContext(ctx, batch.query, batch.args...); err != nil {
			return fmt.Errorf("insert future picks batch=%d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace future picks tx: %w", err)
	}
	return nil
}

func (r *FuturePickRepository) listQuery() (string, []any, error) {
	return qb.Select(futurePickColumns...).From(futurePickTable).
		Where(
			qb.Eq("league_id", r.leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("season", "current_owner_id", "round", "id").
		ToSQL()
}

type sqlStatement struct {
	query string
	args  []any
}

func (r *FuturePickRepository) insertQueries(records []pick.Record) ([]sqlStatement, error) {
	out := make([]sqlStatement, 0, len(records)/futurePickInsertBatch+1)
	for start := 0; start < len(records); start += futurePickInsertBatch {
		end := min(start+futurePickInsertBatch, len(records))

		models := make([]futurePickInsertModel, 0, end-start)
		for _, record := range records[start:end] {
			models = append(models, newFuturePickInsertModel(r.leagueID, record))
		}
		query, args, err := qb.InsertModels(futurePickTable, models, "")
		if err != nil {
			return nil, fmt.Errorf("build insert future picks query: %w", err)
		}
		out = append(out, sqlStatement{query: query, args: args})
	}
	return out, nil
}
