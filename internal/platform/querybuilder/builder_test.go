package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("season", "round").
		From("future_picks").
		Where(Eq("league_id", int64(199769)), IsNull("deleted_at")).
		OrderBy("season", "round").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT season, round FROM future_picks WHERE league_id = $1 AND deleted_at IS NULL ORDER BY season, round LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != int64(199769) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("future_picks").
		Set("lost", true).
		SetExpr("deleted_at", "NOW()").
		Where(Eq("league_id", int64(7))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE future_picks SET lost = $1, deleted_at = NOW() WHERE league_id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != true || args[1] != int64(7) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

type testRow struct {
	Season  int    `db:"season"`
	Round   int    `db:"round,omitempty"`
	Note    string `db:"-"`
	private int
}

func TestInsertModels(t *testing.T) {
	query, args, err := InsertModels("future_picks", []testRow{
		{Season: 2025, Round: 1},
		{Season: 2026, Round: 2},
	}, "RETURNING id")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO future_picks (season, round) VALUES ($1, $2), ($3, $4) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != 2025 || args[3] != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModels[testRow]("future_picks", nil, ""); err == nil {
		t.Fatalf("expected error for empty models")
	}
}
