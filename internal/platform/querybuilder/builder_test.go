package querybuilder

import (
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "puuid").
		From("accounts").
		Where(Eq("region", "na1"), IsNull("deleted_at")).
		OrderBy("created_at DESC").
		Limit(25).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, puuid FROM accounts WHERE region = $1 AND deleted_at IS NULL ORDER BY created_at DESC LIMIT 25"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "na1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderComparisons(t *testing.T) {
	cutoff := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	query, args, err := Select("id").
		From("accounts").
		Where(EqLiteral("sync_status", "syncing"), Lt("sync_claimed_at", cutoff)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM accounts WHERE sync_status = 'syncing' AND sync_claimed_at < $1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != cutoff {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderIn(t *testing.T) {
	query, args, err := Select("match_id").
		From("matches").
		Where(In("match_id", []any{"NA1_1", "NA1_2"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT match_id FROM matches WHERE match_id IN ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}

	query, _, err = Select("match_id").
		From("matches").
		Where(In("match_id", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("build empty-in query: %v", err)
	}
	if want := "SELECT match_id FROM matches WHERE 1=0"; query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("matches").
		Columns("match_id", "queue_id").
		Values("NA1_100", 420).
		Suffix("ON CONFLICT (match_id) DO UPDATE SET queue_id = EXCLUDED.queue_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO matches (match_id, queue_id) VALUES ($1, $2) ON CONFLICT (match_id) DO UPDATE SET queue_id = EXCLUDED.queue_id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "NA1_100" || args[1] != 420 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("accounts").
		Set("sync_status", "completed").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", int64(7))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE accounts SET sync_status = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "completed" || args[1] != int64(7) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilderExprArgs(t *testing.T) {
	query, args, err := Update("accounts").
		SetExpr("sync_total_matches", "sync_total_matches + ?", 5).
		Where(Eq("id", int64(1))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE accounts SET sync_total_matches = sync_total_matches + $1 WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		MatchID string `db:"match_id"`
		QueueID int    `db:"queue_id"`
		Skipped string `db:"-"`
	}

	query, args, err := InsertModel("matches", row{MatchID: "NA1_9", QueueID: 440, Skipped: "x"}, "")
	if err != nil {
		t.Fatalf("build insert from model: %v", err)
	}

	wantQuery := "INSERT INTO matches (match_id, queue_id) VALUES ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "NA1_9" || args[1] != 440 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
