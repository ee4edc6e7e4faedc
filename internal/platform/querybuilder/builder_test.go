package querybuilder

import (
	"strings"
	"testing"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("public_id", "name").
		From("teams").
		Where(Eq("tournament_id", "t1"), Eq("sport_category", "THROWBALL_WOMEN"), IsNull("deleted_at")).
		OrderBy("name").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT public_id, name FROM teams WHERE tournament_id = $1 AND sport_category = $2 AND deleted_at IS NULL ORDER BY name LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "t1" || args[1] != "THROWBALL_WOMEN" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_ForUpdateWithExpr(t *testing.T) {
	query, args, err := Select("public_id", "remaining_budget").
		From("teams").
		Where(Eq("public_id", "vb-thunder"), Expr("remaining_budget >= ? AND current_players < ?", int64(5000000), 10)).
		ForUpdate().
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT public_id, remaining_budget FROM teams WHERE public_id = $1 AND remaining_budget >= $2 AND current_players < $3 FOR UPDATE"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[2] != 10 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("auction_queue_items").
		Columns("public_id", "player_id").
		Values("q1", "p1").
		Returning("id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO auction_queue_items (public_id, player_id) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "q1" || args[1] != "p1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("teams").
		SetExpr("remaining_budget", "remaining_budget - ?", int64(2000000)).
		SetExpr("updated_at", "NOW()").
		Where(Eq("public_id", "team-1"), Expr("remaining_budget >= ?", int64(2000000))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE teams SET remaining_budget = remaining_budget - $1, updated_at = NOW() WHERE public_id = $2 AND remaining_budget >= $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[1] != "team-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("auction_queue_items").
		Where(Eq("tournament_id", "t1"), Eq("sport_category", "VOLLEYBALL_OPEN_MEN")).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM auction_queue_items WHERE tournament_id = $1 AND sport_category = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("auction_queue_items").ToSQL(); err == nil {
		t.Fatalf("expected error for delete without where")
	}
}

func TestInsertModel(t *testing.T) {
	row := struct {
		PublicID string `db:"public_id"`
		Notes    string `db:"notes"`
		skipped  string
		Ignored  string `db:"-"`
	}{PublicID: "pref-1", Notes: "keep"}

	query, args, err := InsertModel("team_preferences", row).ToSQL()
	if err != nil {
		t.Fatalf("insert model: %v", err)
	}
	if query != "INSERT INTO team_preferences (public_id, notes) VALUES ($1, $2)" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2 || row.skipped != "" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel_Rejections(t *testing.T) {
	var nilRow *struct {
		ID string `db:"id"`
	}
	for name, model := range map[string]any{
		"nil pointer": nilRow,
		"not struct":  "auction_queue",
		"no columns":  struct{ Name string }{Name: "x"},
	} {
		if _, _, err := InsertModel("auction_queue", model).ToSQL(); err == nil || !strings.Contains(err.Error(), "auction_queue") {
			t.Fatalf("%s: expected table-scoped error, got %v", name, err)
		}
	}
}

func TestInsertModel_OnConflictUpdate(t *testing.T) {
	row := struct {
		TournamentID string `db:"tournament_public_id"`
		Initial      int    `db:"initial_timer_seconds"`
		Sound        bool   `db:"sound_enabled"`
	}{TournamentID: "community-cup-2026", Initial: 60, Sound: true}

	query, args, err := InsertModel("auction_display_configs", row).
		OnConflictUpdate([]string{"tournament_public_id"}, "initial_timer_seconds", "sound_enabled").
		ToSQL()
	if err != nil {
		t.Fatalf("build upsert: %v", err)
	}

	wantQuery := "INSERT INTO auction_display_configs (tournament_public_id, initial_timer_seconds, sound_enabled) VALUES ($1, $2, $3)" +
		" ON CONFLICT (tournament_public_id) DO UPDATE SET initial_timer_seconds = EXCLUDED.initial_timer_seconds, sound_enabled = EXCLUDED.sound_enabled"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "community-cup-2026" {
		t.Fatalf("unexpected args: %+v", args)
	}

	query, _, err = InsertInto("tournaments").Columns("public_id").Values("t1").OnConflictUpdate([]string{"public_id"}).ToSQL()
	if err != nil || query != "INSERT INTO tournaments (public_id) VALUES ($1) ON CONFLICT (public_id) DO NOTHING" {
		t.Fatalf("unexpected do-nothing upsert: %s err=%v", query, err)
	}
}

func TestUpdateBuilder_Returning(t *testing.T) {
	query, args, err := Update("auction_allocations").
		SetExpr("undone_at", "NOW()").
		Where(Eq("public_id", "alloc_1"), IsNull("undone_at")).
		Returning("undone_at").
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}
	if query != "UPDATE auction_allocations SET undone_at = NOW() WHERE public_id = $1 AND undone_at IS NULL RETURNING undone_at" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
