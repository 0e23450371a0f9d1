package catalog

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gridironhq/draft-assistant/internal/models"
)

func TestBuildFiltersEmptyQuery(t *testing.T) {
	where, args := buildFilters(Query{}, questionPlaceholder)
	if len(where) != 0 {
		t.Errorf("expected no clauses, got %v", where)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestBuildFiltersQuestionPlaceholders(t *testing.T) {
	q := Query{
		ExcludeIDs: []string{"qb_1", "rb_1"},
		Search:     "Allen",
		Positions:  []string{"QB", "RB"},
		Team:       "BUF",
	}

	where, args := buildFilters(q, questionPlaceholder)

	wantWhere := []string{
		"id NOT IN (?, ?)",
		"LOWER(name) LIKE ?",
		"position IN (?, ?)",
		"team = ?",
	}
	if !reflect.DeepEqual(where, wantWhere) {
		t.Errorf("clauses wrong:\n got %v\nwant %v", where, wantWhere)
	}

	wantArgs := []interface{}{"qb_1", "rb_1", "%allen%", "QB", "RB", "BUF"}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("args wrong:\n got %v\nwant %v", args, wantArgs)
	}
}

func TestBuildFiltersDollarPlaceholders(t *testing.T) {
	q := Query{
		ExcludeIDs: []string{"qb_1", "rb_1"},
		Search:     "Allen",
		Positions:  []string{"QB"},
		Team:       "BUF",
	}

	where, _ := buildFilters(q, dollarPlaceholder)

	// Placeholders number the args in order across all clauses.
	wantWhere := []string{
		"id NOT IN ($1, $2)",
		"LOWER(name) LIKE $3",
		"position IN ($4)",
		"team = $5",
	}
	if !reflect.DeepEqual(where, wantWhere) {
		t.Errorf("clauses wrong:\n got %v\nwant %v", where, wantWhere)
	}
}

func newTestSQLiteCatalog(t *testing.T) *SQLiteCatalog {
	t.Helper()

	c, err := NewSQLiteCatalog(filepath.Join(t.TempDir(), "draft.sqlite"))
	if err != nil {
		t.Fatalf("NewSQLiteCatalog() failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSQLiteCatalogSeedsDefaultBoard(t *testing.T) {
	c := newTestSQLiteCatalog(t)

	players, err := c.Players(Query{})
	if err != nil {
		t.Fatalf("Players() failed: %v", err)
	}
	if len(players) != 83 {
		t.Fatalf("expected 83 seeded players, got %d", len(players))
	}
	if players[0].Name != "Josh Allen" {
		t.Errorf("expected Josh Allen at rank 1, got %s", players[0].Name)
	}
}

func TestSQLiteCatalogFilters(t *testing.T) {
	c := newTestSQLiteCatalog(t)

	players, err := c.Players(Query{
		ExcludeIDs: []string{"qb_1"},
		Positions:  []string{"QB"},
		Search:     "a",
		Limit:      3,
	})
	if err != nil {
		t.Fatalf("Players() failed: %v", err)
	}
	if len(players) != 3 {
		t.Fatalf("expected 3 players, got %d", len(players))
	}
	for i, p := range players {
		if p.Position != "QB" {
			t.Errorf("player %d: expected QB, got %s", i, p.Position)
		}
		if p.ID == "qb_1" {
			t.Error("excluded player came back")
		}
	}
	// Lamar Jackson is the top QB with an "a" once Allen is excluded
	if players[0].ID != "qb_2" {
		t.Errorf("expected qb_2 first, got %s", players[0].ID)
	}
}

func TestSQLiteCatalogPlayerByID(t *testing.T) {
	c := newTestSQLiteCatalog(t)

	p, err := c.PlayerByID("rb_1")
	if err != nil {
		t.Fatalf("PlayerByID() failed: %v", err)
	}
	if p.Name != "Christian McCaffrey" {
		t.Errorf("expected Christian McCaffrey, got %s", p.Name)
	}

	if _, err := c.PlayerByID("nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteCatalogSetProjectedPoints(t *testing.T) {
	c := newTestSQLiteCatalog(t)

	updated, err := c.SetProjectedPoints("wr_1", 301.5)
	if err != nil {
		t.Fatalf("SetProjectedPoints() failed: %v", err)
	}
	if updated.ProjectedPoints != 301.5 {
		t.Errorf("expected 301.5 points, got %v", updated.ProjectedPoints)
	}

	if _, err := c.SetProjectedPoints("nobody", 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteCatalogAddPlayerAssignsID(t *testing.T) {
	c := newTestSQLiteCatalog(t)

	added, err := c.AddPlayer(&models.Player{Name: "Practice Squad Guy", Position: "RB", Team: "FA", Rank: 500})
	if err != nil {
		t.Fatalf("AddPlayer() failed: %v", err)
	}
	if added.ID == "" {
		t.Fatal("expected a generated player id")
	}

	p, err := c.PlayerByID(added.ID)
	if err != nil {
		t.Fatalf("PlayerByID() failed after add: %v", err)
	}
	if p.Name != "Practice Squad Guy" {
		t.Errorf("round trip lost the name, got %s", p.Name)
	}
}

func TestSQLiteCatalogPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.sqlite")

	c, err := NewSQLiteCatalog(path)
	if err != nil {
		t.Fatalf("NewSQLiteCatalog() failed: %v", err)
	}
	custom := []models.Player{
		{ID: "x1", Name: "First", Position: "QB", Team: "AAA", Rank: 1},
		{ID: "x2", Name: "Second", Position: "WR", Team: "BBB", Rank: 2},
	}
	if err := c.ReplaceAll(custom); err != nil {
		t.Fatalf("ReplaceAll() failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	// Reopening must keep the custom board, not reseed the default one
	reopened, err := NewSQLiteCatalog(path)
	if err != nil {
		t.Fatalf("NewSQLiteCatalog() failed on reopen: %v", err)
	}
	defer reopened.Close()

	players, err := reopened.Players(Query{})
	if err != nil {
		t.Fatalf("Players() failed: %v", err)
	}
	if len(players) != 2 || players[0].ID != "x1" {
		t.Fatalf("custom board lost on reopen, got %v", players)
	}

	teams, err := reopened.NFLTeams()
	if err != nil {
		t.Fatalf("NFLTeams() failed: %v", err)
	}
	if len(teams) != 2 || teams[0] != "AAA" || teams[1] != "BBB" {
		t.Fatalf("expected sorted unique teams, got %v", teams)
	}

	if err := reopened.Reset(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	players, err = reopened.Players(Query{})
	if err != nil {
		t.Fatalf("Players() failed after reset: %v", err)
	}
	if len(players) != 83 {
		t.Fatalf("expected the default board back, got %d players", len(players))
	}
}
