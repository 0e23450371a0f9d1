package catalog

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gridironhq/draft-assistant/internal/models"
)

// SQLiteCatalog implements PlayerCatalog using SQLite, for keeping a custom
// rankings board around between draft-night sessions.
type SQLiteCatalog struct {
	db *sql.DB
}

// NewSQLiteCatalog opens (creating if needed) the database at dbPath and
// seeds the default board when the players table is empty.
func NewSQLiteCatalog(dbPath string) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	c := &SQLiteCatalog{db: db}
	if err := c.initSchema(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *SQLiteCatalog) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		position TEXT NOT NULL,
		team TEXT NOT NULL,
		rank INTEGER NOT NULL,
		projected_points REAL NOT NULL DEFAULT 0,
		bye_week INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_players_rank ON players(rank);
	CREATE INDEX IF NOT EXISTS idx_players_position ON players(position);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return err
	}

	// Add bye_week to databases created before it existed. SQLite has no
	// IF NOT EXISTS for ALTER TABLE, so check first.
	var byeWeekExists int
	err := c.db.QueryRow(`
		SELECT COUNT(*)
		FROM pragma_table_info('players')
		WHERE name='bye_week'
	`).Scan(&byeWeekExists)
	if err != nil {
		return fmt.Errorf("failed to check bye_week column existence: %w", err)
	}

	if byeWeekExists == 0 {
		_, err = c.db.Exec(`ALTER TABLE players ADD COLUMN bye_week INTEGER NOT NULL DEFAULT 0`)
		if err != nil {
			return fmt.Errorf("failed to add bye_week column: %w", err)
		}
	}

	// Seed default data if empty
	var count int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM players").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return c.insertPlayers(DefaultPlayers())
	}
	return nil
}

func (c *SQLiteCatalog) insertPlayers(players []models.Player) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range players {
		_, err := tx.Exec(`
			INSERT INTO players (id, name, position, team, rank, projected_points, bye_week)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, p.ID, p.Name, p.Position, p.Team, p.Rank, p.ProjectedPoints, p.ByeWeek)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (c *SQLiteCatalog) Players(q Query) ([]models.Player, error) {
	query := `
		SELECT id, name, position, team, rank, projected_points, bye_week
		FROM players
	`
	where, args := buildFilters(q, questionPlaceholder)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY rank"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Position, &p.Team, &p.Rank, &p.ProjectedPoints, &p.ByeWeek); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (c *SQLiteCatalog) PlayerByID(id string) (*models.Player, error) {
	var p models.Player
	err := c.db.QueryRow(`
		SELECT id, name, position, team, rank, projected_points, bye_week
		FROM players WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Position, &p.Team, &p.Rank, &p.ProjectedPoints, &p.ByeWeek)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *SQLiteCatalog) AddPlayer(player *models.Player) (*models.Player, error) {
	if player.ID == "" {
		player.ID = genID("player")
	}
	_, err := c.db.Exec(`
		INSERT INTO players (id, name, position, team, rank, projected_points, bye_week)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, player.ID, player.Name, player.Position, player.Team, player.Rank, player.ProjectedPoints, player.ByeWeek)
	return player, err
}

func (c *SQLiteCatalog) SetProjectedPoints(id string, points float64) (*models.Player, error) {
	res, err := c.db.Exec(`UPDATE players SET projected_points = ? WHERE id = ?`, points, id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return c.PlayerByID(id)
}

func (c *SQLiteCatalog) ReplaceAll(players []models.Player) error {
	if _, err := c.db.Exec("DELETE FROM players"); err != nil {
		return err
	}
	return c.insertPlayers(players)
}

func (c *SQLiteCatalog) NFLTeams() ([]string, error) {
	rows, err := c.db.Query(`SELECT DISTINCT team FROM players ORDER BY team`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]string, 0)
	for rows.Next() {
		var team string
		if err := rows.Scan(&team); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (c *SQLiteCatalog) Reset() error {
	return c.ReplaceAll(DefaultPlayers())
}

func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}

// placeholderFunc renders the placeholder for the i-th (1-based) bound arg.
type placeholderFunc func(i int) string

func questionPlaceholder(int) string { return "?" }

func dollarPlaceholder(i int) string { return fmt.Sprintf("$%d", i) }

// buildFilters translates a Query into WHERE clauses and bound args, shared
// by the SQLite and Postgres backends.
func buildFilters(q Query, placeholder placeholderFunc) ([]string, []interface{}) {
	where := make([]string, 0)
	args := make([]interface{}, 0)

	if len(q.ExcludeIDs) > 0 {
		marks := make([]string, 0, len(q.ExcludeIDs))
		for _, id := range q.ExcludeIDs {
			args = append(args, id)
			marks = append(marks, placeholder(len(args)))
		}
		where = append(where, fmt.Sprintf("id NOT IN (%s)", strings.Join(marks, ", ")))
	}
	if q.Search != "" {
		args = append(args, "%"+strings.ToLower(q.Search)+"%")
		where = append(where, fmt.Sprintf("LOWER(name) LIKE %s", placeholder(len(args))))
	}
	if len(q.Positions) > 0 {
		marks := make([]string, 0, len(q.Positions))
		for _, pos := range q.Positions {
			args = append(args, pos)
			marks = append(marks, placeholder(len(args)))
		}
		where = append(where, fmt.Sprintf("position IN (%s)", strings.Join(marks, ", ")))
	}
	if q.Team != "" {
		args = append(args, q.Team)
		where = append(where, fmt.Sprintf("team = %s", placeholder(len(args))))
	}
	return where, args
}
