package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/gridironhq/draft-assistant/internal/models"
)

// PostgresCatalog implements PlayerCatalog using PostgreSQL, for leagues
// that keep a shared rankings board on a hosted instance.
type PostgresCatalog struct {
	db *sql.DB
}

// NewPostgresCatalog connects to the database at connString and seeds the
// default board when the players table is empty. Connection pool settings
// assume a managed cluster with failovers, so connections are recycled and
// the initial ping retries through DNS propagation delays.
func NewPostgresCatalog(connString string) (*PostgresCatalog, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	maxRetries := 5
	retryDelay := 5 * time.Second
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		err := db.PingContext(ctx)
		cancel()

		if err == nil {
			lastErr = nil
			break
		}

		lastErr = err
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("failed to ping postgres after %d retries: %w", maxRetries, lastErr)
	}

	c := &PostgresCatalog{db: db}
	if err := c.initSchema(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *PostgresCatalog) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		position TEXT NOT NULL,
		team TEXT NOT NULL,
		rank INTEGER NOT NULL,
		projected_points DOUBLE PRECISION NOT NULL DEFAULT 0,
		bye_week INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_players_rank ON players(rank);
	CREATE INDEX IF NOT EXISTS idx_players_position ON players(position);
	CREATE INDEX IF NOT EXISTS idx_players_team ON players(team);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return err
	}

	// Add bye_week to databases created before it existed.
	_, err := c.db.Exec(`
		ALTER TABLE players
		ADD COLUMN IF NOT EXISTS bye_week INTEGER NOT NULL DEFAULT 0
	`)
	if err != nil {
		return fmt.Errorf("failed to add bye_week column: %w", err)
	}

	var count int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM players").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return c.insertPlayers(DefaultPlayers())
	}
	return nil
}

func (c *PostgresCatalog) insertPlayers(players []models.Player) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range players {
		_, err := tx.Exec(`
			INSERT INTO players (id, name, position, team, rank, projected_points, bye_week)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, p.ID, p.Name, p.Position, p.Team, p.Rank, p.ProjectedPoints, p.ByeWeek)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (c *PostgresCatalog) Players(q Query) ([]models.Player, error) {
	query := `
		SELECT id, name, position, team, rank, projected_points, bye_week
		FROM players
	`
	where, args := buildFilters(q, dollarPlaceholder)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY rank"
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
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

func (c *PostgresCatalog) PlayerByID(id string) (*models.Player, error) {
	var p models.Player
	err := c.db.QueryRow(`
		SELECT id, name, position, team, rank, projected_points, bye_week
		FROM players WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Position, &p.Team, &p.Rank, &p.ProjectedPoints, &p.ByeWeek)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *PostgresCatalog) AddPlayer(player *models.Player) (*models.Player, error) {
	if player.ID == "" {
		player.ID = genID("player")
	}
	_, err := c.db.Exec(`
		INSERT INTO players (id, name, position, team, rank, projected_points, bye_week)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, player.ID, player.Name, player.Position, player.Team, player.Rank, player.ProjectedPoints, player.ByeWeek)
	return player, err
}

func (c *PostgresCatalog) SetProjectedPoints(id string, points float64) (*models.Player, error) {
	res, err := c.db.Exec(`
		UPDATE players SET projected_points = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2
	`, points, id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return c.PlayerByID(id)
}

func (c *PostgresCatalog) ReplaceAll(players []models.Player) error {
	if _, err := c.db.Exec("DELETE FROM players"); err != nil {
		return err
	}
	return c.insertPlayers(players)
}

func (c *PostgresCatalog) NFLTeams() ([]string, error) {
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

func (c *PostgresCatalog) Reset() error {
	return c.ReplaceAll(DefaultPlayers())
}

func (c *PostgresCatalog) Close() error {
	return c.db.Close()
}
