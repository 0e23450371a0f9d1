package analytics

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Client provides ClickHouse integration for projected fantasy points
type Client struct {
	conn driver.Conn
}

// NewClient creates a new ClickHouse client
func NewClient(addr, database, username, password string) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &Client{conn: conn}, nil
}

// ProjectedPoints retrieves projected fantasy points for a player.
// This scores the trailing year of game stats and extrapolates the
// per-game average to a full season.
func (c *Client) ProjectedPoints(playerID string) (float64, error) {
	var points float64

	query := `
		SELECT
			toFloat64(
				(
					sum(passing_yards) * 0.04 +   -- 1 pt per 25 passing yards
					sum(passing_tds) * 4 +
					sum(rushing_yards) * 0.1 +    -- 1 pt per 10 rushing yards
					sum(rushing_tds) * 6 +
					sum(receptions) * 0.5 +       -- Half-PPR reception scoring
					sum(receiving_yards) * 0.1 +
					sum(receiving_tds) * 6 -
					sum(turnovers) * 2
				) / countDistinct(game_id) * 17   -- Per-game average over 17 games
			) as projected_points
		FROM player_game_stats
		WHERE player_id = $1
		AND game_date >= now() - INTERVAL 1 YEAR
	`

	row := c.conn.QueryRow(context.Background(), query, playerID)
	if err := row.Scan(&points); err != nil {
		return 0, err
	}

	return points, nil
}

// AllProjectedPoints retrieves projected points for every player with stats
func (c *Client) AllProjectedPoints() (map[string]float64, error) {
	points := make(map[string]float64)

	query := `
		SELECT
			player_id,
			toFloat64(
				(
					sum(passing_yards) * 0.04 +
					sum(passing_tds) * 4 +
					sum(rushing_yards) * 0.1 +
					sum(rushing_tds) * 6 +
					sum(receptions) * 0.5 +
					sum(receiving_yards) * 0.1 +
					sum(receiving_tds) * 6 -
					sum(turnovers) * 2
				) / countDistinct(game_id) * 17
			) as projected_points
		FROM player_game_stats
		WHERE game_date >= now() - INTERVAL 1 YEAR
		GROUP BY player_id
	`

	rows, err := c.conn.Query(context.Background(), query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var pts float64
		if err := rows.Scan(&id, &pts); err != nil {
			return nil, err
		}
		points[id] = pts
	}

	return points, nil
}

// SyncProjections pushes warehouse projections into the player catalog.
// This should be called periodically to keep projections up-to-date.
func (c *Client) SyncProjections(updateFunc func(playerID string, points float64) error) error {
	allPoints, err := c.AllProjectedPoints()
	if err != nil {
		return err
	}

	for playerID, points := range allPoints {
		if err := updateFunc(playerID, points); err != nil {
			return fmt.Errorf("failed to update projection for %s: %w", playerID, err)
		}
	}

	return nil
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
