// Package catalog stores the draftable player pool and its rankings. The
// draft engine tracks players only by id; the catalog is the source of
// names, positions, projections, and bye weeks. Three backends are
// available: in-memory, SQLite, and PostgreSQL.
package catalog

import (
	"errors"

	"github.com/gridironhq/draft-assistant/internal/models"
)

// ErrNotFound is returned when a player id has no catalog entry.
var ErrNotFound = errors.New("player not found")

// Query filters a player listing. Zero values mean no filter; results are
// always ordered by rank.
type Query struct {
	// ExcludeIDs drops specific players, typically everyone already drafted.
	ExcludeIDs []string
	// Positions keeps only players at one of the given raw positions.
	Positions []string
	// Search keeps players whose name contains the term, case-insensitively.
	Search string
	// Team keeps players on one NFL team.
	Team string
	// Limit caps the result count; 0 means unlimited.
	Limit int
}

// PlayerCatalog is the storage interface for the player pool.
type PlayerCatalog interface {
	Players(q Query) ([]models.Player, error)
	PlayerByID(id string) (*models.Player, error)
	AddPlayer(player *models.Player) (*models.Player, error)
	SetProjectedPoints(id string, points float64) (*models.Player, error)
	ReplaceAll(players []models.Player) error
	NFLTeams() ([]string, error)
	Reset() error
}
