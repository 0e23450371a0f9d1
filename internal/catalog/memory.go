package catalog

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gridironhq/draft-assistant/internal/models"
)

// MemoryCatalog implements PlayerCatalog with in-memory storage. The slice
// is kept sorted by rank so reads only filter.
type MemoryCatalog struct {
	mu      sync.RWMutex
	players []models.Player
}

// NewMemoryCatalog creates an in-memory catalog seeded with the default
// draft board.
func NewMemoryCatalog() *MemoryCatalog {
	c := &MemoryCatalog{}
	c.setPlayers(DefaultPlayers())
	return c
}

func (c *MemoryCatalog) setPlayers(players []models.Player) {
	cp := make([]models.Player, len(players))
	copy(cp, players)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Rank < cp[j].Rank })
	c.players = cp
}

func (c *MemoryCatalog) Players(q Query) ([]models.Player, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	excluded := make(map[string]bool, len(q.ExcludeIDs))
	for _, id := range q.ExcludeIDs {
		excluded[id] = true
	}
	search := strings.ToLower(q.Search)

	matches := make([]models.Player, 0)
	for _, p := range c.players {
		if excluded[p.ID] {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if len(q.Positions) > 0 && !containsString(q.Positions, p.Position) {
			continue
		}
		if q.Team != "" && p.Team != q.Team {
			continue
		}
		matches = append(matches, p)
		if q.Limit > 0 && len(matches) == q.Limit {
			break
		}
	}
	return matches, nil
}

func (c *MemoryCatalog) PlayerByID(id string) (*models.Player, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.players {
		if p.ID == id {
			player := p
			return &player, nil
		}
	}
	return nil, ErrNotFound
}

func (c *MemoryCatalog) AddPlayer(player *models.Player) (*models.Player, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if player.ID == "" {
		player.ID = genID("player")
	}
	c.players = append(c.players, *player)
	sort.SliceStable(c.players, func(i, j int) bool { return c.players[i].Rank < c.players[j].Rank })
	return player, nil
}

func (c *MemoryCatalog) SetProjectedPoints(id string, points float64) (*models.Player, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.players {
		if c.players[i].ID == id {
			c.players[i].ProjectedPoints = points
			player := c.players[i]
			return &player, nil
		}
	}
	return nil, ErrNotFound
}

func (c *MemoryCatalog) ReplaceAll(players []models.Player) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setPlayers(players)
	return nil
}

func (c *MemoryCatalog) NFLTeams() ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]bool)
	teams := make([]string, 0)
	for _, p := range c.players {
		if !seen[p.Team] {
			seen[p.Team] = true
			teams = append(teams, p.Team)
		}
	}
	sort.Strings(teams)
	return teams, nil
}

func (c *MemoryCatalog) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setPlayers(DefaultPlayers())
	return nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func genID(prefix string) string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b))
}
