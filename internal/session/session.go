// Package session owns one live draft. It holds the engine, the player
// catalog, and the event bus behind a single lock so the HTTP layer never
// touches a half-updated draft, and it publishes an event after every state
// change so connected views stay current.
package session

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/gridironhq/draft-assistant/internal/catalog"
	"github.com/gridironhq/draft-assistant/internal/engine"
	"github.com/gridironhq/draft-assistant/internal/insights"
	"github.com/gridironhq/draft-assistant/internal/models"
	"github.com/gridironhq/draft-assistant/internal/pubsub"
	"github.com/gridironhq/draft-assistant/internal/roster"
)

// appVersion is stamped into exported state documents.
const appVersion = "1.0"

// Session binds a draft engine to a player catalog and an event bus.
type Session struct {
	mu      sync.RWMutex
	engine  *engine.DraftEngine
	catalog catalog.PlayerCatalog
	bus     *pubsub.Bus
	clock   clockwork.Clock
}

// New creates a session with a fresh engine for cfg.
func New(cfg models.DraftConfig, cat catalog.PlayerCatalog, bus *pubsub.Bus) (*Session, error) {
	return NewWithClock(cfg, cat, bus, clockwork.NewRealClock())
}

// NewWithClock is New with an injectable clock for tests.
func NewWithClock(cfg models.DraftConfig, cat catalog.PlayerCatalog, bus *pubsub.Bus, clock clockwork.Clock) (*Session, error) {
	eng, err := engine.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Session{
		engine:  eng,
		catalog: cat,
		bus:     bus,
		clock:   clock,
	}, nil
}

// DraftPlayer records the next sequential pick for team, resolving the
// player from the catalog.
func (s *Session) DraftPlayer(playerID string, team int) (models.DraftPick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.catalog.PlayerByID(playerID)
	if err != nil {
		return models.DraftPick{}, err
	}

	nflTeam := player.Team
	pick, err := s.engine.DraftPlayer(player.ID, player.Name, player.Position, team, &nflTeam)
	if err != nil {
		return models.DraftPick{}, err
	}

	s.publishPick(pubsub.EventDraftPick, pick)
	return pick, nil
}

// AssignPick places a catalog player on an arbitrary open pick number,
// regardless of whose turn it is.
func (s *Session) AssignPick(pickNumber int, playerID string, team int) (models.DraftPick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.catalog.PlayerByID(playerID)
	if err != nil {
		return models.DraftPick{}, err
	}

	nflTeam := player.Team
	pick, err := s.engine.AssignPlayerToPick(pickNumber, player.ID, player.Name, player.Position, team, &nflTeam)
	if err != nil {
		return models.DraftPick{}, err
	}

	s.publishPick(pubsub.EventPickAssigned, pick)
	return pick, nil
}

// UndoLastPick reverses the most recent selection.
func (s *Session) UndoLastPick() (models.DraftPick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pick, err := s.engine.UndoLastPick()
	if err != nil {
		return models.DraftPick{}, err
	}

	s.publishPick(pubsub.EventPickUndone, pick)
	return pick, nil
}

// Reset replaces the engine with a fresh one built from the same
// configuration. Drafted picks are discarded; the catalog is untouched.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	eng, err := engine.New(s.engine.Config())
	if err != nil {
		return err
	}
	s.engine = eng

	s.bus.Publish(pubsub.Event{Type: pubsub.EventDraftReset})
	return nil
}

// Export serializes the draft as an indented state document stamped with the
// export time and app version.
func (s *Session) Export() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := s.engine.Snapshot()
	doc.ExportTimestamp = s.clock.Now().UTC().Format(time.RFC3339)
	doc.AppVersion = appVersion
	return json.MarshalIndent(doc, "", "  ")
}

// Import replaces the running draft with the one described by data. The
// document is validated in full before anything is swapped, so a bad import
// leaves the current draft running.
func (s *Session) Import(data []byte) error {
	doc, err := engine.ParseStateDocument(data)
	if err != nil {
		return err
	}
	eng, err := engine.FromSnapshot(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine = eng

	status := eng.Status()
	s.bus.Publish(pubsub.Event{
		Type: pubsub.EventStateImported,
		Payload: map[string]interface{}{
			"current_pick":  status.CurrentPick,
			"current_round": status.CurrentRound,
			"picks":         len(eng.Board()),
		},
	})
	return nil
}

// Status returns the engine's position summary.
func (s *Session) Status() models.DraftStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Status()
}

// Config returns the draft configuration.
func (s *Session) Config() models.DraftConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Config()
}

// Board returns every pick made so far in pick order.
func (s *Session) Board() []models.DraftPick {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Board()
}

// PickInfo describes one slot in the draft order, or nil when pickNumber is
// out of range.
func (s *Session) PickInfo(pickNumber int) *models.PickInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.PickInfo(pickNumber)
}

// NextUserPicks returns the user's next pick numbers.
func (s *Session) NextUserPicks(count int) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.NextUserPicks(count)
}

// TeamRoster returns the picks held by one team.
func (s *Session) TeamRoster(team int) []models.DraftPick {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.TeamRoster(team)
}

// UserRoster returns the picks held by the user's team.
func (s *Session) UserRoster() []models.DraftPick {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.TeamRoster(s.engine.Config().UserPosition)
}

// AssignedRoster arranges a team's picks into starting lineup and bench
// slots under the session's roster rules.
func (s *Session) AssignedRoster(team int) roster.AssignedRoster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return roster.Assign(s.engine.TeamRoster(team), s.engine.Config().RosterConfig)
}

// PositionNeeds reports a team's unfilled starting slots.
func (s *Session) PositionNeeds(team int) map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.PositionNeeds(team)
}

// AvailablePlayers queries the catalog with every drafted player excluded.
// FLEX and SUPERFLEX position filters expand to the positions eligible for
// those slots.
func (s *Session) AvailablePlayers(q catalog.Query) ([]models.Player, error) {
	s.mu.RLock()
	drafted := s.engine.DraftedPlayerIDs()
	s.mu.RUnlock()

	q.ExcludeIDs = append(append([]string{}, q.ExcludeIDs...), drafted...)
	q.Positions = expandPositions(q.Positions)
	return s.catalog.Players(q)
}

// NFLTeams lists the distinct NFL teams on the board, for filter dropdowns.
func (s *Session) NFLTeams() ([]string, error) {
	return s.catalog.NFLTeams()
}

// AddPlayer inserts a custom player into the catalog so a late riser can be
// drafted without reloading the whole board.
func (s *Session) AddPlayer(player *models.Player) (*models.Player, error) {
	return s.catalog.AddPlayer(player)
}

// ExportRankings writes the current board as rankings CSV.
func (s *Session) ExportRankings(w io.Writer) error {
	players, err := s.catalog.Players(catalog.Query{})
	if err != nil {
		return err
	}
	return catalog.WritePlayersCSV(w, players)
}

// ImportRankings replaces the board with the rankings read from r. Picks
// already made keep the player details they were recorded with.
func (s *Session) ImportRankings(r io.Reader) (int, error) {
	players, err := catalog.ReadPlayersCSV(r)
	if err != nil {
		return 0, err
	}
	if err := s.catalog.ReplaceAll(players); err != nil {
		return 0, err
	}

	s.bus.Publish(pubsub.Event{
		Type:    pubsub.EventRankingsLoaded,
		Payload: map[string]interface{}{"players": len(players)},
	})
	return len(players), nil
}

// Scarcity summarizes how thin each position has been drafted.
func (s *Session) Scarcity() (map[string]insights.PositionScarcity, error) {
	available, err := s.AvailablePlayers(catalog.Query{})
	if err != nil {
		return nil, err
	}
	all, err := s.catalog.Players(catalog.Query{})
	if err != nil {
		return nil, err
	}
	return insights.PositionalScarcity(available, all), nil
}

// Targets suggests players for the user's next picks, weighted toward
// unfilled positions.
func (s *Session) Targets(count int) ([]models.Player, error) {
	available, err := s.AvailablePlayers(catalog.Query{})
	if err != nil {
		return nil, err
	}
	return insights.SuggestedTargets(available, s.userNeeds(), count), nil
}

// Recap grades the user's completed picks.
func (s *Session) Recap() (insights.Recap, error) {
	picks := s.UserRoster()

	players := make([]models.Player, 0, len(picks))
	for _, pick := range picks {
		player, err := s.catalog.PlayerByID(pick.PlayerID)
		if err != nil {
			// Custom players are not in the catalog; grade what we can
			continue
		}
		players = append(players, *player)
	}

	return insights.BuildRecap(picks, players, s.userNeeds()), nil
}

// ValidateUserRoster checks the user's roster against the configured slots.
func (s *Session) ValidateUserRoster() insights.RosterValidation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := s.engine.Config()
	return insights.ValidateRosterConstruction(s.engine.TeamRoster(cfg.UserPosition), cfg.RosterConfig)
}

// CheatSheet renders the plain-text draft sheet for the user's situation.
func (s *Session) CheatSheet() (string, error) {
	available, err := s.AvailablePlayers(catalog.Query{})
	if err != nil {
		return "", err
	}
	return insights.BuildCheatSheet(available, s.userNeeds()), nil
}

func (s *Session) userNeeds() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.PositionNeeds(s.engine.Config().UserPosition)
}

func (s *Session) publishPick(eventType string, pick models.DraftPick) {
	s.bus.Publish(pubsub.Event{
		Type: eventType,
		Payload: map[string]interface{}{
			"pick_number": pick.PickNumber,
			"round":       pick.Round,
			"team":        pick.Team,
			"player_id":   pick.PlayerID,
			"player_name": pick.PlayerName,
			"position":    pick.Position,
			"user_pick":   pick.Team == s.engine.Config().UserPosition,
		},
	})
}

// expandPositions maps composite slot names onto the raw positions they
// accept and drops duplicates.
func expandPositions(positions []string) []string {
	if len(positions) == 0 {
		return positions
	}
	seen := make(map[string]bool)
	expanded := make([]string, 0, len(positions))
	add := func(pos string) {
		if !seen[pos] {
			seen[pos] = true
			expanded = append(expanded, pos)
		}
	}
	for _, pos := range positions {
		switch pos {
		case models.SlotFlex:
			add(models.PositionRB)
			add(models.PositionWR)
			add(models.PositionTE)
		case models.SlotSuperflex:
			add(models.PositionQB)
			add(models.PositionRB)
			add(models.PositionWR)
			add(models.PositionTE)
		default:
			add(pos)
		}
	}
	return expanded
}
