package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gridironhq/draft-assistant/internal/models"
)

// DraftEngine tracks the live state of a single fantasy football draft: the
// pick-by-pick order, every selection made so far, and per-team rosters. The
// zero value is not usable; construct with New or FromSnapshot.
//
// The engine is not safe for concurrent use. Callers that share one across
// goroutines (the HTTP session does) must serialize access themselves.
type DraftEngine struct {
	cfg        models.DraftConfig
	totalPicks int

	// draftOrder[n-1] is the team on the clock for pick n.
	draftOrder []int

	currentPick    int
	currentRound   int
	draftedPlayers []models.DraftPick
	teamRosters    map[int][]models.DraftPick
}

// New validates cfg and returns an engine positioned at pick 1, round 1, with
// an empty board. The draft type is lowercased before validation so "Snake"
// and "SNAKE" are accepted. A nil roster config falls back to the standard
// lineup.
func New(cfg models.DraftConfig) (*DraftEngine, error) {
	cfg.DraftType = models.DraftType(strings.ToLower(string(cfg.DraftType)))
	if cfg.RosterConfig == nil {
		cfg.RosterConfig = models.StandardRosterRules()
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	e := &DraftEngine{
		cfg:          cfg,
		totalPicks:   cfg.LeagueSize * cfg.TotalRounds,
		draftOrder:   BuildDraftOrder(cfg.LeagueSize, cfg.TotalRounds, cfg.DraftType),
		currentPick:  1,
		currentRound: 1,
		teamRosters:  make(map[int][]models.DraftPick, cfg.LeagueSize),
	}
	for team := 1; team <= cfg.LeagueSize; team++ {
		e.teamRosters[team] = make([]models.DraftPick, 0)
	}
	return e, nil
}

func validateConfig(cfg models.DraftConfig) error {
	if cfg.LeagueSize < 1 {
		return &DraftError{CodeInvalidConfig, "league_size must be at least 1"}
	}
	if cfg.UserPosition < 1 || cfg.UserPosition > cfg.LeagueSize {
		return &DraftError{CodeInvalidConfig, fmt.Sprintf("user_position must be between 1 and %d", cfg.LeagueSize)}
	}
	if cfg.TotalRounds < 1 {
		return &DraftError{CodeInvalidConfig, "total_rounds must be at least 1"}
	}
	switch cfg.DraftType {
	case models.DraftTypeSnake, models.DraftTypeLinear:
	default:
		return &DraftError{CodeInvalidConfig, fmt.Sprintf("unknown draft_type %q", cfg.DraftType)}
	}
	for slot, count := range cfg.RosterConfig {
		if count < 0 {
			return &DraftError{CodeInvalidConfig, fmt.Sprintf("roster_config slot %q has negative count %d", slot, count)}
		}
	}
	return nil
}

// DraftPlayer records a selection for the team currently on the clock and
// advances the draft one pick. It fails if the draft is complete or if team
// is not the team scheduled for the current pick; a failed call leaves the
// engine untouched.
func (e *DraftEngine) DraftPlayer(playerID, playerName, position string, team int, nflTeam *string) (models.DraftPick, error) {
	if e.currentPick > e.totalPicks {
		return models.DraftPick{}, &DraftError{CodeDraftComplete, "the draft is complete"}
	}
	if scheduled := e.CurrentTeam(); team != scheduled {
		return models.DraftPick{}, &DraftError{CodeNotYourTurn, fmt.Sprintf("team %d is not on the clock, team %d is", team, scheduled)}
	}

	pick := models.DraftPick{
		PickNumber: e.currentPick,
		Round:      e.currentRound,
		Team:       team,
		PlayerID:   playerID,
		PlayerName: playerName,
		Position:   position,
		NFLTeam:    nflTeam,
	}
	e.draftedPlayers = append(e.draftedPlayers, pick)
	e.teamRosters[team] = append(e.teamRosters[team], pick)

	e.currentPick++
	if (e.currentPick-1)%e.cfg.LeagueSize == 0 {
		e.currentRound++
	}
	return pick, nil
}

// AssignPlayerToPick records a selection at an arbitrary pick number,
// regardless of whose turn it is. It is the out-of-order correction path:
// filling in a pick the operator missed, or entering results relayed late.
// The round is derived from the pick number, the board is kept sorted, and
// the current pick is recomputed as the first unfilled slot.
func (e *DraftEngine) AssignPlayerToPick(pickNumber int, playerID, playerName, position string, team int, nflTeam *string) (models.DraftPick, error) {
	if pickNumber < 1 || pickNumber > e.totalPicks {
		return models.DraftPick{}, &DraftError{CodePickOutOfRange, fmt.Sprintf("pick number %d is outside 1-%d", pickNumber, e.totalPicks)}
	}
	for _, p := range e.draftedPlayers {
		if p.PickNumber == pickNumber {
			return models.DraftPick{}, &DraftError{CodePickTaken, fmt.Sprintf("pick %d has already been used on %s", pickNumber, p.PlayerName)}
		}
	}
	if team < 1 || team > e.cfg.LeagueSize {
		return models.DraftPick{}, &DraftError{CodeInvalidTeam, fmt.Sprintf("team %d is outside 1-%d", team, e.cfg.LeagueSize)}
	}
	if playerID == "" || playerName == "" || position == "" {
		return models.DraftPick{}, &DraftError{CodeMissingField, "player id, name, and position are all required"}
	}

	pick := models.DraftPick{
		PickNumber: pickNumber,
		Round:      roundOf(pickNumber, e.cfg.LeagueSize),
		Team:       team,
		PlayerID:   playerID,
		PlayerName: playerName,
		Position:   position,
		NFLTeam:    nflTeam,
	}
	e.draftedPlayers = append(e.draftedPlayers, pick)
	sort.Slice(e.draftedPlayers, func(i, j int) bool {
		return e.draftedPlayers[i].PickNumber < e.draftedPlayers[j].PickNumber
	})
	e.teamRosters[team] = append(e.teamRosters[team], pick)

	e.recomputePosition()
	return pick, nil
}

// UndoLastPick removes the most recently recorded selection, whether it came
// from DraftPlayer or AssignPlayerToPick, and rewinds the current pick to the
// first unfilled slot. Note that after out-of-order assignments the most
// recently recorded pick is not necessarily the highest pick number on the
// board.
func (e *DraftEngine) UndoLastPick() (models.DraftPick, error) {
	if len(e.draftedPlayers) == 0 {
		return models.DraftPick{}, &DraftError{CodeNoPicks, "no picks have been made"}
	}
	last := e.draftedPlayers[len(e.draftedPlayers)-1]
	e.draftedPlayers = e.draftedPlayers[:len(e.draftedPlayers)-1]

	roster := e.teamRosters[last.Team]
	kept := make([]models.DraftPick, 0, len(roster))
	for _, p := range roster {
		if p.PickNumber != last.PickNumber {
			kept = append(kept, p)
		}
	}
	e.teamRosters[last.Team] = kept

	e.recomputePosition()
	return last, nil
}

// recomputePosition sets currentPick to the lowest pick number not yet on
// the board, capped at totalPicks+1, and derives currentRound from it.
func (e *DraftEngine) recomputePosition() {
	taken := make([]int, 0, len(e.draftedPlayers))
	for _, p := range e.draftedPlayers {
		taken = append(taken, p.PickNumber)
	}
	sort.Ints(taken)

	next := 1
	for _, n := range taken {
		if n == next {
			next++
		} else if n > next {
			break
		}
	}
	if next > e.totalPicks {
		next = e.totalPicks + 1
	}

	e.currentPick = next
	if e.currentPick > e.totalPicks {
		e.currentRound = e.cfg.TotalRounds + 1
	} else {
		e.currentRound = roundOf(e.currentPick, e.cfg.LeagueSize)
	}
}

// CurrentTeam returns the team on the clock, or 0 once the draft is complete.
func (e *DraftEngine) CurrentTeam() int {
	if e.currentPick > e.totalPicks {
		return 0
	}
	return e.draftOrder[e.currentPick-1]
}

// PickInfo describes an arbitrary slot in the draft order, or nil if
// pickNumber is outside the draft.
func (e *DraftEngine) PickInfo(pickNumber int) *models.PickInfo {
	if pickNumber < 1 || pickNumber > e.totalPicks {
		return nil
	}
	team := e.draftOrder[pickNumber-1]
	return &models.PickInfo{
		PickNumber: pickNumber,
		Team:       team,
		Round:      roundOf(pickNumber, e.cfg.LeagueSize),
		IsUserPick: team == e.cfg.UserPosition,
	}
}

// NextUserPicks returns up to count upcoming pick numbers belonging to the
// user's slot, in ascending order, starting from the current pick. The slice
// is empty once the user has no picks left.
func (e *DraftEngine) NextUserPicks(count int) []int {
	picks := make([]int, 0, count)
	if count <= 0 || e.currentPick > e.totalPicks {
		return picks
	}
	size := e.cfg.LeagueSize
	for round := roundOf(e.currentPick, size); round <= e.cfg.TotalRounds; round++ {
		slot := e.cfg.UserPosition
		if e.cfg.DraftType == models.DraftTypeSnake && round%2 == 0 {
			slot = size - e.cfg.UserPosition + 1
		}
		pick := (round-1)*size + slot
		if pick < e.currentPick {
			continue
		}
		picks = append(picks, pick)
		if len(picks) == count {
			break
		}
	}
	return picks
}

// SimulateToUserPick stands in for an AI opponent: a future version will
// auto-draft for every team between here and the user's next turn. Today it
// only reports where that turn is, without advancing the draft.
func (e *DraftEngine) SimulateToUserPick() (int, bool) {
	next := e.NextUserPicks(1)
	if len(next) == 0 {
		return 0, false
	}
	return next[0], true
}

// IsComplete reports whether every pick in the draft has been used.
func (e *DraftEngine) IsComplete() bool {
	return e.currentPick > e.totalPicks
}

// Status summarizes the draft position for display.
func (e *DraftEngine) Status() models.DraftStatus {
	return models.DraftStatus{
		CurrentPick:    e.currentPick,
		CurrentRound:   e.currentRound,
		TotalPicks:     e.totalPicks,
		TotalRounds:    e.cfg.TotalRounds,
		PicksRemaining: e.totalPicks - e.currentPick + 1,
		IsComplete:     e.IsComplete(),
		CurrentTeam:    e.CurrentTeam(),
	}
}

// Board returns every selection recorded so far. The slice is a copy; callers
// may mutate it freely.
func (e *DraftEngine) Board() []models.DraftPick {
	board := make([]models.DraftPick, len(e.draftedPlayers))
	copy(board, e.draftedPlayers)
	return board
}

// DraftedPlayerIDs returns the ids of every drafted player in board order.
func (e *DraftEngine) DraftedPlayerIDs() []string {
	ids := make([]string, 0, len(e.draftedPlayers))
	for _, p := range e.draftedPlayers {
		ids = append(ids, p.PlayerID)
	}
	return ids
}

// TeamRoster returns the picks made by one team in the order they were
// recorded. Unknown teams get an empty roster, never an error.
func (e *DraftEngine) TeamRoster(team int) []models.DraftPick {
	roster := make([]models.DraftPick, len(e.teamRosters[team]))
	copy(roster, e.teamRosters[team])
	return roster
}

// PositionNeeds counts, for each slot in the roster config, how many more
// players of that raw position the team still needs. FLEX and SUPERFLEX are
// counted as their own positions, not absorbed into RB/WR/TE totals. Slots
// the team has filled or overfilled are omitted.
func (e *DraftEngine) PositionNeeds(team int) map[string]int {
	counts := make(map[string]int)
	for _, p := range e.teamRosters[team] {
		counts[p.Position]++
	}
	needs := make(map[string]int)
	for slot, required := range e.cfg.RosterConfig {
		if slot == models.SlotBench {
			continue
		}
		if missing := required - counts[slot]; missing > 0 {
			needs[slot] = missing
		}
	}
	return needs
}

// Config returns the draft configuration. The roster config map is cloned so
// callers cannot reach back into engine state.
func (e *DraftEngine) Config() models.DraftConfig {
	cfg := e.cfg
	cfg.RosterConfig = cloneRosterConfig(e.cfg.RosterConfig)
	return cfg
}

// TotalPicks returns the number of picks in the draft.
func (e *DraftEngine) TotalPicks() int { return e.totalPicks }

// CurrentPick returns the next pick number to be used, totalPicks+1 once the
// draft is complete.
func (e *DraftEngine) CurrentPick() int { return e.currentPick }

// CurrentRound returns the round containing the current pick, totalRounds+1
// once the draft is complete.
func (e *DraftEngine) CurrentRound() int { return e.currentRound }

// DraftOrder returns a copy of the full pick-to-team schedule.
func (e *DraftEngine) DraftOrder() []int {
	order := make([]int, len(e.draftOrder))
	copy(order, e.draftOrder)
	return order
}

func cloneRosterConfig(rc models.RosterRules) models.RosterRules {
	out := make(models.RosterRules, len(rc))
	for slot, count := range rc {
		out[slot] = count
	}
	return out
}
