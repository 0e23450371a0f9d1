package models

// DraftType controls how the pick order is generated.
type DraftType string

const (
	DraftTypeSnake  DraftType = "snake"
	DraftTypeLinear DraftType = "linear"
)

// Scoring formats are display-only; the engine never branches on them.
const (
	ScoringStandard = "Standard"
	ScoringHalfPPR  = "Half-PPR"
	ScoringPPR      = "PPR"
)

// Position labels. A player's position may also be a custom string; custom
// positions have no starting slot and no FLEX/SUPERFLEX eligibility.
const (
	PositionQB  = "QB"
	PositionRB  = "RB"
	PositionWR  = "WR"
	PositionTE  = "TE"
	PositionK   = "K"
	PositionDEF = "DEF"

	SlotFlex      = "FLEX"
	SlotSuperflex = "SUPERFLEX"
	SlotBench     = "BENCH"
)

// FlexEligible reports whether a FLEX slot accepts the position.
func FlexEligible(position string) bool {
	switch position {
	case PositionRB, PositionWR, PositionTE:
		return true
	}
	return false
}

// SuperflexEligible reports whether a SUPERFLEX slot accepts the position.
func SuperflexEligible(position string) bool {
	return position == PositionQB || FlexEligible(position)
}

// RosterRules maps a slot name (QB, RB, WR, TE, FLEX, SUPERFLEX, K, DEF,
// BENCH) to the number of slots of that kind.
type RosterRules map[string]int

// StandardRosterRules returns the default league roster shape.
func StandardRosterRules() RosterRules {
	return RosterRules{
		PositionQB:    1,
		PositionRB:    2,
		PositionWR:    2,
		PositionTE:    1,
		SlotFlex:      1,
		SlotSuperflex: 0,
		PositionK:     1,
		PositionDEF:   1,
		SlotBench:     6,
	}
}

// Player is a catalog entry: one draftable NFL player (or team defense).
type Player struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Position        string  `json:"position"`
	Team            string  `json:"team"`
	Rank            int     `json:"rank"`
	ProjectedPoints float64 `json:"projected_points"`
	ByeWeek         int     `json:"bye_week"`
}

// DraftPick records one selection. Immutable once created; pick numbers are
// unique within a draft and round is always derived from the pick number.
type DraftPick struct {
	PickNumber int     `json:"pick_number"`
	Round      int     `json:"round"`
	Team       int     `json:"team"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Position   string  `json:"position"`
	NFLTeam    *string `json:"nfl_team"`
}

// DraftConfig is fixed for the lifetime of an engine.
type DraftConfig struct {
	LeagueSize    int         `json:"league_size"`
	UserPosition  int         `json:"user_position"`
	ScoringFormat string      `json:"scoring_format"`
	DraftType     DraftType   `json:"draft_type"`
	RosterConfig  RosterRules `json:"roster_config"`
	TotalRounds   int         `json:"total_rounds"`
}

// DraftStatus is the aggregate progress summary.
type DraftStatus struct {
	CurrentPick    int  `json:"current_pick"`
	CurrentRound   int  `json:"current_round"`
	TotalPicks     int  `json:"total_picks"`
	TotalRounds    int  `json:"total_rounds"`
	PicksRemaining int  `json:"picks_remaining"`
	IsComplete     bool `json:"is_complete"`
	CurrentTeam    int  `json:"current_team"`
}

// PickInfo describes a single slot in the draft order.
type PickInfo struct {
	PickNumber int  `json:"pick_number"`
	Team       int  `json:"team"`
	Round      int  `json:"round"`
	IsUserPick bool `json:"is_user_pick"`
}

// StateDocument is the exported draft state. team_rosters keys are the
// stringified team numbers so the document survives JSON encoding intact.
// export_timestamp and app_version are stamped on export and ignored on
// import.
type StateDocument struct {
	LeagueSize      int                    `json:"league_size"`
	UserPosition    int                    `json:"user_position"`
	ScoringFormat   string                 `json:"scoring_format"`
	DraftType       string                 `json:"draft_type"`
	RosterConfig    RosterRules            `json:"roster_config"`
	TotalRounds     int                    `json:"total_rounds"`
	CurrentPick     int                    `json:"current_pick"`
	CurrentRound    int                    `json:"current_round"`
	DraftedPlayers  []DraftPick            `json:"drafted_players"`
	TeamRosters     map[string][]DraftPick `json:"team_rosters"`
	ExportTimestamp string                 `json:"export_timestamp,omitempty"`
	AppVersion      string                 `json:"app_version,omitempty"`
}
