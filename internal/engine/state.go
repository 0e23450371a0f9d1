package engine

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gridironhq/draft-assistant/internal/models"
)

// requiredStateKeys are the fields a state document must carry to be
// importable. export_timestamp and app_version are informational and may be
// absent.
var requiredStateKeys = []string{
	"league_size",
	"user_position",
	"scoring_format",
	"draft_type",
	"roster_config",
	"total_rounds",
	"current_pick",
	"current_round",
	"drafted_players",
	"team_rosters",
}

// Snapshot captures the full draft state as a portable document. Slices and
// maps are copied, so the document stays stable while the engine moves on.
func (e *DraftEngine) Snapshot() models.StateDocument {
	board := make([]models.DraftPick, len(e.draftedPlayers))
	copy(board, e.draftedPlayers)

	rosters := make(map[string][]models.DraftPick, len(e.teamRosters))
	for team, picks := range e.teamRosters {
		cp := make([]models.DraftPick, len(picks))
		copy(cp, picks)
		rosters[strconv.Itoa(team)] = cp
	}

	return models.StateDocument{
		LeagueSize:     e.cfg.LeagueSize,
		UserPosition:   e.cfg.UserPosition,
		ScoringFormat:  e.cfg.ScoringFormat,
		DraftType:      string(e.cfg.DraftType),
		RosterConfig:   cloneRosterConfig(e.cfg.RosterConfig),
		TotalRounds:    e.cfg.TotalRounds,
		CurrentPick:    e.currentPick,
		CurrentRound:   e.currentRound,
		DraftedPlayers: board,
		TeamRosters:    rosters,
	}
}

// ParseStateDocument decodes an exported state document, rejecting any
// payload that is not a JSON object or is missing a required field. It does
// not validate the values; FromSnapshot does that.
func ParseStateDocument(data []byte) (*models.StateDocument, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DraftError{CodeBadStateDocument, fmt.Sprintf("state document is not a JSON object: %v", err)}
	}
	for _, key := range requiredStateKeys {
		if _, ok := raw[key]; !ok {
			return nil, &DraftError{CodeBadStateDocument, fmt.Sprintf("state document is missing required field %q", key)}
		}
	}
	var doc models.StateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &DraftError{CodeBadStateDocument, fmt.Sprintf("state document field has wrong type: %v", err)}
	}
	return &doc, nil
}

// FromSnapshot builds a fresh engine from an exported document. The draft
// order is always recomputed from the configuration, never read from the
// document. Any validation failure rejects the whole document; a caller
// holding a live engine keeps it untouched by only swapping in the returned
// one on success.
func FromSnapshot(doc *models.StateDocument) (*DraftEngine, error) {
	e, err := New(models.DraftConfig{
		LeagueSize:    doc.LeagueSize,
		UserPosition:  doc.UserPosition,
		ScoringFormat: doc.ScoringFormat,
		DraftType:     models.DraftType(doc.DraftType),
		RosterConfig:  cloneRosterConfig(doc.RosterConfig),
		TotalRounds:   doc.TotalRounds,
	})
	if err != nil {
		return nil, err
	}
	if doc.CurrentPick < 1 || doc.CurrentPick > e.totalPicks+1 {
		return nil, &DraftError{CodeBadStateDocument, fmt.Sprintf("current_pick %d is outside 1-%d", doc.CurrentPick, e.totalPicks+1)}
	}

	rosters := make(map[int][]models.DraftPick, len(doc.TeamRosters))
	for key, picks := range doc.TeamRosters {
		team, err := strconv.Atoi(key)
		if err != nil {
			return nil, &DraftError{CodeBadStateDocument, fmt.Sprintf("team_rosters key %q is not a team number", key)}
		}
		rosters[team] = append([]models.DraftPick(nil), picks...)
	}

	e.currentPick = doc.CurrentPick
	e.currentRound = doc.CurrentRound
	e.draftedPlayers = append([]models.DraftPick(nil), doc.DraftedPlayers...)
	e.teamRosters = rosters
	return e, nil
}
