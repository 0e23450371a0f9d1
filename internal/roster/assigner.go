// Package roster arranges a team's draft picks into a starting lineup and
// bench under the league's roster rules. Assignment is a pure view over the
// picks; it never feeds back into draft state.
package roster

import "github.com/gridironhq/draft-assistant/internal/models"

// lineupSlotOrder fixes which slots exist in an assigned lineup. Slots with a
// zero count in the rules are omitted entirely.
var lineupSlotOrder = []string{
	models.PositionQB,
	models.PositionRB,
	models.PositionWR,
	models.PositionTE,
	models.SlotFlex,
	models.SlotSuperflex,
	models.PositionK,
	models.PositionDEF,
}

// placementOrder fixes which position groups get placed and in what order.
// Single-slot positions go first so a backup QB or TE claims SUPERFLEX/FLEX
// before the deeper RB and WR groups flood in. Picks at any other position
// are not placed at all.
var placementOrder = []string{
	models.PositionK,
	models.PositionDEF,
	models.PositionQB,
	models.PositionTE,
	models.PositionRB,
	models.PositionWR,
}

// AssignedRoster is the lineup view of one team. Unfilled starting slots are
// nil, which serializes as null, so the UI can render open holes.
type AssignedRoster struct {
	StartingLineup map[string][]*models.DraftPick `json:"starting_lineup"`
	Bench          []*models.DraftPick            `json:"bench"`
}

// NewEmptyRoster returns an AssignedRoster with every configured starting
// slot open and an empty bench.
func NewEmptyRoster(rules models.RosterRules) AssignedRoster {
	lineup := make(map[string][]*models.DraftPick)
	for _, slot := range lineupSlotOrder {
		if count := rules[slot]; count > 0 {
			lineup[slot] = make([]*models.DraftPick, count)
		}
	}
	return AssignedRoster{
		StartingLineup: lineup,
		Bench:          make([]*models.DraftPick, 0, rules[models.SlotBench]),
	}
}

// Assign distributes picks into starting slots and the bench. Each player
// tries their own position's slots first, then FLEX if eligible, then
// SUPERFLEX if eligible, then the bench. Players who fit nowhere, and any
// pick at a position outside the placement order, are dropped from the view.
func Assign(picks []models.DraftPick, rules models.RosterRules) AssignedRoster {
	r := NewEmptyRoster(rules)

	byPosition := make(map[string][]models.DraftPick)
	for _, p := range picks {
		byPosition[p.Position] = append(byPosition[p.Position], p)
	}

	for _, position := range placementOrder {
		for _, p := range byPosition[position] {
			pick := p
			r.place(&pick, rules)
		}
	}
	return r
}

func (r *AssignedRoster) place(pick *models.DraftPick, rules models.RosterRules) {
	if r.fillSlot(pick.Position, pick) {
		return
	}
	if models.FlexEligible(pick.Position) && r.fillSlot(models.SlotFlex, pick) {
		return
	}
	if models.SuperflexEligible(pick.Position) && r.fillSlot(models.SlotSuperflex, pick) {
		return
	}
	if len(r.Bench) < rules[models.SlotBench] {
		r.Bench = append(r.Bench, pick)
	}
}

// fillSlot puts pick into the first open index of slot, reporting whether a
// spot was found.
func (r *AssignedRoster) fillSlot(slot string, pick *models.DraftPick) bool {
	for i, occupant := range r.StartingLineup[slot] {
		if occupant == nil {
			r.StartingLineup[slot][i] = pick
			return true
		}
	}
	return false
}

// Starters returns the non-nil picks currently in the starting lineup.
func (r *AssignedRoster) Starters() []models.DraftPick {
	starters := make([]models.DraftPick, 0)
	for _, slot := range lineupSlotOrder {
		for _, pick := range r.StartingLineup[slot] {
			if pick != nil {
				starters = append(starters, *pick)
			}
		}
	}
	return starters
}

// OpenSlots counts the unfilled starting positions by slot name.
func (r *AssignedRoster) OpenSlots() map[string]int {
	open := make(map[string]int)
	for slot, picks := range r.StartingLineup {
		for _, pick := range picks {
			if pick == nil {
				open[slot]++
			}
		}
	}
	return open
}
