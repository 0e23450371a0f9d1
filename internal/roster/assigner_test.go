package roster

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironhq/draft-assistant/internal/models"
)

func pickAt(position string, n int) models.DraftPick {
	return models.DraftPick{
		PickNumber: n,
		Round:      1,
		Team:       1,
		PlayerID:   fmt.Sprintf("%s-%d", position, n),
		PlayerName: fmt.Sprintf("%s Player %d", position, n),
		Position:   position,
	}
}

func slotIDs(r AssignedRoster, slot string) []string {
	ids := make([]string, 0)
	for _, p := range r.StartingLineup[slot] {
		if p == nil {
			ids = append(ids, "")
		} else {
			ids = append(ids, p.PlayerID)
		}
	}
	return ids
}

func TestNewEmptyRoster(t *testing.T) {
	r := NewEmptyRoster(models.StandardRosterRules())

	assert.Len(t, r.StartingLineup[models.PositionQB], 1)
	assert.Len(t, r.StartingLineup[models.PositionRB], 2)
	assert.Len(t, r.StartingLineup[models.PositionWR], 2)
	assert.Len(t, r.StartingLineup[models.SlotFlex], 1)
	assert.Empty(t, r.Bench)

	// Zero-count slots are left out rather than present-but-empty.
	_, ok := r.StartingLineup[models.SlotSuperflex]
	assert.False(t, ok)
}

func TestAssignExtraRunningBackTakesFlex(t *testing.T) {
	picks := []models.DraftPick{
		pickAt(models.PositionRB, 1),
		pickAt(models.PositionRB, 2),
		pickAt(models.PositionRB, 3),
		pickAt(models.PositionWR, 4),
		pickAt(models.PositionWR, 5),
		pickAt(models.PositionQB, 6),
	}
	r := Assign(picks, models.StandardRosterRules())

	assert.Equal(t, []string{"RB-1", "RB-2"}, slotIDs(r, models.PositionRB))
	assert.Equal(t, []string{"RB-3"}, slotIDs(r, models.SlotFlex))
	assert.Equal(t, []string{"WR-4", "WR-5"}, slotIDs(r, models.PositionWR))
	assert.Equal(t, []string{"QB-6"}, slotIDs(r, models.PositionQB))
	assert.Empty(t, r.Bench)
}

func TestAssignSecondQuarterback(t *testing.T) {
	picks := []models.DraftPick{
		pickAt(models.PositionQB, 1),
		pickAt(models.PositionQB, 2),
	}

	t.Run("benched without a superflex slot", func(t *testing.T) {
		r := Assign(picks, models.StandardRosterRules())
		require.Len(t, r.Bench, 1)
		assert.Equal(t, "QB-2", r.Bench[0].PlayerID)
	})

	t.Run("claims superflex when configured", func(t *testing.T) {
		rules := models.StandardRosterRules()
		rules[models.SlotSuperflex] = 1
		r := Assign(picks, rules)
		assert.Equal(t, []string{"QB-2"}, slotIDs(r, models.SlotSuperflex))
		assert.Empty(t, r.Bench)
	})
}

func TestAssignKickersAndDefensesNeverFlex(t *testing.T) {
	picks := []models.DraftPick{
		pickAt(models.PositionK, 1),
		pickAt(models.PositionK, 2),
		pickAt(models.PositionDEF, 3),
		pickAt(models.PositionDEF, 4),
	}
	rules := models.StandardRosterRules()
	rules[models.SlotSuperflex] = 1
	r := Assign(picks, rules)

	assert.Equal(t, []string{"K-1"}, slotIDs(r, models.PositionK))
	assert.Equal(t, []string{"DEF-3"}, slotIDs(r, models.PositionDEF))
	assert.Equal(t, []string{""}, slotIDs(r, models.SlotFlex))
	assert.Equal(t, []string{""}, slotIDs(r, models.SlotSuperflex))
	require.Len(t, r.Bench, 2)
	assert.Equal(t, "K-2", r.Bench[0].PlayerID)
	assert.Equal(t, "DEF-4", r.Bench[1].PlayerID)
}

func TestAssignBenchOverflowIsDropped(t *testing.T) {
	rules := models.RosterRules{
		models.PositionRB: 1,
		models.SlotBench:  2,
	}
	picks := make([]models.DraftPick, 0, 5)
	for i := 1; i <= 5; i++ {
		picks = append(picks, pickAt(models.PositionRB, i))
	}
	r := Assign(picks, rules)

	assert.Equal(t, []string{"RB-1"}, slotIDs(r, models.PositionRB))
	assert.Len(t, r.Bench, 2)
}

func TestAssignUnknownPositionIsIgnored(t *testing.T) {
	picks := []models.DraftPick{
		pickAt("LS", 1),
		pickAt(models.PositionQB, 2),
	}
	r := Assign(picks, models.StandardRosterRules())

	assert.Equal(t, []string{"QB-2"}, slotIDs(r, models.PositionQB))
	assert.Empty(t, r.Bench)
}

func TestAssignLeavesOpenSlotsNil(t *testing.T) {
	picks := []models.DraftPick{pickAt(models.PositionWR, 1)}
	r := Assign(picks, models.StandardRosterRules())

	assert.Equal(t, []string{"WR-1", ""}, slotIDs(r, models.PositionWR))
	assert.Equal(t, map[string]int{
		models.PositionQB:  1,
		models.PositionRB:  2,
		models.PositionWR:  1,
		models.PositionTE:  1,
		models.SlotFlex:    1,
		models.PositionK:   1,
		models.PositionDEF: 1,
	}, r.OpenSlots())

	starters := r.Starters()
	require.Len(t, starters, 1)
	assert.Equal(t, "WR-1", starters[0].PlayerID)
}
