package insights

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironhq/draft-assistant/internal/models"
)

func TestFormatPickNumber(t *testing.T) {
	assert.Equal(t, "1.01", FormatPickNumber(1, 12))
	assert.Equal(t, "1.12", FormatPickNumber(12, 12))
	assert.Equal(t, "2.01", FormatPickNumber(13, 12))
	assert.Equal(t, "2.05", FormatPickNumber(15, 10))
	assert.Equal(t, "N/A", FormatPickNumber(0, 12))
	assert.Equal(t, "N/A", FormatPickNumber(-4, 12))
}

func TestDraftPositionValue(t *testing.T) {
	t.Run("snake first slot", func(t *testing.T) {
		v := DraftPositionValue(1, 10, models.DraftTypeSnake)
		require.Len(t, v.AllPicks, 15)
		assert.Equal(t, 1, v.FirstPick)
		assert.Equal(t, 20, v.SecondPick)
		assert.Equal(t, []int{1, 20, 21, 40, 41}, v.AllPicks[:5])
		assert.Equal(t, 3, v.EarlyRoundPicks)
	})

	t.Run("linear slot keeps its offset", func(t *testing.T) {
		v := DraftPositionValue(3, 10, models.DraftTypeLinear)
		assert.Equal(t, 3, v.FirstPick)
		assert.Equal(t, 13, v.SecondPick)
		assert.Equal(t, 143, v.AllPicks[14])
		assert.Equal(t, 73.0, v.AveragePick)
		assert.Equal(t, 3, v.EarlyRoundPicks)
	})
}

func TestPlayerTier(t *testing.T) {
	assert.Equal(t, 1, PlayerTier(models.PositionQB, 5))
	assert.Equal(t, 2, PlayerTier(models.PositionQB, 6))
	assert.Equal(t, 5, PlayerTier(models.PositionQB, 33))
	assert.Equal(t, 1, PlayerTier(models.PositionRB, 8))
	assert.Equal(t, 5, PlayerTier(models.PositionRB, 50))
	assert.Equal(t, 6, PlayerTier(models.PositionRB, 51))
	assert.Equal(t, 1, PlayerTier("LS", 99))
}

func TestScarcityScore(t *testing.T) {
	assert.InDelta(t, 0.6, ScarcityScore(models.PositionRB, 10, 20), 1e-9)
	assert.InDelta(t, 0.3, ScarcityScore(models.PositionK, 0, 8), 1e-9)
	assert.Zero(t, ScarcityScore(models.PositionRB, 0, 0))

	// Heavy RB drain saturates at 1.
	assert.Equal(t, 1.0, ScarcityScore(models.PositionRB, 1, 20))

	// Unknown positions use a neutral weight.
	assert.InDelta(t, 0.5, ScarcityScore("LS", 1, 2), 1e-9)
}

func TestPositionalScarcity(t *testing.T) {
	all := []models.Player{
		{ID: "rb_1", Name: "First Back", Position: models.PositionRB, Rank: 1, ProjectedPoints: 300},
		{ID: "rb_2", Name: "Second Back", Position: models.PositionRB, Rank: 2, ProjectedPoints: 200},
		{ID: "qb_1", Name: "Only QB", Position: models.PositionQB, Rank: 3, ProjectedPoints: 250},
	}
	available := all[1:]

	scarcity := PositionalScarcity(available, all)

	rb := scarcity[models.PositionRB]
	assert.Equal(t, 1, rb.Remaining)
	assert.Equal(t, "Second Back", rb.BestAvailable)
	assert.Equal(t, []string{"Second Back"}, rb.TopRemaining)
	assert.InDelta(t, 200, rb.AvgProjection, 1e-9)
	assert.InDelta(t, 0.6, rb.ScarcityScore, 1e-9)

	te := scarcity[models.PositionTE]
	assert.Equal(t, 0, te.Remaining)
	assert.Empty(t, te.TopRemaining)
	assert.Empty(t, te.BestAvailable)
}

func TestByeWeekConflicts(t *testing.T) {
	players := []models.Player{
		{Name: "A", ByeWeek: 7},
		{Name: "B", ByeWeek: 7},
		{Name: "C", ByeWeek: 9},
		{Name: "D"},
	}

	conflicts := ByeWeekConflicts(players)
	require.Len(t, conflicts, 1)
	assert.ElementsMatch(t, []string{"A", "B"}, conflicts[7])
}

func TestValidateRosterConstruction(t *testing.T) {
	rules := models.StandardRosterRules()

	t.Run("empty roster fails with shortfalls", func(t *testing.T) {
		v := ValidateRosterConstruction(nil, rules)
		assert.False(t, v.IsValid)
		assert.Contains(t, v.Issues, "Need 1 more QB")
		assert.Contains(t, v.Issues, "Need 2 more RB")
		assert.Empty(t, v.Warnings)
	})

	t.Run("surplus is only a warning", func(t *testing.T) {
		roster := []models.DraftPick{
			{Position: models.PositionQB}, {Position: models.PositionQB},
			{Position: models.PositionRB}, {Position: models.PositionRB},
			{Position: models.PositionWR}, {Position: models.PositionWR},
			{Position: models.PositionTE},
			{Position: models.PositionK},
			{Position: models.PositionDEF},
		}
		v := ValidateRosterConstruction(roster, rules)
		// FLEX can never be satisfied by raw position counting, so the
		// roster still has one outstanding issue.
		assert.False(t, v.IsValid)
		assert.Equal(t, []string{"Need 1 more FLEX"}, v.Issues)
		assert.Contains(t, v.Warnings, "1 extra QB (consider FLEX eligibility)")
		assert.Equal(t, 2, v.PositionCounts[models.PositionQB])
	})
}

func TestAssessPick(t *testing.T) {
	value := AssessPick(25, 10)
	assert.True(t, value.IsValue)
	assert.False(t, value.IsReach)
	assert.Equal(t, 15, value.Difference)
	assert.Equal(t, "Value pick", value.Description)

	reach := AssessPick(5, 30)
	assert.True(t, reach.IsReach)
	assert.Equal(t, "Reach pick", reach.Description)

	fair := AssessPick(12, 10)
	assert.False(t, fair.IsValue)
	assert.False(t, fair.IsReach)
	assert.Equal(t, "Fair pick", fair.Description)
}

func TestBuildRecap(t *testing.T) {
	picks := []models.DraftPick{
		{PickNumber: 5, Round: 1, PlayerID: "rb_1", PlayerName: "Stud Back", Position: models.PositionRB},
		{PickNumber: 110, Round: 11, PlayerID: "wr_9", PlayerName: "Late Gem", Position: models.PositionWR},
		{PickNumber: 15, Round: 2, PlayerID: "qb_1", PlayerName: "Early QB", Position: models.PositionQB},
	}
	players := []models.Player{
		{ID: "rb_1", Name: "Stud Back", Rank: 4, ByeWeek: 7},
		{ID: "wr_9", Name: "Late Gem", Rank: 80, ByeWeek: 7},
		{ID: "qb_1", Name: "Early QB", Rank: 40, ByeWeek: 5},
	}
	needs := map[string]int{models.PositionTE: 1}

	recap := BuildRecap(picks, players, needs)

	assert.Equal(t, 3, recap.DraftSummary.TotalPicks)
	assert.Equal(t, map[string]int{
		models.PositionRB: 1,
		models.PositionWR: 1,
		models.PositionQB: 1,
	}, recap.DraftSummary.PositionsDrafted)

	require.NotNil(t, recap.KeyPicks.BestValue)
	assert.Equal(t, "Late Gem", recap.KeyPicks.BestValue.PlayerName)
	require.NotNil(t, recap.KeyPicks.BiggestReach)
	assert.Equal(t, "Early QB", recap.KeyPicks.BiggestReach.PlayerName)
	require.Len(t, recap.KeyPicks.SleeperPicks, 1)
	assert.Equal(t, "Late Gem", recap.KeyPicks.SleeperPicks[0].PlayerName)

	assert.Equal(t, needs, recap.TeamNeeds)
	assert.Contains(t, recap.ByeWeekAnalysis, 7)

	// (5-4) + (110-80) + (15-40) = 6 across 3 picks, a positive average.
	assert.Equal(t, "B+", recap.DraftSummary.DraftGrade)
}

func TestSuggestedTargets(t *testing.T) {
	available := []models.Player{
		{ID: "1", Position: models.PositionRB, Rank: 1},
		{ID: "2", Position: models.PositionWR, Rank: 2},
		{ID: "3", Position: models.PositionRB, Rank: 3},
		{ID: "4", Position: models.PositionQB, Rank: 4},
		{ID: "5", Position: models.PositionTE, Rank: 5},
		{ID: "6", Position: models.PositionWR, Rank: 6},
	}

	t.Run("splits between needs and best available", func(t *testing.T) {
		targets := SuggestedTargets(available, map[string]int{models.PositionTE: 1}, 4)
		require.Len(t, targets, 3)
		// Needed positions: TE (only one available). Others: top 2 by rank.
		assert.Equal(t, "1", targets[0].ID)
		assert.Equal(t, "2", targets[1].ID)
		assert.Equal(t, "5", targets[2].ID)
	})

	t.Run("no needs means top of the board", func(t *testing.T) {
		targets := SuggestedTargets(available, nil, 3)
		require.Len(t, targets, 3)
		assert.Equal(t, "1", targets[0].ID)
		assert.Equal(t, "3", targets[2].ID)
	})

	t.Run("empty pool", func(t *testing.T) {
		assert.Empty(t, SuggestedTargets(nil, nil, 10))
	})
}

func TestBuildCheatSheet(t *testing.T) {
	t.Run("empty pool", func(t *testing.T) {
		assert.Equal(t, "No players available", BuildCheatSheet(nil, nil))
	})

	t.Run("renders sections", func(t *testing.T) {
		available := []models.Player{
			{Name: "Top Back", Position: models.PositionRB, Team: "SF", Rank: 1},
			{Name: "Top Wideout", Position: models.PositionWR, Team: "DAL", Rank: 2},
			{Name: "Second Back", Position: models.PositionRB, Team: "PHI", Rank: 3},
		}
		sheet := BuildCheatSheet(available, map[string]int{models.PositionRB: 2})

		assert.True(t, strings.HasPrefix(sheet, "=== FANTASY FOOTBALL CHEAT SHEET ===\n\n"))
		assert.Contains(t, sheet, "  1. Top Back             RB  SF\n")
		assert.Contains(t, sheet, "PLAYERS AT NEEDED POSITIONS:\n")
		assert.Contains(t, sheet, "\nRB:\n")
		assert.Contains(t, sheet, "  Second Back          PHI\n")
		assert.NotContains(t, sheet, "\nWR:\n")
	})
}
