// Package insights holds the draft-day analysis helpers: pick formatting,
// positional tiers and scarcity, bye week conflicts, roster validation,
// suggested targets, cheat sheets, and the post-draft recap. Everything here
// is a pure function over engine and catalog output.
package insights

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gridironhq/draft-assistant/internal/models"
)

// assumedRounds is the roster depth used for position-value math in a
// typical league.
const assumedRounds = 15

// FormatPickNumber renders an overall pick as round.pick, e.g. 15 in a
// 10-team league is "2.05".
func FormatPickNumber(pickNumber, leagueSize int) string {
	if pickNumber < 1 {
		return "N/A"
	}
	round := ((pickNumber - 1) / leagueSize) + 1
	pickInRound := ((pickNumber - 1) % leagueSize) + 1
	return fmt.Sprintf("%d.%02d", round, pickInRound)
}

// PositionValue characterizes a draft slot before the draft starts.
type PositionValue struct {
	AllPicks        []int   `json:"all_picks"`
	AveragePick     float64 `json:"average_pick"`
	EarlyRoundPicks int     `json:"early_round_picks"`
	FirstPick       int     `json:"first_pick"`
	SecondPick      int     `json:"second_pick"`
}

// DraftPositionValue projects every pick a slot would get over a typical
// 15-round draft and summarizes how early-round heavy the slot is.
func DraftPositionValue(position, leagueSize int, draftType models.DraftType) PositionValue {
	picks := make([]int, 0, assumedRounds)
	for round := 1; round <= assumedRounds; round++ {
		pickInRound := position
		if draftType == models.DraftTypeSnake && round%2 == 0 {
			pickInRound = leagueSize - position + 1
		}
		picks = append(picks, (round-1)*leagueSize+pickInRound)
	}

	sum := 0
	for _, p := range picks {
		sum += p
	}
	early := 0
	for _, p := range picks[:7] {
		if p <= leagueSize*3 {
			early++
		}
	}

	return PositionValue{
		AllPicks:        picks,
		AveragePick:     float64(sum) / float64(len(picks)),
		EarlyRoundPicks: early,
		FirstPick:       picks[0],
		SecondPick:      picks[1],
	}
}

// TierBreaks returns the positional-rank boundaries separating talent tiers.
func TierBreaks() map[string][]int {
	return map[string][]int{
		models.PositionQB:  {5, 12, 20, 32},
		models.PositionRB:  {8, 16, 24, 35, 50},
		models.PositionWR:  {10, 20, 35, 50, 70},
		models.PositionTE:  {3, 8, 15, 25},
		models.PositionK:   {5, 12},
		models.PositionDEF: {5, 12},
	}
}

// PlayerTier places a positional rank into its tier, 1 being the best.
// Positions without defined breaks are all tier 1.
func PlayerTier(position string, rank int) int {
	breaks, ok := TierBreaks()[position]
	if !ok {
		return 1
	}
	for i, breakPoint := range breaks {
		if rank <= breakPoint {
			return i + 1
		}
	}
	return len(breaks) + 1
}

// Positions that matter more for roster building drain faster, so their
// scarcity is weighted up.
var scarcityWeights = map[string]float64{
	models.PositionRB:  1.2,
	models.PositionWR:  1.0,
	models.PositionQB:  0.8,
	models.PositionTE:  1.1,
	models.PositionK:   0.3,
	models.PositionDEF: 0.3,
}

// ScarcityScore rates how picked-over a position is, from 0 (untouched) to
// 1 (critically scarce).
func ScarcityScore(position string, remainingCount, totalCount int) float64 {
	if totalCount == 0 {
		return 0
	}
	draftedPercentage := 1 - (float64(remainingCount) / float64(totalCount))

	weight, ok := scarcityWeights[position]
	if !ok {
		weight = 1.0
	}
	score := draftedPercentage * weight
	if score > 1 {
		return 1
	}
	return score
}

// PositionScarcity summarizes what is left at one position.
type PositionScarcity struct {
	Remaining     int      `json:"remaining"`
	TopRemaining  []string `json:"top_remaining"`
	AvgProjection float64  `json:"avg_projection"`
	BestAvailable string   `json:"best_available"`
	ScarcityScore float64  `json:"scarcity_score"`
}

// PositionalScarcity breaks down the remaining player pool per position.
// available and all must both be rank-ordered; all is the full board, used
// to compute how much of each position is already gone.
func PositionalScarcity(available, all []models.Player) map[string]PositionScarcity {
	remaining := make(map[string][]models.Player)
	for _, p := range available {
		remaining[p.Position] = append(remaining[p.Position], p)
	}
	totals := make(map[string]int)
	for _, p := range all {
		totals[p.Position]++
	}

	scarcity := make(map[string]PositionScarcity)
	for _, position := range []string{
		models.PositionQB, models.PositionRB, models.PositionWR,
		models.PositionTE, models.PositionK, models.PositionDEF,
	} {
		pool := remaining[position]
		entry := PositionScarcity{
			Remaining:     len(pool),
			TopRemaining:  make([]string, 0, 10),
			ScarcityScore: ScarcityScore(position, len(pool), totals[position]),
		}
		var sum float64
		for i, p := range pool {
			sum += p.ProjectedPoints
			if i < 10 {
				entry.TopRemaining = append(entry.TopRemaining, p.Name)
			}
		}
		if len(pool) > 0 {
			entry.AvgProjection = sum / float64(len(pool))
			entry.BestAvailable = pool[0].Name
		}
		scarcity[position] = entry
	}
	return scarcity
}

// ByeWeekConflicts finds weeks where two or more rostered players sit out
// together. Players without a bye week on record are skipped.
func ByeWeekConflicts(players []models.Player) map[int][]string {
	byeWeeks := make(map[int][]string)
	for _, p := range players {
		if p.ByeWeek == 0 {
			continue
		}
		byeWeeks[p.ByeWeek] = append(byeWeeks[p.ByeWeek], p.Name)
	}

	conflicts := make(map[int][]string)
	for week, names := range byeWeeks {
		if len(names) > 1 {
			conflicts[week] = names
		}
	}
	return conflicts
}

// RosterValidation reports whether a roster satisfies the league's starting
// requirements.
type RosterValidation struct {
	IsValid        bool           `json:"is_valid"`
	Issues         []string       `json:"issues"`
	Warnings       []string       `json:"warnings"`
	PositionCounts map[string]int `json:"position_counts"`
}

// ValidateRosterConstruction checks a roster against the league rules.
// Shortfalls are issues; surpluses are only warnings since extras can slide
// to FLEX or the bench.
func ValidateRosterConstruction(roster []models.DraftPick, rules models.RosterRules) RosterValidation {
	positionCounts := make(map[string]int)
	for _, p := range roster {
		positionCounts[p.Position]++
	}

	issues := make([]string, 0)
	warnings := make([]string, 0)

	slots := make([]string, 0, len(rules))
	for slot := range rules {
		slots = append(slots, slot)
	}
	sort.Strings(slots)

	for _, slot := range slots {
		if slot == models.SlotBench {
			continue
		}
		required := rules[slot]
		current := positionCounts[slot]
		if current < required {
			issues = append(issues, fmt.Sprintf("Need %d more %s", required-current, slot))
		} else if current > required && slot != models.SlotFlex {
			warnings = append(warnings, fmt.Sprintf("%d extra %s (consider FLEX eligibility)", current-required, slot))
		}
	}

	return RosterValidation{
		IsValid:        len(issues) == 0,
		Issues:         issues,
		Warnings:       warnings,
		PositionCounts: positionCounts,
	}
}

// PickAssessment compares where a player was taken against their ranking.
type PickAssessment struct {
	IsValue     bool   `json:"is_value"`
	IsReach     bool   `json:"is_reach"`
	Difference  int    `json:"difference"`
	Description string `json:"value_description"`
}

// AssessPick rates a selection. A player taken 10+ spots after their rank is
// a value; 10+ spots before it is a reach.
func AssessPick(pickNumber, rank int) PickAssessment {
	diff := pickNumber - rank
	assessment := PickAssessment{
		IsValue:    diff > 10,
		IsReach:    diff < -10,
		Difference: diff,
	}
	switch {
	case assessment.IsValue:
		assessment.Description = "Value pick"
	case assessment.IsReach:
		assessment.Description = "Reach pick"
	default:
		assessment.Description = "Fair pick"
	}
	return assessment
}

// RecapSummary aggregates the user's draft at a glance.
type RecapSummary struct {
	TotalPicks       int            `json:"total_picks"`
	PositionsDrafted map[string]int `json:"positions_drafted"`
	DraftGrade       string         `json:"draft_grade"`
}

// KeyPicks calls out the standout selections.
type KeyPicks struct {
	BestValue    *models.DraftPick  `json:"best_value"`
	BiggestReach *models.DraftPick  `json:"biggest_reach"`
	SleeperPicks []models.DraftPick `json:"sleeper_picks"`
}

// Recap is the full post-draft report for the user's team.
type Recap struct {
	DraftSummary    RecapSummary     `json:"draft_summary"`
	KeyPicks        KeyPicks         `json:"key_picks"`
	TeamNeeds       map[string]int   `json:"team_needs"`
	ByeWeekAnalysis map[int][]string `json:"bye_week_analysis"`
}

// BuildRecap assembles the recap for the user's picks. rosterPlayers are the
// catalog entries behind those picks, used for rankings and bye weeks; picks
// whose player is no longer in the catalog are graded as fair.
func BuildRecap(userPicks []models.DraftPick, rosterPlayers []models.Player, teamNeeds map[string]int) Recap {
	ranks := make(map[string]int, len(rosterPlayers))
	for _, p := range rosterPlayers {
		ranks[p.ID] = p.Rank
	}

	positionCounts := make(map[string]int)
	sleepers := make([]models.DraftPick, 0)
	var bestValue, biggestReach *models.DraftPick
	bestDiff, worstDiff := 0, 0
	totalDiff := 0

	for i := range userPicks {
		pick := userPicks[i]
		positionCounts[pick.Position]++

		rank, ok := ranks[pick.PlayerID]
		if !ok {
			continue
		}
		assessment := AssessPick(pick.PickNumber, rank)
		totalDiff += assessment.Difference

		if assessment.IsValue && assessment.Difference > bestDiff {
			bestDiff = assessment.Difference
			bestValue = &userPicks[i]
		}
		if assessment.IsReach && assessment.Difference < worstDiff {
			worstDiff = assessment.Difference
			biggestReach = &userPicks[i]
		}
		if assessment.IsValue && pick.Round >= 10 {
			sleepers = append(sleepers, pick)
		}
	}

	return Recap{
		DraftSummary: RecapSummary{
			TotalPicks:       len(userPicks),
			PositionsDrafted: positionCounts,
			DraftGrade:       gradeDraft(totalDiff, len(userPicks)),
		},
		KeyPicks: KeyPicks{
			BestValue:    bestValue,
			BiggestReach: biggestReach,
			SleeperPicks: sleepers,
		},
		TeamNeeds:       teamNeeds,
		ByeWeekAnalysis: ByeWeekConflicts(rosterPlayers),
	}
}

// gradeDraft turns the average pick-vs-rank difference into a letter grade.
func gradeDraft(totalDiff, pickCount int) string {
	if pickCount == 0 {
		return "B+"
	}
	avg := float64(totalDiff) / float64(pickCount)
	switch {
	case avg >= 5:
		return "A"
	case avg >= 0:
		return "B+"
	case avg >= -5:
		return "B"
	default:
		return "C+"
	}
}

// SuggestedTargets picks draft candidates: half the list from positions the
// team still needs, half best-available elsewhere, merged in rank order.
// With no outstanding needs it is simply the top of the board. available
// must be rank-ordered.
func SuggestedTargets(available []models.Player, teamNeeds map[string]int, count int) []models.Player {
	if len(available) == 0 || count <= 0 {
		return []models.Player{}
	}
	if len(teamNeeds) == 0 {
		return head(available, count)
	}

	needed := make(map[string]bool, len(teamNeeds))
	for position := range teamNeeds {
		needed[position] = true
	}

	priority := make([]models.Player, 0, count/2)
	others := make([]models.Player, 0, count/2)
	for _, p := range available {
		if needed[p.Position] {
			if len(priority) < count/2 {
				priority = append(priority, p)
			}
		} else if len(others) < count/2 {
			others = append(others, p)
		}
	}

	suggestions := append(priority, others...)
	sort.SliceStable(suggestions, func(i, j int) bool { return suggestions[i].Rank < suggestions[j].Rank })
	return suggestions
}

// BuildCheatSheet renders a printable text board: the top twenty available
// players, then the top five at each position the team still needs.
func BuildCheatSheet(available []models.Player, teamNeeds map[string]int) string {
	if len(available) == 0 {
		return "No players available"
	}

	var sheet strings.Builder
	sheet.WriteString("=== FANTASY FOOTBALL CHEAT SHEET ===\n\n")

	sheet.WriteString("TOP AVAILABLE PLAYERS:\n")
	for _, p := range head(available, 20) {
		fmt.Fprintf(&sheet, "%3d. %-20s %-3s %s\n", p.Rank, p.Name, p.Position, p.Team)
	}
	sheet.WriteString("\n")

	if len(teamNeeds) > 0 {
		sheet.WriteString("PLAYERS AT NEEDED POSITIONS:\n")

		positions := make([]string, 0, len(teamNeeds))
		for position := range teamNeeds {
			positions = append(positions, position)
		}
		sort.Strings(positions)

		for _, position := range positions {
			pool := make([]models.Player, 0, 5)
			for _, p := range available {
				if p.Position == position {
					pool = append(pool, p)
					if len(pool) == 5 {
						break
					}
				}
			}
			if len(pool) == 0 {
				continue
			}
			fmt.Fprintf(&sheet, "\n%s:\n", position)
			for _, p := range pool {
				fmt.Fprintf(&sheet, "  %-20s %s\n", p.Name, p.Team)
			}
		}
	}

	return sheet.String()
}

func head(players []models.Player, n int) []models.Player {
	if len(players) < n {
		n = len(players)
	}
	return players[:n]
}
