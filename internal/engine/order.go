package engine

import "github.com/gridironhq/draft-assistant/internal/models"

// BuildDraftOrder returns the team on the clock for every pick of the draft,
// indexed by pick number minus one. Snake drafts reverse direction every even
// round; linear drafts run 1 through leagueSize in every round.
func BuildDraftOrder(leagueSize, totalRounds int, draftType models.DraftType) []int {
	order := make([]int, 0, leagueSize*totalRounds)
	for round := 1; round <= totalRounds; round++ {
		if draftType == models.DraftTypeSnake && round%2 == 0 {
			for team := leagueSize; team >= 1; team-- {
				order = append(order, team)
			}
		} else {
			for team := 1; team <= leagueSize; team++ {
				order = append(order, team)
			}
		}
	}
	return order
}

// roundOf returns the 1-based round containing pickNumber.
func roundOf(pickNumber, leagueSize int) int {
	return ((pickNumber - 1) / leagueSize) + 1
}
