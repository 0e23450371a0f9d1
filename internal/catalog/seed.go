package catalog

import (
	"fmt"

	"github.com/gridironhq/draft-assistant/internal/models"
)

type seedRow struct {
	name   string
	team   string
	rank   int
	points float64
}

// Per-position rank offsets spread each group across the overall board so
// the combined ranking roughly follows typical ADP.
const (
	rbRankOffset  = 15
	wrRankOffset  = 35
	teRankOffset  = 55
	kRankOffset   = 200
	defRankOffset = 220
)

var seedQBs = []seedRow{
	{"Josh Allen", "BUF", 1, 285},
	{"Lamar Jackson", "BAL", 2, 275},
	{"Dak Prescott", "DAL", 3, 265},
	{"Joe Burrow", "CIN", 4, 260},
	{"Tua Tagovailoa", "MIA", 5, 250},
	{"Jalen Hurts", "PHI", 6, 245},
	{"Justin Herbert", "LAC", 7, 240},
	{"Kirk Cousins", "ATL", 8, 235},
	{"Brock Purdy", "SF", 9, 230},
	{"Anthony Richardson", "IND", 10, 225},
	{"Caleb Williams", "CHI", 11, 220},
	{"Aaron Rodgers", "NYJ", 12, 215},
	{"Jayden Daniels", "WAS", 13, 210},
	{"Russell Wilson", "PIT", 14, 205},
	{"Geno Smith", "SEA", 15, 200},
}

var seedRBs = []seedRow{
	{"Christian McCaffrey", "SF", 1, 320},
	{"Saquon Barkley", "PHI", 2, 295},
	{"Breece Hall", "NYJ", 3, 275},
	{"Bijan Robinson", "ATL", 4, 270},
	{"Derrick Henry", "BAL", 5, 265},
	{"Jonathan Taylor", "IND", 6, 260},
	{"Josh Jacobs", "GB", 7, 255},
	{"De'Von Achane", "MIA", 8, 250},
	{"Kyren Williams", "LAR", 9, 245},
	{"Jahmyr Gibbs", "DET", 10, 240},
	{"Alvin Kamara", "NO", 11, 235},
	{"Kenneth Walker III", "SEA", 12, 230},
	{"Rachaad White", "TB", 13, 225},
	{"Joe Mixon", "HOU", 14, 220},
	{"James Cook", "BUF", 15, 215},
	{"David Montgomery", "DET", 16, 210},
	{"Rhamondre Stevenson", "NE", 17, 205},
	{"Isiah Pacheco", "KC", 18, 200},
	{"Tony Pollard", "TEN", 19, 195},
	{"Najee Harris", "PIT", 20, 190},
}

var seedWRs = []seedRow{
	{"CeeDee Lamb", "DAL", 1, 285},
	{"Tyreek Hill", "MIA", 2, 280},
	{"Ja'Marr Chase", "CIN", 3, 275},
	{"Justin Jefferson", "MIN", 4, 270},
	{"Amon-Ra St. Brown", "DET", 5, 265},
	{"A.J. Brown", "PHI", 6, 260},
	{"Puka Nacua", "LAR", 7, 255},
	{"Jaylen Waddle", "MIA", 8, 250},
	{"DK Metcalf", "SEA", 9, 245},
	{"DeVonta Smith", "PHI", 10, 240},
	{"Stefon Diggs", "HOU", 11, 235},
	{"Mike Evans", "TB", 12, 230},
	{"Davante Adams", "LV", 13, 225},
	{"DJ Moore", "CHI", 14, 220},
	{"Chris Olave", "NO", 15, 215},
	{"Garrett Wilson", "NYJ", 16, 210},
	{"Tee Higgins", "CIN", 17, 205},
	{"Brandon Aiyuk", "SF", 18, 200},
	{"Cooper Kupp", "LAR", 19, 195},
	{"Keenan Allen", "CHI", 20, 190},
}

var seedTEs = []seedRow{
	{"Travis Kelce", "KC", 1, 185},
	{"Sam LaPorta", "DET", 2, 165},
	{"Mark Andrews", "BAL", 3, 155},
	{"Trey McBride", "ARI", 4, 145},
	{"George Kittle", "SF", 5, 140},
	{"Evan Engram", "JAX", 6, 135},
	{"Kyle Pitts", "ATL", 7, 130},
	{"Dallas Goedert", "PHI", 8, 125},
	{"Jake Ferguson", "DAL", 9, 120},
	{"David Njoku", "CLE", 10, 115},
	{"T.J. Hockenson", "MIN", 11, 110},
	{"Brock Bowers", "LV", 12, 105},
}

var seedKickers = []seedRow{
	{"Justin Tucker", "BAL", 1, 135},
	{"Harrison Butker", "KC", 2, 130},
	{"Tyler Bass", "BUF", 3, 125},
	{"Brandon McManus", "GB", 4, 120},
	{"Jake Elliott", "PHI", 5, 115},
	{"Chris Boswell", "PIT", 6, 110},
	{"Daniel Carlson", "LV", 7, 105},
	{"Younghoe Koo", "ATL", 8, 100},
}

var seedDefenses = []seedRow{
	{"San Francisco Defense", "SF", 1, 125},
	{"Dallas Defense", "DAL", 2, 120},
	{"Buffalo Defense", "BUF", 3, 115},
	{"Pittsburgh Defense", "PIT", 4, 110},
	{"Miami Defense", "MIA", 5, 105},
	{"Cleveland Defense", "CLE", 6, 100},
	{"Baltimore Defense", "BAL", 7, 95},
	{"New York Jets Defense", "NYJ", 8, 90},
}

// DefaultPlayers returns the built-in draft board used whenever no rankings
// file or pre-seeded database is supplied.
func DefaultPlayers() []models.Player {
	players := make([]models.Player, 0, 83)
	appendGroup := func(idPrefix, position string, rankOffset int, rows []seedRow) {
		for i, row := range rows {
			players = append(players, models.Player{
				ID:              fmt.Sprintf("%s_%d", idPrefix, i+1),
				Name:            row.name,
				Position:        position,
				Team:            row.team,
				Rank:            row.rank + rankOffset,
				ProjectedPoints: row.points,
				ByeWeek:         4 + (i % 14),
			})
		}
	}
	appendGroup("qb", models.PositionQB, 0, seedQBs)
	appendGroup("rb", models.PositionRB, rbRankOffset, seedRBs)
	appendGroup("wr", models.PositionWR, wrRankOffset, seedWRs)
	appendGroup("te", models.PositionTE, teRankOffset, seedTEs)
	appendGroup("k", models.PositionK, kRankOffset, seedKickers)
	appendGroup("def", models.PositionDEF, defRankOffset, seedDefenses)
	return players
}
