package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/gridironhq/draft-assistant/internal/models"
)

var csvColumns = []string{"id", "name", "position", "team", "rank", "projected_points", "bye_week"}

// ReadPlayersCSV parses a rankings file. The header row names the columns,
// so column order does not matter, but every column must be present.
func ReadPlayersCSV(r io.Reader) ([]models.Player, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read rankings header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("rankings file is missing column %q", col)
		}
	}

	players := make([]models.Player, 0)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rankings line %d: %w", line, err)
		}

		rank, err := strconv.Atoi(record[index["rank"]])
		if err != nil {
			return nil, fmt.Errorf("rankings line %d: bad rank %q", line, record[index["rank"]])
		}
		points, err := strconv.ParseFloat(record[index["projected_points"]], 64)
		if err != nil {
			return nil, fmt.Errorf("rankings line %d: bad projected_points %q", line, record[index["projected_points"]])
		}
		bye, err := strconv.Atoi(record[index["bye_week"]])
		if err != nil {
			return nil, fmt.Errorf("rankings line %d: bad bye_week %q", line, record[index["bye_week"]])
		}

		players = append(players, models.Player{
			ID:              record[index["id"]],
			Name:            record[index["name"]],
			Position:        record[index["position"]],
			Team:            record[index["team"]],
			Rank:            rank,
			ProjectedPoints: points,
			ByeWeek:         bye,
		})
	}
	return players, nil
}

// WritePlayersCSV writes the board in the same format ReadPlayersCSV
// accepts, columns in canonical order.
func WritePlayersCSV(w io.Writer, players []models.Player) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvColumns); err != nil {
		return err
	}
	for _, p := range players {
		record := []string{
			p.ID,
			p.Name,
			p.Position,
			p.Team,
			strconv.Itoa(p.Rank),
			strconv.FormatFloat(p.ProjectedPoints, 'f', -1, 64),
			strconv.Itoa(p.ByeWeek),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
