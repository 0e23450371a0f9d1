package catalog

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadPlayersCSVHeaderOrderIndependent(t *testing.T) {
	input := strings.Join([]string{
		"rank,name,id,position,team,bye_week,projected_points",
		"1,Josh Allen,qb_1,QB,BUF,4,285",
		"16,Christian McCaffrey,rb_1,RB,SF,9,320.5",
	}, "\n")

	players, err := ReadPlayersCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadPlayersCSV() failed: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(players))
	}
	if players[1].ID != "rb_1" || players[1].Rank != 16 || players[1].ProjectedPoints != 320.5 {
		t.Fatalf("second row parsed wrong: %+v", players[1])
	}
}

func TestReadPlayersCSVRejectsBadFiles(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"missing column", "id,name,position,team,rank,projected_points\nqb_1,Josh Allen,QB,BUF,1,285"},
		{"bad rank", "id,name,position,team,rank,projected_points,bye_week\nqb_1,Josh Allen,QB,BUF,first,285,4"},
		{"bad points", "id,name,position,team,rank,projected_points,bye_week\nqb_1,Josh Allen,QB,BUF,1,lots,4"},
		{"bad bye week", "id,name,position,team,rank,projected_points,bye_week\nqb_1,Josh Allen,QB,BUF,1,285,none"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReadPlayersCSV(strings.NewReader(tc.input)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestWritePlayersCSVRoundTrip(t *testing.T) {
	board := DefaultPlayers()

	var buf bytes.Buffer
	if err := WritePlayersCSV(&buf, board); err != nil {
		t.Fatalf("WritePlayersCSV() failed: %v", err)
	}

	back, err := ReadPlayersCSV(&buf)
	if err != nil {
		t.Fatalf("ReadPlayersCSV() failed on our own output: %v", err)
	}
	if len(back) != len(board) {
		t.Fatalf("round trip lost players: wrote %d, read %d", len(board), len(back))
	}
	if back[0] != board[0] {
		t.Fatalf("first player changed in round trip: %+v vs %+v", back[0], board[0])
	}
}
