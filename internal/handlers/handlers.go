package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gridironhq/draft-assistant/internal/catalog"
	"github.com/gridironhq/draft-assistant/internal/engine"
	"github.com/gridironhq/draft-assistant/internal/logger"
	"github.com/gridironhq/draft-assistant/internal/models"
	"github.com/gridironhq/draft-assistant/internal/pubsub"
	"github.com/gridironhq/draft-assistant/internal/session"
)

// APIHandlers contains all API handler methods
type APIHandlers struct {
	session *session.Session
	pubsub  *pubsub.Bus
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(s *session.Session, bus *pubsub.Bus) *APIHandlers {
	return &APIHandlers{
		session: s,
		pubsub:  bus,
	}
}

// writeError maps a draft error onto an HTTP status: turn and sequencing
// conflicts are 409, validation problems are 400, unknown players are 404,
// anything unclassified is 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, catalog.ErrNotFound) {
		status = http.StatusNotFound
	} else {
		switch engine.ErrorCode(err) {
		case engine.CodeNotYourTurn, engine.CodePickTaken, engine.CodeDraftComplete:
			status = http.StatusConflict
		case engine.CodeInvalidConfig, engine.CodePickOutOfRange, engine.CodeInvalidTeam,
			engine.CodeMissingField, engine.CodeNoPicks, engine.CodeBadStateDocument:
			status = http.StatusBadRequest
		}
	}
	http.Error(w, err.Error(), status)
}

// teamParam reads the team query parameter, defaulting to the user's slot.
func (h *APIHandlers) teamParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("team")
	if raw == "" {
		return h.session.Config().UserPosition, nil
	}
	team, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid team parameter: %q", raw)
	}
	return team, nil
}

// GetDraftState returns the full draft view in one response
func (h *APIHandlers) GetDraftState(w http.ResponseWriter, r *http.Request) {
	logger.Debug("Getting draft state")

	state := map[string]interface{}{
		"config":          h.session.Config(),
		"status":          h.session.Status(),
		"board":           h.session.Board(),
		"next_user_picks": h.session.NextUserPicks(3),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(state)
}

// GetDraftStatus returns the progress summary
func (h *APIHandlers) GetDraftStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.session.Status())
}

// GetDraftBoard returns every pick made so far
func (h *APIHandlers) GetDraftBoard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.session.Board())
}

// GetPickInfo describes one slot in the draft order
func (h *APIHandlers) GetPickInfo(w http.ResponseWriter, r *http.Request) {
	pickNumber, err := strconv.Atoi(r.URL.Query().Get("pick"))
	if err != nil {
		http.Error(w, "pick parameter must be a number", http.StatusBadRequest)
		return
	}

	info := h.session.PickInfo(pickNumber)
	if info == nil {
		http.Error(w, "pick number out of range", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

// GetNextUserPicks returns the user's upcoming pick numbers
func (h *APIHandlers) GetNextUserPicks(w http.ResponseWriter, r *http.Request) {
	count := 3
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "count parameter must be a number", http.StatusBadRequest)
			return
		}
		count = parsed
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.session.NextUserPicks(count))
}

// DraftPick records the next sequential selection
func (h *APIHandlers) DraftPick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		PlayerID string `json:"player_id"`
		Team     int    `json:"team"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode draft pick request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.Info("Drafting player", "player_id", req.PlayerID, "team", req.Team)
	pick, err := h.session.DraftPlayer(req.PlayerID, req.Team)
	if err != nil {
		logger.Error("Failed to draft player", "error", err, "player_id", req.PlayerID, "team", req.Team)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pick)
}

// AssignPick places a player on an arbitrary open pick number
func (h *APIHandlers) AssignPick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		PickNumber int    `json:"pick_number"`
		PlayerID   string `json:"player_id"`
		Team       int    `json:"team"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode assign request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.Info("Assigning pick", "pick_number", req.PickNumber, "player_id", req.PlayerID, "team", req.Team)
	pick, err := h.session.AssignPick(req.PickNumber, req.PlayerID, req.Team)
	if err != nil {
		logger.Error("Failed to assign pick", "error", err, "pick_number", req.PickNumber)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pick)
}

// UndoPick reverses the most recent selection
func (h *APIHandlers) UndoPick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	logger.Info("Undoing last pick")
	pick, err := h.session.UndoLastPick()
	if err != nil {
		logger.Warn("Failed to undo pick", "error", err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pick)
}

// ExportState serves the draft as a downloadable state document
func (h *APIHandlers) ExportState(w http.ResponseWriter, r *http.Request) {
	data, err := h.session.Export()
	if err != nil {
		logger.Error("Failed to export state", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="draft_state.json"`)
	w.Write(data)
}

// ImportState replaces the running draft with an uploaded state document
func (h *APIHandlers) ImportState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.Info("Importing draft state", "bytes", len(data))
	if err := h.session.Import(data); err != nil {
		logger.Warn("Failed to import state", "error", err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// ResetDraft discards all picks and starts the same draft over
func (h *APIHandlers) ResetDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	logger.Info("Resetting draft")
	if err := h.session.Reset(); err != nil {
		logger.Error("Failed to reset draft", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// AvailablePlayers lists undrafted players with optional filters
func (h *APIHandlers) AvailablePlayers(w http.ResponseWriter, r *http.Request) {
	query := catalog.Query{
		Search:    r.URL.Query().Get("search"),
		Team:      r.URL.Query().Get("nfl_team"),
		Positions: r.URL.Query()["position"],
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "limit parameter must be a number", http.StatusBadRequest)
			return
		}
		query.Limit = limit
	}

	players, err := h.session.AvailablePlayers(query)
	if err != nil {
		logger.Error("Failed to list available players", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(players)
}

// GetNFLTeams lists the distinct NFL team abbreviations on the board
func (h *APIHandlers) GetNFLTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.session.NFLTeams()
	if err != nil {
		logger.Error("Failed to list NFL teams", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(teams)
}

// AddPlayer inserts a custom player into the catalog
func (h *APIHandlers) AddPlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var player models.Player
	if err := json.NewDecoder(r.Body).Decode(&player); err != nil {
		logger.Warn("Failed to decode add player request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if player.Name == "" || player.Position == "" {
		http.Error(w, "name and position are required", http.StatusBadRequest)
		return
	}

	logger.Info("Adding custom player", "name", player.Name, "position", player.Position)
	added, err := h.session.AddPlayer(&player)
	if err != nil {
		logger.Error("Failed to add player", "error", err, "name", player.Name)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(added)
}

// ExportRankings serves the board as a downloadable rankings CSV
func (h *APIHandlers) ExportRankings(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.session.ExportRankings(&buf); err != nil {
		logger.Error("Failed to export rankings", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="rankings.csv"`)
	w.Write(buf.Bytes())
}

// ImportRankings replaces the board with an uploaded rankings CSV
func (h *APIHandlers) ImportRankings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	count, err := h.session.ImportRankings(r.Body)
	if err != nil {
		logger.Warn("Failed to import rankings", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.Info("Rankings imported", "players", count)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"players": count})
}

// GetTeamRoster returns one team's picks in draft order
func (h *APIHandlers) GetTeamRoster(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.session.TeamRoster(team))
}

// GetAssignedRoster returns one team's picks arranged into lineup slots
func (h *APIHandlers) GetAssignedRoster(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.session.AssignedRoster(team))
}

// GetPositionNeeds returns a team's unfilled starting slots
func (h *APIHandlers) GetPositionNeeds(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.session.PositionNeeds(team))
}

// GetScarcity summarizes the remaining pool per position
func (h *APIHandlers) GetScarcity(w http.ResponseWriter, r *http.Request) {
	scarcity, err := h.session.Scarcity()
	if err != nil {
		logger.Error("Failed to compute scarcity", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(scarcity)
}

// GetTargets suggests players for the user's next picks
func (h *APIHandlers) GetTargets(w http.ResponseWriter, r *http.Request) {
	count := 10
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "count parameter must be a number", http.StatusBadRequest)
			return
		}
		count = parsed
	}

	targets, err := h.session.Targets(count)
	if err != nil {
		logger.Error("Failed to compute targets", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(targets)
}

// GetRecap grades the user's draft so far
func (h *APIHandlers) GetRecap(w http.ResponseWriter, r *http.Request) {
	recap, err := h.session.Recap()
	if err != nil {
		logger.Error("Failed to build recap", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recap)
}

// ValidateRoster checks the user's roster against the league rules
func (h *APIHandlers) ValidateRoster(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.session.ValidateUserRoster())
}

// GetCheatSheet renders the printable draft sheet
func (h *APIHandlers) GetCheatSheet(w http.ResponseWriter, r *http.Request) {
	sheet, err := h.session.CheatSheet()
	if err != nil {
		logger.Error("Failed to build cheat sheet", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, sheet)
}

// EventsSSE provides Server-Sent Events for realtime updates
func (h *APIHandlers) EventsSSE(w http.ResponseWriter, r *http.Request) {
	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Subscribe to events
	eventChan := h.pubsub.Subscribe()
	defer h.pubsub.Unsubscribe(eventChan)

	// Send initial connection message
	fmt.Fprintf(w, "data: {\"type\":\"connected\"}\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	// Listen for events
	for {
		select {
		case event := <-eventChan:
			data, _ := json.Marshal(event)
			fmt.Fprintf(w, "data: %s\n\n", data)
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected")
			return
		case <-time.After(30 * time.Second):
			// Send keepalive ping
			fmt.Fprintf(w, ": keepalive\n\n")
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}
}
