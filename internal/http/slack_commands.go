package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
)

// Slash command response visibility.
const (
	responseEphemeral = "ephemeral"
	responseInChannel = "in_channel"
)

// respondWithSlackMsg writes a Slack message as the slash command response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

func ephemeral(text string) slack.Message {
	return slack.Message{Msg: slack.Msg{ResponseType: responseEphemeral, Text: text}}
}

// PlayerStatsCommandHandler answers `/kendo-stats <name>` with the report of
// the closest roster match.
func (s *Server) PlayerStatsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Failed to parse form", http.StatusBadRequest)
			return
		}
		query := strings.TrimSpace(r.FormValue("text"))
		log.Info("Received kendo-stats command", "user", r.FormValue("user_name"), "text", query)
		if query == "" {
			respondWithSlackMsg(w, ephemeral("Usage: /kendo-stats <player name>"))
			return
		}

		suggestions := s.Processor.FindPlayers(query)
		if len(suggestions) == 0 {
			respondWithSlackMsg(w, ephemeral(fmt.Sprintf("No player found matching %q.", query)))
			return
		}
		player := suggestions[0].Player

		report, err := s.Processor.PlayerReport(player.ID)
		if err != nil {
			log.Error("Failed to build player report", "error", err, "playerID", player.ID)
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			return
		}
		msg, err := s.Notifier.FormatPlayerReportResponse(report)
		if err != nil {
			log.Error("Failed to format player report", "error", err)
			http.Error(w, "Failed to format player stats", http.StatusInternalServerError)
			return
		}
		slackMsg, ok := msg.(slack.Message)
		if !ok {
			// Notifiers without a Slack rendering get the raw report.
			respondWithJSON(w, http.StatusOK, msg)
			return
		}
		slackMsg.ResponseType = responseInChannel
		respondWithSlackMsg(w, slackMsg)
	}
}
