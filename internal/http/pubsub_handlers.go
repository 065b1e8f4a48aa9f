package http

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/kendo-tally/internal/pubsub"
)

// RecordFeedHandler consumes the push subscription for recorded matches and
// logs each record it receives.
func (s *Server) RecordFeedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}

		var push pushRequest
		if err := json.Unmarshal(bodyBytes, &push); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(push.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		event := pubsub.EventType(push.Message.Attributes["event"])
		switch event {
		case pubsub.EventMatchRecorded:
			var payload pubsub.MatchRecorded
			if err := s.pubsub.ProcessMessage(rawData, &payload); err != nil {
				log.Error("Failed to decode match record", "error", err, "messageID", push.Message.MessageID)
				http.Error(w, "Invalid payload", http.StatusBadRequest)
				return
			}
			log.Info("Match recorded", "matchID", payload.Match.ID, "opponent", payload.Match.OpponentName, "result", payload.Match.Result)
		case pubsub.EventTeamMatchRecorded:
			var payload pubsub.TeamMatchRecorded
			if err := s.pubsub.ProcessMessage(rawData, &payload); err != nil {
				log.Error("Failed to decode team match record", "error", err, "messageID", push.Message.MessageID)
				http.Error(w, "Invalid payload", http.StatusBadRequest)
				return
			}
			log.Info("Team match recorded", "teamMatchID", payload.TeamMatch.ID, "opponent", payload.TeamMatch.OpponentTeamName, "result", payload.TeamMatch.Result, "bouts", len(payload.Matches))
		default:
			log.Warn("Unknown event on record feed", "event", event, "subscription", push.Subscription)
			http.Error(w, "Unknown event", http.StatusBadRequest)
			return
		}
		w.Write([]byte("OK"))
	}
}
