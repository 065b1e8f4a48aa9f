package http

import (
	"net/http"

	"github.com/mauv0809/kendo-tally/internal/export"
)

func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := s.Processor.PlayerReport(r.PathValue("id"))
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, report)
	}
}

func (s *Server) SharePlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := s.Processor.SharePlayerStats(r.PathValue("id"), isDryRunFromContext(r))
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, report)
	}
}

func (s *Server) TeamStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, s.Processor.TeamStats())
	}
}

func (s *Server) ShareTeamStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Processor.ShareTeamStats(isDryRunFromContext(r))
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) TeamMatchStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, s.Processor.TeamMatchStats())
	}
}

func attachment(w http.ResponseWriter, contentType, name string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
}

// ExportHandler downloads every collection as a JSON snapshot.
func (s *Server) ExportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.Processor.Export()
		attachment(w, "application/json", export.FileName(snap.ExportedAt))
		if err := export.WriteJSON(w, snap); err != nil {
			respondWithError(w, err)
		}
	}
}

func (s *Server) ExportCSVHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attachment(w, "text/csv", export.CSVFileName(s.Processor.Now()))
		if err := s.Processor.ExportCSV(w); err != nil {
			respondWithError(w, err)
		}
	}
}

// ImportHandler replaces the collections present in the uploaded snapshot.
func (s *Server) ImportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := s.Processor.Import(r.Body)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, importResponse{
			Players:     len(state.Players),
			Matches:     len(state.Matches),
			TeamMatches: len(state.TeamMatches),
		})
	}
}

// SaveHandler writes everything, for when auto-save is off.
func (s *Server) SaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Processor.Save(); err != nil {
			respondWithError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ClearDataHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Processor.ClearData(isConfirmedFromContext(r)); err != nil {
			respondWithError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
