package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/kendo-tally/internal/processor"
)

func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, s.Processor.Session())
	}
}

// DiscardSessionHandler abandons the active session. Recorded ippons need
// confirm=true.
func (s *Server) DiscardSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Processor.DiscardSession(isConfirmedFromContext(r)); err != nil {
			respondWithError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) StartMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req processor.MatchRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithError(w, err)
			return
		}
		view, err := s.Processor.StartMatch(req)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, view)
	}
}

func (s *Server) StartTeamMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req processor.TeamRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithError(w, err)
			return
		}
		view, err := s.Processor.StartTeamMatch(req)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, view)
	}
}

// sessionCommand adapts a body-less session command.
func (s *Server) sessionCommand(cmd func() (processor.SessionView, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := cmd()
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, view)
	}
}

func (s *Server) SelectTargetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req targetRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithError(w, err)
			return
		}
		s.sessionCommand(func() (processor.SessionView, error) {
			return s.Processor.SelectTarget(req.Target)
		})(w, r)
	}
}

func (s *Server) SelectScorerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scorerRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithError(w, err)
			return
		}
		s.sessionCommand(func() (processor.SessionView, error) {
			return s.Processor.SelectScorer(req.Scorer)
		})(w, r)
	}
}

func (s *Server) SelectTechniqueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req techniqueRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithError(w, err)
			return
		}
		s.sessionCommand(func() (processor.SessionView, error) {
			return s.Processor.SelectTechnique(req.Technique)
		})(w, r)
	}
}

func (s *Server) ResetTimerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		confirmed := isConfirmedFromContext(r)
		s.sessionCommand(func() (processor.SessionView, error) {
			return s.Processor.ResetTimer(confirmed)
		})(w, r)
	}
}

func (s *Server) EndMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match, err := s.Processor.EndMatch(isDryRunFromContext(r))
		if err != nil {
			respondWithError(w, err)
			return
		}
		log.Debug("Match ended over HTTP", "matchID", match.ID)
		respondWithJSON(w, http.StatusCreated, match)
	}
}

// BoutHandler ends or skips the current team bout. The response carries the
// saved records once the fifth bout is resolved.
func (s *Server) BoutHandler(resolve func(dryRun bool) (processor.BoutResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := resolve(isDryRunFromContext(r))
		if err != nil {
			respondWithError(w, err)
			return
		}
		status := http.StatusOK
		if res.Outcome != nil {
			status = http.StatusCreated
		}
		respondWithJSON(w, status, res)
	}
}
