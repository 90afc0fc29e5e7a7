package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type sessionResponse struct {
	Session *entity.Session `json:"session"`
	Message string          `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// sessionHandler - returns a read-only snapshot of one session.
func (that *Server) sessionHandler(w http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "sessionHandler")

	session, err := that.sessions.GetSession(req.Context(), req.PathValue("id"))
	if err != nil {
		if errors.Is(err, apperror.ErrSessionNotFound) {
			that.writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
			return
		}

		log.Error("failed to get session", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	that.writeJSON(w, http.StatusOK, sessionResponse{
		Session: session,
		Message: session.Game.StatusMessage(),
	})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
