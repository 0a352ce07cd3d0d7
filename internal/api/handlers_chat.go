// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lithammer/shortuuid/v4"

	"github.com/hazelbot/hazel/internal/log"
)

type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// handleChat runs one conversational turn. Guests without a userId get
// one minted and echoed back so the client can keep the session.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, r, http.StatusBadRequest, "missing_message", "message is required")
		return
	}
	if req.UserID == "" {
		req.UserID = shortuuid.New()
	}

	ctx := log.ContextWithUserID(r.Context(), req.UserID)
	reply, err := s.engine.Handle(ctx, req.UserID, req.Message)
	if err != nil {
		apiLog := log.WithComponentFromContext(ctx, "api")
		apiLog.Error().Err(err).Msg("chat turn failed")
		writeError(w, r, http.StatusInternalServerError, "internal_error", "could not process message")
		return
	}
	writeJSON(w, http.StatusOK, reply)
}
