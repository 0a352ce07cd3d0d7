// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hazelbot/hazel/internal/intent"
	"github.com/hazelbot/hazel/internal/log"
)

// handleTrainingData exposes the live intent list for the admin panel.
func (s *Server) handleTrainingData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"intents": s.kb.Intents(),
	})
}

// handleTrain upserts one intent and persists the knowledge base.
func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	var in intent.Intent
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	existed, err := s.kb.Train(in)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_intent", err.Error())
		return
	}
	s.persistKnowledge(r)

	logger := log.WithComponentFromContext(r.Context(), "training")
	logger.Info().Str(log.FieldIntent, in.Tag).Bool("replaced", existed).Msg("intent trained")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"tag":      in.Tag,
		"replaced": existed,
	})
}

// handleForget removes a trained intent by tag.
func (s *Server) handleForget(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	if !s.kb.Forget(tag) {
		writeError(w, r, http.StatusNotFound, "intent_not_found", fmt.Sprintf("no intent %q", tag))
		return
	}
	s.persistKnowledge(r)

	trainLog := log.WithComponentFromContext(r.Context(), "training")
	trainLog.Info().Str(log.FieldIntent, tag).Msg("intent forgotten")
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "tag": tag})
}

// persistKnowledge writes trained changes back to disk, best-effort:
// the in-memory base is already updated, so a write failure only costs
// durability across restarts.
func (s *Server) persistKnowledge(r *http.Request) {
	if s.knowledgePath == "" {
		return
	}
	if err := s.kb.Persist(s.knowledgePath); err != nil {
		trainLog := log.WithComponentFromContext(r.Context(), "training")
		trainLog.Warn().Err(err).Msg("knowledge persist failed")
	}
}
