// SPDX-License-Identifier: MIT

// Package api exposes the chatbot over HTTP: the chat endpoint, the
// detailed order endpoints, training administration and health probes.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hazelbot/hazel/internal/api/middleware"
	"github.com/hazelbot/hazel/internal/chat"
	"github.com/hazelbot/hazel/internal/config"
	"github.com/hazelbot/hazel/internal/knowledge"
	"github.com/hazelbot/hazel/internal/menu"
	"github.com/hazelbot/hazel/internal/order"
	"github.com/hazelbot/hazel/internal/session"
	"github.com/hazelbot/hazel/internal/version"
)

// Server wires handlers to their collaborators.
type Server struct {
	cfg     *config.Config
	engine  *chat.Engine
	kb      *knowledge.Base
	menu    *menu.Menu
	store   session.Store
	ids     order.IDGenerator
	tracker *order.Tracker

	// knowledgePath is where trained intents are persisted; empty
	// disables persistence (tests).
	knowledgePath string

	ready func(context.Context) error
}

// Options wires the server's collaborators.
type Options struct {
	Config        *config.Config
	Engine        *chat.Engine
	Knowledge     *knowledge.Base
	Menu          *menu.Menu
	Store         session.Store
	IDs           order.IDGenerator
	Tracker       *order.Tracker
	KnowledgePath string
	// Ready reports backend readiness; nil means always ready.
	Ready func(context.Context) error
}

// New builds a server.
func New(opts Options) *Server {
	return &Server{
		cfg:           opts.Config,
		engine:        opts.Engine,
		kb:            opts.Knowledge,
		menu:          opts.Menu,
		store:         opts.Store,
		ids:           opts.IDs,
		tracker:       opts.Tracker,
		knowledgePath: opts.KnowledgePath,
		ready:         opts.Ready,
	}
}

// Router returns the fully assembled chi router.
func (s *Server) Router() http.Handler {
	r := middleware.NewRouter(middleware.StackConfig{
		AllowedOrigins: s.cfg.AllowedOrigins,
		EnableMetrics:  true,
		TracingService: s.tracingService(),
		EnableLogging:  true,
		RateLimitRPM:   s.cfg.RateLimitRPM,
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Post("/order", s.handleCreateOrder)
		r.Get("/order/{orderID}", s.handleOrderStatus)
		r.Get("/training-data", s.handleTrainingData)
		r.Post("/train", s.handleTrain)
		r.Delete("/train/{tag}", s.handleForget)
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func (s *Server) tracingService() string {
	if s.cfg.TracingEnabled {
		return "hazel-api"
	}
	return ""
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			writeError(w, r, http.StatusServiceUnavailable, "not_ready", err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
