// Package web serves the interactive graph viewer and the JSON API.
package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/timsearle/swift-dependency-graph/pkg/export"
	"github.com/timsearle/swift-dependency-graph/pkg/logging"
	"github.com/timsearle/swift-dependency-graph/pkg/model"
	"github.com/timsearle/swift-dependency-graph/pkg/pubsub"
	"github.com/timsearle/swift-dependency-graph/pkg/runner"
)

//go:embed static/*
var staticFiles embed.FS

// Server exposes the latest pipeline result over HTTP.
type Server struct {
	router    *mux.Router
	runner    *runner.Runner
	publisher pubsub.Publisher
	stableIDs bool
}

// NewServer wires the API around a runner and the publisher carrying its
// progress events.
func NewServer(r *runner.Runner, publisher pubsub.Publisher, stableIDs bool) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		runner:    r,
		publisher: publisher,
		stableIDs: stableIDs,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(logging.RequestIDMiddleware)

	s.router.HandleFunc("/api/graph", s.handleGraph).Methods("GET")
	s.router.HandleFunc("/api/analysis", s.handleAnalysis).Methods("GET")
	s.router.HandleFunc("/api/nodes/{id}", s.handleNode).Methods("GET")
	s.router.HandleFunc("/api/events", s.handleEvents).Methods("GET")
	s.router.HandleFunc("/api/health", s.handleHealth).Methods("GET")

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		logging.Fatal("embedded static files missing", "error", err)
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(staticFS)))
}

// Start blocks serving HTTP on the given port.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("web server listening", "addr", addr)
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) latest(w http.ResponseWriter) *runner.Result {
	result := s.runner.Last()
	if result == nil {
		http.Error(w, "no analysis has completed yet", http.StatusServiceUnavailable)
		return nil
	}
	return result
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	result := s.latest(w)
	if result == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if result.Empty {
		_ = json.NewEncoder(w).Encode(&export.Document{Nodes: []export.Node{}, Edges: []export.Edge{}})
		return
	}
	_ = json.NewEncoder(w).Encode(export.FromGraph(result.Graph, s.stableIDs))
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	result := s.latest(w)
	if result == nil {
		return
	}
	if result.Analysis == nil {
		http.Error(w, "no graph to analyze", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result.Analysis)
}

// nodeDetail is the navigation payload for one node: the node itself plus
// its direct neighbors in both directions.
type nodeDetail struct {
	Node       *model.Node `json:"node"`
	Dependents []string    `json:"dependents"`   // ids with an edge into this node
	DependsOn  []string    `json:"dependsOn"`    // ids this node has an edge to
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	result := s.latest(w)
	if result == nil {
		return
	}
	id := mux.Vars(r)["id"]
	if result.Graph == nil || !result.Graph.HasNode(id) {
		http.Error(w, "unknown node", http.StatusNotFound)
		return
	}

	detail := nodeDetail{
		Node:       result.Graph.Nodes[id],
		Dependents: []string{},
		DependsOn:  []string{},
	}
	for _, e := range result.Graph.Edges {
		if e.To == id {
			detail.Dependents = append(detail.Dependents, e.From)
		}
		if e.From == id {
			detail.DependsOn = append(detail.DependsOn, e.To)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(detail)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		topic = pubsub.TopicRunStatus
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Initial comment establishes the stream (Safari compatibility).
	fmt.Fprintf(w, ": connected\n\n")
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	sub, err := s.publisher.Subscribe(r.Context(), topic)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer sub.Close()

	for event := range sub.Events() {
		if err := pubsub.WriteSSE(w, event); err != nil {
			logging.Debug("client disconnected from event stream", "error", err)
			return
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{"status": "ok"}
	if result := s.runner.Last(); result != nil {
		status["lastRun"] = result.RunID
		status["empty"] = result.Empty
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status)
}
