// Package web exposes the analysis pipeline over HTTP: job submission
// and polling, the latest catalog and graph, catalog diffing, and an
// SSE progress stream.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/skoglund/feature-scan/pkg/analysis"
	"github.com/skoglund/feature-scan/pkg/config"
	"github.com/skoglund/feature-scan/pkg/diff"
	"github.com/skoglund/feature-scan/pkg/jobs"
	"github.com/skoglund/feature-scan/pkg/logging"
	"github.com/skoglund/feature-scan/pkg/model"
	"github.com/skoglund/feature-scan/pkg/pubsub"
)

// Server wires the runner, the job registry, and the event stream into
// an HTTP API.
type Server struct {
	router    *mux.Router
	runner    *analysis.Runner
	registry  *jobs.Registry
	publisher *pubsub.SSEPublisher
	rules     *config.Rules
}

// NewServer creates the HTTP layer. rules are passed through to every
// run submitted via the API.
func NewServer(runner *analysis.Runner, registry *jobs.Registry, publisher *pubsub.SSEPublisher, rules *config.Rules) *Server {
	// New subscribers get the current state, not the full history.
	publisher.ConfigureTopic(pubsub.TopicAnalysisStatus, pubsub.TopicConfig{
		BufferSize: 10,
		ReplayAll:  false,
	})
	publisher.ConfigureTopic(pubsub.TopicCatalog, pubsub.TopicConfig{
		BufferSize: 5,
		ReplayAll:  false,
	})

	s := &Server{
		router:    mux.NewRouter(),
		runner:    runner,
		registry:  registry,
		publisher: publisher,
		rules:     rules,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(logging.RequestIDMiddleware)

	s.router.HandleFunc("/api/analyze", s.handleAnalyze).Methods("POST")
	s.router.HandleFunc("/api/jobs/{id}", s.handleJob).Methods("GET")
	s.router.HandleFunc("/api/catalog", s.handleCatalog).Methods("GET")
	s.router.HandleFunc("/api/graph", s.handleGraph).Methods("GET")
	s.router.HandleFunc("/api/diff", s.handleDiff).Methods("POST")
	s.router.HandleFunc("/api/events", s.handleEvents).Methods("GET")
}

// Router exposes the handler for embedding in other servers and tests.
func (s *Server) Router() http.Handler {
	return s.router
}

type analyzeRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if r.Body != nil {
		// An empty body is fine; reason is optional.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Reason == "" {
		req.Reason = "api request"
	}

	job := s.registry.Submit(req.Reason)
	go func() {
		s.registry.MarkRunning(job.ID)
		result, err := s.runner.Run(context.Background(), analysis.Options{
			Rules:  s.rules,
			Reason: req.Reason,
		})
		if err != nil {
			logging.Error("analysis job failed", "job", job.ID, "error", err)
			s.registry.MarkFailed(job.ID, err)
			return
		}
		s.registry.MarkCompleted(job.ID, result)
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(job)
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	job, err := s.registry.Get(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	result := s.runner.Latest()
	if result == nil {
		http.Error(w, "no completed analysis yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result.Catalog)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	result := s.runner.Latest()
	if result == nil {
		http.Error(w, "no completed analysis yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result.Graph)
}

type diffRequest struct {
	A *model.FeatureCatalog `json:"a"`
	B *model.FeatureCatalog `json:"b"`
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	var req diffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid diff request: %v", err), http.StatusBadRequest)
		return
	}
	if req.A == nil || req.B == nil {
		http.Error(w, "diff request needs catalogs under \"a\" and \"b\"", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(diff.Compare(req.A, req.B))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		topic = pubsub.TopicAnalysisStatus
	}
	if topic != pubsub.TopicAnalysisStatus && topic != pubsub.TopicCatalog {
		http.Error(w, fmt.Sprintf("unknown topic %q", topic), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Initial comment establishes the connection (Safari compatibility).
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

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := pubsub.WriteSSE(w, event); err != nil {
				logging.Warn("failed to write SSE event", "error", err)
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		}
	}
}

// Start starts the web server on the specified port.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("starting web server", "addr", fmt.Sprintf("http://localhost%s", addr))
	return http.ListenAndServe(addr, s.router)
}
