package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"codescope/internal/core/app"
	"codescope/internal/core/errors"
	"codescope/internal/data/history"
	"codescope/internal/engine/scan"
	"codescope/internal/shared/util"
)

type analyzeRequest struct {
	Path          string `json:"path"`
	IncludeTests  *bool  `json:"include_tests"`
	AnalysisDepth string `json:"analysis_depth"`
	SessionID     string `json:"session_id"`
}

// handleAnalyze runs a full analysis and blocks until it finishes. Clients
// that want live progress pass a session_id up front and stream
// /api/progress/{id} while this request is in flight.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, errors.Wrap(err, errors.CodeValidationError, "invalid request body"))
		return
	}

	depth, err := scan.ParseDepth(req.AnalysisDepth)
	if err != nil {
		writeError(w, err)
		return
	}

	includeTests := s.cfg.Scan.TestsIncluded()
	if req.IncludeTests != nil {
		includeTests = *req.IncludeTests
	}

	analysis, err := s.svc.StartAnalysis(r.Context(), req.Path, app.Options{
		IncludeTests: includeTests,
		Depth:        depth,
		SessionID:    req.SessionID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.saveAnalysis(analysis)
	writeJSON(w, http.StatusOK, analysis)
}

// saveAnalysis records a finished run in history. Failures are logged, not
// surfaced: the analysis result is already in hand.
func (s *Server) saveAnalysis(analysis *app.ProjectAnalysis) {
	if s.store == nil {
		return
	}

	results, err := json.Marshal(analysis)
	if err != nil {
		slog.Warn("skipping history save", "error", err)
		return
	}
	language := "unknown"
	if len(analysis.Metrics.Languages) > 0 {
		language = analysis.Metrics.Languages[0]
	}
	if _, err := s.store.SaveAnalysis(analysis.ProjectPath, language, results); err != nil {
		slog.Warn("history save failed", "path", analysis.ProjectPath, "error", err)
	}
}

// handleProgress streams progress states for one session as SSE. Sessions
// already finished replay their terminal state and close.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	states, unsubscribe, err := s.svc.SubscribeProgress(id)
	if err != nil {
		writeError(w, err)
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	for {
		select {
		case state, open := <-states:
			if !open {
				return
			}
			data, err := json.Marshal(state)
			if err != nil {
				slog.Error("failed to marshal progress state", "session", id, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: progress\ndata: %s\n\n", data)
			flusher.Flush()
		case <-time.After(s.cfg.Server.KeepAliveInterval):
			fmt.Fprintf(w, ":\n\n")
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects := make([]history.Project, 0)
	if s.store != nil {
		var err error
		projects, err = s.store.ListProjects()
		if err != nil {
			writeError(w, errors.Wrap(err, errors.CodeIOError, "history unavailable"))
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"memory_mb": util.HeapAllocMB(),
	})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.doc)
}
