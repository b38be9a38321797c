package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/creatorforge/nexus/internal/pipeline"
	"github.com/creatorforge/nexus/internal/store"
	"github.com/creatorforge/nexus/internal/types"
)

// maxUploadBytes caps video uploads at 500MB
const maxUploadBytes = 500 << 20

type generateScriptRequest struct {
	Topic string `json:"topic"`
	Niche string `json:"niche"`
	Style string `json:"style"`
	Goals string `json:"goals"`
}

type generateScriptResponse struct {
	RunID           int64         `json:"run_id"`
	Script          *types.Script `json:"script"`
	DiscoveredItems []types.Trend `json:"discovered_items"`
	Status          string        `json:"status"`
}

type processVideoResponse struct {
	RunID           int64                  `json:"run_id"`
	ClippedSegments []types.ClippedSegment `json:"clipped_segments"`
	OutreachOffers  []types.OutreachOffer  `json:"outreach_offers"`
	Status          string                 `json:"status"`
}

type recentRunsResponse struct {
	Runs  []store.RunRecord `json:"runs"`
	Count int               `json:"count"`
}

// handleGenerateScript runs Phase 1: discovery and writing, suspending
// before the video shoot.
func (s *Server) handleGenerateScript(w http.ResponseWriter, r *http.Request) {
	var req generateScriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		s.writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	result, err := s.runner.RunPhase1(r.Context(), pipeline.Inputs{
		Topic: req.Topic,
		Niche: req.Niche,
		Style: req.Style,
		Goals: req.Goals,
	})
	if err != nil {
		slog.Error("phase 1 failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to persist run")
		return
	}

	if result.State.Failed() {
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"status":  "failed",
			"stage":   result.State.Failure.Stage,
			"message": result.State.Failure.Message,
		})
		return
	}

	s.writeJSON(w, http.StatusOK, generateScriptResponse{
		RunID:           result.RunID,
		Script:          result.State.Script,
		DiscoveredItems: result.State.DiscoveredItems,
		Status:          "awaiting_video",
	})
}

// handleProcessVideo accepts the shot footage and runs Phase 2:
// clipping, distribution, and sponsor outreach.
func (s *Server) handleProcessVideo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	runID, err := strconv.ParseInt(r.FormValue("run_id"), 10, 64)
	if err != nil || runID <= 0 {
		s.writeError(w, http.StatusBadRequest, "run_id is required")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "video file is required")
		return
	}
	defer func() { _ = file.Close() }()

	mediaPath, err := s.saveUpload(file, header.Filename, runID)
	if err != nil {
		slog.Error("failed to save upload", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to save uploaded video")
		return
	}

	state, err := s.runner.RunPhase2(r.Context(), runID, mediaPath)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			s.writeError(w, http.StatusNotFound, fmt.Sprintf("run %d not found", runID))
			return
		}
		slog.Error("phase 2 failed", "run_id", runID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to process video")
		return
	}

	s.writeJSON(w, http.StatusOK, processVideoResponse{
		RunID:           runID,
		ClippedSegments: state.ClippedSegments,
		OutreachOffers:  state.OutreachOffers,
		Status:          "complete",
	})
}

// handleRecentRuns lists recent runs, newest first
func (s *Server) handleRecentRuns(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	runs, err := s.lister.ListRecent(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list runs", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	s.writeJSON(w, http.StatusOK, recentRunsResponse{Runs: runs, Count: len(runs)})
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// saveUpload writes the uploaded video under the upload directory with a
// collision-proof name
func (s *Server) saveUpload(file io.Reader, originalName string, runID int64) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = ".mp4"
	}
	name := fmt.Sprintf("video_%d_%s%s", runID, uuid.New().String(), ext)
	path := filepath.Join(s.uploadDir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, file); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return path, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
