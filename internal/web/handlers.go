package web

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/framefill/internal/core"
	"github.com/JonMunkholm/framefill/internal/document"
	"github.com/JonMunkholm/framefill/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// FrameResponse describes one frame's story.
type FrameResponse struct {
	Frame    string `json:"frame"`
	Text     string `json:"text"`
	Length   int    `json:"length"`
	Overflow bool   `json:"overflow"`
}

// HealthResponse reports document and limiter state.
type HealthResponse struct {
	Status   string                 `json:"status"`
	Layout   string                 `json:"layout"`
	Document bool                   `json:"document"`
	Fills    core.FillLimiterStatus `json:"fills"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Layout:   s.layout.Name(),
		Document: s.layout.HasDocument(),
		Fills:    s.service.LimiterStatus(),
	}
	status := http.StatusOK
	if !resp.Document {
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, r, status, resp)
}

// handleListFrames lists every chain with its text length and overflow.
func (s *Server) handleListFrames(w http.ResponseWriter, r *http.Request) {
	chains, err := s.layout.Chains()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if chains == nil {
		chains = []document.ChainInfo{}
	}
	writeJSON(w, r, http.StatusOK, chains)
}

func (s *Server) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	frame := chi.URLParam(r, "frame")

	if !s.layout.HasDocument() {
		s.respondError(w, r, document.ErrNoDocument)
		return
	}
	if !s.layout.FrameExists(frame) {
		s.respondError(w, r, fmt.Errorf("%w: %q", document.ErrFrameNotFound, frame))
		return
	}

	text, err := s.layout.Text(frame)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	overflow, err := s.layout.TextOverflows(frame)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, FrameResponse{
		Frame:    frame,
		Text:     text,
		Length:   len([]rune(text)),
		Overflow: overflow,
	})
}

// handleFill replaces the story of a frame chain with the configured column
// of the uploaded file. Column, header handling and formatting come from the
// server configuration.
func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	frame := chi.URLParam(r, "frame")

	file, header, err := s.formFile(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Upload.Timeout)
	defer cancel()
	ctx = WithRequestMetadata(ctx, r)

	opts := s.opts
	opts.Frame = frame

	logger := logging.WithFields(r.Context(), "frame", frame, "source", header.Filename, "size", header.Size)
	logger.Info("fill requested")

	result, err := s.service.UpdateFromReader(ctx, header.Filename, file, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if s.cfg.Layout.Save {
		if err := s.layout.Save(s.cfg.Layout.Path); err != nil {
			s.respondError(w, r, fmt.Errorf("save layout: %w", err))
			return
		}
		logger.Debug("layout saved", "path", s.cfg.Layout.Path)
	}

	writeJSON(w, r, http.StatusOK, result)
}

// handlePreview returns the first n extracted values without touching the
// document. n comes from the query or form (default CSV_PREVIEW_ROWS).
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.formFile(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer file.Close()

	n := parseIntParam(r, "n", s.cfg.CSV.PreviewRows)

	preview, err := s.service.PreviewReader(header.Filename, file, n, s.opts.Extract)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, preview)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", core.DefaultRunLimit)

	runs, err := s.service.Runs().ListRuns(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if runs == nil {
		runs = []core.Run{}
	}
	writeJSON(w, r, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, fmt.Errorf("%w: run id: %v", core.ErrInvalidRequest, err))
		return
	}

	run, err := s.service.Runs().GetRun(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, run)
}

// formFile limits the body to UPLOAD_MAX_FILE_SIZE and returns the "file"
// part of a multipart form.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) || strings.Contains(err.Error(), "request body too large") {
			return nil, nil, fmt.Errorf("%w: %v", core.ErrFileTooLarge, err)
		}
		return nil, nil, fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}
	return file, header, nil
}

// parseIntParam reads a non-negative integer from the query or form.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	v := r.FormValue(name)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}
