package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/rateaudit/internal/core"
)

const (
	// multipartOverhead is allowed on top of the file size for form framing.
	multipartOverhead = 1 << 20

	// maxAnalysisBody caps the JSON body of an analysis request.
	maxAnalysisBody = 1 << 20

	// multipartMemory is kept in memory while parsing; larger parts spill to disk.
	multipartMemory = 8 << 20
)

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
}

// handleStatus reports analysis slot usage.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Limiter().Status())
}

// handleUpload stages the multipart "file" field and returns its headers.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.service.MaxFileSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			s.respondError(w, r, fmt.Errorf("%w: %v", core.ErrFileTooLarge, err))
			return
		}
		s.respondError(w, r, fmt.Errorf("%w: %v", core.ErrNoFile, err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %v", core.ErrNoFile, err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	result, err := s.service.Stage(r.Context(), header.Filename, data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleColumns returns a staged file's headers and a suggested mapping.
func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Columns(r.Context(), chi.URLParam(r, "fileId"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// analysisRequest is the JSON body of POST /api/analysis. Pointers tell an
// absent mapping or settings object apart from an empty one; settings
// fields that are absent take their defaults.
type analysisRequest struct {
	FileID   string                        `json:"fileId"`
	Mapping  *core.ColumnMapping           `json:"mapping"`
	Settings *core.RateCalculationSettings `json:"settings"`
}

func (req analysisRequest) toCore() (core.AnalysisRequest, error) {
	if req.FileID == "" || req.Mapping == nil || req.Settings == nil {
		return core.AnalysisRequest{}, core.ErrIncompleteRequest
	}
	return core.AnalysisRequest{
		FileID:   req.FileID,
		Mapping:  *req.Mapping,
		Settings: *req.Settings,
	}, nil
}

// handleAnalysis prices every row of a staged file.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAnalysisBody)

	var body analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, r, fmt.Errorf("%w: decode body: %v", core.ErrIncompleteRequest, err))
		return
	}

	req, err := body.toCore()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp, err := s.service.Analyze(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
