package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/JonMunkholm/rateaudit/internal/logging"
	"github.com/JonMunkholm/rateaudit/internal/staging"
)

// DefaultMaxFileSize caps staged uploads when no limit is configured.
const DefaultMaxFileSize int64 = 50 << 20

// DefaultAnalysisTimeout bounds one analysis when no timeout is configured.
const DefaultAnalysisTimeout = 2 * time.Minute

// ServiceConfig tunes a Service. Zero values take package defaults.
type ServiceConfig struct {
	MaxFileSize   int64
	MaxConcurrent int
	MaxWait       time.Duration
	EngineTimeout time.Duration

	// AnalysisTimeout bounds one analysis, including the rate engine call.
	AnalysisTimeout time.Duration
}

// Service stages uploads and analyzes them against the rate engine.
type Service struct {
	store           staging.Store
	gateway         *Gateway
	limiter         *AnalysisLimiter
	maxFileSize     int64
	analysisTimeout time.Duration
}

// NewService creates a Service. A nil engine prices every batch locally.
func NewService(store staging.Store, engine RateEngine, cfg ServiceConfig) (*Service, error) {
	if store == nil {
		return nil, errors.New("staging store is required")
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.AnalysisTimeout <= 0 {
		cfg.AnalysisTimeout = DefaultAnalysisTimeout
	}

	return &Service{
		store:           store,
		gateway:         NewGateway(engine, cfg.EngineTimeout),
		limiter:         NewAnalysisLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		maxFileSize:     cfg.MaxFileSize,
		analysisTimeout: cfg.AnalysisTimeout,
	}, nil
}

// MaxFileSize returns the upload size limit in bytes.
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// Stage parses an upload to check it is a usable CSV and stores it.
// A header row alone is accepted; analysis rejects it later.
func (s *Service) Stage(ctx context.Context, fileName string, data []byte) (*UploadResult, error) {
	if int64(len(data)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: %s exceeds %s", ErrFileTooLarge,
			humanize.IBytes(uint64(len(data))), humanize.IBytes(uint64(s.maxFileSize)))
	}

	table, err := ParseTable(data)
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, ErrEmptyTable
	}

	f, err := s.store.Put(ctx, fileName, data)
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}

	result := &UploadResult{
		FileID:      f.ID,
		FileName:    fileName,
		FileSize:    f.Size,
		Columns:     table.Header(),
		RecordCount: len(table.DataRows()),
	}

	logging.WithFields(ctx, "file_id", f.ID).Info("upload staged",
		"file_name", fileName,
		"size", humanize.IBytes(uint64(f.Size)),
		"columns", len(result.Columns),
		"rows", result.RecordCount,
	)
	return result, nil
}

// Columns returns the headers of a staged file with a suggested mapping.
func (s *Service) Columns(ctx context.Context, fileID string) (*ColumnsResult, error) {
	table, err := s.loadTable(ctx, fileID)
	if err != nil {
		return nil, err
	}

	headers := table.Header()
	return &ColumnsResult{
		FileID:           fileID,
		Columns:          headers,
		RecordCount:      len(table.DataRows()),
		SuggestedMapping: SuggestMapping(headers),
	}, nil
}

// Analyze prices every row of a staged file.
//
// Settings are validated once here. The call waits for an analysis slot and
// fails with ErrTooManyAnalyses if none frees up in time.
func (s *Service) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error) {
	if req.FileID == "" {
		return nil, ErrIncompleteRequest
	}
	if err := req.Settings.Validate(); err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.analysisTimeout)
	defer cancel()

	log := logging.WithFields(ctx, "file_id", req.FileID)
	start := time.Now()

	table, err := s.loadTable(ctx, req.FileID)
	if err != nil {
		return nil, err
	}

	resp, err := AnalyzeTable(ctx, s.gateway, table, req.Mapping, req.Settings)
	if err != nil {
		log.Info("analysis rejected", "error", err)
		return nil, err
	}

	log.Info("analysis completed",
		"rows", resp.Summary.Count,
		"used_fallback", resp.Warning != "",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}

// Limiter exposes the analysis limiter for status reporting.
func (s *Service) Limiter() *AnalysisLimiter {
	return s.limiter
}

// WaitForAnalyses blocks until in-flight analyses finish or ctx ends.
func (s *Service) WaitForAnalyses(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

func (s *Service) loadTable(ctx context.Context, fileID string) (RawTable, error) {
	f, err := s.store.Get(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return ParseTable(f.Data)
}
