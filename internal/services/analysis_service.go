// Package services orchestrates the analysis pipeline for the transport
// and CLI layers.
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"prgcli/internal/config"
	"prgcli/internal/dataprocessing"
	apperrors "prgcli/internal/errors"
	"prgcli/internal/infrastructure"
	"prgcli/internal/league"
	"prgcli/pkg/contracts/domain"
)

// isLeagueLabel reports whether an upload slot label names one of the
// supported leagues. Other labels ("Big 5 Combined", file names) leave the
// league derived from the data.
func isLeagueLabel(label string) bool {
	for _, name := range league.Names() {
		if label == name {
			return true
		}
	}
	return false
}

// Source is one uploaded CSV, logically tagged with a league or dataset
// label. The reader is consumed exactly once, synchronously.
type Source struct {
	Label  string
	Reader io.Reader
}

// SourceFailure is the classified reason one source was rejected.
type SourceFailure struct {
	Label  string `json:"label"`
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

// AnalysisOptions carries the per-run filter surface.
type AnalysisOptions struct {
	MinNineties       float64
	MaxAge            float64
	LeagueFilter      string
	TopN              int
	LeaderboardWindow int
}

// OptionsFromConfig derives run options from the configured defaults.
func OptionsFromConfig(cfg config.AnalysisConfig) AnalysisOptions {
	return AnalysisOptions{
		MinNineties:       float64(cfg.MinNineties),
		MaxAge:            float64(cfg.MaxAge),
		LeagueFilter:      cfg.LeagueFilter,
		TopN:              cfg.TopN,
		LeaderboardWindow: cfg.LeaderboardWindow,
	}
}

// AnalysisResult is the complete output of one analysis run. Aggregated
// views are derived read-only from Records.
type AnalysisResult struct {
	Records        []domain.QualifyingRecord       `json:"records"`
	Top            []domain.QualifyingRecord       `json:"top"`
	Summary        dataprocessing.OverallSummary   `json:"summary"`
	LeagueStats    []dataprocessing.LeagueSummary  `json:"league_stats"`
	SquadStats     []dataprocessing.SquadSummary   `json:"squad_stats"`
	Representation []dataprocessing.LeagueCount    `json:"representation"`
	Failures       []SourceFailure                 `json:"failures,omitempty"`
	Warnings       []string                        `json:"warnings,omitempty"`
}

// AnalysisService runs the full pipeline: load or receive CSV text, locate
// the header, normalize, filter, rank, combine and aggregate. Each run is
// synchronous and request-scoped; the only shared state is the memoized
// bundled dataset, keyed by content hash.
type AnalysisService struct {
	cfg     *config.Config
	paths   *config.Paths
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics

	group singleflight.Group

	mu         sync.Mutex
	cachedHash string
	cachedSet  *dataprocessing.PlayerSet
}

// NewAnalysisService creates the service. metrics may be nil.
func NewAnalysisService(cfg *config.Config, paths *config.Paths, logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		cfg:     cfg,
		paths:   paths,
		logger:  logger.With(slog.String("component", "analysis_service")),
		metrics: metrics,
	}
}

// Leagues returns the league names selectable in the filter surface.
func (s *AnalysisService) Leagues(ctx context.Context) []string {
	return league.Names()
}

// AnalyzeBundled runs the pipeline over the preloaded Big 5 dataset.
// Dataset-shape failures come back as classified errors; an empty filter
// result is a valid outcome carrying a warning, not an error.
func (s *AnalysisService) AnalyzeBundled(ctx context.Context, opts AnalysisOptions) (*AnalysisResult, error) {
	start := time.Now()

	set, err := s.loadBundled(ctx)
	if err != nil {
		s.recordFailure(ctx, err)
		return nil, err
	}

	set = dataprocessing.FilterLeague(set, opts.LeagueFilter)
	ranked, err := dataprocessing.FilterAndRank(set, opts.MaxAge, opts.MinNineties)
	if err != nil {
		s.recordFailure(ctx, err)
		return nil, err
	}

	result := s.buildResult(opts, nil, ranked)
	s.recordRun(ctx, start, 1)
	return result, nil
}

// AnalyzeUploads runs the pipeline over user-supplied CSV sources. Each
// source is processed independently and sequentially; per-source failures
// are classified and reported while the remaining sources still combine.
func (s *AnalysisService) AnalyzeUploads(ctx context.Context, sources []Source, opts AnalysisOptions) (*AnalysisResult, error) {
	start := time.Now()

	var failures []SourceFailure
	var ranked [][]domain.QualifyingRecord
	parsed := 0

	for _, source := range sources {
		records, err := s.processSource(ctx, source, opts)
		if err != nil {
			s.recordFailure(ctx, err)
			failures = append(failures, SourceFailure{
				Label:  source.Label,
				Reason: string(apperrors.TypeOf(err)),
				Detail: err.Error(),
			})
			s.logger.WarnContext(ctx, "source rejected",
				slog.String("label", source.Label),
				slog.String("error", err.Error()))
			continue
		}
		parsed++
		ranked = append(ranked, records)
	}

	result := s.buildResult(opts, failures, ranked...)
	s.recordRun(ctx, start, parsed)
	return result, nil
}

func (s *AnalysisService) processSource(ctx context.Context, source Source, opts AnalysisOptions) ([]domain.QualifyingRecord, error) {
	raw, err := io.ReadAll(source.Reader)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to read upload", err)
	}

	table, err := dataprocessing.ParseUploadTable(string(raw))
	if err != nil {
		return nil, err
	}

	set, err := dataprocessing.Normalize(table)
	if err != nil {
		return nil, err
	}

	ranked, err := dataprocessing.FilterAndRank(set, opts.MaxAge, opts.MinNineties)
	if err != nil {
		return nil, err
	}

	// Individual-league uploads are tagged with their slot label; the
	// combined upload and unrecognized labels keep the league inferred
	// from the data.
	if isLeagueLabel(source.Label) {
		for i := range ranked {
			ranked[i].League = source.Label
		}
	}

	s.logger.InfoContext(ctx, "source processed",
		slog.String("label", source.Label),
		slog.Int("players", len(set.Records)),
		slog.Int("qualifying", len(ranked)))

	return ranked, nil
}

func (s *AnalysisService) buildResult(opts AnalysisOptions, failures []SourceFailure, sources ...[]domain.QualifyingRecord) *AnalysisResult {
	combined := dataprocessing.Combine(sources...)

	result := &AnalysisResult{
		Records:        combined,
		Top:            dataprocessing.TopN(combined, opts.TopN),
		Summary:        dataprocessing.Summarize(combined),
		LeagueStats:    dataprocessing.LeagueStats(combined),
		SquadStats:     dataprocessing.SquadStats(combined),
		Representation: dataprocessing.Representation(combined, opts.LeaderboardWindow),
		Failures:       failures,
	}
	if len(combined) == 0 {
		result.Warnings = append(result.Warnings, "no players match the criteria")
	}
	return result
}

// loadBundled reads the preloaded dataset from the first candidate path
// that exists, memoized by content hash: the cached normalization is kept
// until the file content actually changes.
func (s *AnalysisService) loadBundled(ctx context.Context) (*dataprocessing.PlayerSet, error) {
	path, raw, err := s.readBundled()
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(raw)
	hash := hex.EncodeToString(sum[:])

	s.mu.Lock()
	if s.cachedHash == hash && s.cachedSet != nil {
		set := s.cachedSet
		s.mu.Unlock()
		return set, nil
	}
	s.mu.Unlock()

	v, err, _ := s.group.Do(hash, func() (interface{}, error) {
		table, err := dataprocessing.ParseTable(string(raw))
		if err != nil {
			return nil, err
		}
		set, err := dataprocessing.Normalize(table)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.cachedHash = hash
		s.cachedSet = set
		s.mu.Unlock()

		s.logger.InfoContext(ctx, "bundled dataset loaded",
			slog.String("path", path),
			slog.Int("players", len(set.Records)))
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*dataprocessing.PlayerSet), nil
}

func (s *AnalysisService) readBundled() (string, []byte, error) {
	var candidates []string
	if s.paths != nil {
		candidates = s.paths.BundledCSVCandidates()
	} else {
		candidates = []string{"big5_data.csv", "data/big5_data.csv"}
	}

	for _, path := range candidates {
		raw, err := os.ReadFile(path)
		if err == nil {
			return path, raw, nil
		}
		if !os.IsNotExist(err) {
			return "", nil, apperrors.NewStorageError(fmt.Sprintf("failed to read bundled dataset at %s", path), err)
		}
	}
	return "", nil, apperrors.NewStorageError("bundled dataset not found at any candidate path", nil).
		WithContext("candidates", candidates)
}

func (s *AnalysisService) recordRun(ctx context.Context, start time.Time, sources int) {
	if s.metrics == nil {
		return
	}
	s.metrics.AnalysesRun.Add(ctx, 1)
	s.metrics.SourcesParsed.Add(ctx, int64(sources))
	s.metrics.PipelineDuration.Record(ctx, time.Since(start).Seconds())
}

func (s *AnalysisService) recordFailure(ctx context.Context, err error) {
	if s.metrics == nil {
		return
	}
	reason := string(apperrors.TypeOf(err))
	if reason == "" {
		reason = "UNKNOWN"
	}
	s.metrics.RecordParseFailure(ctx, reason)
}
