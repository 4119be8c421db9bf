// Command analyzer runs the progressive distance analysis as a batch job:
// it loads the bundled Big 5 dataset or user-supplied CSV exports, applies
// the cohort filter and writes the ranked CSV and Excel artifacts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"prgcli/internal/config"
	"prgcli/internal/exporter"
	"prgcli/internal/files"
	"prgcli/internal/infrastructure"
	"prgcli/internal/services"
	"prgcli/internal/validation"
)

func main() {
	bundled := flag.Bool("bundled", true, "analyze the preloaded Big 5 dataset")
	inputs := flag.String("in", "", "comma-separated CSV files or directories to analyze instead of the bundled dataset")
	outDir := flag.String("out", "", "output directory for artifacts (defaults to the configured reports dir)")
	minNineties := flag.Int("min-90s", 0, "minimum 90s played (overrides config)")
	maxAge := flag.Int("max-age", 0, "maximum age (overrides config)")
	topN := flag.Int("top", 0, "number of top players to export (overrides config)")
	leagueFilter := flag.String("league", "", "restrict the bundled analysis to one league")
	workbook := flag.Bool("xlsx", false, "also write an Excel workbook")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	paths, err := config.GetPaths(cfg)
	if err != nil {
		logger.Error("Failed to resolve paths", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *outDir == "" {
		*outDir = paths.ReportsDir
	}
	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateOutputDirectory(*outDir); err != nil {
		logger.Error("Failed to prepare output directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	opts := services.OptionsFromConfig(cfg.Analysis)
	if *minNineties > 0 {
		opts.MinNineties = float64(*minNineties)
	}
	if *maxAge > 0 {
		opts.MaxAge = float64(*maxAge)
	}
	if *topN > 0 {
		opts.TopN = *topN
	}
	if *leagueFilter != "" {
		opts.LeagueFilter = *leagueFilter
	}

	service := services.NewAnalysisService(cfg, paths, logger, nil)
	ctx := infrastructure.EnsureTraceID(context.Background())

	result, err := runAnalysis(ctx, service, validator, *bundled, *inputs, opts)
	if err != nil {
		logger.Error("Analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, failure := range result.Failures {
		logger.Warn("Source rejected",
			slog.String("label", failure.Label),
			slog.String("reason", failure.Reason))
	}
	if result.Summary.Players == 0 {
		logger.Warn("No players match the criteria")
		return
	}

	logger.Info("Analysis complete",
		slog.Int("qualifying_players", result.Summary.Players),
		slog.Float64("avg_prg_dist", result.Summary.AvgPrgDist),
		slog.Float64("max_prg_dist", result.Summary.MaxPrgDist),
		slog.Int("leagues", result.Summary.Leagues))

	for _, league := range result.LeagueStats {
		logger.Info("League summary",
			slog.String("league", league.League),
			slog.Int("players", league.Players),
			slog.Float64("avg_prg_dist", league.AvgPrgDist),
			slog.Float64("max_prg_dist", league.MaxPrgDist),
			slog.Float64("avg_age", league.AvgAge))
	}

	csvExporter := exporter.NewCSVExporter(logger)
	if err := csvExporter.ExportArtifacts(result.Records, opts.TopN, int(opts.MaxAge), *outDir); err != nil {
		logger.Error("Failed to write CSV artifacts", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *workbook {
		name := fmt.Sprintf("u%d_midfielders_progressive_distance.xlsx", int(opts.MaxAge))
		path := filepath.Join(*outDir, name)
		file, err := os.Create(path)
		if err != nil {
			logger.Error("Failed to create workbook file", slog.String("error", err.Error()))
			os.Exit(1)
		}
		excelExporter := exporter.NewExcelExporter(logger)
		if err := excelExporter.WriteTo(file, result.Records); err != nil {
			file.Close()
			logger.Error("Failed to write workbook", slog.String("error", err.Error()))
			os.Exit(1)
		}
		file.Close()
		logger.Info("Workbook written", slog.String("path", path))
	}

	logger.Info("Artifacts written", slog.String("output_dir", *outDir))
}

func runAnalysis(ctx context.Context, service *services.AnalysisService, validator *validation.FileValidator, bundled bool, inputs string, opts services.AnalysisOptions) (*services.AnalysisResult, error) {
	if inputs == "" {
		if !bundled {
			return nil, fmt.Errorf("nothing to analyze: pass -in files or keep -bundled enabled")
		}
		return service.AnalyzeBundled(ctx, opts)
	}

	csvPaths, err := collectInputs(validator, inputs)
	if err != nil {
		return nil, err
	}

	var sources []services.Source
	var open []*os.File
	defer func() {
		for _, f := range open {
			f.Close()
		}
	}()

	for _, path := range csvPaths {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		open = append(open, file)

		label := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		sources = append(sources, services.Source{Label: label, Reader: file})
	}

	return service.AnalyzeUploads(ctx, sources, opts)
}

// collectInputs expands the -in flag into concrete CSV paths: directories
// contribute every CSV they contain, in name order.
func collectInputs(validator *validation.FileValidator, inputs string) ([]string, error) {
	var csvPaths []string
	for _, path := range strings.Split(inputs, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if err := validator.ValidateInputPath(path); err != nil {
			return nil, err
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			csvPaths = append(csvPaths, path)
			continue
		}

		discovered, err := files.NewDiscovery("").FindCSVFiles(path)
		if err != nil {
			return nil, err
		}
		for _, f := range discovered {
			csvPaths = append(csvPaths, f.Path)
		}
	}
	if len(csvPaths) == 0 {
		return nil, fmt.Errorf("no CSV files found under %s", inputs)
	}
	return csvPaths, nil
}
