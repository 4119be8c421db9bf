package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"prgcli/internal/dataprocessing"
	"prgcli/pkg/contracts/domain"
)

// CSVExporter writes ranked result sets as CSV artifacts.
type CSVExporter struct {
	logger *slog.Logger
}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter(logger *slog.Logger) *CSVExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVExporter{logger: logger}
}

// BuildRows converts a ranked sequence into header and data rows. The PrgP
// column is emitted only when at least one record carries the value. Rank
// prefers the combined OverallRank and falls back to the per-source Rank.
func BuildRows(records []domain.QualifyingRecord) ([]string, [][]string) {
	withPrgP := false
	for _, record := range records {
		if record.PrgP != nil {
			withPrgP = true
			break
		}
	}

	headers := []string{"Rank", "Player", "League", "Squad", "Age", "Pos", "90s", "PrgDist"}
	if withPrgP {
		headers = append(headers, "PrgP")
	}

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rank := record.OverallRank
		if rank == 0 {
			rank = record.Rank
		}
		row := []string{
			formatInt(rank),
			record.Player,
			record.League,
			record.Squad,
			formatAge(record.Age),
			record.Pos,
			formatRate(record.Nineties),
			formatRate(record.PrgDist),
		}
		if withPrgP {
			row = append(row, formatPasses(record.PrgP))
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// WriteTo streams a ranked sequence as CSV to w.
func (e *CSVExporter) WriteTo(w io.Writer, records []domain.QualifyingRecord) error {
	headers, rows := BuildRows(records)

	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile writes a ranked sequence to a CSV file, prefixed with a UTF-8
// BOM so Excel recognizes the encoding.
func (e *CSVExporter) WriteFile(path string, records []domain.QualifyingRecord) error {
	e.logger.Info("writing CSV artifact",
		slog.String("path", path),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	return e.WriteTo(file, records)
}

// ExportArtifacts writes the two standard downloadable result sets into
// outputDir: the configurable top-N slice and the full qualifying set.
func (e *CSVExporter) ExportArtifacts(records []domain.QualifyingRecord, topN int, maxAge int, outputDir string) error {
	top := dataprocessing.TopN(records, topN)

	topName := fmt.Sprintf("top_%d_u%d_midfielders_progressive_distance.csv", topN, maxAge)
	if err := e.WriteFile(filepath.Join(outputDir, topName), top); err != nil {
		return err
	}

	allName := fmt.Sprintf("all_u%d_midfielders_progressive_distance.csv", maxAge)
	return e.WriteFile(filepath.Join(outputDir, allName), records)
}
