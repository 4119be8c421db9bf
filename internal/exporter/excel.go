package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"prgcli/internal/dataprocessing"
	"prgcli/pkg/contracts/domain"
)

// ExcelExporter renders a combined ranking as an Excel workbook with one
// sheet per league plus overall and league-summary sheets.
type ExcelExporter struct {
	logger *slog.Logger
}

// NewExcelExporter creates an Excel exporter.
func NewExcelExporter(logger *slog.Logger) *ExcelExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelExporter{logger: logger}
}

// BuildWorkbook assembles the workbook in memory. The caller owns the
// returned file and must Close it.
func (e *ExcelExporter) BuildWorkbook(records []domain.QualifyingRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", "Overall"); err != nil {
		return nil, fmt.Errorf("failed to rename default sheet: %w", err)
	}
	if err := writeRecordSheet(f, "Overall", records); err != nil {
		return nil, err
	}

	for _, summary := range dataprocessing.LeagueStats(records) {
		var leagueRecords []domain.QualifyingRecord
		for _, record := range records {
			if record.League == summary.League {
				leagueRecords = append(leagueRecords, record)
			}
		}
		if _, err := f.NewSheet(summary.League); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", summary.League, err)
		}
		if err := writeRecordSheet(f, summary.League, leagueRecords); err != nil {
			return nil, err
		}
	}

	if err := writeLeagueSummarySheet(f, records); err != nil {
		return nil, err
	}

	return f, nil
}

// WriteTo streams the workbook to w.
func (e *ExcelExporter) WriteTo(w io.Writer, records []domain.QualifyingRecord) error {
	f, err := e.BuildWorkbook(records)
	if err != nil {
		return err
	}
	defer f.Close()

	e.logger.Info("writing Excel workbook", slog.Int("record_count", len(records)))
	return f.Write(w)
}

func writeRecordSheet(f *excelize.File, sheet string, records []domain.QualifyingRecord) error {
	headers, rows := BuildRows(records)

	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range rows {
		values := make([]interface{}, len(row))
		for j, cell := range row {
			values[j] = cell
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	return nil
}

func writeLeagueSummarySheet(f *excelize.File, records []domain.QualifyingRecord) error {
	const sheet = "League Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	header := []interface{}{"League", "Players", "Avg PrgDist", "Max PrgDist", "Avg Age"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, summary := range dataprocessing.LeagueStats(records) {
		row := []interface{}{
			summary.League,
			summary.Players,
			fmt.Sprintf("%.1f", summary.AvgPrgDist),
			fmt.Sprintf("%.1f", summary.MaxPrgDist),
			fmt.Sprintf("%.1f", summary.AvgAge),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
