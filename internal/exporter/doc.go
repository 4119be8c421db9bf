// Package exporter renders ranked analysis results into downloadable
// artifacts: the "top N" and "all qualifying" CSV files and an Excel
// workbook with per-league sheets.
package exporter
