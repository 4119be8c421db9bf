package dataprocessing

import (
	"encoding/csv"
	"io"
	"log/slog"
	"strings"

	"prgcli/internal/errors"
)

// Table is an ordered sequence of named-column records. Column order and
// row order are preserved from the source.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewTable builds a table from a header and data rows.
func NewTable(columns []string, rows [][]string) *Table {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		name := strings.TrimSpace(col)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	return &Table{Columns: columns, Rows: rows, index: index}
}

// HasColumn reports whether the table carries a column with the exact name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the value of the named column in the given row, or "" when
// the column is absent or the row is short.
func (t *Table) Cell(row []string, name string) string {
	i, ok := t.index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// FindColumn returns the first column whose lowercased name contains any of
// the given lowercased substrings. First match wins; ties between multiple
// matching columns are not broken further.
func (t *Table) FindColumn(substrings ...string) (string, bool) {
	for _, col := range t.Columns {
		lower := strings.ToLower(col)
		for _, sub := range substrings {
			if strings.Contains(lower, sub) {
				return col, true
			}
		}
	}
	return "", false
}

// headerTokens are the column tokens every recognizable header line carries.
var headerTokens = []string{"Player", "Age", "Pos"}

// uploadHeaderTokens additionally gate the strict upload path.
var uploadHeaderTokens = []string{"Player", "Age", "Pos", "90s"}

// maxHeaderScanRows bounds the secondary headerless-parse recovery scan.
const maxHeaderScanRows = 10

// ParseTable locates the tabular header inside raw CSV text and parses
// everything from it onward. It never guesses: if neither the line scan nor
// the row-promotion fallback finds a header, a HEADER_NOT_FOUND error is
// returned.
func ParseTable(raw string) (*Table, error) {
	return parse(raw, headerTokens, false)
}

// ParseUploadTable is the strict variant for user-supplied uploads: the
// header line must additionally name "90s" and a progressive-distance
// column before it is accepted.
func ParseUploadTable(raw string) (*Table, error) {
	return parse(raw, uploadHeaderTokens, true)
}

func parse(raw string, tokens []string, requireProgressive bool) (*Table, error) {
	lines := strings.Split(raw, "\n")

	if idx, ok := findHeaderLine(lines, tokens, requireProgressive); ok {
		table, err := readCSV(strings.Join(lines[idx:], "\n"))
		if err != nil {
			return nil, err
		}
		slog.Debug("header line located",
			slog.Int("line", idx),
			slog.Int("rows", len(table.Rows)))
		return table, nil
	}

	// Secondary recovery: parse headerless and look for an in-body row that
	// is itself the header. The strict upload contract still applies to the
	// promoted header.
	if table, ok := promoteHeaderRow(raw); ok {
		if requireProgressive {
			_, hasProgressive := table.FindColumn("prg", "prog")
			if !table.HasColumn("90s") || !hasProgressive {
				return nil, errors.NewHeaderNotFoundError("csv")
			}
		}
		slog.Debug("header row promoted from body", slog.Int("rows", len(table.Rows)))
		return table, nil
	}

	return nil, errors.NewHeaderNotFoundError("csv")
}

// findHeaderLine scans from the top for the first line containing all
// required tokens.
func findHeaderLine(lines []string, tokens []string, requireProgressive bool) (int, bool) {
	for i, line := range lines {
		if !containsAll(line, tokens) {
			continue
		}
		if requireProgressive && !containsProgressive(line) {
			continue
		}
		return i, true
	}
	return 0, false
}

func containsAll(line string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(line, tok) {
			return false
		}
	}
	return true
}

func containsProgressive(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "prg") || strings.Contains(lower, "prog")
}

// promoteHeaderRow parses the input with no header at all and inspects up
// to the first 10 rows for one whose cells equal "Player" and "Age". That
// row becomes the header; everything up to and including it is discarded.
func promoteHeaderRow(raw string) (*Table, bool) {
	rows, err := readRows(raw)
	if err != nil || len(rows) == 0 {
		return nil, false
	}

	limit := len(rows)
	if limit > maxHeaderScanRows {
		limit = maxHeaderScanRows
	}

	for i := 0; i < limit; i++ {
		if !rowHasValues(rows[i], "Player", "Age") {
			continue
		}
		return NewTable(rows[i], rows[i+1:]), true
	}
	return nil, false
}

func rowHasValues(row []string, values ...string) bool {
	for _, want := range values {
		found := false
		for _, cell := range row {
			if strings.TrimSpace(cell) == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// readCSV parses delimited text whose first record is the header.
func readCSV(text string) (*Table, error) {
	rows, err := readRows(text)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.NewHeaderNotFoundError("csv")
	}
	return NewTable(rows[0], rows[1:]), nil
}

// readRows parses comma-separated records with standard quoting rules.
// Ragged rows are tolerated: FBRef exports routinely pad or truncate the
// trailing "Matches" column.
func readRows(text string) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError("failed to parse CSV records", err)
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
