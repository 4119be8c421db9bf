package dataprocessing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "prgcli/internal/errors"
)

const simpleCSV = "Rk,Player,Age,Pos,Squad,90s,PrgDist\n" +
	"1,A.Test,22,MF,Arsenal,15,450\n" +
	"2,B.Old,30,MF,Chelsea,20,500\n"

func TestParseTable(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantRows int
		wantCols []string
		wantErr  apperrors.ErrorType
	}{
		{
			name:     "header on first line",
			raw:      simpleCSV,
			wantRows: 2,
			wantCols: []string{"Rk", "Player", "Age", "Pos", "Squad", "90s", "PrgDist"},
		},
		{
			name: "header after metadata preamble",
			raw: "FBRef export 2024\nGenerated by some tool\nBig 5 European Leagues\n" +
				simpleCSV,
			wantRows: 2,
			wantCols: []string{"Rk", "Player", "Age", "Pos", "Squad", "90s", "PrgDist"},
		},
		{
			name:     "blank lines between records are skipped",
			raw:      "Rk,Player,Age,Pos,Squad,90s,PrgDist\n1,A.Test,22,MF,Arsenal,15,450\n\n\n2,B.Old,30,MF,Chelsea,20,500\n",
			wantRows: 2,
		},
		{
			name:     "quoted fields with commas",
			raw:      "Rk,Player,Age,Pos,Squad,90s,PrgDist\n1,\"Doe, John\",22,\"MF,DF\",Arsenal,15,450\n",
			wantRows: 1,
		},
		{
			name:    "no header anywhere",
			raw:     "just,some,cells\nwith,no,meaning\n",
			wantErr: apperrors.ErrTypeHeaderNotFound,
		},
		{
			name:    "empty input",
			raw:     "",
			wantErr: apperrors.ErrTypeHeaderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ParseTable(tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, apperrors.TypeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Len(t, table.Rows, tt.wantRows)
			if tt.wantCols != nil {
				assert.Equal(t, tt.wantCols, table.Columns)
			}
		})
	}
}

func TestParseTablePromotesHeaderRow(t *testing.T) {
	// No line carries the full token set ("Pos" never appears), so the
	// line scan fails. The fallback finds the row whose cells equal
	// "Player" and "Age", promotes it to header and discards everything
	// above it.
	raw := "a,b,c,d,e,f,g\n" +
		"Rk,Player,Age,Role,Squad,90s,PrgDist\n" +
		"1,A.Test,22,MF,Arsenal,15,450\n"

	table, err := ParseTable(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rk", "Player", "Age", "Role", "Squad", "90s", "PrgDist"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "A.Test", table.Cell(table.Rows[0], "Player"))
}

func TestParseTableFallbackScansOnlyFirstTenRows(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 12; i++ {
		sb.WriteString("x,y,z,w,v,u,t\n")
	}
	sb.WriteString("Rk,Player,Age,Role,Squad,90s,PrgDist\n")
	sb.WriteString("1,A.Test,22,MF,Arsenal,15,450\n")

	_, err := ParseTable(sb.String())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeHeaderNotFound, apperrors.TypeOf(err))
}

func TestParseUploadTable(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr apperrors.ErrorType
	}{
		{
			name: "strict header accepted",
			raw:  simpleCSV,
		},
		{
			name:    "missing 90s column rejected",
			raw:     "Rk,Player,Age,Pos,Squad,PrgDist\n1,A.Test,22,MF,Arsenal,450\n",
			wantErr: apperrors.ErrTypeHeaderNotFound,
		},
		{
			name:    "missing progressive column rejected",
			raw:     "Rk,Player,Age,Pos,Squad,90s\n1,A.Test,22,MF,Arsenal,15\n",
			wantErr: apperrors.ErrTypeHeaderNotFound,
		},
		{
			name: "lowercase prog column accepted",
			raw:  "Rk,Player,Age,Pos,Squad,90s,progressive_distance\n1,A.Test,22,MF,Arsenal,15,450\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ParseUploadTable(tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, apperrors.TypeOf(err))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, table.Rows)
		})
	}
}

func TestParseTableRowCountMatchesDataLines(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("preamble line without the key tokens\n")
	sb.WriteString("Rk,Player,Age,Pos,Squad,90s,PrgDist\n")
	for i := 0; i < 57; i++ {
		sb.WriteString("1,Somebody,21,MF,Arsenal,14,300\n")
	}
	sb.WriteString("\n") // trailing blank line must not count

	table, err := ParseTable(sb.String())
	require.NoError(t, err)
	assert.Len(t, table.Rows, 57)
}

func TestTableFindColumn(t *testing.T) {
	table := NewTable([]string{"Rk", "Player", "PrgDist", "PrgP"}, nil)

	col, ok := table.FindColumn("prg", "prog")
	require.True(t, ok)
	// First match wins when several columns qualify.
	assert.Equal(t, "PrgDist", col)

	_, ok = table.FindColumn("xg")
	assert.False(t, ok)
}

func TestTableCell(t *testing.T) {
	table := NewTable([]string{"Player", "Age"}, [][]string{{"A.Test"}})

	assert.Equal(t, "A.Test", table.Cell(table.Rows[0], "Player"))
	// Short row: the Age cell is simply absent.
	assert.Equal(t, "", table.Cell(table.Rows[0], "Age"))
	assert.Equal(t, "", table.Cell(table.Rows[0], "Missing"))
}
