package dataprocessing

import (
	"math"
	"strconv"
	"strings"

	"prgcli/internal/errors"
	"prgcli/internal/league"
	"prgcli/pkg/contracts/domain"
)

// Column names as they appear in FBRef exports.
const (
	colPlayer   = "Player"
	colAge      = "Age"
	colPos      = "Pos"
	colSquad    = "Squad"
	colComp     = "Comp"
	colNineties = "90s"
	colPrgP     = "PrgP"

	// Known non-data separator row in some exports.
	matchesSeparator = "Matches"
)

// PlayerSet is the normalized form of a parsed table: typed records plus
// the structural shape of the source, i.e. which semantic columns existed
// at all. Per-record nils are a different thing entirely.
type PlayerSet struct {
	Records []domain.PlayerRecord

	HasAge      bool
	HasPos      bool
	HasNineties bool
	HasPrgDist  bool
	HasPrgP     bool
}

// Normalize coerces a parsed table into typed player records.
//
// Rows whose Player cell is empty, a repeated in-body header, or the
// "Matches" separator are dropped. Numeric cells that fail coercion become
// nil, never a placeholder. The progressive-distance column is resolved by
// case-insensitive substring match on "prg"/"prog" (first match wins); when
// no column matches, the whole table is rejected with a MISSING_COLUMN
// error. League derivation: explicit Comp column, else squad lookup, else
// Unknown. Row order is preserved apart from dropped rows.
func Normalize(t *Table) (*PlayerSet, error) {
	prgDistCol, ok := t.FindColumn("prg", "prog")
	if !ok {
		return nil, errors.NewMissingColumnError("progressive distance")
	}

	set := &PlayerSet{
		Records:     make([]domain.PlayerRecord, 0, len(t.Rows)),
		HasAge:      t.HasColumn(colAge),
		HasPos:      t.HasColumn(colPos),
		HasNineties: t.HasColumn(colNineties),
		HasPrgDist:  true,
		HasPrgP:     t.HasColumn(colPrgP),
	}
	hasComp := t.HasColumn(colComp)
	hasSquad := t.HasColumn(colSquad)

	for _, row := range t.Rows {
		player := strings.TrimSpace(t.Cell(row, colPlayer))
		if player == "" || player == colPlayer || player == matchesSeparator {
			continue
		}

		record := domain.PlayerRecord{
			Player:   player,
			Pos:      strings.TrimSpace(t.Cell(row, colPos)),
			Squad:    strings.TrimSpace(t.Cell(row, colSquad)),
			Age:      parseNumber(t.Cell(row, colAge)),
			Nineties: parseNumber(t.Cell(row, colNineties)),
			PrgDist:  parseNumber(t.Cell(row, prgDistCol)),
		}
		if set.HasPrgP {
			record.PrgP = parseNumber(t.Cell(row, colPrgP))
		}

		switch {
		case hasComp:
			record.League = strings.TrimSpace(t.Cell(row, colComp))
		case hasSquad:
			record.League = league.Classify(record.Squad)
		default:
			record.League = league.Unknown
		}

		set.Records = append(set.Records, record)
	}

	return set, nil
}

// parseNumber coerces a cell to a float. Unparseable or non-finite values
// come back nil.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
