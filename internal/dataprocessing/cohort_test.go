package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "prgcli/internal/errors"
	"prgcli/internal/league"
	"prgcli/pkg/contracts/domain"
)

func fullSet(records ...domain.PlayerRecord) *PlayerSet {
	return &PlayerSet{
		Records:     records,
		HasAge:      true,
		HasPos:      true,
		HasNineties: true,
		HasPrgDist:  true,
	}
}

func player(name string, age, nineties, prgDist float64, pos, squad string) domain.PlayerRecord {
	return domain.PlayerRecord{
		Player:   name,
		Age:      domain.Float(age),
		Nineties: domain.Float(nineties),
		PrgDist:  domain.Float(prgDist),
		Pos:      pos,
		Squad:    squad,
		League:   league.Classify(squad),
	}
}

func TestFilterAndRank(t *testing.T) {
	table, err := ParseTable(simpleCSV)
	require.NoError(t, err)
	set, err := Normalize(table)
	require.NoError(t, err)

	ranked, err := FilterAndRank(set, 25, 13)
	require.NoError(t, err)

	// B.Old is 30, above the age cutoff; only A.Test survives.
	require.Len(t, ranked, 1)
	assert.Equal(t, "A.Test", ranked[0].Player)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, league.PremierLeague, ranked[0].League)
}

func TestFilterAndRankPredicates(t *testing.T) {
	tests := []struct {
		name   string
		record domain.PlayerRecord
		want   bool
	}{
		{name: "qualifying midfielder", record: player("A", 22, 15, 450, "MF", "Arsenal"), want: true},
		{name: "age at the cutoff", record: player("B", 25, 15, 450, "MF", "Arsenal"), want: true},
		{name: "age above the cutoff", record: player("C", 26, 15, 450, "MF", "Arsenal"), want: false},
		{name: "nineties at the threshold", record: player("D", 22, 13, 450, "MF", "Arsenal"), want: true},
		{name: "nineties below the threshold", record: player("E", 22, 12.9, 450, "MF", "Arsenal"), want: false},
		{name: "hybrid with MF primary", record: player("F", 22, 15, 450, "MF,DF", "Arsenal"), want: true},
		{name: "hybrid with MF secondary", record: player("G", 22, 15, 450, "DF,MF", "Arsenal"), want: false},
		{name: "defender", record: player("H", 22, 15, 450, "DF", "Arsenal"), want: false},
		{name: "zero progressive distance", record: player("I", 22, 15, 0, "MF", "Arsenal"), want: false},
		{
			name: "unknown age",
			record: domain.PlayerRecord{
				Player: "J", Nineties: domain.Float(15), PrgDist: domain.Float(450), Pos: "MF",
			},
			want: false,
		},
		{
			name: "unknown nineties",
			record: domain.PlayerRecord{
				Player: "K", Age: domain.Float(22), PrgDist: domain.Float(450), Pos: "MF",
			},
			want: false,
		},
		{
			name: "unknown progressive distance",
			record: domain.PlayerRecord{
				Player: "L", Age: domain.Float(22), Nineties: domain.Float(15), Pos: "MF",
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked, err := FilterAndRank(fullSet(tt.record), 25, 13)
			require.NoError(t, err)
			if tt.want {
				require.Len(t, ranked, 1)
			} else {
				assert.Empty(t, ranked)
			}
		})
	}
}

func TestFilterAndRankOrdering(t *testing.T) {
	set := fullSet(
		player("Low", 22, 15, 100, "MF", "Arsenal"),
		player("High", 22, 15, 900, "MF", "Chelsea"),
		player("TieFirst", 22, 15, 500, "MF", "Napoli"),
		player("TieSecond", 22, 15, 500, "MF", "Roma"),
	)

	ranked, err := FilterAndRank(set, 25, 13)
	require.NoError(t, err)
	require.Len(t, ranked, 4)

	assert.Equal(t, "High", ranked[0].Player)
	// Stable sort keeps tied records in input order.
	assert.Equal(t, "TieFirst", ranked[1].Player)
	assert.Equal(t, "TieSecond", ranked[2].Player)
	assert.Equal(t, "Low", ranked[3].Player)

	for i, record := range ranked {
		assert.Equal(t, i+1, record.Rank)
	}
}

func TestFilterAndRankTighterThresholdsShrinkResult(t *testing.T) {
	set := fullSet(
		player("A", 20, 30, 900, "MF", "Arsenal"),
		player("B", 23, 20, 700, "MF", "Chelsea"),
		player("C", 25, 14, 500, "MF", "Napoli"),
	)

	loose, err := FilterAndRank(set, 25, 13)
	require.NoError(t, err)
	tight, err := FilterAndRank(set, 23, 18)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(loose), len(tight))
	// Every tight survivor also survives the loose thresholds.
	seen := make(map[string]bool)
	for _, record := range loose {
		seen[record.Player] = true
	}
	for _, record := range tight {
		assert.True(t, seen[record.Player])
	}
}

func TestFilterAndRankMissingColumns(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PlayerSet)
		column string
	}{
		{name: "missing age", mutate: func(s *PlayerSet) { s.HasAge = false }, column: "Age"},
		{name: "missing nineties", mutate: func(s *PlayerSet) { s.HasNineties = false }, column: "90s"},
		{name: "missing position", mutate: func(s *PlayerSet) { s.HasPos = false }, column: "Pos"},
		{name: "missing progressive distance", mutate: func(s *PlayerSet) { s.HasPrgDist = false }, column: "PrgDist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := fullSet(player("A", 22, 15, 450, "MF", "Arsenal"))
			tt.mutate(set)

			_, err := FilterAndRank(set, 25, 13)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrTypeMissingRequiredColumn, apperrors.TypeOf(err))

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.column, appErr.Context["column"])
		})
	}
}

func TestFilterAndRankEmptyResultIsNotAnError(t *testing.T) {
	set := fullSet(player("Old", 34, 30, 900, "MF", "Arsenal"))

	ranked, err := FilterAndRank(set, 25, 13)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestFilterLeague(t *testing.T) {
	set := fullSet(
		player("A", 22, 15, 450, "MF", "Arsenal"),
		player("B", 22, 15, 400, "MF", "Real Madrid"),
		player("C", 22, 15, 350, "MF", "Chelsea"),
	)

	t.Run("single league", func(t *testing.T) {
		filtered := FilterLeague(set, league.PremierLeague)
		require.Len(t, filtered.Records, 2)
		assert.Equal(t, "A", filtered.Records[0].Player)
		assert.Equal(t, "C", filtered.Records[1].Player)
		// Structural shape carries over so ranking still works.
		assert.True(t, filtered.HasPrgDist)
		assert.True(t, filtered.HasAge)
	})

	t.Run("All passes through", func(t *testing.T) {
		assert.Same(t, set, FilterLeague(set, league.All))
	})

	t.Run("empty name passes through", func(t *testing.T) {
		assert.Same(t, set, FilterLeague(set, ""))
	})

	t.Run("unknown league filters everything", func(t *testing.T) {
		assert.Empty(t, FilterLeague(set, "Eredivisie").Records)
	})
}
