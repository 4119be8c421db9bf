package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "prgcli/internal/errors"
	"prgcli/internal/league"
)

func TestNormalizeDropsNonDataRows(t *testing.T) {
	table := NewTable(
		[]string{"Player", "Age", "Pos", "Squad", "90s", "PrgDist"},
		[][]string{
			{"A.Test", "22", "MF", "Arsenal", "15", "450"},
			{"", "22", "MF", "Arsenal", "15", "450"},
			{"   ", "22", "MF", "Arsenal", "15", "450"},
			{"Player", "Age", "Pos", "Squad", "90s", "PrgDist"},
			{"Matches", "", "", "", "", ""},
			{"B.Old", "30", "MF", "Chelsea", "20", "500"},
		},
	)

	set, err := Normalize(table)
	require.NoError(t, err)
	require.Len(t, set.Records, 2)
	assert.Equal(t, "A.Test", set.Records[0].Player)
	assert.Equal(t, "B.Old", set.Records[1].Player)
}

func TestNormalizeNumericCoercion(t *testing.T) {
	table := NewTable(
		[]string{"Player", "Age", "Pos", "Squad", "90s", "PrgDist"},
		[][]string{
			{"A.Test", "22", "MF", "Arsenal", "15.3", "450.5"},
			{"B.Blank", "", "MF", "Arsenal", "n/a", "NaN"},
			{"C.Inf", "22", "MF", "Arsenal", "+Inf", "-Inf"},
		},
	)

	set, err := Normalize(table)
	require.NoError(t, err)
	require.Len(t, set.Records, 3)

	first := set.Records[0]
	require.NotNil(t, first.Age)
	assert.Equal(t, 22.0, *first.Age)
	require.NotNil(t, first.Nineties)
	assert.Equal(t, 15.3, *first.Nineties)
	require.NotNil(t, first.PrgDist)
	assert.Equal(t, 450.5, *first.PrgDist)

	// Unparseable or non-finite cells become nil, never a placeholder.
	second := set.Records[1]
	assert.Nil(t, second.Age)
	assert.Nil(t, second.Nineties)
	assert.Nil(t, second.PrgDist)

	third := set.Records[2]
	assert.Nil(t, third.Nineties)
	assert.Nil(t, third.PrgDist)
}

func TestNormalizeProgressiveColumnResolution(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		wantCol string
		wantErr bool
	}{
		{
			name:    "exact PrgDist",
			columns: []string{"Player", "PrgDist"},
			wantCol: "PrgDist",
		},
		{
			name:    "lowercase prog variant",
			columns: []string{"Player", "progressive_distance"},
			wantCol: "progressive_distance",
		},
		{
			name:    "first matching column wins",
			columns: []string{"Player", "PrgDist", "PrgR"},
			wantCol: "PrgDist",
		},
		{
			name:    "no matching column",
			columns: []string{"Player", "Age", "Pos"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := make([]string, len(tt.columns))
			for i := range row {
				row[i] = "1"
			}
			row[0] = "A.Test"
			table := NewTable(tt.columns, [][]string{row})

			set, err := Normalize(table)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.ErrTypeMissingColumn, apperrors.TypeOf(err))
				return
			}
			require.NoError(t, err)
			require.Len(t, set.Records, 1)
			require.NotNil(t, set.Records[0].PrgDist)
			assert.Equal(t, 1.0, *set.Records[0].PrgDist)
		})
	}
}

func TestNormalizeStructuralFlags(t *testing.T) {
	table := NewTable(
		[]string{"Player", "Squad", "PrgDist"},
		[][]string{{"A.Test", "Arsenal", "450"}},
	)

	set, err := Normalize(table)
	require.NoError(t, err)
	assert.False(t, set.HasAge)
	assert.False(t, set.HasPos)
	assert.False(t, set.HasNineties)
	assert.True(t, set.HasPrgDist)
	assert.False(t, set.HasPrgP)
}

func TestNormalizeLeagueDerivation(t *testing.T) {
	t.Run("explicit Comp column wins", func(t *testing.T) {
		table := NewTable(
			[]string{"Player", "Comp", "Squad", "PrgDist"},
			[][]string{{"A.Test", "eng Premier League", "Celtic", "450"}},
		)
		set, err := Normalize(table)
		require.NoError(t, err)
		assert.Equal(t, "eng Premier League", set.Records[0].League)
	})

	t.Run("squad lookup without Comp", func(t *testing.T) {
		table := NewTable(
			[]string{"Player", "Squad", "PrgDist"},
			[][]string{
				{"A.Test", "Arsenal", "450"},
				{"B.Scot", "Celtic", "400"},
			},
		)
		set, err := Normalize(table)
		require.NoError(t, err)
		assert.Equal(t, league.PremierLeague, set.Records[0].League)
		assert.Equal(t, league.Unknown, set.Records[1].League)
	})

	t.Run("neither Comp nor Squad", func(t *testing.T) {
		table := NewTable(
			[]string{"Player", "PrgDist"},
			[][]string{{"A.Test", "450"}},
		)
		set, err := Normalize(table)
		require.NoError(t, err)
		assert.Equal(t, league.Unknown, set.Records[0].League)
	})
}

func TestNormalizePrgPOnlyWhenPresent(t *testing.T) {
	table := NewTable(
		[]string{"Player", "PrgDist", "PrgP"},
		[][]string{{"A.Test", "450", "38"}},
	)

	set, err := Normalize(table)
	require.NoError(t, err)
	assert.True(t, set.HasPrgP)
	require.NotNil(t, set.Records[0].PrgP)
	assert.Equal(t, 38.0, *set.Records[0].PrgP)
	// PrgDist resolves to the first matching column, not PrgP.
	assert.Equal(t, 450.0, *set.Records[0].PrgDist)
}

func TestNormalizePreservesRowOrder(t *testing.T) {
	rows := [][]string{
		{"Z.Last", "450"},
		{"A.First", "100"},
		{"M.Middle", "900"},
	}
	table := NewTable([]string{"Player", "PrgDist"}, rows)

	set, err := Normalize(table)
	require.NoError(t, err)
	require.Len(t, set.Records, 3)
	assert.Equal(t, "Z.Last", set.Records[0].Player)
	assert.Equal(t, "A.First", set.Records[1].Player)
	assert.Equal(t, "M.Middle", set.Records[2].Player)
}
