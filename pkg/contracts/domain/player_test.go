package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimaryPos(t *testing.T) {
	tests := []struct {
		pos  string
		want string
	}{
		{pos: "MF", want: "MF"},
		{pos: "MF,DF", want: "MF"},
		{pos: "DF,MF", want: "DF"},
		{pos: "MF,FW,DF", want: "MF"},
		{pos: "", want: ""},
		{pos: ",MF", want: ""},
	}

	for _, tt := range tests {
		record := PlayerRecord{Pos: tt.pos}
		assert.Equal(t, tt.want, record.PrimaryPos(), "pos %q", tt.pos)
	}
}

func TestPlayerRecordJSONNullables(t *testing.T) {
	record := PlayerRecord{Player: "A.Test", Pos: "MF", League: "Premier League"}

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	// Missing numerics serialize as null, not zero.
	assert.Contains(t, decoded, "age")
	assert.Nil(t, decoded["age"])
	assert.Nil(t, decoded["prg_dist"])
	// PrgP is omitted entirely when absent.
	assert.NotContains(t, decoded, "prg_p")
}

func TestQualifyingRecordJSONOmitsZeroOverallRank(t *testing.T) {
	record := QualifyingRecord{
		PlayerRecord: PlayerRecord{Player: "A.Test", PrgDist: Float(450)},
		Rank:         1,
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(1), decoded["rank"])
	assert.NotContains(t, decoded, "overall_rank")
}
