// Package domain contains the shared data contracts for player analysis.
package domain

// PlayerRecord is a single player's row after normalization. Numeric fields
// are pointers: nil means the source value was missing or failed coercion,
// never a parse-failure placeholder.
type PlayerRecord struct {
	Player   string   `json:"player"`
	Age      *float64 `json:"age"`
	Pos      string   `json:"pos"`
	Squad    string   `json:"squad,omitempty"`
	League   string   `json:"league"`
	Nineties *float64 `json:"nineties"`
	PrgDist  *float64 `json:"prg_dist"`
	PrgP     *float64 `json:"prg_p,omitempty"`
}

// PrimaryPos returns the first role code of a possibly-compound position
// string, e.g. "MF" for "MF,DF".
func (p PlayerRecord) PrimaryPos() string {
	for i := 0; i < len(p.Pos); i++ {
		if p.Pos[i] == ',' {
			return p.Pos[:i]
		}
	}
	return p.Pos
}

// QualifyingRecord is a PlayerRecord that passed the cohort filter.
// Rank is the 1-based position within its own source; OverallRank is
// assigned after combining sources and is zero until then.
type QualifyingRecord struct {
	PlayerRecord
	Rank        int `json:"rank"`
	OverallRank int `json:"overall_rank,omitempty"`
}

// Float returns a pointer to v. Convenience for building records in tests
// and fixtures.
func Float(v float64) *float64 {
	return &v
}
