package dataprocessing

import (
	"sort"

	"prgcli/pkg/contracts/domain"
)

// DefaultLeaderboardWindow is the fixed slice of the combined ranking used
// for league-representation counts.
const DefaultLeaderboardWindow = 50

// LeagueSummary aggregates qualifying records for one league.
type LeagueSummary struct {
	League     string  `json:"league"`
	Players    int     `json:"players"`
	AvgPrgDist float64 `json:"avg_prg_dist"`
	MaxPrgDist float64 `json:"max_prg_dist"`
	AvgAge     float64 `json:"avg_age"`
}

// SquadSummary aggregates qualifying records for one squad within a league.
type SquadSummary struct {
	League     string  `json:"league"`
	Squad      string  `json:"squad"`
	Players    int     `json:"players"`
	AvgPrgDist float64 `json:"avg_prg_dist"`
}

// LeagueCount is one entry of a leaderboard-representation breakdown.
type LeagueCount struct {
	League  string `json:"league"`
	Players int    `json:"players"`
}

// OverallSummary carries the headline numbers for a combined result.
type OverallSummary struct {
	Players    int     `json:"players"`
	AvgPrgDist float64 `json:"avg_prg_dist"`
	MaxPrgDist float64 `json:"max_prg_dist"`
	Leagues    int     `json:"leagues"`
}

// Combine concatenates per-source ranked sets in insertion order, re-sorts
// by progressive distance descending and assigns OverallRank 1..N. Source
// records keep their per-source Rank; nothing is mutated in place.
func Combine(sources ...[]domain.QualifyingRecord) []domain.QualifyingRecord {
	total := 0
	for _, source := range sources {
		total += len(source)
	}

	combined := make([]domain.QualifyingRecord, 0, total)
	for _, source := range sources {
		combined = append(combined, source...)
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return *combined[i].PrgDist > *combined[j].PrgDist
	})
	for i := range combined {
		combined[i].OverallRank = i + 1
	}

	return combined
}

// TopN returns the first n records of an already-ranked sequence.
func TopN(records []domain.QualifyingRecord, n int) []domain.QualifyingRecord {
	if n > len(records) {
		n = len(records)
	}
	if n < 0 {
		n = 0
	}
	return records[:n]
}

// LeagueStats groups a combined ranking by league, sorted by mean
// progressive distance descending.
func LeagueStats(records []domain.QualifyingRecord) []LeagueSummary {
	type acc struct {
		count   int
		sumDist float64
		maxDist float64
		sumAge  float64
		ages    int
	}

	groups := make(map[string]*acc)
	var order []string
	for _, record := range records {
		group, ok := groups[record.League]
		if !ok {
			group = &acc{}
			groups[record.League] = group
			order = append(order, record.League)
		}
		group.count++
		group.sumDist += *record.PrgDist
		if *record.PrgDist > group.maxDist {
			group.maxDist = *record.PrgDist
		}
		if record.Age != nil {
			group.sumAge += *record.Age
			group.ages++
		}
	}

	summaries := make([]LeagueSummary, 0, len(groups))
	for _, name := range order {
		group := groups[name]
		summary := LeagueSummary{
			League:     name,
			Players:    group.count,
			AvgPrgDist: group.sumDist / float64(group.count),
			MaxPrgDist: group.maxDist,
		}
		if group.ages > 0 {
			summary.AvgAge = group.sumAge / float64(group.ages)
		}
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].AvgPrgDist > summaries[j].AvgPrgDist
	})
	return summaries
}

// SquadStats groups a combined ranking by (league, squad) and surfaces only
// squads with more than one qualifying player, sorted by mean progressive
// distance descending.
func SquadStats(records []domain.QualifyingRecord) []SquadSummary {
	type key struct{ league, squad string }
	type acc struct {
		count   int
		sumDist float64
	}

	groups := make(map[key]*acc)
	var order []key
	for _, record := range records {
		k := key{record.League, record.Squad}
		group, ok := groups[k]
		if !ok {
			group = &acc{}
			groups[k] = group
			order = append(order, k)
		}
		group.count++
		group.sumDist += *record.PrgDist
	}

	summaries := make([]SquadSummary, 0, len(groups))
	for _, k := range order {
		group := groups[k]
		if group.count <= 1 {
			continue
		}
		summaries = append(summaries, SquadSummary{
			League:     k.league,
			Squad:      k.squad,
			Players:    group.count,
			AvgPrgDist: group.sumDist / float64(group.count),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].AvgPrgDist > summaries[j].AvgPrgDist
	})
	return summaries
}

// Representation counts leagues over a fixed leaderboard window of the
// combined ranking, most represented first. Counts tie-break by first
// appearance in the window.
func Representation(records []domain.QualifyingRecord, window int) []LeagueCount {
	if window <= 0 {
		window = DefaultLeaderboardWindow
	}
	slice := TopN(records, window)

	counts := make(map[string]int)
	var order []string
	for _, record := range slice {
		if _, ok := counts[record.League]; !ok {
			order = append(order, record.League)
		}
		counts[record.League]++
	}

	breakdown := make([]LeagueCount, 0, len(order))
	for _, name := range order {
		breakdown = append(breakdown, LeagueCount{League: name, Players: counts[name]})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Players > breakdown[j].Players
	})
	return breakdown
}

// Summarize computes the headline numbers for a combined ranking.
func Summarize(records []domain.QualifyingRecord) OverallSummary {
	summary := OverallSummary{Players: len(records)}
	if len(records) == 0 {
		return summary
	}

	leagues := make(map[string]struct{})
	sum := 0.0
	for _, record := range records {
		sum += *record.PrgDist
		if *record.PrgDist > summary.MaxPrgDist {
			summary.MaxPrgDist = *record.PrgDist
		}
		leagues[record.League] = struct{}{}
	}
	summary.AvgPrgDist = sum / float64(len(records))
	summary.Leagues = len(leagues)
	return summary
}
