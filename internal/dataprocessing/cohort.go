package dataprocessing

import (
	"sort"

	"prgcli/internal/errors"
	"prgcli/pkg/contracts/domain"
)

// FilterAndRank applies the cohort predicates and ranks survivors by
// progressive distance.
//
// A record survives iff its age is known and at most maxAge, its nineties
// played are known and at least minNineties, its primary position code is
// "MF", and its progressive distance is known and positive. Survivors are
// sorted descending by progressive distance with ties keeping input order,
// then ranked densely from 1.
//
// A column absent from the dataset shape is a structural failure and
// returns a MISSING_REQUIRED_COLUMN error; an empty result from a
// well-shaped dataset is a valid outcome and returns no error.
func FilterAndRank(set *PlayerSet, maxAge, minNineties float64) ([]domain.QualifyingRecord, error) {
	if err := requireColumns(set); err != nil {
		return nil, err
	}

	qualified := make([]domain.QualifyingRecord, 0, len(set.Records))
	for _, record := range set.Records {
		if record.Age == nil || *record.Age > maxAge {
			continue
		}
		if record.Nineties == nil || *record.Nineties < minNineties {
			continue
		}
		if record.PrimaryPos() != "MF" {
			continue
		}
		if record.PrgDist == nil || *record.PrgDist <= 0 {
			continue
		}
		qualified = append(qualified, domain.QualifyingRecord{PlayerRecord: record})
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return *qualified[i].PrgDist > *qualified[j].PrgDist
	})
	for i := range qualified {
		qualified[i].Rank = i + 1
	}

	return qualified, nil
}

func requireColumns(set *PlayerSet) error {
	switch {
	case !set.HasAge:
		return errors.NewMissingRequiredColumnError(colAge)
	case !set.HasNineties:
		return errors.NewMissingRequiredColumnError(colNineties)
	case !set.HasPos:
		return errors.NewMissingRequiredColumnError(colPos)
	case !set.HasPrgDist:
		return errors.NewMissingRequiredColumnError("PrgDist")
	}
	return nil
}

// FilterLeague returns the subset of records belonging to the given league.
// The sentinel "All" returns the input unchanged.
func FilterLeague(set *PlayerSet, name string) *PlayerSet {
	if name == "" || name == "All" {
		return set
	}
	filtered := &PlayerSet{
		Records:     make([]domain.PlayerRecord, 0, len(set.Records)),
		HasAge:      set.HasAge,
		HasPos:      set.HasPos,
		HasNineties: set.HasNineties,
		HasPrgDist:  set.HasPrgDist,
		HasPrgP:     set.HasPrgP,
	}
	for _, record := range set.Records {
		if record.League == name {
			filtered.Records = append(filtered.Records, record)
		}
	}
	return filtered
}
