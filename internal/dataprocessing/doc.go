// Package dataprocessing implements the normalization pipeline for FBRef
// progressive passing exports.
//
// The pipeline runs strictly forward:
//
//	raw CSV text -> Table (ParseTable / ParseUploadTable)
//	Table        -> PlayerSet (Normalize)
//	PlayerSet    -> []QualifyingRecord (FilterAndRank)
//	ranked sets  -> combined/aggregated views (Combine, LeagueStats, ...)
//
// FBRef export tools frequently prepend title or metadata rows and repeat
// the header after pagination breaks, so the parser locates the real header
// by scanning for its required column tokens rather than assuming line 0.
// All dataset-shape failures are classified AppErrors; an empty filter
// result is a valid outcome, not an error.
package dataprocessing
