// Package ranking filters and reorders catalog search candidates using the
// year and season extracted from a release name.
//
// Candidates whose catalog year is more than one year away from the query
// year are dropped; when either side has no year, the candidate is kept.
// When a season is known, candidates whose title carries the matching
// Chinese-numeral season marker move to the front. Both steps are stable:
// relative input order is preserved within each partition.
package ranking
