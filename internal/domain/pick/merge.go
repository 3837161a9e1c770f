package pick

import "fmt"

// MaxSeason returns the latest season in records.
func MaxSeason(records []Record) (int, bool) {
	if len(records) == 0 {
		return 0, false
	}
	maxSeason := records[0].Season
	for _, r := range records[1:] {
		if r.Season > maxSeason {
			maxSeason = r.Season
		}
	}
	return maxSeason, true
}

// MinSeason returns the earliest season in records.
func MinSeason(records []Record) (int, bool) {
	if len(records) == 0 {
		return 0, false
	}
	minSeason := records[0].Season
	for _, r := range records[1:] {
		if r.Season < minSeason {
			minSeason = r.Season
		}
	}
	return minSeason, true
}

// FilterFuture keeps only records for seasons after maxFetchedSeason.
func FilterFuture(future []Record, maxFetchedSeason int) []Record {
	out := make([]Record, 0, len(future))
	for _, r := range future {
		if r.Season > maxFetchedSeason {
			out = append(out, r)
		}
	}
	return out
}

// Merge combines fetched current-season records with locally held future records.
// The fetched set is authoritative for every season up to its latest one, so any
// future row at or before that season is discarded rather than reconciled.
func (n *Normalizer) Merge(current, future []Record) ([]Record, error) {
	kept := future
	if maxFetched, ok := MaxSeason(current); ok {
		kept = FilterFuture(future, maxFetched)
	}

	combined := make([]Record, 0, len(current)+len(kept))
	combined = append(combined, current...)
	combined = append(combined, kept...)

	merged, err := n.Canonicalize(combined)
	if err != nil {
		return nil, fmt.Errorf("merge pick sources: %w", err)
	}
	return merged, nil
}
