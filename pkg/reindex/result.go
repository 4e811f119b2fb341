package reindex

import "fmt"

// Result contains statistics from a reindex run.
type Result struct {
	Total     int
	Reindexed int
	Skipped   int
	Failed    int
}

// Summary returns a human-readable summary of the reindex result.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"Reindex complete: %d reindexed, %d skipped (embedding up to date), %d failed\n"+
			"Scanned %d documents",
		r.Reindexed, r.Skipped, r.Failed,
		r.Total,
	)
}
