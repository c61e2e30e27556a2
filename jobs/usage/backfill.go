// Package usage rebuilds the daily usage ledger from the assignment log,
// for deployments that enable the ledger after cycles have already run.
package usage

import (
	"context"

	"github.com/careops/bookd/core/assign/logging"
	coreusage "github.com/careops/bookd/core/usage"
)

// Backfill replays the cycle records matched by q into the usage store and
// returns the number of records processed. Failed cycles are skipped. Cycle
// counts derive from logged placements, so providers idle for a whole day
// stay absent from the ledger.
func Backfill(ctx context.Context, logs logging.LogStore, store coreusage.Store, q logging.LogQuery) (int, error) {
	recs, err := logs.Query(ctx, q)
	if err != nil {
		return 0, err
	}
	processed := 0
	for _, rec := range recs {
		if rec.Error != "" {
			continue
		}
		sinkName := ""
		unassigned := make(map[string]struct{}, len(rec.Unassigned))
		for _, id := range rec.Unassigned {
			unassigned[id] = struct{}{}
			sinkName = rec.Assignments[id]
		}
		perProvider := make(map[string]int)
		for _, prov := range rec.Assignments {
			perProvider[prov]++
		}
		for prov, n := range perProvider {
			r := coreusage.Record{
				Provider: prov,
				Date:     coreusage.Day(rec.Timestamp),
				Placed:   n,
			}
			if prov != sinkName {
				r.Cycles = 1
			}
			if err := store.Add(r); err != nil {
				return processed, err
			}
		}
		processed++
	}
	return processed, nil
}
