package report

import (
	"sort"

	"github.com/hittracker/hittracker/pkg/parser"
	"github.com/jaeyo/go-drain3/pkg/drain3"
)

// driftTopClusters caps the number of failure patterns surfaced in a report.
const driftTopClusters = 10

// clusterFailures groups failed raw lines with the Drain algorithm so that a
// format change shows up as a handful of recurring shapes instead of a wall
// of individual lines. Input order is the walk order, so the clustering is
// deterministic for identical input.
func clusterFailures(failures []parser.Failure, top int) []DriftCluster {
	if len(failures) < 2 {
		return nil
	}

	d, err := drain3.NewDrain(
		drain3.WithDepth(4),
		drain3.WithSimTh(0.4),
	)
	if err != nil {
		return nil
	}

	for _, f := range failures {
		_, _, _ = d.AddLogMessage(f.Raw)
	}

	clusters := d.GetClusters()
	out := make([]DriftCluster, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, DriftCluster{
			Pattern: c.GetTemplate(),
			Count:   int(c.Size),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Pattern < out[j].Pattern
	})
	if len(out) > top {
		out = out[:top]
	}
	return out
}
