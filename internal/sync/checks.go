package sync

import (
	"sort"

	"github.com/prbot/prbot/internal/github"
	"github.com/prbot/prbot/internal/model"
)

// AggregateChecks reduces a list of check runs to a single status. Only the
// latest run per name counts. A single failure fails the aggregate; success
// only holds while nothing is pending. Conclusions like neutral or skipped
// neither pass nor fail, they just don't advance the aggregate.
func AggregateChecks(runs []github.CheckRun) model.CheckStatus {
	latest := latestRunsPerName(runs)

	var current *model.CheckStatus
	for _, run := range latest {
		switch {
		case run.Conclusion == nil:
			status := model.CheckStatusWaiting
			current = &status
		case *run.Conclusion == github.ConclusionFailure:
			return model.CheckStatusFail
		case *run.Conclusion == github.ConclusionSuccess:
			if current == nil || *current == model.CheckStatusPass {
				status := model.CheckStatusPass
				current = &status
			}
		}
	}

	if current == nil {
		// No runs, or only runs with non-advancing conclusions
		return model.CheckStatusWaiting
	}
	return *current
}

// latestRunsPerName keeps the run with the newest started_at for each name,
// sorted by name for determinism.
func latestRunsPerName(runs []github.CheckRun) []github.CheckRun {
	byName := map[string]github.CheckRun{}
	for _, run := range runs {
		existing, ok := byName[run.Name]
		if !ok || existing.StartedAt.Before(run.StartedAt) {
			byName[run.Name] = run
		}
	}

	kept := make([]github.CheckRun, 0, len(byName))
	for _, run := range byName {
		kept = append(kept, run)
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Name < kept[j].Name })
	return kept
}
