package sync

import (
	"github.com/prbot/prbot/internal/model"
	"github.com/prbot/prbot/internal/store"
	"github.com/prbot/prbot/pkg/errors"
)

// ResolveStrategy picks the merge strategy for a pull request: the PR-level
// override wins, then merge rules from most to least specific, then the
// repository default, then plain merge.
func ResolveStrategy(st store.Store, repo *model.Repository, pr *model.PullRequest, base, head model.RuleBranch) (model.MergeStrategy, error) {
	if pr.StrategyOverride != nil {
		return *pr.StrategyOverride, nil
	}

	lookups := [][2]model.RuleBranch{
		{base, head},
		{base, model.WildcardBranch()},
		{model.WildcardBranch(), head},
		{model.WildcardBranch(), model.WildcardBranch()},
	}
	for _, pair := range lookups {
		rule, err := st.MergeRule().GetByBranches(repo, pair[0], pair[1])
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return "", err
		}
		return rule.Strategy, nil
	}

	if repo.DefaultStrategy != "" {
		return repo.DefaultStrategy, nil
	}
	return model.MergeStrategyMerge, nil
}
