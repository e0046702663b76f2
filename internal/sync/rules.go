package sync

import (
	"github.com/prbot/prbot/internal/github"
	"github.com/prbot/prbot/internal/model"
	"github.com/prbot/prbot/internal/store"
)

// matchRules returns the repository rules whose conditions all hold for the
// upstream pull request. Rules without conditions or without actions are
// ignored. Each matching rule appears exactly once.
func matchRules(repo *model.Repository, upstream *github.PullRequest, st store.Store) ([]model.RepositoryRule, error) {
	rules, err := st.RepositoryRule().ListByRepositoryID(repo.ID)
	if err != nil {
		return nil, err
	}

	var matched []model.RepositoryRule
	for _, rule := range rules {
		if len(rule.Conditions) == 0 || len(rule.Actions) == 0 {
			continue
		}
		if ruleMatches(&rule, upstream) {
			matched = append(matched, rule)
		}
	}
	return matched, nil
}

func ruleMatches(rule *model.RepositoryRule, upstream *github.PullRequest) bool {
	for _, condition := range rule.Conditions {
		if !conditionMatches(condition, upstream) {
			return false
		}
	}
	return true
}

func conditionMatches(condition model.RuleCondition, upstream *github.PullRequest) bool {
	switch condition.Type {
	case model.RuleConditionAuthor:
		return condition.Author == upstream.AuthorLogin
	case model.RuleConditionBaseBranch:
		return condition.Branch.Matches(upstream.BaseBranch)
	case model.RuleConditionHeadBranch:
		return condition.Branch.Matches(upstream.HeadBranch)
	default:
		return false
	}
}

// applyRules applies each matched rule's actions to the local pull request.
// A field is written only when its value would change; if anything was
// written the pull request is re-read so the caller sees fresh state.
func applyRules(repo *model.Repository, pr *model.PullRequest, rules []model.RepositoryRule, st store.Store) (*model.PullRequest, error) {
	updated := false
	for _, rule := range rules {
		for _, action := range rule.Actions {
			changed, err := applyAction(pr, action, st)
			if err != nil {
				return nil, err
			}
			updated = updated || changed
		}
	}

	if !updated {
		return pr, nil
	}
	return st.PullRequest().GetByNumber(repo, pr.Number)
}

func applyAction(pr *model.PullRequest, action model.RuleAction, st store.Store) (bool, error) {
	switch action.Type {
	case model.RuleActionSetAutomerge:
		if pr.Automerge == action.BoolValue {
			return false, nil
		}
		return true, st.PullRequest().SetAutomerge(pr.ID, action.BoolValue)
	case model.RuleActionSetQaStatus:
		if pr.QaStatus == action.QaValue {
			return false, nil
		}
		return true, st.PullRequest().SetQaStatus(pr.ID, action.QaValue)
	case model.RuleActionSetChecksEnabled:
		if pr.ChecksEnabled == action.BoolValue {
			return false, nil
		}
		return true, st.PullRequest().SetChecksEnabled(pr.ID, action.BoolValue)
	default:
		return false, nil
	}
}
