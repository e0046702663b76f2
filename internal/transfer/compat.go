package transfer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/prbot/prbot/internal/model"
	"github.com/prbot/prbot/pkg/errors"
)

// Compatibility dumps reference repositories by integer id and store
// repository rules under a `pull_request_rules` key. Branches are plain
// strings with `*` as the wildcard.

type compatData struct {
	Repositories          []compatRepository      `json:"repositories"`
	PullRequests          []compatPullRequest     `json:"pull_requests"`
	PullRequestRules      []compatRule            `json:"pull_request_rules"`
	MergeRules            []compatMergeRule       `json:"merge_rules"`
	ExternalAccounts      []ExternalAccountRecord `json:"external_accounts"`
	ExternalAccountRights []compatAccountRight    `json:"external_account_rights"`
}

type compatRepository struct {
	ID                     int                 `json:"id"`
	Owner                  string              `json:"owner"`
	Name                   string              `json:"name"`
	ManualInteraction      bool                `json:"manual_interaction"`
	PRTitleValidationRegex string              `json:"pr_title_validation_regex"`
	DefaultStrategy        model.MergeStrategy `json:"default_strategy"`
	DefaultAutomerge       bool                `json:"default_automerge"`
	DefaultEnableQa        bool                `json:"default_enable_qa"`
	DefaultEnableChecks    bool                `json:"default_enable_checks"`
}

type compatPullRequest struct {
	RepositoryID int            `json:"repository_id"`
	Number       int            `json:"number"`
	QaStatus     model.QaStatus `json:"qa_status"`
	// Some historical dumps hold comment ids beyond the signed 64-bit
	// range; those are reset to zero on import
	StatusCommentID  json.Number          `json:"status_comment_id"`
	ChecksEnabled    bool                 `json:"checks_enabled"`
	Automerge        bool                 `json:"automerge"`
	Locked           bool                 `json:"locked"`
	StrategyOverride *model.MergeStrategy `json:"strategy_override"`
}

type compatRule struct {
	RepositoryID int                     `json:"repository_id"`
	Name         string                  `json:"name"`
	Conditions   model.RuleConditionList `json:"conditions"`
	Actions      model.RuleActionList    `json:"actions"`
}

type compatMergeRule struct {
	RepositoryID int                 `json:"repository_id"`
	BaseBranch   string              `json:"base_branch"`
	HeadBranch   string              `json:"head_branch"`
	Strategy     model.MergeStrategy `json:"strategy"`
}

type compatAccountRight struct {
	RepositoryID int    `json:"repository_id"`
	Username     string `json:"username"`
}

// ImportCompatibility reads a legacy dump and upserts its records
func (p *Processor) ImportCompatibility(r io.Reader) error {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var compat compatData
	if err := decoder.Decode(&compat); err != nil {
		return errors.Wrap(errors.ErrCodeValidation, "invalid compatibility import data", err)
	}

	data, err := convertCompat(&compat)
	if err != nil {
		return err
	}
	return p.apply(data)
}

func convertCompat(compat *compatData) (*Data, error) {
	data := &Data{}
	paths := map[int]string{}

	for _, repo := range compat.Repositories {
		paths[repo.ID] = repo.Owner + "/" + repo.Name
		data.Repositories = append(data.Repositories, RepositoryRecord{
			Owner:                  repo.Owner,
			Name:                   repo.Name,
			ManualInteraction:      repo.ManualInteraction,
			PRTitleValidationRegex: repo.PRTitleValidationRegex,
			DefaultStrategy:        repo.DefaultStrategy,
			DefaultAutomerge:       repo.DefaultAutomerge,
			DefaultEnableQa:        repo.DefaultEnableQa,
			DefaultEnableChecks:    repo.DefaultEnableChecks,
		})
	}

	resolvePath := func(id int) (string, error) {
		path, ok := paths[id]
		if !ok {
			return "", errors.New(errors.ErrCodeValidation,
				fmt.Sprintf("unknown repository id %d in compatibility import data", id))
		}
		return path, nil
	}

	for _, pr := range compat.PullRequests {
		path, err := resolvePath(pr.RepositoryID)
		if err != nil {
			return nil, err
		}

		// Overflowing comment ids parse with an error and reset to zero
		statusCommentID, err := pr.StatusCommentID.Int64()
		if err != nil {
			statusCommentID = 0
		}

		data.PullRequests = append(data.PullRequests, PullRequestRecord{
			RepositoryPath:   path,
			Number:           pr.Number,
			QaStatus:         pr.QaStatus,
			StatusCommentID:  statusCommentID,
			ChecksEnabled:    pr.ChecksEnabled,
			Automerge:        pr.Automerge,
			Locked:           pr.Locked,
			StrategyOverride: pr.StrategyOverride,
		})
	}

	for _, rule := range compat.PullRequestRules {
		path, err := resolvePath(rule.RepositoryID)
		if err != nil {
			return nil, err
		}
		data.RepositoryRules = append(data.RepositoryRules, RepositoryRuleRecord{
			RepositoryPath: path,
			Name:           rule.Name,
			Conditions:     rule.Conditions,
			Actions:        rule.Actions,
		})
	}

	for _, rule := range compat.MergeRules {
		path, err := resolvePath(rule.RepositoryID)
		if err != nil {
			return nil, err
		}
		data.MergeRules = append(data.MergeRules, MergeRuleRecord{
			RepositoryPath: path,
			BaseBranch:     model.RuleBranchFromString(rule.BaseBranch),
			HeadBranch:     model.RuleBranchFromString(rule.HeadBranch),
			Strategy:       rule.Strategy,
		})
	}

	data.ExternalAccounts = append(data.ExternalAccounts, compat.ExternalAccounts...)

	for _, right := range compat.ExternalAccountRights {
		path, err := resolvePath(right.RepositoryID)
		if err != nil {
			return nil, err
		}
		data.ExternalAccountRights = append(data.ExternalAccountRights, ExternalAccountRightRecord{
			RepositoryPath: path,
			Username:       right.Username,
		})
	}

	return data, nil
}
