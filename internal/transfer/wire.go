// Package transfer implements database export and import as a JSON document,
// including a compatibility importer for dumps keyed by integer identifiers.
package transfer

import (
	"fmt"

	"github.com/prbot/prbot/internal/model"
)

// Records references repositories by path instead of database identifiers so
// dumps survive re-imports into fresh databases.

// Data is the exchanged document
type Data struct {
	Repositories          []RepositoryRecord           `json:"repositories"`
	PullRequests          []PullRequestRecord          `json:"pull_requests"`
	RepositoryRules       []RepositoryRuleRecord       `json:"repository_rules"`
	MergeRules            []MergeRuleRecord            `json:"merge_rules"`
	ExternalAccounts      []ExternalAccountRecord      `json:"external_accounts"`
	ExternalAccountRights []ExternalAccountRightRecord `json:"external_account_rights"`
}

// RepositoryRecord is the wire form of a repository
type RepositoryRecord struct {
	Owner                  string              `json:"owner"`
	Name                   string              `json:"name"`
	ManualInteraction      bool                `json:"manual_interaction"`
	PRTitleValidationRegex string              `json:"pr_title_validation_regex"`
	DefaultStrategy        model.MergeStrategy `json:"default_strategy"`
	DefaultAutomerge       bool                `json:"default_automerge"`
	DefaultEnableQa        bool                `json:"default_enable_qa"`
	DefaultEnableChecks    bool                `json:"default_enable_checks"`
}

// PullRequestRecord is the wire form of a pull request
type PullRequestRecord struct {
	RepositoryPath   string               `json:"repository_path"`
	Number           int                  `json:"number"`
	QaStatus         model.QaStatus       `json:"qa_status"`
	StatusCommentID  int64                `json:"status_comment_id"`
	ChecksEnabled    bool                 `json:"checks_enabled"`
	Automerge        bool                 `json:"automerge"`
	Locked           bool                 `json:"locked"`
	StrategyOverride *model.MergeStrategy `json:"strategy_override"`
}

// RepositoryRuleRecord is the wire form of a repository rule
type RepositoryRuleRecord struct {
	RepositoryPath string                  `json:"repository_path"`
	Name           string                  `json:"name"`
	Conditions     model.RuleConditionList `json:"conditions"`
	Actions        model.RuleActionList    `json:"actions"`
}

// MergeRuleRecord is the wire form of a merge rule
type MergeRuleRecord struct {
	RepositoryPath string              `json:"repository_path"`
	BaseBranch     model.RuleBranch    `json:"base_branch"`
	HeadBranch     model.RuleBranch    `json:"head_branch"`
	Strategy       model.MergeStrategy `json:"strategy"`
}

// ExternalAccountRecord is the wire form of an external account
type ExternalAccountRecord struct {
	Username   string `json:"username"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// ExternalAccountRightRecord is the wire form of an account right
type ExternalAccountRightRecord struct {
	RepositoryPath string `json:"repository_path"`
	Username       string `json:"username"`
}

func repositoryPath(repo *model.Repository) string {
	return fmt.Sprintf("%s/%s", repo.Owner, repo.Name)
}
