// Package model defines the data models for the application.
// All models use GORM for ORM operations with SQLite database.
package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MergeStrategy represents the strategy used when merging a pull request
type MergeStrategy string

const (
	MergeStrategyMerge  MergeStrategy = "merge"
	MergeStrategySquash MergeStrategy = "squash"
	MergeStrategyRebase MergeStrategy = "rebase"
)

// ParseMergeStrategy converts a string into a MergeStrategy
func ParseMergeStrategy(value string) (MergeStrategy, error) {
	switch MergeStrategy(value) {
	case MergeStrategyMerge, MergeStrategySquash, MergeStrategyRebase:
		return MergeStrategy(value), nil
	default:
		return "", fmt.Errorf("invalid merge strategy: %s", value)
	}
}

// QaStatus represents the manual QA state of a pull request
type QaStatus string

const (
	QaStatusWaiting QaStatus = "waiting"
	QaStatusSkipped QaStatus = "skipped"
	QaStatusPass    QaStatus = "pass"
	QaStatusFail    QaStatus = "fail"
)

// ParseQaStatus converts a string into a QaStatus
func ParseQaStatus(value string) (QaStatus, error) {
	switch QaStatus(value) {
	case QaStatusWaiting, QaStatusSkipped, QaStatusPass, QaStatusFail:
		return QaStatus(value), nil
	default:
		return "", fmt.Errorf("invalid QA status: %s", value)
	}
}

// CheckStatus represents the aggregated state of upstream check runs
type CheckStatus string

const (
	CheckStatusWaiting CheckStatus = "waiting"
	CheckStatusSkipped CheckStatus = "skipped"
	CheckStatusPass    CheckStatus = "pass"
	CheckStatusFail    CheckStatus = "fail"
)

// RepositoryPath identifies a repository by owner and name
type RepositoryPath struct {
	Owner string
	Name  string
}

// ParseRepositoryPath parses an "owner/name" string
func ParseRepositoryPath(value string) (RepositoryPath, error) {
	owner, name, ok := strings.Cut(value, "/")
	if !ok || owner == "" || name == "" {
		return RepositoryPath{}, fmt.Errorf("invalid repository path: %s", value)
	}
	return RepositoryPath{Owner: owner, Name: name}, nil
}

// String returns the "owner/name" form
func (p RepositoryPath) String() string {
	return p.Owner + "/" + p.Name
}

// PullRequestPath identifies a pull request by repository path and number
type PullRequestPath struct {
	Owner  string
	Name   string
	Number int
}

// String returns the "owner/name#number" form
func (p PullRequestPath) String() string {
	return fmt.Sprintf("%s/%s#%d", p.Owner, p.Name, p.Number)
}

// ParsePullRequestPath parses an "owner/name#number" string
func ParsePullRequestPath(value string) (PullRequestPath, error) {
	repoPart, numberPart, ok := strings.Cut(value, "#")
	if !ok {
		return PullRequestPath{}, fmt.Errorf("invalid pull request path: %s", value)
	}
	repoPath, err := ParseRepositoryPath(repoPart)
	if err != nil {
		return PullRequestPath{}, err
	}
	number, err := strconv.Atoi(numberPart)
	if err != nil || number <= 0 {
		return PullRequestPath{}, fmt.Errorf("invalid pull request number: %s", numberPart)
	}
	return PullRequestPath{Owner: repoPath.Owner, Name: repoPath.Name, Number: number}, nil
}

// Repository is the per-repository bot configuration
type Repository struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Owner string `gorm:"size:255;not null;uniqueIndex:idx_repo_owner_name,priority:1" json:"owner"`
	Name  string `gorm:"size:255;not null;uniqueIndex:idx_repo_owner_name,priority:2" json:"name"`

	// ManualInteraction blocks automatic pull request creation during sync
	ManualInteraction      bool          `gorm:"not null;default:false" json:"manual_interaction"`
	PRTitleValidationRegex string        `gorm:"size:512;not null;default:''" json:"pr_title_validation_regex"`
	DefaultStrategy        MergeStrategy `gorm:"size:20;not null;default:merge" json:"default_strategy"`
	DefaultAutomerge       bool          `gorm:"not null;default:false" json:"default_automerge"`
	// No column default on the enable flags: gorm drops explicit false
	// values on insert for defaulted columns
	DefaultEnableQa     bool `gorm:"not null" json:"default_enable_qa"`
	DefaultEnableChecks bool `gorm:"not null" json:"default_enable_checks"`
}

// Path returns the repository path
func (r *Repository) Path() RepositoryPath {
	return RepositoryPath{Owner: r.Owner, Name: r.Name}
}

// TitleRegexp compiles the title validation pattern, anchored at the start.
// An empty pattern matches the empty prefix of any title, so validation is
// trivially true when no pattern is configured.
func (r *Repository) TitleRegexp() (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + r.PRTitleValidationRegex + ")")
}

// NewRepository creates a repository with default settings
func NewRepository(owner, name string) *Repository {
	return &Repository{
		Owner:               owner,
		Name:                name,
		DefaultStrategy:     MergeStrategyMerge,
		DefaultEnableQa:     true,
		DefaultEnableChecks: true,
	}
}

// PullRequest is the per-pull-request mutable bot state
type PullRequest struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	RepositoryID uint       `gorm:"not null;uniqueIndex:idx_pr_repo_number,priority:1" json:"-"`
	Repository   Repository `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Number       int        `gorm:"not null;uniqueIndex:idx_pr_repo_number,priority:2" json:"number"`

	QaStatus QaStatus `gorm:"size:20;not null;default:waiting" json:"qa_status"`

	// StatusCommentID tracks the summary comment; zero means not created yet
	StatusCommentID  int64          `gorm:"not null;default:0" json:"status_comment_id"`
	ChecksEnabled    bool           `gorm:"not null" json:"checks_enabled"`
	Automerge        bool           `gorm:"not null;default:false" json:"automerge"`
	Locked           bool           `gorm:"not null;default:false" json:"locked"`
	StrategyOverride *MergeStrategy `gorm:"size:20" json:"strategy_override"`
}

// MergeRule maps a (base, head) branch pair to a merge strategy
type MergeRule struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	RepositoryID uint       `gorm:"not null;uniqueIndex:idx_merge_rule,priority:1" json:"-"`
	Repository   Repository `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	// Branches are stored as "*" for wildcard, otherwise the literal name
	BaseBranch string        `gorm:"size:255;not null;uniqueIndex:idx_merge_rule,priority:2" json:"base_branch"`
	HeadBranch string        `gorm:"size:255;not null;uniqueIndex:idx_merge_rule,priority:3" json:"head_branch"`
	Strategy   MergeStrategy `gorm:"size:20;not null" json:"strategy"`
}

// RepositoryRule is a named rule applying actions to matching pull requests
type RepositoryRule struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	RepositoryID uint       `gorm:"not null;uniqueIndex:idx_repository_rule,priority:1" json:"-"`
	Repository   Repository `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name         string     `gorm:"size:255;not null;uniqueIndex:idx_repository_rule,priority:2" json:"name"`

	Conditions RuleConditionList `gorm:"type:text;not null" json:"conditions"`
	Actions    RuleActionList    `gorm:"type:text;not null" json:"actions"`
}

// ExternalAccount is an API caller identified by an RSA key pair
type ExternalAccount struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Username   string `gorm:"size:255;not null;uniqueIndex" json:"username"`
	PublicKey  string `gorm:"type:text;not null" json:"public_key"`
	PrivateKey string `gorm:"type:text;not null" json:"private_key"`
}

// ExternalAccountRight grants an external account access to a repository
type ExternalAccountRight struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedAt time.Time `json:"-"`

	RepositoryID uint       `gorm:"not null;uniqueIndex:idx_account_right,priority:1" json:"-"`
	Repository   Repository `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Username     string     `gorm:"size:255;not null;uniqueIndex:idx_account_right,priority:2" json:"username"`
}

// AllModels returns every model for migration
func AllModels() []any {
	return []any{
		&Repository{},
		&PullRequest{},
		&MergeRule{},
		&RepositoryRule{},
		&ExternalAccount{},
		&ExternalAccountRight{},
	}
}
