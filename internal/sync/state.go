// Package sync implements the pull request synchronization engine: building
// an immutable view of a pull request, projecting it onto the platform
// (commit status, step label, summary comment) and automerging when ready.
package sync

import (
	"context"
	"fmt"

	"github.com/prbot/prbot/internal/github"
	"github.com/prbot/prbot/internal/model"
	"github.com/prbot/prbot/internal/store"
)

// State is the immutable, fully-resolved view of one pull request. All
// projections derive from it; nothing re-reads the database or the platform.
type State struct {
	Owner  string
	Name   string
	Number int

	Title   string
	HeadSHA string

	CheckStatus    model.CheckStatus
	QaStatus       model.QaStatus
	ReviewDecision github.ReviewDecision
	MergeStrategy  model.MergeStrategy

	Locked    bool
	Wip       bool
	Automerge bool
	Mergeable bool
	Merged    bool

	TitleRegex   string
	ValidPRTitle bool

	Rules           []model.RepositoryRule
	StatusCommentID int64
	CheckURL        string
}

// ChangesRequested reports whether reviewers asked for changes
func (s *State) ChangesRequested() bool {
	return s.ReviewDecision == github.ReviewDecisionChangesRequested
}

// ReviewRequired reports whether required reviews are still missing
func (s *State) ReviewRequired() bool {
	return s.ReviewDecision == github.ReviewDecisionReviewRequired
}

// ReviewSkipped reports whether the repository requires no reviews at all
func (s *State) ReviewSkipped() bool {
	return s.ReviewDecision == github.ReviewDecisionNone
}

// Builder assembles a State from the local database and the platform
type Builder struct {
	store  store.Store
	client github.Client
}

// NewBuilder creates a state builder
func NewBuilder(st store.Store, client github.Client) *Builder {
	return &Builder{store: st, client: client}
}

// Build resolves the full state of owner/name#number. Fails with the
// unknown-repository or unknown-pull-request error when the local records
// are missing.
func (b *Builder) Build(ctx context.Context, owner, name string, number int) (*State, error) {
	repo, err := b.store.Repository().GetByPath(owner, name)
	if err != nil {
		return nil, err
	}

	localPR, err := b.store.PullRequest().GetByNumber(repo, number)
	if err != nil {
		return nil, err
	}

	upstreamPR, err := b.client.GetPullRequest(ctx, owner, name, number)
	if err != nil {
		return nil, err
	}

	rules, err := matchRules(repo, upstreamPR, b.store)
	if err != nil {
		return nil, err
	}

	localPR, err = applyRules(repo, localPR, rules, b.store)
	if err != nil {
		return nil, err
	}

	checkStatus := model.CheckStatusSkipped
	if localPR.ChecksEnabled {
		runs, err := b.client.ListCheckRuns(ctx, owner, name, upstreamPR.HeadSHA)
		if err != nil {
			return nil, err
		}
		checkStatus = AggregateChecks(runs)
	}

	strategy, err := ResolveStrategy(b.store, repo, localPR,
		model.RuleBranchFromString(upstreamPR.BaseBranch),
		model.RuleBranchFromString(upstreamPR.HeadBranch))
	if err != nil {
		return nil, err
	}

	decision, err := b.client.GetReviewDecision(ctx, owner, name, number)
	if err != nil {
		return nil, err
	}

	titleRegexp, err := repo.TitleRegexp()
	if err != nil {
		return nil, err
	}

	return &State{
		Owner:           owner,
		Name:            name,
		Number:          number,
		Title:           upstreamPR.Title,
		HeadSHA:         upstreamPR.HeadSHA,
		CheckStatus:     checkStatus,
		QaStatus:        localPR.QaStatus,
		ReviewDecision:  decision,
		MergeStrategy:   strategy,
		Locked:          localPR.Locked,
		Wip:             upstreamPR.Draft,
		Automerge:       localPR.Automerge,
		Mergeable:       upstreamPR.Mergeable,
		Merged:          upstreamPR.Merged,
		TitleRegex:      repo.PRTitleValidationRegex,
		ValidPRTitle:    titleRegexp.MatchString(upstreamPR.Title),
		Rules:           rules,
		StatusCommentID: localPR.StatusCommentID,
		CheckURL:        checksURL(owner, name, number),
	}, nil
}

func checksURL(owner, name string, number int) string {
	return fmt.Sprintf("https://github.com/%s/%s/pull/%d/checks", owner, name, number)
}
