// Package commands implements the comment-driven bot commands: parsing
// `<bot> <verb> [args...]` lines and executing them against the local
// database and the platform.
package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/prbot/prbot/consts"
	"github.com/prbot/prbot/internal/gif"
	"github.com/prbot/prbot/internal/github"
	"github.com/prbot/prbot/internal/model"
	"github.com/prbot/prbot/internal/store"
	syncpkg "github.com/prbot/prbot/internal/sync"
	"github.com/prbot/prbot/pkg/logger"
)

// Output is the result of one executed command
type Output struct {
	// NeedsSync is true when the command changed something a sync pass
	// must project back onto the platform
	NeedsSync bool
}

// Syncer triggers a full synchronization pass, used by the sync command
type Syncer interface {
	Process(ctx context.Context, owner, name string, number int, force bool) (*syncpkg.Result, error)
}

// Env carries the dependencies and the addressing of one command run
type Env struct {
	Store  store.Store
	Client github.Client
	Gif    gif.Client
	Syncer Syncer

	Owner  string
	Name   string
	Number int
	Author string

	// Raw is the original command line, quoted back in replies. CommentID
	// is the comment carrying it. Both are zero for external API calls.
	Raw       string
	CommentID int64
}

// react adds a reaction on the triggering comment, when there is one
func (e *Env) react(ctx context.Context, reaction github.ReactionType) error {
	if e.CommentID == 0 {
		return nil
	}
	return e.Client.AddCommentReaction(ctx, e.Owner, e.Name, e.CommentID, reaction)
}

// reply posts a comment back to the author, quoting the original command
func (e *Env) reply(ctx context.Context, comment string) error {
	body := comment + "\n" + consts.MessageFooter
	if e.Raw != "" {
		body = "> " + e.Raw + "\n\n" + body
	}
	_, err := e.Client.CreateIssueComment(ctx, e.Owner, e.Name, e.Number, body)
	return err
}

func (e *Env) pullRequest() (*model.Repository, *model.PullRequest, error) {
	repo, err := e.Store.Repository().GetByPath(e.Owner, e.Name)
	if err != nil {
		return nil, nil, err
	}
	pr, err := e.Store.PullRequest().GetByNumber(repo, e.Number)
	if err != nil {
		return nil, nil, err
	}
	return repo, pr, nil
}

// Command is one parsed bot command
type Command interface {
	Run(ctx context.Context, env *Env) (Output, error)
}

// SetQa forces the QA status of the pull request
type SetQa struct {
	Status model.QaStatus
}

func (c SetQa) Run(ctx context.Context, env *Env) (Output, error) {
	logger.Info("Running SetQa command",
		zap.String("status", string(c.Status)),
		zap.String("author", env.Author))

	_, pr, err := env.pullRequest()
	if err != nil {
		return Output{}, err
	}
	if err := env.Store.PullRequest().SetQaStatus(pr.ID, c.Status); err != nil {
		return Output{}, err
	}

	if err := env.react(ctx, github.ReactionEyes); err != nil {
		return Output{}, err
	}
	err = env.reply(ctx, fmt.Sprintf("QA status is marked as **%s** by **%s**.", c.Status, env.Author))
	return Output{NeedsSync: true}, err
}

// SetChecksEnabled toggles check aggregation on the pull request
type SetChecksEnabled struct {
	Enabled bool
}

func (c SetChecksEnabled) Run(ctx context.Context, env *Env) (Output, error) {
	_, pr, err := env.pullRequest()
	if err != nil {
		return Output{}, err
	}
	if err := env.Store.PullRequest().SetChecksEnabled(pr.ID, c.Enabled); err != nil {
		return Output{}, err
	}

	if err := env.react(ctx, github.ReactionEyes); err != nil {
		return Output{}, err
	}
	verb := "disabled"
	if c.Enabled {
		verb = "enabled"
	}
	err = env.reply(ctx, fmt.Sprintf("Checks were %s by **%s**.", verb, env.Author))
	return Output{NeedsSync: true}, err
}

// SetAutomerge toggles automerge on the pull request
type SetAutomerge struct {
	Enabled bool
}

func (c SetAutomerge) Run(ctx context.Context, env *Env) (Output, error) {
	_, pr, err := env.pullRequest()
	if err != nil {
		return Output{}, err
	}
	if err := env.Store.PullRequest().SetAutomerge(pr.ID, c.Enabled); err != nil {
		return Output{}, err
	}

	if err := env.react(ctx, github.ReactionEyes); err != nil {
		return Output{}, err
	}
	message := "Pull request automerge is disabled."
	if c.Enabled {
		message = "Pull request automerge is enabled."
	}
	err = env.reply(ctx, message)
	return Output{NeedsSync: true}, err
}

// SetLocked locks or unlocks merging, with an optional reason
type SetLocked struct {
	Locked  bool
	Comment string
}

func (c SetLocked) Run(ctx context.Context, env *Env) (Output, error) {
	_, pr, err := env.pullRequest()
	if err != nil {
		return Output{}, err
	}
	if err := env.Store.PullRequest().SetLocked(pr.ID, c.Locked); err != nil {
		return Output{}, err
	}

	if err := env.react(ctx, github.ReactionEyes); err != nil {
		return Output{}, err
	}

	message := "Pull request is now unlocked."
	if c.Locked {
		message = "Pull request is now locked."
		if c.Comment != "" {
			message = fmt.Sprintf("Pull request is now locked: %s.", c.Comment)
		}
	}
	err = env.reply(ctx, message)
	return Output{NeedsSync: true}, err
}

// AssignReviewers requests reviews from the given users
type AssignReviewers struct {
	Reviewers []string
}

func (c AssignReviewers) Run(ctx context.Context, env *Env) (Output, error) {
	if err := env.react(ctx, github.ReactionEyes); err != nil {
		return Output{}, err
	}
	err := env.Client.AddReviewers(ctx, env.Owner, env.Name, env.Number, c.Reviewers)
	return Output{NeedsSync: true}, err
}

// UnassignReviewers removes review requests for the given users
type UnassignReviewers struct {
	Reviewers []string
}

func (c UnassignReviewers) Run(ctx context.Context, env *Env) (Output, error) {
	if err := env.react(ctx, github.ReactionEyes); err != nil {
		return Output{}, err
	}
	err := env.Client.RemoveReviewers(ctx, env.Owner, env.Name, env.Number, c.Reviewers)
	return Output{NeedsSync: true}, err
}

// SetStrategy overrides the merge strategy for this pull request. A nil
// strategy clears the override.
type SetStrategy struct {
	Strategy *model.MergeStrategy
}

func (c SetStrategy) Run(ctx context.Context, env *Env) (Output, error) {
	_, pr, err := env.pullRequest()
	if err != nil {
		return Output{}, err
	}
	if err := env.react(ctx, github.ReactionEyes); err != nil {
		return Output{}, err
	}
	err = env.Store.PullRequest().SetStrategyOverride(pr.ID, c.Strategy)
	return Output{NeedsSync: true}, err
}

// Merge merges the pull request immediately, with an optional strategy
// overriding the resolved one
type Merge struct {
	Strategy *model.MergeStrategy
}

func (c Merge) Run(ctx context.Context, env *Env) (Output, error) {
	state, err := syncpkg.NewBuilder(env.Store, env.Client).Build(ctx, env.Owner, env.Name, env.Number)
	if err != nil {
		return Output{}, err
	}

	strategy := state.MergeStrategy
	if c.Strategy != nil {
		strategy = *c.Strategy
	}

	commitTitle := fmt.Sprintf("%s (#%d)", state.Title, state.Number)
	err = env.Client.MergePullRequest(ctx, env.Owner, env.Name, env.Number, commitTitle, strategy)
	if err != nil {
		if reactErr := env.react(ctx, github.ReactionConfused); reactErr != nil {
			return Output{}, reactErr
		}
		replyErr := env.reply(ctx, fmt.Sprintf("Error: Could not merge pull request.\n\n%v", err))
		return Output{NeedsSync: true}, replyErr
	}

	err = env.react(ctx, github.ReactionPlusOne)
	return Output{NeedsSync: true}, err
}

// AssignLabels adds labels to the pull request
type AssignLabels struct {
	Labels []string
}

func (c AssignLabels) Run(ctx context.Context, env *Env) (Output, error) {
	if err := env.react(ctx, github.ReactionEyes); err != nil {
		return Output{}, err
	}
	err := env.Client.AddIssueLabels(ctx, env.Owner, env.Name, env.Number, c.Labels)
	return Output{}, err
}

// UnassignLabels removes labels from the pull request
type UnassignLabels struct {
	Labels []string
}

func (c UnassignLabels) Run(ctx context.Context, env *Env) (Output, error) {
	if err := env.react(ctx, github.ReactionEyes); err != nil {
		return Output{}, err
	}

	existing, err := env.Client.ListIssueLabels(ctx, env.Owner, env.Name, env.Number)
	if err != nil {
		return Output{}, err
	}

	removed := map[string]bool{}
	for _, label := range c.Labels {
		removed[label] = true
	}
	kept := make([]string, 0, len(existing))
	for _, label := range existing {
		if !removed[label] {
			kept = append(kept, label)
		}
	}
	err = env.Client.ReplaceIssueLabels(ctx, env.Owner, env.Name, env.Number, kept)
	return Output{}, err
}

// Ping answers with a pong, mostly useful to check the bot is alive
type Ping struct{}

func (c Ping) Run(ctx context.Context, env *Env) (Output, error) {
	if err := env.react(ctx, github.ReactionEyes); err != nil {
		return Output{}, err
	}
	err := env.reply(ctx, "Pong!")
	return Output{}, err
}

// Gif answers with the first GIF matching the search query
type Gif struct {
	Search string
}

func (c Gif) Run(ctx context.Context, env *Env) (Output, error) {
	url, err := env.Gif.QueryFirstMatch(ctx, c.Search)
	if err != nil {
		return Output{}, err
	}
	if err := env.react(ctx, github.ReactionEyes); err != nil {
		return Output{}, err
	}

	message := "No GIF found for your query... :cry:"
	if url != "" {
		message = fmt.Sprintf("![gif](%s)", url)
	}
	err = env.reply(ctx, message)
	return Output{}, err
}

// Sync runs a full synchronization pass right away
type Sync struct{}

func (c Sync) Run(ctx context.Context, env *Env) (Output, error) {
	logger.Info("Running Sync command", zap.String("author", env.Author))

	if _, err := env.Syncer.Process(ctx, env.Owner, env.Name, env.Number, true); err != nil {
		return Output{}, err
	}
	err := env.react(ctx, github.ReactionEyes)
	return Output{}, err
}
