package github

import (
	"context"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/prbot/prbot/internal/model"
	"github.com/prbot/prbot/pkg/errors"
	"github.com/prbot/prbot/pkg/logger"
)

// Client is the platform surface consumed by sync, commands and events.
// Implementations must be safe for concurrent use.
type Client interface {
	// SetupForRepository upgrades the client's auth to the installation
	// covering owner/name. A no-op for user token auth and once an
	// installation token is held; an error for anonymous auth.
	SetupForRepository(ctx context.Context, owner, name string) error

	GetRepository(ctx context.Context, owner, name string) (*Repository, error)
	GetPullRequest(ctx context.Context, owner, name string, number int) (*PullRequest, error)
	ListCheckRuns(ctx context.Context, owner, name, sha string) ([]CheckRun, error)
	GetReviewDecision(ctx context.Context, owner, name string, number int) (ReviewDecision, error)

	ListIssueLabels(ctx context.Context, owner, name string, number int) ([]string, error)
	AddIssueLabels(ctx context.Context, owner, name string, number int, labels []string) error
	ReplaceIssueLabels(ctx context.Context, owner, name string, number int, labels []string) error

	CreateIssueComment(ctx context.Context, owner, name string, number int, body string) (int64, error)
	UpdateIssueComment(ctx context.Context, owner, name string, commentID int64, body string) error
	AddCommentReaction(ctx context.Context, owner, name string, commentID int64, reaction ReactionType) error

	AddReviewers(ctx context.Context, owner, name string, number int, reviewers []string) error
	RemoveReviewers(ctx context.Context, owner, name string, number int, reviewers []string) error

	MergePullRequest(ctx context.Context, owner, name string, number int, commitTitle string, strategy model.MergeStrategy) error
	CreateCommitStatus(ctx context.Context, owner, name, sha string, state StatusState, description, statusContext string) error
}

// restClient implements Client with go-github for REST and githubv4 for the
// review decision query.
type restClient struct {
	client  *gh.Client
	graphql reviewDecisionClient
	auth    *Authenticator
}

// NewClient creates a platform client bound to the given authenticator.
// Every request picks up the authenticator's current token, so auth
// upgrades apply to in-flight clients immediately.
func NewClient(auth *Authenticator) Client {
	httpClient := &http.Client{
		Transport: &oauth2.Transport{Source: auth},
	}
	return &restClient{
		client:  gh.NewClient(httpClient),
		graphql: newGraphQLClient(httpClient),
		auth:    auth,
	}
}

func (c *restClient) SetupForRepository(ctx context.Context, owner, name string) error {
	switch c.auth.Mode() {
	case AuthAnonymous:
		return errors.New(errors.ErrCodeAuthNotConfigured, "no GitHub credentials configured")
	case AuthUser, AuthInstallation:
		// Already scoped; the installation lookup endpoint only accepts
		// App JWTs, so it must not run on an installation token.
		return nil
	}

	// App scope: look up the installation covering this repository and
	// target it. The lookup itself runs on the App JWT.
	installation, _, err := c.client.Apps.FindRepositoryInstallation(ctx, owner, name)
	if err != nil {
		return errors.Wrap(errors.ErrCodePlatform,
			fmt.Sprintf("no app installation found for %s/%s", owner, name), err)
	}
	return c.auth.UpgradeToInstallation(ctx, installation.GetID())
}

func (c *restClient) GetRepository(ctx context.Context, owner, name string) (*Repository, error) {
	var repo *gh.Repository
	err := withRetry(ctx, func() error {
		var err error
		repo, _, err = c.client.Repositories.Get(ctx, owner, name)
		return err
	})
	if err != nil {
		return nil, wrapPlatformErr("failed to fetch repository", owner, name, err)
	}
	return &Repository{
		Owner: repo.GetOwner().GetLogin(),
		Name:  repo.GetName(),
	}, nil
}

func (c *restClient) GetPullRequest(ctx context.Context, owner, name string, number int) (*PullRequest, error) {
	var pr *gh.PullRequest
	err := withRetry(ctx, func() error {
		var err error
		pr, _, err = c.client.PullRequests.Get(ctx, owner, name, number)
		return err
	})
	if err != nil {
		return nil, wrapPlatformErr("failed to fetch pull request", owner, name, err)
	}
	// Mergeability is computed lazily upstream; unknown counts as mergeable
	// so a fresh PR is not reported as blocked.
	mergeable := true
	if pr.Mergeable != nil {
		mergeable = pr.GetMergeable()
	}
	return &PullRequest{
		Number:      pr.GetNumber(),
		Title:       pr.GetTitle(),
		AuthorLogin: pr.GetUser().GetLogin(),
		BaseBranch:  pr.GetBase().GetRef(),
		HeadBranch:  pr.GetHead().GetRef(),
		HeadSHA:     pr.GetHead().GetSHA(),
		Draft:       pr.GetDraft(),
		Merged:      pr.GetMerged(),
		Mergeable:   mergeable,
	}, nil
}

func (c *restClient) ListCheckRuns(ctx context.Context, owner, name, sha string) ([]CheckRun, error) {
	var runs []CheckRun
	opts := &gh.ListCheckRunsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	for {
		var result *gh.ListCheckRunsResults
		err := withRetry(ctx, func() error {
			var err error
			result, _, err = c.client.Checks.ListCheckRunsForRef(ctx, owner, name, sha, opts)
			return err
		})
		if err != nil {
			return nil, wrapPlatformErr("failed to list check runs", owner, name, err)
		}
		for _, run := range result.CheckRuns {
			var conclusion *string
			if run.Conclusion != nil {
				value := run.GetConclusion()
				conclusion = &value
			}
			runs = append(runs, CheckRun{
				Name:       run.GetName(),
				StartedAt:  run.GetStartedAt().Time,
				Conclusion: conclusion,
			})
		}
		if len(result.CheckRuns) < opts.PerPage || len(runs) >= result.GetTotal() {
			break
		}
		opts.Page++
	}
	return runs, nil
}

func (c *restClient) GetReviewDecision(ctx context.Context, owner, name string, number int) (ReviewDecision, error) {
	var decision ReviewDecision
	err := withRetry(ctx, func() error {
		var err error
		decision, err = c.graphql.ReviewDecision(ctx, owner, name, number)
		return err
	})
	if err != nil {
		return ReviewDecisionNone, wrapPlatformErr("failed to fetch review decision", owner, name, err)
	}
	return decision, nil
}

func (c *restClient) ListIssueLabels(ctx context.Context, owner, name string, number int) ([]string, error) {
	var labels []string
	opts := &gh.ListOptions{PerPage: 100}
	for {
		var page []*gh.Label
		var resp *gh.Response
		err := withRetry(ctx, func() error {
			var err error
			page, resp, err = c.client.Issues.ListLabelsByIssue(ctx, owner, name, number, opts)
			return err
		})
		if err != nil {
			return nil, wrapPlatformErr("failed to list issue labels", owner, name, err)
		}
		for _, label := range page {
			labels = append(labels, label.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return labels, nil
}

func (c *restClient) AddIssueLabels(ctx context.Context, owner, name string, number int, labels []string) error {
	err := withRetry(ctx, func() error {
		_, _, err := c.client.Issues.AddLabelsToIssue(ctx, owner, name, number, labels)
		return err
	})
	if err != nil {
		return wrapPlatformErr("failed to add issue labels", owner, name, err)
	}
	return nil
}

func (c *restClient) ReplaceIssueLabels(ctx context.Context, owner, name string, number int, labels []string) error {
	err := withRetry(ctx, func() error {
		_, _, err := c.client.Issues.ReplaceLabelsForIssue(ctx, owner, name, number, labels)
		return err
	})
	if err != nil {
		return wrapPlatformErr("failed to replace issue labels", owner, name, err)
	}
	return nil
}

func (c *restClient) CreateIssueComment(ctx context.Context, owner, name string, number int, body string) (int64, error) {
	var comment *gh.IssueComment
	err := withRetry(ctx, func() error {
		var err error
		comment, _, err = c.client.Issues.CreateComment(ctx, owner, name, number, &gh.IssueComment{
			Body: gh.String(body),
		})
		return err
	})
	if err != nil {
		return 0, wrapPlatformErr("failed to create issue comment", owner, name, err)
	}
	return comment.GetID(), nil
}

func (c *restClient) UpdateIssueComment(ctx context.Context, owner, name string, commentID int64, body string) error {
	err := withRetry(ctx, func() error {
		_, _, err := c.client.Issues.EditComment(ctx, owner, name, commentID, &gh.IssueComment{
			Body: gh.String(body),
		})
		return err
	})
	if err != nil {
		return wrapPlatformErr("failed to update issue comment", owner, name, err)
	}
	return nil
}

func (c *restClient) AddCommentReaction(ctx context.Context, owner, name string, commentID int64, reaction ReactionType) error {
	err := withRetry(ctx, func() error {
		_, _, err := c.client.Reactions.CreateIssueCommentReaction(ctx, owner, name, commentID, string(reaction))
		return err
	})
	if err != nil {
		return wrapPlatformErr("failed to add comment reaction", owner, name, err)
	}
	return nil
}

func (c *restClient) AddReviewers(ctx context.Context, owner, name string, number int, reviewers []string) error {
	err := withRetry(ctx, func() error {
		_, _, err := c.client.PullRequests.RequestReviewers(ctx, owner, name, number, gh.ReviewersRequest{
			Reviewers: reviewers,
		})
		return err
	})
	if err != nil {
		return wrapPlatformErr("failed to request reviewers", owner, name, err)
	}
	return nil
}

func (c *restClient) RemoveReviewers(ctx context.Context, owner, name string, number int, reviewers []string) error {
	err := withRetry(ctx, func() error {
		_, err := c.client.PullRequests.RemoveReviewers(ctx, owner, name, number, gh.ReviewersRequest{
			Reviewers: reviewers,
		})
		return err
	})
	if err != nil {
		return wrapPlatformErr("failed to remove reviewers", owner, name, err)
	}
	return nil
}

func (c *restClient) MergePullRequest(ctx context.Context, owner, name string, number int, commitTitle string, strategy model.MergeStrategy) error {
	opts := &gh.PullRequestOptions{
		CommitTitle: commitTitle,
		MergeMethod: string(strategy),
	}
	err := withRetry(ctx, func() error {
		_, _, err := c.client.PullRequests.Merge(ctx, owner, name, number, "", opts)
		return err
	})
	if err != nil {
		return wrapPlatformErr("failed to merge pull request", owner, name, err)
	}
	logger.Info("Merged pull request",
		zap.String("owner", owner),
		zap.String("name", name),
		zap.Int("number", number),
		zap.String("strategy", string(strategy)))
	return nil
}

func (c *restClient) CreateCommitStatus(ctx context.Context, owner, name, sha string, state StatusState, description, statusContext string) error {
	err := withRetry(ctx, func() error {
		_, _, err := c.client.Repositories.CreateStatus(ctx, owner, name, sha, &gh.RepoStatus{
			State:       gh.String(string(state)),
			Description: gh.String(description),
			Context:     gh.String(statusContext),
		})
		return err
	})
	if err != nil {
		return wrapPlatformErr("failed to create commit status", owner, name, err)
	}
	return nil
}

func wrapPlatformErr(message, owner, name string, err error) error {
	return errors.Wrap(errors.ErrCodePlatform, fmt.Sprintf("%s for %s/%s", message, owner, name), err)
}
