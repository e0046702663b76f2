// Package githubtest provides an in-memory fake of the platform client for
// tests. Mutating calls are recorded; read calls serve configured fixtures.
package githubtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/prbot/prbot/internal/github"
	"github.com/prbot/prbot/internal/model"
)

// Comment is a recorded comment create or update
type Comment struct {
	ID   int64
	Body string
}

// Status is a recorded commit status
type Status struct {
	SHA         string
	State       github.StatusState
	Description string
	Context     string
}

// Merge is a recorded merge call
type Merge struct {
	Number      int
	CommitTitle string
	Strategy    model.MergeStrategy
}

// Reaction is a recorded comment reaction
type Reaction struct {
	CommentID int64
	Type      github.ReactionType
}

// FakeClient implements github.Client for tests
type FakeClient struct {
	mu sync.Mutex

	// Fixtures
	PullRequests   map[int]*github.PullRequest
	CheckRuns      map[string][]github.CheckRun
	ReviewDecision github.ReviewDecision
	Labels         []string
	Repo           *github.Repository

	// Forced errors
	MergeErr error
	SetupErr error

	// Recorded mutations
	CreatedComments  []Comment
	UpdatedComments  []Comment
	Statuses         []Status
	Merges           []Merge
	Reactions        []Reaction
	AddedLabels      [][]string
	ReplacedLabels   [][]string
	AddedReviewers   [][]string
	RemovedReviewers [][]string
	SetupCalls       int

	nextCommentID int64
}

// NewFakeClient creates an empty fake client
func NewFakeClient() *FakeClient {
	return &FakeClient{
		PullRequests:  map[int]*github.PullRequest{},
		CheckRuns:     map[string][]github.CheckRun{},
		nextCommentID: 1,
	}
}

func (f *FakeClient) SetupForRepository(ctx context.Context, owner, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SetupCalls++
	return f.SetupErr
}

func (f *FakeClient) GetRepository(ctx context.Context, owner, name string) (*github.Repository, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Repo != nil {
		return f.Repo, nil
	}
	return &github.Repository{Owner: owner, Name: name}, nil
}

func (f *FakeClient) GetPullRequest(ctx context.Context, owner, name string, number int) (*github.PullRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pr, ok := f.PullRequests[number]
	if !ok {
		return nil, fmt.Errorf("no fixture for pull request #%d", number)
	}
	return pr, nil
}

func (f *FakeClient) ListCheckRuns(ctx context.Context, owner, name, sha string) ([]github.CheckRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.CheckRuns[sha], nil
}

func (f *FakeClient) GetReviewDecision(ctx context.Context, owner, name string, number int) (github.ReviewDecision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ReviewDecision, nil
}

func (f *FakeClient) ListIssueLabels(ctx context.Context, owner, name string, number int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	labels := make([]string, len(f.Labels))
	copy(labels, f.Labels)
	return labels, nil
}

func (f *FakeClient) AddIssueLabels(ctx context.Context, owner, name string, number int, labels []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Labels = append(f.Labels, labels...)
	f.AddedLabels = append(f.AddedLabels, labels)
	return nil
}

func (f *FakeClient) ReplaceIssueLabels(ctx context.Context, owner, name string, number int, labels []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Labels = append([]string(nil), labels...)
	f.ReplacedLabels = append(f.ReplacedLabels, labels)
	return nil
}

func (f *FakeClient) CreateIssueComment(ctx context.Context, owner, name string, number int, body string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextCommentID
	f.nextCommentID++
	f.CreatedComments = append(f.CreatedComments, Comment{ID: id, Body: body})
	return id, nil
}

func (f *FakeClient) UpdateIssueComment(ctx context.Context, owner, name string, commentID int64, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdatedComments = append(f.UpdatedComments, Comment{ID: commentID, Body: body})
	return nil
}

func (f *FakeClient) AddCommentReaction(ctx context.Context, owner, name string, commentID int64, reaction github.ReactionType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Reactions = append(f.Reactions, Reaction{CommentID: commentID, Type: reaction})
	return nil
}

func (f *FakeClient) AddReviewers(ctx context.Context, owner, name string, number int, reviewers []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AddedReviewers = append(f.AddedReviewers, reviewers)
	return nil
}

func (f *FakeClient) RemoveReviewers(ctx context.Context, owner, name string, number int, reviewers []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RemovedReviewers = append(f.RemovedReviewers, reviewers)
	return nil
}

func (f *FakeClient) MergePullRequest(ctx context.Context, owner, name string, number int, commitTitle string, strategy model.MergeStrategy) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MergeErr != nil {
		return f.MergeErr
	}
	f.Merges = append(f.Merges, Merge{Number: number, CommitTitle: commitTitle, Strategy: strategy})
	return nil
}

func (f *FakeClient) CreateCommitStatus(ctx context.Context, owner, name, sha string, state github.StatusState, description, statusContext string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Statuses = append(f.Statuses, Status{SHA: sha, State: state, Description: description, Context: statusContext})
	return nil
}
