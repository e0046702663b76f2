package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prbot/prbot/internal/github"
	"github.com/prbot/prbot/internal/github/githubtest"
	"github.com/prbot/prbot/internal/lock/locktest"
	"github.com/prbot/prbot/internal/model"
	"github.com/prbot/prbot/internal/store"
	"github.com/prbot/prbot/pkg/errors"
)

type orchestratorFixture struct {
	store  store.Store
	client *githubtest.FakeClient
	locks  *locktest.FakeClient
	orch   *Orchestrator
}

func setupOrchestrator(t *testing.T) (*orchestratorFixture, func()) {
	t.Helper()
	s, cleanup := store.SetupTestDB(t)
	client := githubtest.NewFakeClient()
	locks := locktest.NewFakeClient()
	return &orchestratorFixture{
		store:  s,
		client: client,
		locks:  locks,
		orch:   NewOrchestrator(s, client, locks),
	}, cleanup
}

// mergeReadyFixture tracks a pull request that resolves to awaiting-merge
// with automerge enabled
func mergeReadyFixture(t *testing.T, f *orchestratorFixture) *model.Repository {
	t.Helper()
	repo := model.NewRepository("owner", "name")
	require.NoError(t, f.store.Repository().Create(repo))
	require.NoError(t, f.store.PullRequest().Create(&model.PullRequest{
		RepositoryID:  repo.ID,
		Number:        1,
		QaStatus:      model.QaStatusPass,
		ChecksEnabled: true,
		Automerge:     true,
	}))

	f.client.PullRequests[1] = &github.PullRequest{
		Number:      1,
		Title:       "Add things",
		AuthorLogin: "contributor",
		BaseBranch:  "main",
		HeadBranch:  "feature",
		HeadSHA:     "abc123",
		Mergeable:   true,
	}
	f.client.CheckRuns["abc123"] = []github.CheckRun{
		{Name: "ci", Conclusion: conclusion(github.ConclusionSuccess)},
	}
	f.client.ReviewDecision = github.ReviewDecisionApproved
	return repo
}

func TestProcessAutomergesReadyPullRequest(t *testing.T) {
	f, cleanup := setupOrchestrator(t)
	defer cleanup()
	mergeReadyFixture(t, f)

	result, err := f.orch.Process(context.Background(), "owner", "name", 1, false)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, StepAwaitingMerge, result.StepLabel)
	assert.Equal(t, 1, f.client.SetupCalls)

	require.Len(t, f.client.Merges, 1)
	assert.Equal(t, "Add things (#1)", f.client.Merges[0].CommitTitle)
	assert.Equal(t, model.MergeStrategyMerge, f.client.Merges[0].Strategy)
	assert.Contains(t, f.locks.Acquired, "automerge.owner.name.1")

	// Commit status, step label and summary were all projected
	require.Len(t, f.client.Statuses, 1)
	assert.Equal(t, "All good", f.client.Statuses[0].Description)
	require.Len(t, f.client.ReplacedLabels, 1)
	assert.Contains(t, f.client.ReplacedLabels[0], "step/awaiting-merge")
	assert.Len(t, f.client.CreatedComments, 1)
}

func TestProcessMergeFailureDisablesAutomerge(t *testing.T) {
	f, cleanup := setupOrchestrator(t)
	defer cleanup()
	repo := mergeReadyFixture(t, f)
	f.client.MergeErr = errors.New(errors.ErrCodePlatform, "merge conflict")

	result, err := f.orch.Process(context.Background(), "owner", "name", 1, false)
	require.NoError(t, err)
	assert.False(t, result.Skipped)

	pr, err := f.store.PullRequest().GetByNumber(repo, 1)
	require.NoError(t, err)
	assert.False(t, pr.Automerge)
}

func TestProcessContestedAutomergeLockSkipsMerge(t *testing.T) {
	f, cleanup := setupOrchestrator(t)
	defer cleanup()
	repo := mergeReadyFixture(t, f)
	f.locks.Hold("automerge.owner.name.1")

	result, err := f.orch.Process(context.Background(), "owner", "name", 1, false)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Empty(t, f.client.Merges)

	// Lock contention does not disable automerge; the next sync retries
	pr, err := f.store.PullRequest().GetByNumber(repo, 1)
	require.NoError(t, err)
	assert.True(t, pr.Automerge)
}

func TestProcessNoAutomergeWhenNotReady(t *testing.T) {
	f, cleanup := setupOrchestrator(t)
	defer cleanup()
	mergeReadyFixture(t, f)
	f.client.ReviewDecision = github.ReviewDecisionReviewRequired

	result, err := f.orch.Process(context.Background(), "owner", "name", 1, false)
	require.NoError(t, err)
	assert.Equal(t, StepAwaitingReview, result.StepLabel)
	assert.Empty(t, f.client.Merges)
}

func TestProcessSkipsUnknownPullRequestWithManualInteraction(t *testing.T) {
	f, cleanup := setupOrchestrator(t)
	defer cleanup()

	repo := model.NewRepository("owner", "name")
	repo.ManualInteraction = true
	require.NoError(t, f.store.Repository().Create(repo))

	result, err := f.orch.Process(context.Background(), "owner", "name", 2, false)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Empty(t, f.client.Statuses)
}

func TestProcessForceOverridesManualInteraction(t *testing.T) {
	f, cleanup := setupOrchestrator(t)
	defer cleanup()

	repo := model.NewRepository("owner", "name")
	repo.ManualInteraction = true
	repo.DefaultAutomerge = true
	repo.DefaultEnableChecks = false
	require.NoError(t, f.store.Repository().Create(repo))

	f.client.PullRequests[2] = &github.PullRequest{
		Number:     2,
		Title:      "Force me",
		BaseBranch: "main",
		HeadBranch: "feature",
		HeadSHA:    "def456",
		Mergeable:  true,
	}

	result, err := f.orch.Process(context.Background(), "owner", "name", 2, true)
	require.NoError(t, err)
	assert.False(t, result.Skipped)

	// The pull request was created with the repository defaults
	pr, err := f.store.PullRequest().GetByNumber(repo, 2)
	require.NoError(t, err)
	assert.True(t, pr.Automerge)
	assert.False(t, pr.ChecksEnabled)
	assert.Equal(t, model.QaStatusWaiting, pr.QaStatus)
}

func TestProcessCreatesUnknownRepository(t *testing.T) {
	f, cleanup := setupOrchestrator(t)
	defer cleanup()

	f.client.PullRequests[3] = &github.PullRequest{
		Number:     3,
		Title:      "First contact",
		BaseBranch: "main",
		HeadBranch: "feature",
		HeadSHA:    "aaa111",
		Mergeable:  true,
	}

	result, err := f.orch.Process(context.Background(), "owner", "name", 3, false)
	require.NoError(t, err)
	assert.False(t, result.Skipped)

	repo, err := f.store.Repository().GetByPath("owner", "name")
	require.NoError(t, err)
	assert.Equal(t, "owner", repo.Owner)

	_, err = f.store.PullRequest().GetByNumber(repo, 3)
	require.NoError(t, err)
}

func TestProcessSetupFailurePropagates(t *testing.T) {
	f, cleanup := setupOrchestrator(t)
	defer cleanup()
	f.client.SetupErr = errors.New(errors.ErrCodeAuthNotConfigured, "no credentials")

	_, err := f.orch.Process(context.Background(), "owner", "name", 1, false)
	assert.Error(t, err)
}
