package sync

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prbot/prbot/internal/github"
	"github.com/prbot/prbot/internal/github/githubtest"
	"github.com/prbot/prbot/internal/lock/locktest"
	"github.com/prbot/prbot/internal/store"
)

func TestProjectCommitStatus(t *testing.T) {
	client := githubtest.NewFakeClient()
	state := readyState()
	state.HeadSHA = "abc123"

	msg, err := ProjectCommitStatus(context.Background(), client, state)
	require.NoError(t, err)
	assert.Equal(t, github.StatusStateSuccess, msg.State)

	require.Len(t, client.Statuses, 1)
	assert.Equal(t, "abc123", client.Statuses[0].SHA)
	assert.Equal(t, github.StatusStateSuccess, client.Statuses[0].State)
	assert.Equal(t, "All good", client.Statuses[0].Description)
	assert.Equal(t, "Validation", client.Statuses[0].Context)
}

func TestProjectCommitStatusTruncatesDescription(t *testing.T) {
	client := githubtest.NewFakeClient()
	state := readyState()
	state.HeadSHA = "abc123"
	state.TitleRegex = strings.Repeat("x", 200)
	state.ValidPRTitle = false

	_, err := ProjectCommitStatus(context.Background(), client, state)
	require.NoError(t, err)

	require.Len(t, client.Statuses, 1)
	assert.LessOrEqual(t, len([]rune(client.Statuses[0].Description)), 139)
}

func TestProjectStepLabelReplacesPreviousStep(t *testing.T) {
	client := githubtest.NewFakeClient()
	client.Labels = []string{"step/awaiting-review", "bug", "zebra"}

	state := readyState()
	label, err := ProjectStepLabel(context.Background(), client, state)
	require.NoError(t, err)
	assert.Equal(t, StepAwaitingMerge, label)

	require.Len(t, client.ReplacedLabels, 1)
	// Non-step labels survive, result is sorted
	assert.Equal(t, []string{"bug", "step/awaiting-merge", "zebra"}, client.ReplacedLabels[0])
}

func TestProjectSummaryCreatesCommentOnce(t *testing.T) {
	s, cleanup := store.SetupTestDB(t)
	defer cleanup()
	repo, pr := setupRepoAndPR(t, s)

	client := githubtest.NewFakeClient()
	locks := locktest.NewFakeClient()

	state := readyState()
	summary, err := ProjectSummary(context.Background(), client, locks, s, state)
	require.NoError(t, err)
	assert.NotEmpty(t, summary)
	require.Len(t, client.CreatedComments, 1)
	assert.Equal(t, []string{"summary.owner.name.1"}, locks.Acquired)

	updated, err := s.PullRequest().GetByNumber(repo, pr.Number)
	require.NoError(t, err)
	assert.Equal(t, client.CreatedComments[0].ID, updated.StatusCommentID)
}

func TestProjectSummaryUpdatesExistingComment(t *testing.T) {
	s, cleanup := store.SetupTestDB(t)
	defer cleanup()

	client := githubtest.NewFakeClient()
	locks := locktest.NewFakeClient()

	state := readyState()
	state.StatusCommentID = 42

	summary, err := ProjectSummary(context.Background(), client, locks, s, state)
	require.NoError(t, err)
	assert.NotEmpty(t, summary)
	assert.Empty(t, client.CreatedComments)
	require.Len(t, client.UpdatedComments, 1)
	assert.Equal(t, int64(42), client.UpdatedComments[0].ID)
	// No lock needed when the comment already exists
	assert.Empty(t, locks.Acquired)
}

func TestProjectSummarySkipsOnContestedLock(t *testing.T) {
	s, cleanup := store.SetupTestDB(t)
	defer cleanup()
	setupRepoAndPR(t, s)

	client := githubtest.NewFakeClient()
	locks := locktest.NewFakeClient()
	locks.Hold("summary.owner.name.1")

	state := readyState()
	summary, err := ProjectSummary(context.Background(), client, locks, s, state)
	require.NoError(t, err)
	assert.Empty(t, summary)
	assert.Empty(t, client.CreatedComments)
}
