package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prbot/prbot/internal/github"
	"github.com/prbot/prbot/internal/model"
)

// readyState returns a state that resolves to "All good". Each test case
// then flips the one field it exercises.
func readyState() *State {
	return &State{
		Owner:          "owner",
		Name:           "name",
		Number:         1,
		CheckStatus:    model.CheckStatusPass,
		QaStatus:       model.QaStatusPass,
		MergeStrategy:  model.MergeStrategyMerge,
		ReviewDecision: github.ReviewDecisionApproved,
		Mergeable:      true,
		ValidPRTitle:   true,
	}
}

func TestBuildCommitStatusLadder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*State)
		state   github.StatusState
		message string
	}{
		{
			name:    "all good",
			mutate:  func(s *State) {},
			state:   github.StatusStateSuccess,
			message: "All good",
		},
		{
			name:    "merged wins over everything",
			mutate:  func(s *State) { s.Merged = true; s.Wip = true; s.ValidPRTitle = false },
			state:   github.StatusStateSuccess,
			message: "PR merged",
		},
		{
			name:    "wip",
			mutate:  func(s *State) { s.Wip = true },
			state:   github.StatusStatePending,
			message: "PR is still in WIP",
		},
		{
			name:    "invalid title",
			mutate:  func(s *State) { s.ValidPRTitle = false },
			state:   github.StatusStateFailure,
			message: "PR title is not valid",
		},
		{
			name:    "checks failed",
			mutate:  func(s *State) { s.CheckStatus = model.CheckStatusFail },
			state:   github.StatusStateFailure,
			message: "Checks failed",
		},
		{
			name:    "checks waiting",
			mutate:  func(s *State) { s.CheckStatus = model.CheckStatusWaiting },
			state:   github.StatusStatePending,
			message: "Waiting for checks",
		},
		{
			name:    "changes requested",
			mutate:  func(s *State) { s.ReviewDecision = github.ReviewDecisionChangesRequested },
			state:   github.StatusStateFailure,
			message: "Changes required",
		},
		{
			name:    "not mergeable",
			mutate:  func(s *State) { s.Mergeable = false },
			state:   github.StatusStatePending,
			message: "PR is not mergeable yet",
		},
		{
			name:    "review required",
			mutate:  func(s *State) { s.ReviewDecision = github.ReviewDecisionReviewRequired },
			state:   github.StatusStatePending,
			message: "Waiting on reviews",
		},
		{
			name:    "qa failed",
			mutate:  func(s *State) { s.QaStatus = model.QaStatusFail },
			state:   github.StatusStateFailure,
			message: "Did not pass QA",
		},
		{
			name:    "qa waiting",
			mutate:  func(s *State) { s.QaStatus = model.QaStatusWaiting },
			state:   github.StatusStatePending,
			message: "Waiting for QA",
		},
		{
			name:    "locked",
			mutate:  func(s *State) { s.Locked = true },
			state:   github.StatusStateFailure,
			message: "PR ready to merge, but is merge locked",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			state := readyState()
			tc.mutate(state)

			msg := BuildCommitStatus(state)
			assert.Equal(t, tc.state, msg.State)
			assert.Equal(t, tc.message, msg.Message)
			assert.Equal(t, "Validation", msg.Title)
		})
	}
}

func TestBuildCommitStatusChecksBeforeReviews(t *testing.T) {
	// A check failure masks a pending review decision
	state := readyState()
	state.CheckStatus = model.CheckStatusFail
	state.ReviewDecision = github.ReviewDecisionReviewRequired

	msg := BuildCommitStatus(state)
	assert.Equal(t, "Checks failed", msg.Message)
}

func TestBuildCommitStatusSkippedChecksPass(t *testing.T) {
	state := readyState()
	state.CheckStatus = model.CheckStatusSkipped

	msg := BuildCommitStatus(state)
	assert.Equal(t, github.StatusStateSuccess, msg.State)
	assert.Equal(t, "All good", msg.Message)
}
