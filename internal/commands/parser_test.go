package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prbot/prbot/internal/model"
	"github.com/prbot/prbot/pkg/errors"
)

func parseErrMessage(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok, "expected an AppError, got %v", err)
	assert.Equal(t, errors.ErrCodeCommandParse, appErr.Code)
	return appErr.Message
}

func TestParseIgnoresUnaddressedLines(t *testing.T) {
	for _, line := range []string{
		"",
		"hello",
		"bot",
		"otherbot ping",
		"Just a regular comment mentioning bot somewhere",
	} {
		command, err := Parse("bot", line)
		assert.NoError(t, err, "line %q", line)
		assert.Nil(t, command, "line %q", line)
	}
}

func TestParseCommands(t *testing.T) {
	squash := model.MergeStrategySquash

	tests := []struct {
		line    string
		command Command
	}{
		{"bot qa+", SetQa{Status: model.QaStatusPass}},
		{"bot qa-", SetQa{Status: model.QaStatusFail}},
		{"bot qa?", SetQa{Status: model.QaStatusWaiting}},
		{"bot noqa+", SetQa{Status: model.QaStatusSkipped}},
		{"bot nochecks+", SetChecksEnabled{Enabled: false}},
		{"bot nochecks-", SetChecksEnabled{Enabled: true}},
		{"bot automerge+", SetAutomerge{Enabled: true}},
		{"bot automerge-", SetAutomerge{Enabled: false}},
		{"bot lock+", SetLocked{Locked: true}},
		{"bot lock+ waiting for the release", SetLocked{Locked: true, Comment: "waiting for the release"}},
		{"bot lock-", SetLocked{Locked: false}},
		{"bot r+ alice bob", AssignReviewers{Reviewers: []string{"alice", "bob"}}},
		{"bot r- alice", UnassignReviewers{Reviewers: []string{"alice"}}},
		{"bot strategy+ squash", SetStrategy{Strategy: &squash}},
		{"bot strategy?", SetStrategy{}},
		{"bot merge", Merge{}},
		{"bot merge squash", Merge{Strategy: &squash}},
		{"bot labels+ bug urgent", AssignLabels{Labels: []string{"bug", "urgent"}}},
		{"bot labels- bug", UnassignLabels{Labels: []string{"bug"}}},
		{"bot ping", Ping{}},
		{"bot gif dancing cat", Gif{Search: "dancing cat"}},
		{"bot sync", Sync{}},
	}

	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			command, err := Parse("bot", tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.command, command)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		line    string
		message string
	}{
		{"bot qa+ extra", "Unexpected arguments for command"},
		{"bot noqa+ extra", "Unexpected arguments for command"},
		{"bot nochecks+ extra", "Unexpected arguments for command"},
		{"bot automerge+ extra", "Unexpected arguments for command"},
		{"bot r+", "Missing reviewers to set"},
		{"bot r-", "Missing reviewers to unset"},
		{"bot strategy+", "Missing strategy name"},
		{"bot strategy+ squash extra", "Unexpected arguments for command"},
		{"bot strategy+ yolo", "Invalid merge strategy: yolo"},
		{"bot strategy? extra", "Unexpected arguments for command"},
		{"bot merge squash extra", "Unexpected arguments for command"},
		{"bot merge yolo", "Invalid merge strategy: yolo"},
		{"bot labels+", "Missing labels to set"},
		{"bot labels-", "Missing labels to unset"},
		{"bot ping now", "Unexpected arguments for command"},
		{"bot gif", "Missing GIF query"},
		{"bot sync now", "Unexpected arguments for command"},
		{"bot frobnicate", `Unknown command "frobnicate"`},
	}

	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			command, err := Parse("bot", tc.line)
			assert.Nil(t, command)
			require.Error(t, err)
			assert.Equal(t, tc.message, parseErrMessage(t, err))
		})
	}
}
