package sync

import (
	"github.com/prbot/prbot/consts"
	"github.com/prbot/prbot/internal/github"
	"github.com/prbot/prbot/internal/model"
)

// StatusMessage is the commit status derived from a sync state
type StatusMessage struct {
	State   github.StatusState
	Title   string
	Message string
}

// BuildCommitStatus computes the commit status for a state. Pure; evaluated
// top-down, first match wins.
func BuildCommitStatus(state *State) StatusMessage {
	msg := StatusMessage{
		State:   github.StatusStateSuccess,
		Title:   consts.ValidationStatusContext,
		Message: "All good",
	}

	switch {
	case state.Merged:
		msg.State = github.StatusStateSuccess
		msg.Message = "PR merged"
	case state.Wip:
		msg.State = github.StatusStatePending
		msg.Message = "PR is still in WIP"
	case !state.ValidPRTitle:
		msg.State = github.StatusStateFailure
		msg.Message = "PR title is not valid"
	case state.CheckStatus == model.CheckStatusFail:
		msg.State = github.StatusStateFailure
		msg.Message = "Checks failed"
	case state.CheckStatus == model.CheckStatusWaiting:
		msg.State = github.StatusStatePending
		msg.Message = "Waiting for checks"
	case state.ChangesRequested():
		msg.State = github.StatusStateFailure
		msg.Message = "Changes required"
	case !state.Mergeable && !state.Merged:
		msg.State = github.StatusStatePending
		msg.Message = "PR is not mergeable yet"
	case state.ReviewRequired():
		msg.State = github.StatusStatePending
		msg.Message = "Waiting on reviews"
	case state.QaStatus == model.QaStatusFail:
		msg.State = github.StatusStateFailure
		msg.Message = "Did not pass QA"
	case state.QaStatus == model.QaStatusWaiting:
		msg.State = github.StatusStatePending
		msg.Message = "Waiting for QA"
	case state.Locked:
		msg.State = github.StatusStateFailure
		msg.Message = "PR ready to merge, but is merge locked"
	}

	return msg
}
