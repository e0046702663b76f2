package sync

import "github.com/prbot/prbot/internal/model"

// StepLabel is the phase a pull request is in, exposed as a `step/` label
type StepLabel string

const (
	StepWip             StepLabel = "wip"
	StepAwaitingChanges StepLabel = "awaiting-changes"
	StepAwaitingChecks  StepLabel = "awaiting-checks"
	StepAwaitingReview  StepLabel = "awaiting-review"
	StepAwaitingQa      StepLabel = "awaiting-qa"
	StepLocked          StepLabel = "locked"
	StepAwaitingMerge   StepLabel = "awaiting-merge"
	// StepMerged is reserved; the ladder never emits it
	StepMerged StepLabel = "merged"
)

// BuildStepLabel computes the current phase of a state. Pure.
func BuildStepLabel(state *State) StepLabel {
	if state.Wip {
		return StepWip
	}
	if !state.ValidPRTitle {
		return StepAwaitingChanges
	}

	switch state.CheckStatus {
	case model.CheckStatusPass, model.CheckStatusSkipped:
		if state.ChangesRequested() || (!state.Mergeable && !state.Merged) {
			return StepAwaitingChanges
		}
		if state.ReviewRequired() {
			return StepAwaitingReview
		}
		switch state.QaStatus {
		case model.QaStatusFail:
			return StepAwaitingChanges
		case model.QaStatusWaiting:
			return StepAwaitingQa
		}
		if state.Locked {
			return StepLocked
		}
		return StepAwaitingMerge
	case model.CheckStatusWaiting:
		return StepAwaitingChecks
	default:
		return StepAwaitingChanges
	}
}
