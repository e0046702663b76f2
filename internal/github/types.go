// Package github implements the platform client used to observe and mutate
// pull requests: REST through go-github, review decisions through GraphQL,
// with a three-state authentication upgrader and bounded retries.
package github

import "time"

// PullRequest is the upstream snapshot of a pull request
type PullRequest struct {
	Number      int
	Title       string
	AuthorLogin string
	BaseBranch  string
	HeadBranch  string
	HeadSHA     string
	Draft       bool
	Merged      bool
	Mergeable   bool
}

// Repository is the upstream snapshot of a repository
type Repository struct {
	Owner string
	Name  string
}

// CheckRun is a single upstream check run. Conclusion is nil while the run
// has not concluded yet.
type CheckRun struct {
	Name       string
	StartedAt  time.Time
	Conclusion *string
}

// Check run conclusion values that advance the aggregate. Everything else
// (neutral, skipped, stale, cancelled, action_required, timed_out,
// startup_failure) is deliberately ignored.
const (
	ConclusionSuccess = "success"
	ConclusionFailure = "failure"
)

// ReviewDecision is the repository-level review verdict of a pull request.
// The empty value means the repository requires no reviews.
type ReviewDecision string

const (
	ReviewDecisionNone             ReviewDecision = ""
	ReviewDecisionApproved         ReviewDecision = "APPROVED"
	ReviewDecisionChangesRequested ReviewDecision = "CHANGES_REQUESTED"
	ReviewDecisionReviewRequired   ReviewDecision = "REVIEW_REQUIRED"
)

// ReactionType is an issue comment reaction
type ReactionType string

const (
	ReactionEyes     ReactionType = "eyes"
	ReactionPlusOne  ReactionType = "+1"
	ReactionConfused ReactionType = "confused"
)

// StatusState is a commit status state
type StatusState string

const (
	StatusStateSuccess StatusState = "success"
	StatusStatePending StatusState = "pending"
	StatusStateFailure StatusState = "failure"
	StatusStateError   StatusState = "error"
)

// Name returns the capitalized display form used in summary comments
func (s StatusState) Name() string {
	switch s {
	case StatusStateSuccess:
		return "Success"
	case StatusStatePending:
		return "Pending"
	case StatusStateFailure:
		return "Failure"
	case StatusStateError:
		return "Error"
	default:
		return string(s)
	}
}
