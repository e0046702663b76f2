// Package events decodes platform webhook payloads and routes them to the
// sync engine and the command processor.
package events

import (
	"github.com/prbot/prbot/pkg/errors"
)

// Type is a supported webhook event type
type Type string

const (
	TypePing              Type = "ping"
	TypeCheckSuite        Type = "check_suite"
	TypeIssueComment      Type = "issue_comment"
	TypePullRequest       Type = "pull_request"
	TypePullRequestReview Type = "pull_request_review"
)

// ParseType validates an event type header value
func ParseType(value string) (Type, error) {
	switch Type(value) {
	case TypePing, TypeCheckSuite, TypeIssueComment, TypePullRequest, TypePullRequestReview:
		return Type(value), nil
	default:
		return "", errors.New(errors.ErrCodeUnsupportedEvent, "unsupported event type "+value)
	}
}

// Pull request actions that change nothing the bot projects; syncing on
// them would fight the bot's own label updates
const (
	actionAssigned   = "assigned"
	actionUnassigned = "unassigned"
	actionLabeled    = "labeled"
	actionUnlabeled  = "unlabeled"
	actionOpened     = "opened"
)

// Account is the webhook form of a user or organization
type Account struct {
	Login string `json:"login"`
}

// Repository is the webhook form of a repository
type Repository struct {
	Name  string  `json:"name"`
	Owner Account `json:"owner"`
}

// PullRequest is the webhook form of a pull request
type PullRequest struct {
	Number int `json:"number"`
}

// Issue is the webhook form of an issue, which covers pull requests in
// comment events
type Issue struct {
	Number int `json:"number"`
}

// Comment is the webhook form of an issue comment
type Comment struct {
	ID   int64   `json:"id"`
	User Account `json:"user"`
	Body string  `json:"body"`
}

// PingEvent is sent once when a webhook is registered
type PingEvent struct {
	Zen    string `json:"zen"`
	HookID int64  `json:"hook_id"`
}

// PullRequestEvent notifies a pull request lifecycle change
type PullRequestEvent struct {
	Action      string      `json:"action"`
	Repository  Repository  `json:"repository"`
	PullRequest PullRequest `json:"pull_request"`
}

// CheckSuiteEvent notifies a check suite completion or request
type CheckSuiteEvent struct {
	Action     string     `json:"action"`
	Repository Repository `json:"repository"`
	CheckSuite struct {
		PullRequests []PullRequest `json:"pull_requests"`
	} `json:"check_suite"`
}

// IssueCommentEvent notifies a created, edited or deleted comment
type IssueCommentEvent struct {
	Action     string     `json:"action"`
	Repository Repository `json:"repository"`
	Issue      Issue      `json:"issue"`
	Comment    Comment    `json:"comment"`
}

// ReviewEvent notifies a submitted, edited or dismissed review
type ReviewEvent struct {
	Action      string      `json:"action"`
	Repository  Repository  `json:"repository"`
	PullRequest PullRequest `json:"pull_request"`
}
