package sync

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/prbot/prbot/consts"
	"github.com/prbot/prbot/internal/github"
	"github.com/prbot/prbot/internal/lock"
	"github.com/prbot/prbot/internal/store"
	"github.com/prbot/prbot/pkg/errors"
	"github.com/prbot/prbot/pkg/logger"
)

// maxStatusDescriptionLen is the platform limit for commit status
// descriptions
const maxStatusDescriptionLen = 139

// ProjectCommitStatus pushes the state's commit status onto the head commit.
// Idempotent.
func ProjectCommitStatus(ctx context.Context, client github.Client, state *State) (StatusMessage, error) {
	msg := BuildCommitStatus(state)

	description := msg.Message
	if runes := []rune(description); len(runes) > maxStatusDescriptionLen {
		description = string(runes[:maxStatusDescriptionLen])
	}

	err := client.CreateCommitStatus(ctx, state.Owner, state.Name, state.HeadSHA,
		msg.State, description, msg.Title)
	if err != nil {
		return msg, err
	}
	return msg, nil
}

// ProjectStepLabel replaces the pull request's `step/` label with the one
// derived from the state, leaving all other labels untouched.
func ProjectStepLabel(ctx context.Context, client github.Client, state *State) (StepLabel, error) {
	label := BuildStepLabel(state)

	existing, err := client.ListIssueLabels(ctx, state.Owner, state.Name, state.Number)
	if err != nil {
		return label, err
	}

	labels := make([]string, 0, len(existing)+1)
	for _, name := range existing {
		if !strings.HasPrefix(name, consts.StepLabelPrefix) {
			labels = append(labels, name)
		}
	}
	labels = append(labels, consts.StepLabelPrefix+string(label))
	sort.Strings(labels)

	if err := client.ReplaceIssueLabels(ctx, state.Owner, state.Name, state.Number, labels); err != nil {
		return label, err
	}
	return label, nil
}

// ProjectSummary creates or updates the summary comment. The first creation
// is guarded by a named lock so concurrent syncs of a fresh pull request
// produce exactly one comment; when the lock is contested the projection is
// skipped and returns an empty summary.
func ProjectSummary(ctx context.Context, client github.Client, lockClient lock.Client, st store.Store, state *State) (string, error) {
	summary := BuildSummary(state)

	if state.StatusCommentID > 0 {
		err := client.UpdateIssueComment(ctx, state.Owner, state.Name, state.StatusCommentID, summary)
		if err != nil {
			return "", err
		}
		return summary, nil
	}

	lockName := fmt.Sprintf("summary.%s.%s.%d", state.Owner, state.Name, state.Number)
	release, err := lockClient.Acquire(ctx, lockName)
	if err != nil {
		if errors.IsLock(err) {
			logger.Error("Could not obtain lock to create initial summary message. Skipping.",
				zap.String("owner", state.Owner),
				zap.String("name", state.Name),
				zap.Int("number", state.Number))
			return "", nil
		}
		return "", err
	}
	defer release()

	commentID, err := client.CreateIssueComment(ctx, state.Owner, state.Name, state.Number, summary)
	if err != nil {
		return "", err
	}

	repo, err := st.Repository().GetByPath(state.Owner, state.Name)
	if err != nil {
		return "", err
	}
	pr, err := st.PullRequest().GetByNumber(repo, state.Number)
	if err != nil {
		return "", err
	}
	if err := st.PullRequest().SetStatusCommentID(pr.ID, commentID); err != nil {
		return "", err
	}
	return summary, nil
}
