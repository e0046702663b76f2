package events

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/prbot/prbot/internal/commands"
	"github.com/prbot/prbot/internal/gif"
	"github.com/prbot/prbot/internal/github"
	"github.com/prbot/prbot/internal/store"
	"github.com/prbot/prbot/pkg/errors"
	"github.com/prbot/prbot/pkg/logger"
)

// Dispatcher decodes webhook payloads and drives the sync engine and the
// command processor
type Dispatcher struct {
	store  store.Store
	client github.Client
	gif    gif.Client
	syncer commands.Syncer

	commands *commands.Processor
}

// NewDispatcher creates an event dispatcher
func NewDispatcher(st store.Store, client github.Client, gifClient gif.Client, syncer commands.Syncer, botName string) *Dispatcher {
	return &Dispatcher{
		store:    st,
		client:   client,
		gif:      gifClient,
		syncer:   syncer,
		commands: &commands.Processor{BotName: botName},
	}
}

// Dispatch decodes and processes one webhook event
func (d *Dispatcher) Dispatch(ctx context.Context, eventType Type, body []byte) error {
	switch eventType {
	case TypePing:
		return d.handlePing(body)
	case TypePullRequest:
		return d.handlePullRequest(ctx, body)
	case TypeCheckSuite:
		return d.handleCheckSuite(ctx, body)
	case TypeIssueComment:
		return d.handleIssueComment(ctx, body)
	case TypePullRequestReview:
		return d.handleReview(ctx, body)
	default:
		return errors.New(errors.ErrCodeUnsupportedEvent, "unsupported event type "+string(eventType))
	}
}

func (d *Dispatcher) handlePing(body []byte) error {
	var event PingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return errors.Wrap(errors.ErrCodeValidation, "invalid ping payload", err)
	}
	logger.Info("Processing ping event",
		zap.Int64("hook_id", event.HookID),
		zap.String("zen", event.Zen))
	return nil
}

func (d *Dispatcher) handlePullRequest(ctx context.Context, body []byte) error {
	var event PullRequestEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return errors.Wrap(errors.ErrCodeValidation, "invalid pull request payload", err)
	}
	logger.Info("Processing pull request event",
		zap.String("action", event.Action),
		zap.String("owner", event.Repository.Owner.Login),
		zap.String("name", event.Repository.Name),
		zap.Int("number", event.PullRequest.Number))

	switch event.Action {
	case actionAssigned, actionUnassigned, actionLabeled, actionUnlabeled:
		return nil
	}

	_, err := d.syncer.Process(ctx,
		event.Repository.Owner.Login, event.Repository.Name,
		event.PullRequest.Number, event.Action == actionOpened)
	return err
}

func (d *Dispatcher) handleCheckSuite(ctx context.Context, body []byte) error {
	var event CheckSuiteEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return errors.Wrap(errors.ErrCodeValidation, "invalid check suite payload", err)
	}
	logger.Info("Processing check suite event",
		zap.String("action", event.Action),
		zap.String("owner", event.Repository.Owner.Login),
		zap.String("name", event.Repository.Name),
		zap.Int("pull_requests", len(event.CheckSuite.PullRequests)))

	for _, pr := range event.CheckSuite.PullRequests {
		_, err := d.syncer.Process(ctx,
			event.Repository.Owner.Login, event.Repository.Name, pr.Number, false)
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) handleIssueComment(ctx context.Context, body []byte) error {
	var event IssueCommentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return errors.Wrap(errors.ErrCodeValidation, "invalid issue comment payload", err)
	}
	logger.Info("Processing issue comment event",
		zap.String("action", event.Action),
		zap.String("owner", event.Repository.Owner.Login),
		zap.String("name", event.Repository.Name),
		zap.Int("number", event.Issue.Number),
		zap.String("author", event.Comment.User.Login))

	if err := d.client.SetupForRepository(ctx, event.Repository.Owner.Login, event.Repository.Name); err != nil {
		return err
	}

	// Each comment line can hold one command; a single sync pass covers
	// them all at the end.
	needsSync := false
	for _, line := range strings.Split(event.Comment.Body, "\n") {
		line = strings.TrimSuffix(line, "\r")
		env := &commands.Env{
			Store:     d.store,
			Client:    d.client,
			Gif:       d.gif,
			Syncer:    d.syncer,
			Owner:     event.Repository.Owner.Login,
			Name:      event.Repository.Name,
			Number:    event.Issue.Number,
			Author:    event.Comment.User.Login,
			Raw:       line,
			CommentID: event.Comment.ID,
		}
		output, err := d.commands.Process(ctx, env, line)
		if err != nil {
			return err
		}
		if output.NeedsSync {
			needsSync = true
		}
	}

	if needsSync {
		_, err := d.syncer.Process(ctx,
			event.Repository.Owner.Login, event.Repository.Name, event.Issue.Number, false)
		return err
	}
	return nil
}

func (d *Dispatcher) handleReview(ctx context.Context, body []byte) error {
	var event ReviewEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return errors.Wrap(errors.ErrCodeValidation, "invalid review payload", err)
	}
	logger.Info("Processing review event",
		zap.String("action", event.Action),
		zap.String("owner", event.Repository.Owner.Login),
		zap.String("name", event.Repository.Name),
		zap.Int("number", event.PullRequest.Number))

	_, err := d.syncer.Process(ctx,
		event.Repository.Owner.Login, event.Repository.Name,
		event.PullRequest.Number, false)
	return err
}
