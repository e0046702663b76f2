package sync

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/prbot/prbot/internal/github"
	"github.com/prbot/prbot/internal/lock"
	"github.com/prbot/prbot/internal/model"
	"github.com/prbot/prbot/internal/store"
	"github.com/prbot/prbot/pkg/errors"
	"github.com/prbot/prbot/pkg/logger"
)

// Result is the outcome of one orchestrator pass
type Result struct {
	// Skipped is true when the pull request is unknown locally and the
	// repository requires manual interaction
	Skipped bool

	State     *State
	StepLabel StepLabel
	Summary   string
}

// Orchestrator runs full synchronization passes: ensure local records,
// build the state, project it, automerge when ready.
type Orchestrator struct {
	store  store.Store
	client github.Client
	lock   lock.Client

	builder *Builder
}

// NewOrchestrator creates a sync orchestrator
func NewOrchestrator(st store.Store, client github.Client, lockClient lock.Client) *Orchestrator {
	return &Orchestrator{
		store:   st,
		client:  client,
		lock:    lockClient,
		builder: NewBuilder(st, client),
	}
}

// Process runs one synchronization pass for owner/name#number. When the
// pull request is not yet tracked, it is created with the repository's
// defaults unless manual interaction blocks it (force overrides the block).
func (o *Orchestrator) Process(ctx context.Context, owner, name string, number int, force bool) (*Result, error) {
	logger.Info("Synchronizing pull request",
		zap.String("owner", owner),
		zap.String("name", name),
		zap.Int("number", number))

	if err := o.client.SetupForRepository(ctx, owner, name); err != nil {
		return nil, err
	}

	repo, err := o.ensureRepository(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	created, err := o.ensurePullRequest(repo, number, force)
	if err != nil {
		return nil, err
	}
	if !created {
		logger.Info("Not syncing pull request because of manual interaction settings",
			zap.String("owner", owner),
			zap.String("name", name),
			zap.Int("number", number))
		return &Result{Skipped: true}, nil
	}

	state, err := o.builder.Build(ctx, owner, name, number)
	if err != nil {
		return nil, err
	}

	if _, err := ProjectCommitStatus(ctx, o.client, state); err != nil {
		return nil, err
	}

	stepLabel, err := ProjectStepLabel(ctx, o.client, state)
	if err != nil {
		return nil, err
	}

	summary, err := ProjectSummary(ctx, o.client, o.lock, o.store, state)
	if err != nil {
		return nil, err
	}

	if state.Automerge && stepLabel == StepAwaitingMerge && !state.Merged {
		o.automerge(ctx, repo, state)
	}

	return &Result{State: state, StepLabel: stepLabel, Summary: summary}, nil
}

// ensureRepository returns the tracked repository, creating it from the
// upstream metadata when unknown
func (o *Orchestrator) ensureRepository(ctx context.Context, owner, name string) (*model.Repository, error) {
	repo, err := o.store.Repository().GetByPath(owner, name)
	if err == nil {
		return repo, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	upstream, err := o.client.GetRepository(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	repo = model.NewRepository(upstream.Owner, upstream.Name)
	if err := o.store.Repository().Create(repo); err != nil {
		return nil, err
	}
	return repo, nil
}

// ensurePullRequest returns false when the pull request is unknown and
// manual interaction blocks its creation
func (o *Orchestrator) ensurePullRequest(repo *model.Repository, number int, force bool) (bool, error) {
	_, err := o.store.PullRequest().GetByNumber(repo, number)
	if err == nil {
		return true, nil
	}
	if !errors.IsNotFound(err) {
		return false, err
	}

	if repo.ManualInteraction && !force {
		return false, nil
	}

	qaStatus := model.QaStatusSkipped
	if repo.DefaultEnableQa {
		qaStatus = model.QaStatusWaiting
	}
	pr := &model.PullRequest{
		RepositoryID:  repo.ID,
		Number:        number,
		Automerge:     repo.DefaultAutomerge,
		ChecksEnabled: repo.DefaultEnableChecks,
		QaStatus:      qaStatus,
	}
	if err := o.store.PullRequest().Create(pr); err != nil {
		return false, err
	}
	return true, nil
}

// automerge merges a ready pull request under a named lock. Lock contention
// only logs; any other failure disables automerge so retries don't spin on
// a broken merge.
func (o *Orchestrator) automerge(ctx context.Context, repo *model.Repository, state *State) {
	lockName := fmt.Sprintf("automerge.%s.%s.%d", state.Owner, state.Name, state.Number)
	release, err := o.lock.Acquire(ctx, lockName)
	if err != nil {
		logger.Error("Could not obtain lock to merge pull request. Skipping.",
			zap.String("owner", state.Owner),
			zap.String("name", state.Name),
			zap.Int("number", state.Number),
			zap.Error(err))
		return
	}
	defer release()

	commitTitle := fmt.Sprintf("%s (#%d)", state.Title, state.Number)
	err = o.client.MergePullRequest(ctx, state.Owner, state.Name, state.Number, commitTitle, state.MergeStrategy)
	if err != nil {
		logger.Error("Something bad happened while merging pull request. Disabling automerge.",
			zap.String("owner", state.Owner),
			zap.String("name", state.Name),
			zap.Int("number", state.Number),
			zap.Error(err))

		if pr, prErr := o.store.PullRequest().GetByNumber(repo, state.Number); prErr == nil {
			if setErr := o.store.PullRequest().SetAutomerge(pr.ID, false); setErr != nil {
				logger.Error("Failed to disable automerge", zap.Error(setErr))
			}
		}
	}
}
