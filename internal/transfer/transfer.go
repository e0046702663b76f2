package transfer

import (
	"encoding/json"
	"io"

	"go.uber.org/zap"

	"github.com/prbot/prbot/internal/model"
	"github.com/prbot/prbot/internal/store"
	"github.com/prbot/prbot/pkg/errors"
	"github.com/prbot/prbot/pkg/logger"
)

// Processor exports and imports the whole database
type Processor struct {
	store store.Store
}

// NewProcessor creates a transfer processor
func NewProcessor(st store.Store) *Processor {
	return &Processor{store: st}
}

// Export writes the full database as an indented JSON document
func (p *Processor) Export(w io.Writer) error {
	data, err := p.collect()
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(data); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to encode export data", err)
	}
	return nil
}

// Import reads a JSON document and upserts every record it holds. Existing
// records matching on natural keys are overwritten.
func (p *Processor) Import(r io.Reader) error {
	var data Data
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return errors.Wrap(errors.ErrCodeValidation, "invalid import data", err)
	}
	return p.apply(&data)
}

func (p *Processor) collect() (*Data, error) {
	data := &Data{
		Repositories:          []RepositoryRecord{},
		PullRequests:          []PullRequestRecord{},
		RepositoryRules:       []RepositoryRuleRecord{},
		MergeRules:            []MergeRuleRecord{},
		ExternalAccounts:      []ExternalAccountRecord{},
		ExternalAccountRights: []ExternalAccountRightRecord{},
	}

	repos, err := p.store.Repository().ListAll()
	if err != nil {
		return nil, err
	}
	paths := map[uint]string{}
	for _, repo := range repos {
		paths[repo.ID] = repositoryPath(&repo)
		data.Repositories = append(data.Repositories, RepositoryRecord{
			Owner:                  repo.Owner,
			Name:                   repo.Name,
			ManualInteraction:      repo.ManualInteraction,
			PRTitleValidationRegex: repo.PRTitleValidationRegex,
			DefaultStrategy:        repo.DefaultStrategy,
			DefaultAutomerge:       repo.DefaultAutomerge,
			DefaultEnableQa:        repo.DefaultEnableQa,
			DefaultEnableChecks:    repo.DefaultEnableChecks,
		})
	}

	prs, err := p.store.PullRequest().ListAll()
	if err != nil {
		return nil, err
	}
	for _, pr := range prs {
		data.PullRequests = append(data.PullRequests, PullRequestRecord{
			RepositoryPath:   paths[pr.RepositoryID],
			Number:           pr.Number,
			QaStatus:         pr.QaStatus,
			StatusCommentID:  pr.StatusCommentID,
			ChecksEnabled:    pr.ChecksEnabled,
			Automerge:        pr.Automerge,
			Locked:           pr.Locked,
			StrategyOverride: pr.StrategyOverride,
		})
	}

	rules, err := p.store.RepositoryRule().ListAll()
	if err != nil {
		return nil, err
	}
	for _, rule := range rules {
		data.RepositoryRules = append(data.RepositoryRules, RepositoryRuleRecord{
			RepositoryPath: paths[rule.RepositoryID],
			Name:           rule.Name,
			Conditions:     rule.Conditions,
			Actions:        rule.Actions,
		})
	}

	mergeRules, err := p.store.MergeRule().ListAll()
	if err != nil {
		return nil, err
	}
	for _, rule := range mergeRules {
		data.MergeRules = append(data.MergeRules, MergeRuleRecord{
			RepositoryPath: paths[rule.RepositoryID],
			BaseBranch:     model.RuleBranchFromString(rule.BaseBranch),
			HeadBranch:     model.RuleBranchFromString(rule.HeadBranch),
			Strategy:       rule.Strategy,
		})
	}

	accounts, err := p.store.ExternalAccount().ListAll()
	if err != nil {
		return nil, err
	}
	for _, account := range accounts {
		data.ExternalAccounts = append(data.ExternalAccounts, ExternalAccountRecord{
			Username:   account.Username,
			PublicKey:  account.PublicKey,
			PrivateKey: account.PrivateKey,
		})
	}

	rights, err := p.store.ExternalAccountRight().ListAll()
	if err != nil {
		return nil, err
	}
	for _, right := range rights {
		data.ExternalAccountRights = append(data.ExternalAccountRights, ExternalAccountRightRecord{
			RepositoryPath: paths[right.RepositoryID],
			Username:       right.Username,
		})
	}

	return data, nil
}

func (p *Processor) apply(data *Data) error {
	logger.Info("Importing data",
		zap.Int("repositories", len(data.Repositories)),
		zap.Int("pull_requests", len(data.PullRequests)),
		zap.Int("repository_rules", len(data.RepositoryRules)),
		zap.Int("merge_rules", len(data.MergeRules)),
		zap.Int("external_accounts", len(data.ExternalAccounts)))

	for _, record := range data.Repositories {
		if err := p.applyRepository(record); err != nil {
			return err
		}
	}
	for _, record := range data.PullRequests {
		if err := p.applyPullRequest(record); err != nil {
			return err
		}
	}
	for _, record := range data.RepositoryRules {
		if err := p.applyRepositoryRule(record); err != nil {
			return err
		}
	}
	for _, record := range data.MergeRules {
		if err := p.applyMergeRule(record); err != nil {
			return err
		}
	}
	for _, record := range data.ExternalAccounts {
		if err := p.applyExternalAccount(record); err != nil {
			return err
		}
	}
	for _, record := range data.ExternalAccountRights {
		if err := p.applyExternalAccountRight(record); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) applyRepository(record RepositoryRecord) error {
	repo, _, err := p.store.Repository().GetOrCreate(record.Owner, record.Name)
	if err != nil {
		return err
	}
	repo.ManualInteraction = record.ManualInteraction
	repo.PRTitleValidationRegex = record.PRTitleValidationRegex
	repo.DefaultStrategy = record.DefaultStrategy
	repo.DefaultAutomerge = record.DefaultAutomerge
	repo.DefaultEnableQa = record.DefaultEnableQa
	repo.DefaultEnableChecks = record.DefaultEnableChecks
	return p.store.Repository().Save(repo)
}

func (p *Processor) resolveRepository(path string) (*model.Repository, error) {
	parsed, err := model.ParseRepositoryPath(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation, "invalid repository path in import data", err)
	}
	return p.store.Repository().GetByPath(parsed.Owner, parsed.Name)
}

func (p *Processor) applyPullRequest(record PullRequestRecord) error {
	repo, err := p.resolveRepository(record.RepositoryPath)
	if err != nil {
		return err
	}

	pr, err := p.store.PullRequest().GetByNumber(repo, record.Number)
	if errors.IsNotFound(err) {
		pr = &model.PullRequest{RepositoryID: repo.ID, Number: record.Number}
		if err := p.store.PullRequest().Create(pr); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	pr.QaStatus = record.QaStatus
	pr.StatusCommentID = record.StatusCommentID
	pr.ChecksEnabled = record.ChecksEnabled
	pr.Automerge = record.Automerge
	pr.Locked = record.Locked
	pr.StrategyOverride = record.StrategyOverride
	return p.store.PullRequest().Save(pr)
}

func (p *Processor) applyRepositoryRule(record RepositoryRuleRecord) error {
	repo, err := p.resolveRepository(record.RepositoryPath)
	if err != nil {
		return err
	}

	rule, err := p.store.RepositoryRule().GetByName(repo, record.Name)
	if errors.IsNotFound(err) {
		return p.store.RepositoryRule().Create(&model.RepositoryRule{
			RepositoryID: repo.ID,
			Name:         record.Name,
			Conditions:   record.Conditions,
			Actions:      record.Actions,
		})
	} else if err != nil {
		return err
	}

	rule.Conditions = record.Conditions
	rule.Actions = record.Actions
	return p.store.RepositoryRule().Save(rule)
}

func (p *Processor) applyMergeRule(record MergeRuleRecord) error {
	repo, err := p.resolveRepository(record.RepositoryPath)
	if err != nil {
		return err
	}

	rule, err := p.store.MergeRule().GetByBranches(repo, record.BaseBranch, record.HeadBranch)
	if errors.IsNotFound(err) {
		return p.store.MergeRule().Create(&model.MergeRule{
			RepositoryID: repo.ID,
			BaseBranch:   record.BaseBranch.String(),
			HeadBranch:   record.HeadBranch.String(),
			Strategy:     record.Strategy,
		})
	} else if err != nil {
		return err
	}

	rule.Strategy = record.Strategy
	return p.store.MergeRule().Save(rule)
}

func (p *Processor) applyExternalAccount(record ExternalAccountRecord) error {
	_, err := p.store.ExternalAccount().GetByUsername(record.Username)
	if errors.IsNotFound(err) {
		return p.store.ExternalAccount().Create(&model.ExternalAccount{
			Username:   record.Username,
			PublicKey:  record.PublicKey,
			PrivateKey: record.PrivateKey,
		})
	} else if err != nil {
		return err
	}
	return p.store.ExternalAccount().SetKeys(record.Username, record.PublicKey, record.PrivateKey)
}

func (p *Processor) applyExternalAccountRight(record ExternalAccountRightRecord) error {
	repo, err := p.resolveRepository(record.RepositoryPath)
	if err != nil {
		return err
	}
	return p.store.ExternalAccountRight().Grant(repo, record.Username)
}
