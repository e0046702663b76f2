package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/prbot/prbot/internal/model"
	apperrors "github.com/prbot/prbot/pkg/errors"
)

// MergeRuleStore defines operations for the MergeRule model.
type MergeRuleStore interface {
	Create(rule *model.MergeRule) error
	GetByBranches(repo *model.Repository, base, head model.RuleBranch) (*model.MergeRule, error)
	Save(rule *model.MergeRule) error
	Delete(id uint) error

	ListByRepositoryID(repoID uint) ([]model.MergeRule, error)
	ListAll() ([]model.MergeRule, error)
}

// mergeRuleStore implements MergeRuleStore using GORM.
type mergeRuleStore struct {
	db *gorm.DB
}

func newMergeRuleStore(db *gorm.DB) MergeRuleStore {
	return &mergeRuleStore{db: db}
}

func (s *mergeRuleStore) Create(rule *model.MergeRule) error {
	return s.db.Create(rule).Error
}

func (s *mergeRuleStore) GetByBranches(repo *model.Repository, base, head model.RuleBranch) (*model.MergeRule, error) {
	var rule model.MergeRule
	err := s.db.Where("repository_id = ? AND base_branch = ? AND head_branch = ?",
		repo.ID, base.String(), head.String()).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnknownMergeRule(repo.Owner, repo.Name, base.String(), head.String())
		}
		return nil, err
	}
	return &rule, nil
}

func (s *mergeRuleStore) Save(rule *model.MergeRule) error {
	return s.db.Save(rule).Error
}

func (s *mergeRuleStore) Delete(id uint) error {
	return s.db.Delete(&model.MergeRule{}, id).Error
}

func (s *mergeRuleStore) ListByRepositoryID(repoID uint) ([]model.MergeRule, error) {
	var rules []model.MergeRule
	if err := s.db.Where("repository_id = ?", repoID).Order("base_branch, head_branch").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (s *mergeRuleStore) ListAll() ([]model.MergeRule, error) {
	var rules []model.MergeRule
	if err := s.db.Order("repository_id, base_branch, head_branch").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}
