package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/prbot/prbot/internal/model"
	apperrors "github.com/prbot/prbot/pkg/errors"
)

// RepositoryRuleStore defines operations for the RepositoryRule model.
type RepositoryRuleStore interface {
	Create(rule *model.RepositoryRule) error
	GetByName(repo *model.Repository, name string) (*model.RepositoryRule, error)
	Save(rule *model.RepositoryRule) error
	Delete(id uint) error

	ListByRepositoryID(repoID uint) ([]model.RepositoryRule, error)
	ListAll() ([]model.RepositoryRule, error)
}

// repositoryRuleStore implements RepositoryRuleStore using GORM.
type repositoryRuleStore struct {
	db *gorm.DB
}

func newRepositoryRuleStore(db *gorm.DB) RepositoryRuleStore {
	return &repositoryRuleStore{db: db}
}

func (s *repositoryRuleStore) Create(rule *model.RepositoryRule) error {
	return s.db.Create(rule).Error
}

func (s *repositoryRuleStore) GetByName(repo *model.Repository, name string) (*model.RepositoryRule, error) {
	var rule model.RepositoryRule
	err := s.db.Where("repository_id = ? AND name = ?", repo.ID, name).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnknownRepositoryRule(repo.Owner, repo.Name, name)
		}
		return nil, err
	}
	return &rule, nil
}

func (s *repositoryRuleStore) Save(rule *model.RepositoryRule) error {
	return s.db.Save(rule).Error
}

func (s *repositoryRuleStore) Delete(id uint) error {
	return s.db.Delete(&model.RepositoryRule{}, id).Error
}

func (s *repositoryRuleStore) ListByRepositoryID(repoID uint) ([]model.RepositoryRule, error) {
	var rules []model.RepositoryRule
	if err := s.db.Where("repository_id = ?", repoID).Order("name").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (s *repositoryRuleStore) ListAll() ([]model.RepositoryRule, error) {
	var rules []model.RepositoryRule
	if err := s.db.Order("repository_id, name").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}
