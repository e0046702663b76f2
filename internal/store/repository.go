package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/prbot/prbot/internal/model"
	apperrors "github.com/prbot/prbot/pkg/errors"
)

// RepositoryStore defines operations for the Repository model.
type RepositoryStore interface {
	// CRUD operations
	Create(repo *model.Repository) error
	GetByID(id uint) (*model.Repository, error)
	GetByPath(owner, name string) (*model.Repository, error)
	Save(repo *model.Repository) error
	Delete(id uint) error

	// GetOrCreate returns the repository at owner/name, creating it with
	// default settings when it does not exist yet. The second return value
	// reports whether a new record was created.
	GetOrCreate(owner, name string) (*model.Repository, bool, error)

	// Query operations
	ListAll() ([]model.Repository, error)
	CountAll() (int64, error)

	// Field-level setters used by the admin CLI
	SetManualInteraction(id uint, value bool) error
	SetTitleValidationRegex(id uint, pattern string) error
	SetDefaultStrategy(id uint, strategy model.MergeStrategy) error
	SetDefaultAutomerge(id uint, value bool) error
	SetDefaultEnableQa(id uint, value bool) error
	SetDefaultEnableChecks(id uint, value bool) error
}

// repositoryStore implements RepositoryStore using GORM.
type repositoryStore struct {
	db *gorm.DB
}

func newRepositoryStore(db *gorm.DB) RepositoryStore {
	return &repositoryStore{db: db}
}

func (s *repositoryStore) Create(repo *model.Repository) error {
	return s.db.Create(repo).Error
}

func (s *repositoryStore) GetByID(id uint) (*model.Repository, error) {
	var repo model.Repository
	if err := s.db.First(&repo, id).Error; err != nil {
		return nil, err
	}
	return &repo, nil
}

func (s *repositoryStore) GetByPath(owner, name string) (*model.Repository, error) {
	var repo model.Repository
	err := s.db.Where("owner = ? AND name = ?", owner, name).First(&repo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnknownRepository(owner, name)
		}
		return nil, err
	}
	return &repo, nil
}

func (s *repositoryStore) GetOrCreate(owner, name string) (*model.Repository, bool, error) {
	repo, err := s.GetByPath(owner, name)
	if err == nil {
		return repo, false, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, false, err
	}

	repo = model.NewRepository(owner, name)
	if err := s.db.Create(repo).Error; err != nil {
		return nil, false, err
	}
	return repo, true, nil
}

func (s *repositoryStore) Save(repo *model.Repository) error {
	return s.db.Save(repo).Error
}

func (s *repositoryStore) Delete(id uint) error {
	return s.db.Delete(&model.Repository{}, id).Error
}

func (s *repositoryStore) ListAll() ([]model.Repository, error) {
	var repos []model.Repository
	if err := s.db.Order("owner, name").Find(&repos).Error; err != nil {
		return nil, err
	}
	return repos, nil
}

func (s *repositoryStore) CountAll() (int64, error) {
	var count int64
	err := s.db.Model(&model.Repository{}).Count(&count).Error
	return count, err
}

func (s *repositoryStore) updateField(id uint, column string, value any) error {
	return s.db.Model(&model.Repository{}).Where("id = ?", id).Update(column, value).Error
}

func (s *repositoryStore) SetManualInteraction(id uint, value bool) error {
	return s.updateField(id, "manual_interaction", value)
}

func (s *repositoryStore) SetTitleValidationRegex(id uint, pattern string) error {
	return s.updateField(id, "pr_title_validation_regex", pattern)
}

func (s *repositoryStore) SetDefaultStrategy(id uint, strategy model.MergeStrategy) error {
	return s.updateField(id, "default_strategy", strategy)
}

func (s *repositoryStore) SetDefaultAutomerge(id uint, value bool) error {
	return s.updateField(id, "default_automerge", value)
}

func (s *repositoryStore) SetDefaultEnableQa(id uint, value bool) error {
	return s.updateField(id, "default_enable_qa", value)
}

func (s *repositoryStore) SetDefaultEnableChecks(id uint, value bool) error {
	return s.updateField(id, "default_enable_checks", value)
}
