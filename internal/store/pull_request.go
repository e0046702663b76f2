package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/prbot/prbot/internal/model"
	apperrors "github.com/prbot/prbot/pkg/errors"
)

// PullRequestStore defines operations for the PullRequest model.
type PullRequestStore interface {
	// CRUD operations
	Create(pr *model.PullRequest) error
	GetByID(id uint) (*model.PullRequest, error)
	GetByNumber(repo *model.Repository, number int) (*model.PullRequest, error)
	Save(pr *model.PullRequest) error
	Delete(id uint) error

	// Query operations
	ListByRepositoryID(repoID uint) ([]model.PullRequest, error)
	ListAll() ([]model.PullRequest, error)

	// Field-level setters. Sync and command execution always persist a
	// single field at a time so concurrent updates don't clobber each other.
	SetQaStatus(id uint, status model.QaStatus) error
	SetChecksEnabled(id uint, value bool) error
	SetAutomerge(id uint, value bool) error
	SetLocked(id uint, value bool) error
	SetStatusCommentID(id uint, commentID int64) error
	SetStrategyOverride(id uint, strategy *model.MergeStrategy) error
}

// pullRequestStore implements PullRequestStore using GORM.
type pullRequestStore struct {
	db *gorm.DB
}

func newPullRequestStore(db *gorm.DB) PullRequestStore {
	return &pullRequestStore{db: db}
}

func (s *pullRequestStore) Create(pr *model.PullRequest) error {
	return s.db.Create(pr).Error
}

func (s *pullRequestStore) GetByID(id uint) (*model.PullRequest, error) {
	var pr model.PullRequest
	if err := s.db.First(&pr, id).Error; err != nil {
		return nil, err
	}
	return &pr, nil
}

func (s *pullRequestStore) GetByNumber(repo *model.Repository, number int) (*model.PullRequest, error) {
	var pr model.PullRequest
	err := s.db.Where("repository_id = ? AND number = ?", repo.ID, number).First(&pr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnknownPullRequest(repo.Owner, repo.Name, number)
		}
		return nil, err
	}
	return &pr, nil
}

func (s *pullRequestStore) Save(pr *model.PullRequest) error {
	return s.db.Save(pr).Error
}

func (s *pullRequestStore) Delete(id uint) error {
	return s.db.Delete(&model.PullRequest{}, id).Error
}

func (s *pullRequestStore) ListByRepositoryID(repoID uint) ([]model.PullRequest, error) {
	var prs []model.PullRequest
	if err := s.db.Where("repository_id = ?", repoID).Order("number").Find(&prs).Error; err != nil {
		return nil, err
	}
	return prs, nil
}

func (s *pullRequestStore) ListAll() ([]model.PullRequest, error) {
	var prs []model.PullRequest
	if err := s.db.Order("repository_id, number").Find(&prs).Error; err != nil {
		return nil, err
	}
	return prs, nil
}

func (s *pullRequestStore) updateField(id uint, column string, value any) error {
	return s.db.Model(&model.PullRequest{}).Where("id = ?", id).Update(column, value).Error
}

func (s *pullRequestStore) SetQaStatus(id uint, status model.QaStatus) error {
	return s.updateField(id, "qa_status", status)
}

func (s *pullRequestStore) SetChecksEnabled(id uint, value bool) error {
	return s.updateField(id, "checks_enabled", value)
}

func (s *pullRequestStore) SetAutomerge(id uint, value bool) error {
	return s.updateField(id, "automerge", value)
}

func (s *pullRequestStore) SetLocked(id uint, value bool) error {
	return s.updateField(id, "locked", value)
}

func (s *pullRequestStore) SetStatusCommentID(id uint, commentID int64) error {
	return s.updateField(id, "status_comment_id", commentID)
}

func (s *pullRequestStore) SetStrategyOverride(id uint, strategy *model.MergeStrategy) error {
	return s.updateField(id, "strategy_override", strategy)
}
