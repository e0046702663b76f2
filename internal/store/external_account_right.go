package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/prbot/prbot/internal/model"
	apperrors "github.com/prbot/prbot/pkg/errors"
)

// ExternalAccountRightStore defines operations for the ExternalAccountRight model.
type ExternalAccountRightStore interface {
	// Grant gives an account access to a repository. Granting an already
	// granted right is a no-op.
	Grant(repo *model.Repository, username string) error
	// Revoke removes an account's access to a repository
	Revoke(repo *model.Repository, username string) error

	Get(repo *model.Repository, username string) (*model.ExternalAccountRight, error)
	HasRight(repoID uint, username string) (bool, error)

	ListByUsername(username string) ([]model.ExternalAccountRight, error)
	ListByRepositoryID(repoID uint) ([]model.ExternalAccountRight, error)
	ListAll() ([]model.ExternalAccountRight, error)
}

// externalAccountRightStore implements ExternalAccountRightStore using GORM.
type externalAccountRightStore struct {
	db *gorm.DB
}

func newExternalAccountRightStore(db *gorm.DB) ExternalAccountRightStore {
	return &externalAccountRightStore{db: db}
}

func (s *externalAccountRightStore) Grant(repo *model.Repository, username string) error {
	existing, err := s.HasRight(repo.ID, username)
	if err != nil {
		return err
	}
	if existing {
		return nil
	}
	right := &model.ExternalAccountRight{
		RepositoryID: repo.ID,
		Username:     username,
	}
	return s.db.Create(right).Error
}

func (s *externalAccountRightStore) Revoke(repo *model.Repository, username string) error {
	return s.db.Where("repository_id = ? AND username = ?", repo.ID, username).
		Delete(&model.ExternalAccountRight{}).Error
}

func (s *externalAccountRightStore) Get(repo *model.Repository, username string) (*model.ExternalAccountRight, error) {
	var right model.ExternalAccountRight
	err := s.db.Where("repository_id = ? AND username = ?", repo.ID, username).First(&right).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnknownExternalAccountRight(repo.Owner, repo.Name, username)
		}
		return nil, err
	}
	return &right, nil
}

func (s *externalAccountRightStore) HasRight(repoID uint, username string) (bool, error) {
	var count int64
	err := s.db.Model(&model.ExternalAccountRight{}).
		Where("repository_id = ? AND username = ?", repoID, username).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *externalAccountRightStore) ListByUsername(username string) ([]model.ExternalAccountRight, error) {
	var rights []model.ExternalAccountRight
	if err := s.db.Where("username = ?", username).Order("repository_id").Find(&rights).Error; err != nil {
		return nil, err
	}
	return rights, nil
}

func (s *externalAccountRightStore) ListByRepositoryID(repoID uint) ([]model.ExternalAccountRight, error) {
	var rights []model.ExternalAccountRight
	if err := s.db.Where("repository_id = ?", repoID).Order("username").Find(&rights).Error; err != nil {
		return nil, err
	}
	return rights, nil
}

func (s *externalAccountRightStore) ListAll() ([]model.ExternalAccountRight, error) {
	var rights []model.ExternalAccountRight
	if err := s.db.Order("repository_id, username").Find(&rights).Error; err != nil {
		return nil, err
	}
	return rights, nil
}
