package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/prbot/prbot/internal/model"
	apperrors "github.com/prbot/prbot/pkg/errors"
)

// ExternalAccountStore defines operations for the ExternalAccount model.
type ExternalAccountStore interface {
	Create(account *model.ExternalAccount) error
	GetByUsername(username string) (*model.ExternalAccount, error)
	Save(account *model.ExternalAccount) error
	Delete(username string) error

	ListAll() ([]model.ExternalAccount, error)

	// SetKeys replaces the RSA key pair of an account
	SetKeys(username, publicKey, privateKey string) error
}

// externalAccountStore implements ExternalAccountStore using GORM.
type externalAccountStore struct {
	db *gorm.DB
}

func newExternalAccountStore(db *gorm.DB) ExternalAccountStore {
	return &externalAccountStore{db: db}
}

func (s *externalAccountStore) Create(account *model.ExternalAccount) error {
	return s.db.Create(account).Error
}

func (s *externalAccountStore) GetByUsername(username string) (*model.ExternalAccount, error) {
	var account model.ExternalAccount
	err := s.db.Where("username = ?", username).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnknownExternalAccount(username)
		}
		return nil, err
	}
	return &account, nil
}

func (s *externalAccountStore) Save(account *model.ExternalAccount) error {
	return s.db.Save(account).Error
}

func (s *externalAccountStore) Delete(username string) error {
	return s.db.Where("username = ?", username).Delete(&model.ExternalAccount{}).Error
}

func (s *externalAccountStore) ListAll() ([]model.ExternalAccount, error) {
	var accounts []model.ExternalAccount
	if err := s.db.Order("username").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *externalAccountStore) SetKeys(username, publicKey, privateKey string) error {
	return s.db.Model(&model.ExternalAccount{}).
		Where("username = ?", username).
		Updates(map[string]any{
			"public_key":  publicKey,
			"private_key": privateKey,
		}).Error
}
