// Package store provides data access layer interfaces and implementations.
// This package abstracts database operations to improve maintainability
// and decouple business logic from specific database implementations.
package store

import "gorm.io/gorm"

// Store aggregates all data store interfaces.
// It provides a single point of access for all database operations.
type Store interface {
	Repository() RepositoryStore
	PullRequest() PullRequestStore
	MergeRule() MergeRuleStore
	RepositoryRule() RepositoryRuleStore
	ExternalAccount() ExternalAccountStore
	ExternalAccountRight() ExternalAccountRightStore

	// DB returns the underlying database connection for advanced operations.
	// Use sparingly - prefer using specific store methods.
	DB() *gorm.DB

	// Transaction executes operations within a database transaction.
	Transaction(fn func(Store) error) error
}

// gormStore implements Store interface using GORM.
type gormStore struct {
	db           *gorm.DB
	repoStore    RepositoryStore
	prStore      PullRequestStore
	mergeStore   MergeRuleStore
	ruleStore    RepositoryRuleStore
	accountStore ExternalAccountStore
	rightStore   ExternalAccountRightStore
}

// NewStore creates a new Store instance with GORM backend.
func NewStore(db *gorm.DB) Store {
	return &gormStore{
		db:           db,
		repoStore:    newRepositoryStore(db),
		prStore:      newPullRequestStore(db),
		mergeStore:   newMergeRuleStore(db),
		ruleStore:    newRepositoryRuleStore(db),
		accountStore: newExternalAccountStore(db),
		rightStore:   newExternalAccountRightStore(db),
	}
}

func (s *gormStore) Repository() RepositoryStore {
	return s.repoStore
}

func (s *gormStore) PullRequest() PullRequestStore {
	return s.prStore
}

func (s *gormStore) MergeRule() MergeRuleStore {
	return s.mergeStore
}

func (s *gormStore) RepositoryRule() RepositoryRuleStore {
	return s.ruleStore
}

func (s *gormStore) ExternalAccount() ExternalAccountStore {
	return s.accountStore
}

func (s *gormStore) ExternalAccountRight() ExternalAccountRightStore {
	return s.rightStore
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) Transaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
