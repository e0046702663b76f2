package store

import (
	"testing"

	"github.com/prbot/prbot/internal/model"
	apperrors "github.com/prbot/prbot/pkg/errors"
)

// TestMergeRuleStore_CreateAndGet tests creating and retrieving merge rules
func TestMergeRuleStore_CreateAndGet(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	repo := createTestRepo(t, store)

	rule := &model.MergeRule{
		RepositoryID: repo.ID,
		BaseBranch:   "main",
		HeadBranch:   "*",
		Strategy:     model.MergeStrategySquash,
	}
	if err := store.MergeRule().Create(rule); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	retrieved, err := store.MergeRule().GetByBranches(repo, model.NamedBranch("main"), model.WildcardBranch())
	if err != nil {
		t.Fatalf("GetByBranches() failed: %v", err)
	}
	if retrieved.Strategy != model.MergeStrategySquash {
		t.Errorf("Expected strategy 'squash', got '%s'", retrieved.Strategy)
	}
}

// TestMergeRuleStore_GetByBranches_NotFound tests the not found error
func TestMergeRuleStore_GetByBranches_NotFound(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	repo := createTestRepo(t, store)

	_, err := store.MergeRule().GetByBranches(repo, model.NamedBranch("main"), model.NamedBranch("dev"))
	if err == nil {
		t.Fatal("GetByBranches() should return error for unknown merge rule")
	}
	if !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

// TestMergeRuleStore_ListByRepositoryID tests per-repository listing
func TestMergeRuleStore_ListByRepositoryID(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	repo := createTestRepo(t, store)

	store.MergeRule().Create(&model.MergeRule{
		RepositoryID: repo.ID, BaseBranch: "main", HeadBranch: "*", Strategy: model.MergeStrategyMerge,
	})
	store.MergeRule().Create(&model.MergeRule{
		RepositoryID: repo.ID, BaseBranch: "develop", HeadBranch: "*", Strategy: model.MergeStrategyRebase,
	})

	rules, err := store.MergeRule().ListByRepositoryID(repo.ID)
	if err != nil {
		t.Fatalf("ListByRepositoryID() failed: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("Expected 2 merge rules, got %d", len(rules))
	}
	if rules[0].BaseBranch != "develop" {
		t.Errorf("Rules should be ordered by base branch, got '%s' first", rules[0].BaseBranch)
	}
}

// TestMergeRuleStore_Delete tests deleting a merge rule
func TestMergeRuleStore_Delete(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	repo := createTestRepo(t, store)
	rule := &model.MergeRule{
		RepositoryID: repo.ID, BaseBranch: "main", HeadBranch: "*", Strategy: model.MergeStrategyMerge,
	}
	store.MergeRule().Create(rule)

	if err := store.MergeRule().Delete(rule.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	_, err := store.MergeRule().GetByBranches(repo, model.NamedBranch("main"), model.WildcardBranch())
	if !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found after delete, got %v", err)
	}
}
