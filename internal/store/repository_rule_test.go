package store

import (
	"testing"

	"github.com/prbot/prbot/internal/model"
	apperrors "github.com/prbot/prbot/pkg/errors"
)

// TestRepositoryRuleStore_CreateAndGet tests rule persistence round-trip
// including the JSON-encoded condition and action lists.
func TestRepositoryRuleStore_CreateAndGet(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	repo := createTestRepo(t, store)

	rule := &model.RepositoryRule{
		RepositoryID: repo.ID,
		Name:         "bot-prs",
		Conditions: model.RuleConditionList{
			model.AuthorCondition("dependabot"),
			model.BaseBranchCondition(model.NamedBranch("main")),
		},
		Actions: model.RuleActionList{
			model.SetAutomergeAction(true),
			model.SetQaStatusAction(model.QaStatusSkipped),
		},
	}
	if err := store.RepositoryRule().Create(rule); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	retrieved, err := store.RepositoryRule().GetByName(repo, "bot-prs")
	if err != nil {
		t.Fatalf("GetByName() failed: %v", err)
	}
	if len(retrieved.Conditions) != 2 {
		t.Fatalf("Expected 2 conditions, got %d", len(retrieved.Conditions))
	}
	if retrieved.Conditions[0].Type != model.RuleConditionAuthor {
		t.Errorf("Expected author condition, got '%s'", retrieved.Conditions[0].Type)
	}
	if retrieved.Conditions[0].Author != "dependabot" {
		t.Errorf("Expected author 'dependabot', got '%s'", retrieved.Conditions[0].Author)
	}
	if len(retrieved.Actions) != 2 {
		t.Fatalf("Expected 2 actions, got %d", len(retrieved.Actions))
	}
	if retrieved.Actions[1].QaValue != model.QaStatusSkipped {
		t.Errorf("Expected QA action 'skipped', got '%s'", retrieved.Actions[1].QaValue)
	}
}

// TestRepositoryRuleStore_GetByName_NotFound tests the not found error
func TestRepositoryRuleStore_GetByName_NotFound(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	repo := createTestRepo(t, store)

	_, err := store.RepositoryRule().GetByName(repo, "missing")
	if err == nil {
		t.Fatal("GetByName() should return error for unknown rule")
	}
	if !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

// TestRepositoryRuleStore_ListByRepositoryID tests per-repository listing
func TestRepositoryRuleStore_ListByRepositoryID(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	repo := createTestRepo(t, store)

	store.RepositoryRule().Create(&model.RepositoryRule{
		RepositoryID: repo.ID,
		Name:         "zeta",
		Conditions:   model.RuleConditionList{},
		Actions:      model.RuleActionList{},
	})
	store.RepositoryRule().Create(&model.RepositoryRule{
		RepositoryID: repo.ID,
		Name:         "alpha",
		Conditions:   model.RuleConditionList{},
		Actions:      model.RuleActionList{},
	})

	rules, err := store.RepositoryRule().ListByRepositoryID(repo.ID)
	if err != nil {
		t.Fatalf("ListByRepositoryID() failed: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("Expected 2 rules, got %d", len(rules))
	}
	if rules[0].Name != "alpha" {
		t.Errorf("Rules should be ordered by name, got '%s' first", rules[0].Name)
	}
}
