package store

import (
	"testing"

	"github.com/prbot/prbot/internal/model"
	apperrors "github.com/prbot/prbot/pkg/errors"
)

// TestRepositoryStore_Create tests creating a repository
func TestRepositoryStore_Create(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	repo := model.NewRepository("owner", "name")
	if err := store.Repository().Create(repo); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	retrieved, err := store.Repository().GetByPath("owner", "name")
	if err != nil {
		t.Fatalf("GetByPath() failed: %v", err)
	}

	if retrieved.Owner != "owner" || retrieved.Name != "name" {
		t.Errorf("Expected owner/name, got %s/%s", retrieved.Owner, retrieved.Name)
	}
	if retrieved.DefaultStrategy != model.MergeStrategyMerge {
		t.Errorf("Expected default strategy 'merge', got '%s'", retrieved.DefaultStrategy)
	}
	if !retrieved.DefaultEnableQa || !retrieved.DefaultEnableChecks {
		t.Error("QA and checks should be enabled by default")
	}
	if retrieved.DefaultAutomerge {
		t.Error("Automerge should be disabled by default")
	}
}

// TestRepositoryStore_GetByPath_NotFound tests the not found error
func TestRepositoryStore_GetByPath_NotFound(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	_, err := store.Repository().GetByPath("missing", "repo")
	if err == nil {
		t.Fatal("GetByPath() should return error for unknown repository")
	}
	if !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found error, got %v", err)
	}

	appErr, _ := apperrors.AsAppError(err)
	expected := "Unknown repository missing/repo"
	if appErr.Message != expected {
		t.Errorf("Expected message '%s', got '%s'", expected, appErr.Message)
	}
}

// TestRepositoryStore_GetOrCreate tests idempotent repository creation
func TestRepositoryStore_GetOrCreate(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	repo, created, err := store.Repository().GetOrCreate("owner", "name")
	if err != nil {
		t.Fatalf("GetOrCreate() failed: %v", err)
	}
	if !created {
		t.Error("Expected a new record on first call")
	}

	again, created, err := store.Repository().GetOrCreate("owner", "name")
	if err != nil {
		t.Fatalf("GetOrCreate() failed on second call: %v", err)
	}
	if created {
		t.Error("Expected existing record on second call")
	}
	if again.ID != repo.ID {
		t.Errorf("Expected same record ID %d, got %d", repo.ID, again.ID)
	}
}

// TestRepositoryStore_Setters tests field-level setters
func TestRepositoryStore_Setters(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	repo := model.NewRepository("owner", "name")
	if err := store.Repository().Create(repo); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	rs := store.Repository()
	if err := rs.SetManualInteraction(repo.ID, true); err != nil {
		t.Fatalf("SetManualInteraction() failed: %v", err)
	}
	if err := rs.SetTitleValidationRegex(repo.ID, `\[PRB-\d+\]`); err != nil {
		t.Fatalf("SetTitleValidationRegex() failed: %v", err)
	}
	if err := rs.SetDefaultStrategy(repo.ID, model.MergeStrategySquash); err != nil {
		t.Fatalf("SetDefaultStrategy() failed: %v", err)
	}
	if err := rs.SetDefaultAutomerge(repo.ID, true); err != nil {
		t.Fatalf("SetDefaultAutomerge() failed: %v", err)
	}
	if err := rs.SetDefaultEnableQa(repo.ID, false); err != nil {
		t.Fatalf("SetDefaultEnableQa() failed: %v", err)
	}
	if err := rs.SetDefaultEnableChecks(repo.ID, false); err != nil {
		t.Fatalf("SetDefaultEnableChecks() failed: %v", err)
	}

	retrieved, err := rs.GetByID(repo.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if !retrieved.ManualInteraction {
		t.Error("ManualInteraction should be true")
	}
	if retrieved.PRTitleValidationRegex != `\[PRB-\d+\]` {
		t.Errorf("Unexpected title regex: %s", retrieved.PRTitleValidationRegex)
	}
	if retrieved.DefaultStrategy != model.MergeStrategySquash {
		t.Errorf("Expected strategy 'squash', got '%s'", retrieved.DefaultStrategy)
	}
	if !retrieved.DefaultAutomerge {
		t.Error("DefaultAutomerge should be true")
	}
	if retrieved.DefaultEnableQa || retrieved.DefaultEnableChecks {
		t.Error("DefaultEnableQa and DefaultEnableChecks should be false")
	}
}

// TestRepositoryStore_ListAll tests listing repositories in order
func TestRepositoryStore_ListAll(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	store.Repository().Create(model.NewRepository("zeta", "repo"))
	store.Repository().Create(model.NewRepository("alpha", "repo"))

	repos, err := store.Repository().ListAll()
	if err != nil {
		t.Fatalf("ListAll() failed: %v", err)
	}
	if len(repos) != 2 {
		t.Fatalf("Expected 2 repositories, got %d", len(repos))
	}
	if repos[0].Owner != "alpha" || repos[1].Owner != "zeta" {
		t.Errorf("Repositories should be ordered by owner, got %s then %s", repos[0].Owner, repos[1].Owner)
	}

	count, err := store.Repository().CountAll()
	if err != nil {
		t.Fatalf("CountAll() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected count 2, got %d", count)
	}
}

// TestRepositoryStore_Delete tests deleting a repository
func TestRepositoryStore_Delete(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	repo := model.NewRepository("owner", "name")
	store.Repository().Create(repo)

	if err := store.Repository().Delete(repo.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	_, err := store.Repository().GetByPath("owner", "name")
	if !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found after delete, got %v", err)
	}
}
