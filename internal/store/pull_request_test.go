package store

import (
	"testing"

	"github.com/prbot/prbot/internal/model"
	apperrors "github.com/prbot/prbot/pkg/errors"
)

func createTestRepo(t *testing.T, s Store) *model.Repository {
	t.Helper()
	repo := model.NewRepository("owner", "name")
	if err := s.Repository().Create(repo); err != nil {
		t.Fatalf("Failed to create test repository: %v", err)
	}
	return repo
}

// TestPullRequestStore_Create tests creating a pull request
func TestPullRequestStore_Create(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	repo := createTestRepo(t, store)

	pr := &model.PullRequest{
		RepositoryID:  repo.ID,
		Number:        12,
		QaStatus:      model.QaStatusWaiting,
		ChecksEnabled: true,
	}
	if err := store.PullRequest().Create(pr); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	retrieved, err := store.PullRequest().GetByNumber(repo, 12)
	if err != nil {
		t.Fatalf("GetByNumber() failed: %v", err)
	}
	if retrieved.Number != 12 {
		t.Errorf("Expected number 12, got %d", retrieved.Number)
	}
	if retrieved.QaStatus != model.QaStatusWaiting {
		t.Errorf("Expected QA status 'waiting', got '%s'", retrieved.QaStatus)
	}
	if retrieved.StatusCommentID != 0 {
		t.Errorf("Expected status comment ID 0, got %d", retrieved.StatusCommentID)
	}
}

// TestPullRequestStore_GetByNumber_NotFound tests the not found error
func TestPullRequestStore_GetByNumber_NotFound(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	repo := createTestRepo(t, store)

	_, err := store.PullRequest().GetByNumber(repo, 42)
	if err == nil {
		t.Fatal("GetByNumber() should return error for unknown pull request")
	}
	if !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found error, got %v", err)
	}

	appErr, _ := apperrors.AsAppError(err)
	expected := "Unknown pull request owner/name #42"
	if appErr.Message != expected {
		t.Errorf("Expected message '%s', got '%s'", expected, appErr.Message)
	}
}

// TestPullRequestStore_Setters tests field-level setters
func TestPullRequestStore_Setters(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	repo := createTestRepo(t, store)
	pr := &model.PullRequest{RepositoryID: repo.ID, Number: 1, QaStatus: model.QaStatusWaiting}
	if err := store.PullRequest().Create(pr); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	ps := store.PullRequest()
	if err := ps.SetQaStatus(pr.ID, model.QaStatusPass); err != nil {
		t.Fatalf("SetQaStatus() failed: %v", err)
	}
	if err := ps.SetChecksEnabled(pr.ID, false); err != nil {
		t.Fatalf("SetChecksEnabled() failed: %v", err)
	}
	if err := ps.SetAutomerge(pr.ID, true); err != nil {
		t.Fatalf("SetAutomerge() failed: %v", err)
	}
	if err := ps.SetLocked(pr.ID, true); err != nil {
		t.Fatalf("SetLocked() failed: %v", err)
	}
	if err := ps.SetStatusCommentID(pr.ID, 123456); err != nil {
		t.Fatalf("SetStatusCommentID() failed: %v", err)
	}
	squash := model.MergeStrategySquash
	if err := ps.SetStrategyOverride(pr.ID, &squash); err != nil {
		t.Fatalf("SetStrategyOverride() failed: %v", err)
	}

	retrieved, err := ps.GetByID(pr.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if retrieved.QaStatus != model.QaStatusPass {
		t.Errorf("Expected QA status 'pass', got '%s'", retrieved.QaStatus)
	}
	if retrieved.ChecksEnabled {
		t.Error("ChecksEnabled should be false")
	}
	if !retrieved.Automerge || !retrieved.Locked {
		t.Error("Automerge and Locked should be true")
	}
	if retrieved.StatusCommentID != 123456 {
		t.Errorf("Expected status comment ID 123456, got %d", retrieved.StatusCommentID)
	}
	if retrieved.StrategyOverride == nil || *retrieved.StrategyOverride != model.MergeStrategySquash {
		t.Errorf("Expected strategy override 'squash', got %v", retrieved.StrategyOverride)
	}

	// Clearing the override stores NULL
	if err := ps.SetStrategyOverride(pr.ID, nil); err != nil {
		t.Fatalf("SetStrategyOverride(nil) failed: %v", err)
	}
	retrieved, _ = ps.GetByID(pr.ID)
	if retrieved.StrategyOverride != nil {
		t.Errorf("Expected nil strategy override, got %v", retrieved.StrategyOverride)
	}
}

// TestPullRequestStore_ListByRepositoryID tests per-repository listing
func TestPullRequestStore_ListByRepositoryID(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	repo := createTestRepo(t, store)
	other := model.NewRepository("other", "repo")
	store.Repository().Create(other)

	store.PullRequest().Create(&model.PullRequest{RepositoryID: repo.ID, Number: 3, QaStatus: model.QaStatusWaiting})
	store.PullRequest().Create(&model.PullRequest{RepositoryID: repo.ID, Number: 1, QaStatus: model.QaStatusWaiting})
	store.PullRequest().Create(&model.PullRequest{RepositoryID: other.ID, Number: 2, QaStatus: model.QaStatusWaiting})

	prs, err := store.PullRequest().ListByRepositoryID(repo.ID)
	if err != nil {
		t.Fatalf("ListByRepositoryID() failed: %v", err)
	}
	if len(prs) != 2 {
		t.Fatalf("Expected 2 pull requests, got %d", len(prs))
	}
	if prs[0].Number != 1 || prs[1].Number != 3 {
		t.Errorf("Pull requests should be ordered by number, got %d then %d", prs[0].Number, prs[1].Number)
	}

	all, err := store.PullRequest().ListAll()
	if err != nil {
		t.Fatalf("ListAll() failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 pull requests total, got %d", len(all))
	}
}
