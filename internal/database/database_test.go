package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/prbot/prbot/internal/model"
	"github.com/prbot/prbot/pkg/logger"
)

func TestSQLiteOptimizations(t *testing.T) {
	// Initialize logger for testing
	logger.Init(logger.Config{
		Level:  "info",
		Format: "text",
		File:   "",
	})
	defer logger.Sync()

	ResetForTesting()

	// Create temporary database file
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	// Initialize database with custom path for testing
	err := InitWithPath(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		Close()
		os.Remove(dbPath)
	}()

	// Get database connection
	db := Get()

	// Check journal_mode (should be WAL)
	var journalMode string
	result := db.Raw("PRAGMA journal_mode").Scan(&journalMode)
	if result.Error != nil {
		t.Fatalf("Failed to query journal_mode: %v", result.Error)
	}
	if journalMode != "wal" {
		t.Errorf("Expected journal_mode to be 'wal', got '%s'", journalMode)
	}

	// Check synchronous (should be 1 for NORMAL)
	var synchronous int
	result = db.Raw("PRAGMA synchronous").Scan(&synchronous)
	if result.Error != nil {
		t.Fatalf("Failed to query synchronous: %v", result.Error)
	}
	if synchronous != 1 {
		t.Errorf("Expected synchronous to be 1 (NORMAL), got %d", synchronous)
	}

	// Check foreign_keys (should be ON)
	var foreignKeys int
	result = db.Raw("PRAGMA foreign_keys").Scan(&foreignKeys)
	if result.Error != nil {
		t.Fatalf("Failed to query foreign_keys: %v", result.Error)
	}
	if foreignKeys != 1 {
		t.Errorf("Expected foreign_keys to be 1 (ON), got %d", foreignKeys)
	}

	t.Logf("SQLite optimizations verified: journal_mode=%s, synchronous=%d, foreign_keys=%d",
		journalMode, synchronous, foreignKeys)
}

func TestMigrationCreatesAllTables(t *testing.T) {
	logger.Init(logger.Config{
		Level:  "error",
		Format: "text",
	})
	defer logger.Sync()

	ResetForTesting()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	err := InitWithPath(dbPath)
	require.NoError(t, err)
	defer Close()

	db := Get()

	tables := []string{
		"repositories",
		"pull_requests",
		"merge_rules",
		"repository_rules",
		"external_accounts",
		"external_account_rights",
	}
	for _, table := range tables {
		var exists bool
		err = db.Raw("SELECT COUNT(*) > 0 FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&exists).Error
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist after migration", table)
	}
}

func TestForeignKeyCascadeDelete(t *testing.T) {
	logger.Init(logger.Config{
		Level:  "error",
		Format: "text",
	})
	defer logger.Sync()

	ResetForTesting()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	err := InitWithPath(dbPath)
	require.NoError(t, err)
	defer Close()

	db := Get()

	repo := model.NewRepository("owner", "name")
	require.NoError(t, db.Create(repo).Error)

	pr := &model.PullRequest{
		RepositoryID: repo.ID,
		Number:       1,
		QaStatus:     model.QaStatusWaiting,
	}
	require.NoError(t, db.Create(pr).Error)

	// Deleting the repository must remove its pull requests
	require.NoError(t, db.Delete(repo).Error)

	var count int64
	err = db.Model(&model.PullRequest{}).Where("repository_id = ?", repo.ID).Count(&count).Error
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestTransaction(t *testing.T) {
	logger.Init(logger.Config{
		Level:  "error",
		Format: "text",
	})
	defer logger.Sync()

	ResetForTesting()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	err := InitWithPath(dbPath)
	require.NoError(t, err)
	defer Close()

	// Rolled back transaction leaves no rows behind
	err = Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model.NewRepository("tx", "rollback")).Error; err != nil {
			return err
		}
		return assert.AnError
	})
	assert.Error(t, err)

	var count int64
	err = Get().Model(&model.Repository{}).Where("owner = ?", "tx").Count(&count).Error
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestHealthCheck(t *testing.T) {
	logger.Init(logger.Config{
		Level:  "error",
		Format: "text",
	})
	defer logger.Sync()

	ResetForTesting()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	err := InitWithPath(dbPath)
	require.NoError(t, err)
	defer Close()

	assert.NoError(t, HealthCheck())
}
