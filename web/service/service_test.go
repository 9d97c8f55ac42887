package service

import (
	"path/filepath"
	"testing"

	"github.com/op/go-logging"

	"github.com/justaleaf/audiovault/database"
	"github.com/justaleaf/audiovault/logger"
)

// setup opens a fresh sqlite database in a per-test temp dir.
func setup(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AV_LOG_FOLDER", filepath.Join(dir, "log"))
	t.Setenv("AV_STORAGE_FOLDER", filepath.Join(dir, "storage"))
	logger.InitLogger(logging.DEBUG)

	if err := database.InitDB(filepath.Join(dir, "test.db")); err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() {
		db, _ := database.GetDB().DB()
		db.Close()
	})
}
