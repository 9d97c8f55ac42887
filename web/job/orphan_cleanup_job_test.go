package job

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justaleaf/audiovault/database"
	"github.com/justaleaf/audiovault/database/model"
	"github.com/justaleaf/audiovault/logger"
)

func setup(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AV_LOG_FOLDER", filepath.Join(dir, "log"))
	logger.InitLogger(logging.DEBUG)

	if err := database.InitDB(filepath.Join(dir, "test.db")); err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() {
		db, _ := database.GetDB().DB()
		db.Close()
	})
}

func createAudio(t *testing.T, ownerId int, path string, age time.Duration) *model.AudioFile {
	t.Helper()
	audio := &model.AudioFile{
		Title:     filepath.Base(path),
		Path:      path,
		OwnerId:   ownerId,
		CreatedAt: time.Now().Add(-age),
	}
	require.NoError(t, database.GetDB().Create(audio).Error)
	return audio
}

func TestOrphanCleanup(t *testing.T) {
	setup(t)

	owner := &model.User{Username: "alice", HashedPassword: "x"}
	require.NoError(t, database.GetDB().Create(owner).Error)

	storage := t.TempDir()
	backedPath := filepath.Join(storage, "kept")
	require.NoError(t, os.WriteFile(backedPath, []byte("x"), 0o660))

	orphanOld := createAudio(t, owner.Id, filepath.Join(storage, "gone"), time.Hour)
	orphanFresh := createAudio(t, owner.Id, filepath.Join(storage, "inflight"), time.Minute)
	backed := createAudio(t, owner.Id, backedPath, time.Hour)

	NewOrphanCleanupJob().Run()

	var remaining []model.AudioFile
	require.NoError(t, database.GetDB().Order("id ASC").Find(&remaining).Error)

	ids := make([]int, 0, len(remaining))
	for _, f := range remaining {
		ids = append(ids, f.Id)
	}
	// the stale fileless record is removed, fresh and backed ones stay
	assert.NotContains(t, ids, orphanOld.Id)
	assert.Contains(t, ids, orphanFresh.Id)
	assert.Contains(t, ids, backed.Id)
}
