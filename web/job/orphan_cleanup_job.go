// Package job contains scheduled maintenance jobs run by the web server's
// cron scheduler.
package job

import (
	"os"
	"time"

	"github.com/justaleaf/audiovault/database"
	"github.com/justaleaf/audiovault/database/model"
	"github.com/justaleaf/audiovault/logger"
)

// OrphanCleanupJob deletes audio records whose backing file never made it
// to disk. Uploads write the row first and the bytes second, so a crash in
// between leaves a dangling record. Records younger than the grace period
// are spared, their bytes may still be in flight.
type OrphanCleanupJob struct {
	gracePeriod time.Duration
}

func NewOrphanCleanupJob() *OrphanCleanupJob {
	return &OrphanCleanupJob{gracePeriod: 10 * time.Minute}
}

// Run is an interface method of the cron Job interface.
func (j *OrphanCleanupJob) Run() {
	var files []model.AudioFile
	cutoff := time.Now().Add(-j.gracePeriod)
	err := database.GetDB().
		Where("created_at < ?", cutoff).
		Find(&files).
		Error
	if err != nil {
		logger.Warning("orphan cleanup job err:", err)
		return
	}

	removed := 0
	for i := range files {
		if _, err := os.Stat(files[i].Path); !os.IsNotExist(err) {
			continue
		}
		if err := database.GetDB().Delete(&files[i]).Error; err != nil {
			logger.Warning("orphan cleanup job err:", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		logger.Infof("orphan cleanup removed %d dangling audio records", removed)
	}
}
