// Package database manages the sqlite database connection and schema
// migration for the service.
package database

import (
	"io/fs"
	"log"
	"os"
	"path"

	"github.com/justaleaf/audiovault/config"
	"github.com/justaleaf/audiovault/database/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

func initModels() error {
	models := []any{
		&model.User{},
		&model.AudioFile{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			log.Printf("Error auto migrating model: %v", err)
			return err
		}
	}
	return nil
}

func InitDB(dbPath string) error {
	dir := path.Dir(dbPath)
	err := os.MkdirAll(dir, fs.ModePerm)
	if err != nil {
		return err
	}

	var gormLogger logger.Interface

	if config.IsDebug() {
		gormLogger = logger.Default
	} else {
		gormLogger = logger.Discard
	}

	c := &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	}

	// _foreign_keys must ride in the DSN: pragmas issued with Exec apply
	// to a single pooled connection only, and the owner cascade depends
	// on every connection enforcing them.
	dsn := dbPath + "?cache=shared&_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"
	db, err = gorm.Open(sqlite.Open(dsn), c)
	if err != nil {
		return err
	}

	return initModels()
}

func CloseDB() error {
	if db != nil {
		if err := Checkpoint(); err != nil {
			log.Printf("error executing checkpoint: %v", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

func GetDB() *gorm.DB {
	return db
}

func IsNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound
}

func Checkpoint() error {
	// Update WAL
	return db.Exec("PRAGMA wal_checkpoint;").Error
}
