package db

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DB represents our sqlite3 database file. It is an alternative home for the
// local override store, for setups where something other than this program
// records the overrides.
type DB struct{ *gorm.DB }

//go:embed schema.sql
var schema string

// Override is a user-supplied image for a work.
type Override struct {
	WorkID    string `gorm:"primaryKey"`
	Image     string
	UpdatedAt time.Time
}

// Open returns a connection to a migrated sqlite3 database file on disk,
// creating the file and running migrations if necessary.
func Open(filename string) (*DB, error) {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating db dir '%s': %w", dir, err)
		}
	}

	gdb, err := gorm.Open(sqlite.Open(filename), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening db file at '%s': %w", filename, err)
	}

	db := &DB{gdb}

	if err := db.Exec(schema).Error; err != nil {
		return nil, fmt.Errorf("error migrating db at '%s': %w", filename, err)
	}

	return db, nil
}

func (db *DB) Close() error {
	pool, err := db.DB.DB()
	if err != nil {
		return err
	}
	return pool.Close()
}

// Load returns every override. A failed read is logged and reads as empty.
func (db *DB) Load() map[string]string {
	var overrides []Override
	if err := db.
		Table("overrides").
		Find(&overrides).
		Error; err != nil {
		log.Warn().Err(err).Msg("ignoring unreadable override table")
		return map[string]string{}
	}

	m := make(map[string]string, len(overrides))
	for _, o := range overrides {
		m[o.WorkID] = o.Image
	}
	return m
}

// Set records image as the override for workID, replacing any earlier one.
func (db *DB) Set(workID, image string) error {
	if workID == "" {
		return fmt.Errorf("no work id")
	}
	if err := db.
		Table("overrides").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "work_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"image", "updated_at"}),
		}).
		Create(&Override{WorkID: workID, Image: image, UpdatedAt: time.Now()}).
		Error; err != nil {
		return fmt.Errorf("error setting override for '%s': %w", workID, err)
	}
	return nil
}
